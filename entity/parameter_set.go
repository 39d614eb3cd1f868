// Package entity defines data models for the PayFast gateway service.
package entity

import "fmt"

// SignatureParameter is the reserved output parameter name. It is never
// accepted as signing input: the signature authenticates the set, it is not
// part of it.
const SignatureParameter = "signature"

// Pair is a single named request value.
type Pair struct {
	Name  string `json:"name" bson:"name"`
	Value string `json:"value" bson:"value"`
}

// ParameterSet is an ordered name->value collection used as signing input.
// Names are case-sensitive ASCII. Insertion order is preserved; the canonical
// sorted form is produced by the signer, not stored here.
type ParameterSet struct {
	pairs []Pair
}

func NewParameterSet() *ParameterSet {
	return &ParameterSet{}
}

// Add appends a named value. An entry named "signature" is silently dropped.
// A duplicate name is rejected with an error; the gateway cannot verify a set
// with ambiguous entries, so last-write-wins map semantics are not inherited.
func (ps *ParameterSet) Add(name, value string) error {
	if name == SignatureParameter {
		return nil
	}
	for _, p := range ps.pairs {
		if p.Name == name {
			return fmt.Errorf("duplicate parameter %s", name)
		}
	}
	ps.pairs = append(ps.pairs, Pair{Name: name, Value: value})
	return nil
}

// Merge appends all pairs of another set, with the same duplicate policy.
func (ps *ParameterSet) Merge(other *ParameterSet) error {
	if other == nil {
		return nil
	}
	for _, p := range other.pairs {
		if err := ps.Add(p.Name, p.Value); err != nil {
			return err
		}
	}
	return nil
}

// Pairs returns a copy of the entries in insertion order.
func (ps *ParameterSet) Pairs() []Pair {
	pairs := make([]Pair, len(ps.pairs))
	copy(pairs, ps.pairs)
	return pairs
}

func (ps *ParameterSet) Len() int {
	return len(ps.pairs)
}

// Get returns the value of a named entry and whether it is present.
func (ps *ParameterSet) Get(name string) (string, bool) {
	for _, p := range ps.pairs {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}
