package internal

import (
	"crypto/subtle"
	"encoding/hex"
	"payfast/entity"
	"sort"
	"strings"
)

// Signer produces the request signature the gateway verifies: parameters are
// escaped and serialized into a canonical string, the optional passphrase is
// appended, and the MD5 digest of the result is rendered as lower-case hex.
type Signer struct {
	passphrase string
	digest     digest
}

func NewSigner(passphrase string) *Signer {
	return &Signer{
		passphrase: passphrase,
		digest:     newDigest(),
	}
}

// CreateSignature signs a parameter set: canonical sorted serialization,
// then MD5 over the ASCII bytes, rendered as 32 lower-case hex characters.
func (s *Signer) CreateSignature(set *entity.ParameterSet) string {
	return s.Sign(s.Canonicalize(set))
}

// Canonicalize serializes a set in byte-wise sorted key order as escaped
// key=value pairs joined with '&'. A non-empty passphrase is appended as the
// final pair after the sort; the gateway verifies against exactly this
// convention, so the passphrase must never be sorted with the rest.
// The given set is not modified: the passphrase is hash input only and is
// never part of a transmitted body.
func (s *Signer) Canonicalize(set *entity.ParameterSet) string {
	pairs := set.Pairs()
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Name < pairs[j].Name
	})

	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(Escape(p.Name))
		b.WriteByte('=')
		b.WriteString(Escape(p.Value))
	}
	if s.passphrase != "" {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString("passphrase=")
		b.WriteString(Escape(s.passphrase))
	}
	return b.String()
}

// canonicalizeReceived serializes a set in its insertion order instead of
// sorted. Notification posts are signed by the gateway over the fields in the
// order they were sent.
func (s *Signer) canonicalizeReceived(set *entity.ParameterSet) string {
	var b strings.Builder
	for i, p := range set.Pairs() {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(Escape(p.Name))
		b.WriteByte('=')
		b.WriteString(Escape(p.Value))
	}
	if s.passphrase != "" {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString("passphrase=")
		b.WriteString(Escape(s.passphrase))
	}
	return b.String()
}

// Sign renders the MD5 digest of the canonical string as lower-case hex,
// each byte as exactly two digits.
func (s *Signer) Sign(canonical string) string {
	sum := s.digest.Sum([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// Verify checks a notification signature: the fields are serialized in
// received order with the passphrase appended, and the digests are compared
// in constant time.
func (s *Signer) Verify(set *entity.ParameterSet, signature string) bool {
	computed := s.Sign(s.canonicalizeReceived(set))
	return subtle.ConstantTimeCompare([]byte(computed), []byte(signature)) == 1
}

// escapeTable is the gateway's fixed substitution set. It is deliberately
// not full RFC 3986 percent-encoding: signature verification on the gateway
// side depends on exactly these 20 substitutions and no others.
var escapeTable = map[byte]string{
	' ':  "+",
	'%':  "%25",
	'!':  "%21",
	'#':  "%23",
	'$':  "%24",
	'&':  "%26",
	'\'': "%27",
	'(':  "%28",
	')':  "%29",
	'*':  "%2A",
	'+':  "%2B",
	',':  "%2C",
	'/':  "%2F",
	':':  "%3A",
	';':  "%3B",
	'=':  "%3D",
	'?':  "%3F",
	'@':  "%40",
	'[':  "%5B",
	']':  "%5D",
}

// Escape applies the gateway's substitution table to a single key or value.
// Separators between pairs are added by the caller and are never escaped.
func Escape(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if sub, ok := escapeTable[value[i]]; ok {
			b.WriteString(sub)
		} else {
			b.WriteByte(value[i])
		}
	}
	return b.String()
}

// DebugJSON renders the parameters as a plain JSON fragment for logging.
// It is an auxiliary payload only and is never used for signing.
func DebugJSON(set *entity.ParameterSet) string {
	var b strings.Builder
	b.WriteString("{ ")
	for i, p := range set.Pairs() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('"')
		b.WriteString(p.Name)
		b.WriteString(`" : "`)
		b.WriteString(p.Value)
		b.WriteByte('"')
	}
	b.WriteString(" }")
	return b.String()
}
