package entity

import (
	"strconv"
	"time"
)

// Field value formatting used when building a ParameterSet for the gateway.
// Formatting is locale-invariant: the gateway verifies signatures over the
// rendered strings, so output must not depend on the host locale.

// Money renders an amount with exactly two fraction digits and a dot
// decimal separator.
func Money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Flag renders a boolean as "1" or "0".
func Flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// OptString renders an optional value; absent values render as the empty
// string and are still included in the set.
func OptString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// Date renders a calendar date in the gateway's date format.
func Date(t time.Time) string {
	return t.Format("2006-01-02")
}

// Timestamp renders a point in time in the gateway's timestamp format,
// seconds precision.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05")
}

// Frequency is the billing-frequency code of a recurring subscription.
type Frequency int

const (
	FrequencyDaily     Frequency = 1
	FrequencyWeekly    Frequency = 2
	FrequencyMonthly   Frequency = 3
	FrequencyQuarterly Frequency = 4
	FrequencyBiannual  Frequency = 5
	FrequencyAnnual    Frequency = 6
)

// Code renders the underlying small-integer code the gateway expects.
func (f Frequency) Code() string {
	return strconv.Itoa(int(f))
}

// SubscriptionType distinguishes recurring subscriptions from ad-hoc
// tokenization agreements.
type SubscriptionType int

const (
	TypeSubscription SubscriptionType = 1
	TypeAdHoc        SubscriptionType = 2
)

func (t SubscriptionType) Code() string {
	return strconv.Itoa(int(t))
}
