package entity

import (
	"strconv"
	"time"
)

// PaymentForm describes a subscription checkout request. Each field renders
// through an explicit formatter into the ordered parameter list the signer
// consumes; no runtime introspection is involved, so the wire name and
// formatting rule of every field is visible here.
type PaymentForm struct {
	PaymentId       string           `json:"m_payment_id"`
	Amount          float64          `json:"amount"`
	ItemName        string           `json:"item_name"`
	ItemDescription *string          `json:"item_description,omitempty"`
	EmailAddress    *string          `json:"email_address,omitempty"`
	Type            SubscriptionType `json:"subscription_type"`
	BillingDate     *time.Time       `json:"billing_date,omitempty"`
	RecurringAmount float64          `json:"recurring_amount"`
	Frequency       Frequency        `json:"frequency"`
	// Cycles is the number of charges; 0 charges until cancelled
	Cycles int `json:"cycles"`
}

// Fields returns the ordered (name, rendered value) pairs of the form.
// Absent optional values render as empty strings and are still included.
func (f *PaymentForm) Fields() []Pair {
	billingDate := ""
	if f.BillingDate != nil {
		billingDate = Date(*f.BillingDate)
	}
	return []Pair{
		{Name: "m_payment_id", Value: f.PaymentId},
		{Name: "amount", Value: Money(f.Amount)},
		{Name: "item_name", Value: f.ItemName},
		{Name: "item_description", Value: OptString(f.ItemDescription)},
		{Name: "email_address", Value: OptString(f.EmailAddress)},
		{Name: "subscription_type", Value: f.Type.Code()},
		{Name: "billing_date", Value: billingDate},
		{Name: "recurring_amount", Value: Money(f.RecurringAmount)},
		{Name: "frequency", Value: f.Frequency.Code()},
		{Name: "cycles", Value: strconv.Itoa(f.Cycles)},
	}
}
