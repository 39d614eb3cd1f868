package entity

import "time"

// CancelResult is the gateway's acknowledgement envelope for a cancel call.
type CancelResult struct {
	Code   int    `json:"code" bson:"code"`
	Status string `json:"status" bson:"status"`
	Data   struct {
		Response bool   `json:"response" bson:"response"`
		Message  string `json:"message" bson:"message"`
	} `json:"data" bson:"data"`
}

// GatewayCall is a journal record of a single request/response round trip
// against the gateway.
type GatewayCall struct {
	RequestId string    `json:"request_id" bson:"request_id"`
	Operation string    `json:"operation" bson:"operation"`
	Token     string    `json:"token" bson:"token"`
	Testing   bool      `json:"testing" bson:"testing"`
	Signature string    `json:"signature" bson:"signature"`
	Status    int       `json:"status" bson:"status"`
	Result    string    `json:"result" bson:"result"`
	Time      time.Time `json:"time" bson:"time"`
	// Duration of the round trip in milliseconds
	Duration int64 `json:"duration" bson:"duration"`
}

// Notification is a verified ITN post received from the gateway.
type Notification struct {
	RequestId string    `json:"request_id" bson:"request_id"`
	Fields    []Pair    `json:"fields" bson:"fields"`
	Signature string    `json:"signature" bson:"signature"`
	Valid     bool      `json:"valid" bson:"valid"`
	Time      time.Time `json:"time" bson:"time"`
}

// PaymentStatus returns the payment_status field of the notification,
// empty when the gateway did not send one.
func (n *Notification) PaymentStatus() string {
	for _, p := range n.Fields {
		if p.Name == "payment_status" {
			return p.Value
		}
	}
	return ""
}
