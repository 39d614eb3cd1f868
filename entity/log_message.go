package entity

// LogMessage is a single log record written to the payment log collection.
type LogMessage struct {
	Time      string `json:"time" bson:"time"`
	Level     string `json:"level" bson:"level"`
	Feature   string `json:"feature" bson:"feature"`
	Text      string `json:"text" bson:"text"`
	Timestamp int64  `json:"timestamp" bson:"timestamp"`
}

func (m *LogMessage) DataType() string {
	return "log_message"
}
