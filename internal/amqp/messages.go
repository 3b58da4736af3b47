package amqp

import (
	"encoding/json"
	"time"
)

// MonthSyncMessage announces that a month was generated or changed.
// It carries only the month key; consumers fetch the current state
// from the store when they process it.
type MonthSyncMessage struct {
	Month     string    `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMonthSyncMessage(month string) *MonthSyncMessage {
	return &MonthSyncMessage{
		Month:     month,
		Timestamp: time.Now(),
	}
}

func (m *MonthSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MonthSyncMessageFromJSON(data []byte) (*MonthSyncMessage, error) {
	var msg MonthSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
