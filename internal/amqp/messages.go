package amqp

import (
	"encoding/json"
	"time"
)

// AlertBreachMessage notifies downstream consumers that an alert limit
// was exceeded and a notification was recorded. Consumers fetch the full
// alert state from storage if they need more than the message carries.
type AlertBreachMessage struct {
	AlertID        string    `json:"alert_id"`
	NotificationID string    `json:"notification_id"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
}

func NewAlertBreachMessage(alertID, notificationID, message string) *AlertBreachMessage {
	return &AlertBreachMessage{
		AlertID:        alertID,
		NotificationID: notificationID,
		Message:        message,
		Timestamp:      time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *AlertBreachMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func AlertBreachMessageFromJSON(data []byte) (*AlertBreachMessage, error) {
	var msg AlertBreachMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
