package amqp

import (
	"encoding/json"
	"time"
)

// ExpenseImportMessage carries an externally sourced expense into the
// dashboard. The worker validates and stores it as an AUTO expense.
type ExpenseImportMessage struct {
	UserKey     string    `json:"userKey"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	OccurredAt  time.Time `json:"occurredAt"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExpenseImportMessage creates an import message stamped with the current time.
func NewExpenseImportMessage(userKey, description string, amount float64, category string, occurredAt time.Time) *ExpenseImportMessage {
	return &ExpenseImportMessage{
		UserKey:     userKey,
		Description: description,
		Amount:      amount,
		Category:    category,
		OccurredAt:  occurredAt,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExpenseImportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseImportMessageFromJSON creates a message from JSON bytes.
func ExpenseImportMessageFromJSON(data []byte) (*ExpenseImportMessage, error) {
	var msg ExpenseImportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ExpenseEventMessage notifies downstream consumers that a user's expense
// list changed.
type ExpenseEventMessage struct {
	UserKey   string    `json:"userKey"`
	ExpenseID string    `json:"expenseId"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// NewExpenseEventMessage creates an event message stamped with the current time.
func NewExpenseEventMessage(userKey, expenseID, action string) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		UserKey:   userKey,
		ExpenseID: expenseID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventMessageFromJSON creates a message from JSON bytes.
func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
