package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered EventType = "account_registered"
	EventAccountVerified   EventType = "account_verified"
	EventOrderCreated      EventType = "order_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AccountID string      `json:"account_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountRegisteredPayload carries what the email delivery collaborator
// needs to send the verification mail.
type AccountRegisteredPayload struct {
	Email             string `json:"email"`
	Name              string `json:"name"`
	VerificationToken string `json:"verification_token"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	OrderID string  `json:"order_id"`
	Total   float64 `json:"total"`
}
