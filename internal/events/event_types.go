package events

import (
	"time"

	"github.com/spec-kit/risk-catalog/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventEntityCreated  EventType = "entity_created"
	EventEntityUpdated  EventType = "entity_updated"
	EventEntityDeleted  EventType = "entity_deleted"
)

// Actor encapsulates the principal behind an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	Collection string      `json:"collection,omitempty"`
	EntityID   string      `json:"entity_id,omitempty"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload,omitempty"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
}

// EntityChangedPayload payload for catalog mutations.
type EntityChangedPayload struct {
	Fields []string `json:"fields,omitempty"`
}
