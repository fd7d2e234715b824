package events

import (
	"time"

	"github.com/spec-kit/account-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated    EventType = "user_created"
	EventUserUpdated    EventType = "user_updated"
	EventUserDeleted    EventType = "user_deleted"
	EventLoginSucceeded EventType = "login_succeeded"
)

// Actor identifies who triggered an event. Empty for login events, where
// the subject acts on their own behalf.
type Actor struct {
	UserID string      `json:"user_id,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// UserUpdatedPayload payload.
type UserUpdatedPayload struct {
	RoleChanged     bool `json:"role_changed"`
	PasswordChanged bool `json:"password_changed"`
}

// UserDeletedPayload payload.
type UserDeletedPayload struct {
	Username string `json:"username"`
}

// LoginSucceededPayload payload.
type LoginSucceededPayload struct {
	Username string `json:"username"`
}
