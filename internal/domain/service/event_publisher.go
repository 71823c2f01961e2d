package service

import (
	"context"
	"time"
)

// StatusTransitionEvent is the audit record published whenever a
// registration changes status. Irregular marks transitions that left
// the forward path through an administrative override.
type StatusTransitionEvent struct {
	RequestID      string    `json:"request_id,omitempty"` // For distributed tracing
	RegistrationID string    `json:"registration_id"`
	UserID         string    `json:"user_id"`
	ActorID        string    `json:"actor_id"` // The admin or system actor that made the change
	FromStatus     string    `json:"from_status"`
	ToStatus       string    `json:"to_status"`
	Irregular      bool      `json:"irregular"`
	Note           string    `json:"note,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing audit events to a message queue
type EventPublisher interface {
	// PublishStatusTransition publishes a registration status change for async processing
	PublishStatusTransition(ctx context.Context, event *StatusTransitionEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
