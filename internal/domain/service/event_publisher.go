package service

import (
	"context"
	"time"
)

// Moderated entity types.
const (
	ModerationEntityAgent    = "agent"
	ModerationEntityProperty = "property"
)

// ModerationEvent records one admin moderation transition for downstream consumers.
type ModerationEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	State      string    `json:"state"`
	Reason     string    `json:"reason,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishModerationEvent publishes a moderation transition
	PublishModerationEvent(ctx context.Context, event *ModerationEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
