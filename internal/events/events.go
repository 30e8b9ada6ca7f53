// Package events publishes domain events to kafka.
package events

import (
	"context"
	"time"
)

const (
	EventUserRegistered = "user_registered"
	EventUserLoggedIn   = "user_logged_in"
	EventUserLoggedOut  = "user_logged_out"
	EventImageUploaded  = "image_uploaded"
	EventImageRated     = "image_rated"
)

type Event struct {
	Type       string            `json:"type"`
	UserID     uint              `json:"userId"`
	ImageID    uint              `json:"imageId,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NullPublisher drops every event.
type NullPublisher struct{}

func (NullPublisher) Publish(ctx context.Context, event Event) error { return nil }

func (NullPublisher) Close() error { return nil }
