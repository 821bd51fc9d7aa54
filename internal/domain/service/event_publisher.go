package service

import (
	"context"
	"time"
)

// FeedingEvent is emitted whenever a feeding is recorded on a device,
// and consumed asynchronously by the notification worker.
type FeedingEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	DeviceID   string    `json:"device_id"`
	DeviceName string    `json:"device_name"`
	UserID     string    `json:"user_id"`
	Source     string    `json:"source"` // touch or timer
	FedAt      time.Time `json:"fed_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishFeedingEvent publishes a feeding event for async processing
	PublishFeedingEvent(ctx context.Context, event *FeedingEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
