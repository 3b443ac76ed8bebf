// Package eventbus publishes workflow lifecycle events for downstream
// consumers. This service only publishes; nothing here subscribes.
package eventbus

import (
	"context"

	"github.com/flowsmith/flowsmith/pkg/events"
)

type Event interface {
	GetType() events.EventType
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
	Close() error
	GenerateID() string
}
