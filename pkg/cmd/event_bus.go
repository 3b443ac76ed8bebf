// Package cmd provides shared construction helpers for the binaries.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/flowsmith/flowsmith/pkg/channels/gochannel"
	"github.com/flowsmith/flowsmith/pkg/channels/kafka"
	"github.com/flowsmith/flowsmith/pkg/eventbus"
)

// NewEventBus creates the event publisher for the given provider. The
// in-memory channel is the default so the service runs without a broker.
func NewEventBus(provider string, logger *slog.Logger) eventbus.EventPublisher {
	switch provider {
	case "kafka":
		pub, err := kafka.CreatePublisher(watermill.NewSlogLogger(logger))
		if err != nil {
			panic(fmt.Errorf("failed to create Kafka publisher: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub)
	case "", "memory":
		pub, _ := gochannel.CreateChannel(watermill.NewSlogLogger(logger))

		return eventbus.NewWatermillEventBus(pub)
	default:
		panic("Unsupported event bus provider: " + provider)
	}
}
