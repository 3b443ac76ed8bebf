package eventbus_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsmith/flowsmith/pkg/channels/gochannel"
	"github.com/flowsmith/flowsmith/pkg/eventbus"
	"github.com/flowsmith/flowsmith/pkg/events"
)

func TestWatermillEventBus_Publish(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher, subscriber := gochannel.CreateTestChannel(watermill.NopLogger{})
	bus := eventbus.NewWatermillEventBus(publisher)

	messages, err := subscriber.Subscribe(ctx, events.Topic)
	require.NoError(t, err)

	event := events.WorkflowGenerated{
		BaseEvent:    events.NewBaseEvent(events.WorkflowGeneratedEvent, "Notify"),
		Source:       "template",
		TemplateName: "webhook-to-slack",
		NodeCount:    2,
	}

	require.NoError(t, bus.Publish(ctx, "wf-1", event))

	select {
	case msg := <-messages:
		msg.Ack()

		assert.Equal(t, "wf-1", msg.Metadata.Get(events.EventMetadataKey))
		assert.Equal(t, string(events.WorkflowGeneratedEvent), msg.Metadata.Get(events.EventTypeMetadataKey))

		var decoded events.WorkflowGenerated
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, "webhook-to-slack", decoded.TemplateName)
		assert.Equal(t, "Notify", decoded.WorkflowName)
	case <-time.After(2 * time.Second):
		t.Fatal("published event never arrived")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	t.Parallel()

	publisher, _ := gochannel.CreateTestChannel(watermill.NopLogger{})
	bus := eventbus.NewWatermillEventBus(publisher)

	assert.NotEmpty(t, bus.GenerateID())
	assert.NotEqual(t, bus.GenerateID(), bus.GenerateID())
}

func TestEventTypes(t *testing.T) {
	t.Parallel()

	generated := events.WorkflowGenerated{}
	repaired := events.WorkflowRepaired{}

	assert.Equal(t, events.WorkflowGeneratedEvent, generated.GetType())
	assert.Equal(t, events.WorkflowRepairedEvent, repaired.GetType())
}
