// Package events defines the lifecycle events this service publishes for
// downstream consumers.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Kafka topic for generation lifecycle events.
const Topic = "flowsmith.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	WorkflowGeneratedEvent EventType = "workflow.generated"
	WorkflowRepairedEvent  EventType = "workflow.repaired"
)

type BaseEvent struct {
	ID           string         `json:"id"`
	Type         EventType      `json:"type"`
	Timestamp    time.Time      `json:"timestamp"`
	WorkflowName string         `json:"workflow_name"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, workflowName string) BaseEvent {
	return BaseEvent{
		ID:           uuid.New().String(),
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		WorkflowName: workflowName,
	}
}

// WorkflowGenerated is published after every successful generation.
type WorkflowGenerated struct {
	BaseEvent

	Source          string  `json:"source"` // "template" or "llm"
	TemplateName    string  `json:"template_name,omitempty"`
	TemplateScore   float64 `json:"template_score"`
	Fallback        bool    `json:"fallback"`
	NodeCount       int     `json:"node_count"`
	ValidationScore int     `json:"validation_score"`
}

func (w WorkflowGenerated) GetType() EventType {
	return WorkflowGeneratedEvent
}

// WorkflowRepaired is published when the repair utility rebuilt a connection
// graph, either on request or as a post-generation pass.
type WorkflowRepaired struct {
	BaseEvent

	Strategy        string `json:"strategy"`
	ConnectionCount int    `json:"connection_count"`
}

func (w WorkflowRepaired) GetType() EventType {
	return WorkflowRepairedEvent
}
