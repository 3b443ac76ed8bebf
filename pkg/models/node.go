// Package models defines the core domain models for generated automation workflows.
package models

import (
	"strings"

	"github.com/google/uuid"
)

// CategoryType classifies a node's role in the execution chain.
type CategoryType string

const (
	CategoryTypeTrigger    CategoryType = "trigger"    // Starts workflow execution (webhook, schedule, manual)
	CategoryTypeProcessing CategoryType = "processing" // Transforms or routes data (http, set, if, ai)
	CategoryTypeOutput     CategoryType = "output"     // Delivers results to an external service
)

// Recognized node type prefixes. Types outside these prefixes are tolerated
// but flagged as warnings by the validator.
const (
	NodeTypePrefixBase      = "n8n-nodes-base."
	NodeTypePrefixLangChain = "@n8n/n8n-nodes-langchain."
)

// Built-in node types used by the template catalog and the parametrizer.
const (
	NodeTypeWebhook         = "n8n-nodes-base.webhook"
	NodeTypeScheduleTrigger = "n8n-nodes-base.scheduleTrigger"
	NodeTypeManualTrigger   = "n8n-nodes-base.manualTrigger"
	NodeTypeErrorTrigger    = "n8n-nodes-base.errorTrigger"
	NodeTypeHTTPRequest     = "n8n-nodes-base.httpRequest"
	NodeTypeSet             = "n8n-nodes-base.set"
	NodeTypeIf              = "n8n-nodes-base.if"
	NodeTypeCode            = "n8n-nodes-base.code"
	NodeTypeRSSFeedRead     = "n8n-nodes-base.rssFeedRead"
	NodeTypeSlack           = "n8n-nodes-base.slack"
	NodeTypeTelegram        = "n8n-nodes-base.telegram"
	NodeTypeDiscord         = "n8n-nodes-base.discord"
	NodeTypeEmailSend       = "n8n-nodes-base.emailSend"
	NodeTypeTwitter         = "n8n-nodes-base.twitter"
	NodeTypeLinkedIn        = "n8n-nodes-base.linkedIn"
	NodeTypeGoogleSheets    = "n8n-nodes-base.googleSheets"
	NodeTypePostgres        = "n8n-nodes-base.postgres"
	NodeTypeAirtable        = "n8n-nodes-base.airtable"
	NodeTypeOpenAI          = "@n8n/n8n-nodes-langchain.openAi"
)

// Node represents one step in the automation graph. Name doubles as the
// connection-graph key, so it must be unique within a workflow.
type Node struct {
	ID          string         `json:"id"          validate:"required"`
	Name        string         `json:"name"        validate:"required,min=1"`
	Type        string         `json:"type"        validate:"required"`
	TypeVersion float64        `json:"typeVersion"`
	Position    [2]float64     `json:"position"`
	Parameters  map[string]any `json:"parameters"`
}

// NewNode creates a node with a generated ID. Parameters are never left nil.
func NewNode(name, nodeType string, params map[string]any) *Node {
	if params == nil {
		params = map[string]any{}
	}

	return &Node{
		ID:          uuid.New().String(),
		Name:        name,
		Type:        nodeType,
		TypeVersion: 1,
		Parameters:  params,
	}
}

// IsRecognizedType reports whether a node type belongs to the known vocabulary.
func IsRecognizedType(nodeType string) bool {
	return strings.HasPrefix(nodeType, NodeTypePrefixBase) ||
		strings.HasPrefix(nodeType, NodeTypePrefixLangChain)
}

var triggerTypeMarkers = []string{"webhook", "scheduletrigger", "manualtrigger", "errortrigger", "cron", "trigger"}

var outputTypeMarkers = []string{"slack", "twitter", "linkedin", "emailsend", "telegram", "discord", "send", "post"}

// Category classifies the node by its type (and, as a fallback, its name).
// Used for ordering during assembly and for type-aware connection repair.
func (n *Node) Category() CategoryType {
	haystack := strings.ToLower(n.Type)

	for _, marker := range triggerTypeMarkers {
		if strings.Contains(haystack, marker) {
			return CategoryTypeTrigger
		}
	}

	haystack += " " + strings.ToLower(n.Name)
	for _, marker := range outputTypeMarkers {
		if strings.Contains(haystack, marker) {
			return CategoryTypeOutput
		}
	}

	return CategoryTypeProcessing
}

// IsTrigger reports whether the node starts workflow execution.
func (n *Node) IsTrigger() bool {
	return n.Category() == CategoryTypeTrigger
}
