// Package llm is the optional external collaborator: it asks a language
// model for a complete workflow document. Any failure here is treated as
// "collaborator unavailable" and the caller falls back to the deterministic
// template engine.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/flowsmith/flowsmith/pkg/models"
)

// ErrUnavailable classifies every collaborator failure: transport errors,
// timeouts, malformed replies. Callers must fall back, never propagate.
var ErrUnavailable = errors.New("llm collaborator unavailable")

const systemPrompt = `You convert automation requests into workflow JSON.
Respond with a single JSON object and nothing else, using exactly this shape:
{"name": string, "nodes": [{"id": string, "name": string, "type": string,
"typeVersion": number, "position": [number, number], "parameters": object}],
"connections": {"<source node name>": {"main": [[{"node": "<target node name>",
"type": "main", "index": 0}]]}}, "active": false, "settings": {}, "tags": []}.
Node names must be unique; connect the nodes as a single linear chain.`

// Generator produces a workflow from a natural-language description.
type Generator interface {
	GenerateWorkflow(ctx context.Context, description string) (*models.Workflow, error)
}

// OpenAIGenerator calls the OpenAI chat completion API.
type OpenAIGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

func NewOpenAIGenerator(apiKey, model string, timeout time.Duration, logger *slog.Logger) *OpenAIGenerator {
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIGenerator{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// GenerateWorkflow sends the request and parses the reply into a workflow.
// The call is bounded by the configured timeout.
func (g *OpenAIGenerator) GenerateWorkflow(ctx context.Context, description string) (*models.Workflow, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: description},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	workflow, err := ParseWorkflowDocument(resp.Choices[0].Message.Content)
	if err != nil {
		g.logger.Warn("llm returned an unusable workflow document", "error", err)

		return nil, err
	}

	return workflow, nil
}

// ParseWorkflowDocument extracts the first JSON object from a model reply and
// parses it into a workflow, repairing the trivia the models habitually get
// wrong (missing ids, nil parameter bags).
func ParseWorkflowDocument(raw string) (*models.Workflow, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")

	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: reply contains no JSON object", ErrUnavailable)
	}

	var workflow models.Workflow
	if err := json.Unmarshal([]byte(raw[start:end+1]), &workflow); err != nil {
		return nil, fmt.Errorf("%w: malformed workflow JSON: %w", ErrUnavailable, err)
	}

	if len(workflow.Nodes) == 0 {
		return nil, fmt.Errorf("%w: workflow document has no nodes", ErrUnavailable)
	}

	for _, node := range workflow.Nodes {
		if node == nil || node.Name == "" || node.Type == "" {
			return nil, fmt.Errorf("%w: workflow document has an incomplete node", ErrUnavailable)
		}

		if node.ID == "" {
			node.ID = uuid.New().String()
		}

		if node.Parameters == nil {
			node.Parameters = map[string]any{}
		}
	}

	if workflow.Connections == nil {
		workflow.Connections = models.ConnectionMap{}
	}

	if workflow.Settings == nil {
		workflow.Settings = map[string]any{}
	}

	if workflow.Name == "" {
		workflow.Name = "Generated Workflow"
	}

	return &workflow, nil
}
