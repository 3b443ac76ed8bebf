package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowsmith/flowsmith/pkg/catalog"
	"github.com/flowsmith/flowsmith/pkg/eventbus"
	"github.com/flowsmith/flowsmith/pkg/events"
	"github.com/flowsmith/flowsmith/pkg/features"
	"github.com/flowsmith/flowsmith/pkg/generator"
	"github.com/flowsmith/flowsmith/pkg/llm"
	"github.com/flowsmith/flowsmith/pkg/models"
	"github.com/flowsmith/flowsmith/pkg/otelhelper"
	"github.com/flowsmith/flowsmith/pkg/repair"
	"github.com/flowsmith/flowsmith/pkg/store"
	"github.com/flowsmith/flowsmith/pkg/validation"
)

// Generation orchestrates the generation pipeline: optional LLM collaborator
// with deterministic fallback, post-validation, repair pass, persistence and
// event publishing.
type Generation struct {
	engine   *generator.Engine
	library  *catalog.Library
	detector *features.Detector
	llm      llm.Generator // nil when no collaborator is configured
	store    store.Store
	eventBus eventbus.EventPublisher
	tracer   trace.Tracer
	logger   *slog.Logger
}

func NewGeneration(
	library *catalog.Library,
	detector *features.Detector,
	llmGenerator llm.Generator,
	workflowStore store.Store,
	eventBus eventbus.EventPublisher,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Generation {
	return &Generation{
		engine:   generator.NewEngine(library, detector, logger),
		library:  library,
		detector: detector,
		llm:      llmGenerator,
		store:    workflowStore,
		eventBus: eventBus,
		tracer:   tracer,
		logger:   logger,
	}
}

// GenerateRequest carries the generation inputs, already bounds-checked by
// the web layer.
type GenerateRequest struct {
	Description string
	TriggerType string
	Complexity  string
}

// GenerateResult is what the API returns: the workflow plus advisory
// diagnostics. Validation findings never block the output.
type GenerateResult struct {
	ID            string             `json:"id"`
	Workflow      *models.Workflow   `json:"workflow"`
	Validation    *validation.Report `json:"validation"`
	Source        string             `json:"source"`
	TemplateName  string             `json:"template_name,omitempty"`
	TemplateScore float64            `json:"template_score"`
	Fallback      bool               `json:"fallback"`
	Features      []string           `json:"features"`
}

// Generate runs the full pipeline for one request.
func (g *Generation) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	ctx, span := g.tracer.Start(ctx, "workflow.generate")
	defer span.End()

	detected := g.detector.Detect(req.Description)

	result := &GenerateResult{
		ID:       uuid.New().String(),
		Source:   "template",
		Features: features.Names(detected),
	}

	// The collaborator path and the template path are mutually exclusive per
	// request: the LLM is tried first and any failure falls through to the
	// deterministic engine.
	if g.llm != nil {
		workflow, err := g.llm.GenerateWorkflow(ctx, req.Description)
		if err != nil {
			g.logger.Warn("llm collaborator unavailable, using template engine", "error", err)
		} else {
			result.Workflow = workflow
			result.Source = "llm"
		}
	}

	if result.Workflow == nil {
		engineResult, err := g.engine.Generate(generator.Request{
			Description: req.Description,
			TriggerType: req.TriggerType,
			Complexity:  req.Complexity,
		})
		if err != nil {
			otelhelper.SetError(span, err)

			return nil, &ServiceError{Op: "Generate", Err: ErrGenerationFailed}
		}

		result.Workflow = engineResult.Workflow
		result.TemplateName = engineResult.TemplateName
		result.TemplateScore = engineResult.Score
		result.Fallback = engineResult.Fallback
	}

	result.Validation = validation.Validate(result.Workflow)

	// LLM documents arrive with whatever graph the model produced; broken or
	// missing connections get one repair pass, then a re-validation.
	if repair.NeedsRepair(result.Workflow) {
		result.Workflow = repair.Repair(result.Workflow, repair.StrategySequential)
		result.Validation = validation.Validate(result.Workflow)

		g.publish(ctx, result.ID, events.WorkflowRepaired{
			BaseEvent:       events.NewBaseEvent(events.WorkflowRepairedEvent, result.Workflow.Name),
			Strategy:        string(repair.StrategySequential),
			ConnectionCount: len(result.Workflow.Connections),
		})
	}

	span.SetAttributes(
		attribute.String(otelhelper.WorkflowNameKey, result.Workflow.Name),
		attribute.String(otelhelper.GenerationSourceKey, result.Source),
		attribute.String(otelhelper.TemplateNameKey, result.TemplateName),
		attribute.Float64(otelhelper.TemplateScoreKey, result.TemplateScore),
		attribute.Int(otelhelper.FeatureCountKey, len(result.Features)),
		attribute.Int(otelhelper.NodeCountKey, len(result.Workflow.Nodes)),
		attribute.Int(otelhelper.ValidationScoreKey, result.Validation.Score),
	)

	g.persist(ctx, result)
	g.publish(ctx, result.ID, events.WorkflowGenerated{
		BaseEvent:       events.NewBaseEvent(events.WorkflowGeneratedEvent, result.Workflow.Name),
		Source:          result.Source,
		TemplateName:    result.TemplateName,
		TemplateScore:   result.TemplateScore,
		Fallback:        result.Fallback,
		NodeCount:       len(result.Workflow.Nodes),
		ValidationScore: result.Validation.Score,
	})

	return result, nil
}

// Validate checks a caller-supplied workflow. Advisory only.
func (g *Generation) Validate(workflow *models.Workflow) (*validation.Report, error) {
	if workflow == nil {
		return nil, &ServiceError{Op: "Validate", Err: ErrWorkflowNil}
	}

	return validation.Validate(workflow), nil
}

// Repair rebuilds a workflow's connection graph with the given strategy.
func (g *Generation) Repair(ctx context.Context, workflow *models.Workflow, strategy string) (*models.Workflow, error) {
	if workflow == nil {
		return nil, &ServiceError{Op: "Repair", Err: ErrWorkflowNil}
	}

	parsed := repair.ParseStrategy(strategy)
	repaired := repair.Repair(workflow, parsed)

	g.publish(ctx, repaired.Name, events.WorkflowRepaired{
		BaseEvent:       events.NewBaseEvent(events.WorkflowRepairedEvent, repaired.Name),
		Strategy:        string(parsed),
		ConnectionCount: len(repaired.Connections),
	})

	return repaired, nil
}

// GetWorkflow loads a stored generation record.
func (g *Generation) GetWorkflow(ctx context.Context, id string) (*store.Record, error) {
	record, err := g.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow record: %w", err)
	}

	return record, nil
}

// Templates exposes the read-only template catalog.
func (g *Generation) Templates() []*catalog.Template {
	return g.library.All()
}

// DetectFeatures runs the feature detector alone, for dry-run inspection.
func (g *Generation) DetectFeatures(text string) map[string]features.Feature {
	return g.detector.Detect(text)
}

// persist and publish are advisory: their failures are logged, never
// surfaced, because the generated document is already complete.
func (g *Generation) persist(ctx context.Context, result *GenerateResult) {
	record := &store.Record{
		ID:            result.ID,
		CreatedAt:     time.Now().UTC(),
		Source:        result.Source,
		TemplateName:  result.TemplateName,
		TemplateScore: result.TemplateScore,
		Features:      result.Features,
		Workflow:      result.Workflow,
	}

	if err := g.store.Save(ctx, record); err != nil {
		g.logger.Warn("failed to store generated workflow", "id", result.ID, "error", err)
	}
}

func (g *Generation) publish(ctx context.Context, key string, event eventbus.Event) {
	if g.eventBus == nil {
		return
	}

	if err := g.eventBus.Publish(ctx, key, event); err != nil {
		g.logger.Warn("failed to publish event", "event_type", event.GetType(), "error", err)
	}
}
