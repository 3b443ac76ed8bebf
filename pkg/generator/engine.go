// Package generator assembles workflow documents from natural-language
// requests: template selection, node parametrization and connection wiring.
package generator

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/flowsmith/flowsmith/pkg/catalog"
	"github.com/flowsmith/flowsmith/pkg/features"
	"github.com/flowsmith/flowsmith/pkg/models"
)

// ErrNoNodes is the only hard failure: no nodes could be constructed at all.
// It cannot occur with a correctly loaded catalog.
var ErrNoNodes = errors.New("no nodes could be constructed for the request")

// Layout constants for the cosmetic node positions.
const (
	layoutStartX  = 250.0
	layoutSpacing = 220.0
	layoutY       = 300.0
)

// Request carries the caller's generation inputs. Input validation (length
// bounds, enum values) is the HTTP front end's job; the engine itself
// degrades to the generic template on minimal or garbage input.
type Request struct {
	Description string
	TriggerType string
	Complexity  string
}

// Result is the outcome of deterministic generation.
type Result struct {
	Workflow     *models.Workflow
	TemplateName string
	Score        float64
	Fallback     bool
	Features     map[string]features.Feature
}

// Engine is the deterministic template-based generation pipeline. Stateless
// between requests; safe for concurrent use.
type Engine struct {
	library  *catalog.Library
	detector *features.Detector
	logger   *slog.Logger
}

func NewEngine(library *catalog.Library, detector *features.Detector, logger *slog.Logger) *Engine {
	return &Engine{
		library:  library,
		detector: detector,
		logger:   logger,
	}
}

// Generate runs the full pipeline: detect features, select a template, build
// and parametrize nodes, union in feature-required nodes, order them and wire
// the linear connection chain.
func (e *Engine) Generate(req Request) (*Result, error) {
	detected := e.detector.Detect(req.Description)
	complexity := models.ParseComplexity(req.Complexity)

	selection := Select(e.library, detected, req.Description, complexity)
	if selection.Fallback {
		e.logger.Debug("no template cleared the acceptance threshold, using generic fallback",
			"best_score", selection.Score)
	}

	nodes := make([]*models.Node, 0, len(selection.Template.Nodes))
	for _, spec := range selection.Template.Nodes {
		nodes = append(nodes, Parametrize(spec, req.Description))
	}

	nodes = applyRequestedTrigger(nodes, req.TriggerType, req.Description)
	nodes = unionFeatureNodes(nodes, detected, req.Description)

	if len(nodes) == 0 {
		return nil, ErrNoNodes
	}

	dedupeNames(nodes)
	assignPositions(nodes)

	workflow := models.NewWorkflow(workflowName(req.Description), nodes)
	workflow.Connections = BuildConnections(nodes)
	workflow.Tags = features.Names(detected)
	workflow.Settings["executionOrder"] = "v1"

	return &Result{
		Workflow:     workflow,
		TemplateName: selection.Template.Name,
		Score:        selection.Score,
		Fallback:     selection.Fallback,
		Features:     detected,
	}, nil
}

var triggerTypeByRequest = map[string]string{
	"webhook":  models.NodeTypeWebhook,
	"schedule": models.NodeTypeScheduleTrigger,
	"manual":   models.NodeTypeManualTrigger,
}

// applyRequestedTrigger honors an explicit trigger_type: if the template's
// trigger does not match, it is swapped for the requested kind; a template
// with no trigger at all gets one prepended.
func applyRequestedTrigger(nodes []*models.Node, triggerType, text string) []*models.Node {
	wanted, ok := triggerTypeByRequest[triggerType]
	if !ok {
		return nodes
	}

	for i, node := range nodes {
		if !node.IsTrigger() {
			continue
		}

		if node.Type == wanted {
			return nodes
		}

		nodes[i] = Parametrize(defaultSpecFor(wanted), text)

		return nodes
	}

	return append([]*models.Node{Parametrize(defaultSpecFor(wanted), text)}, nodes...)
}

// unionFeatureNodes adds nodes for detected features the template does not
// already cover. Template nodes and feature-required nodes are combined, not
// selected exclusively. Template order is authoritative; synthesized nodes
// are placed by category so triggers stay first and outputs last.
func unionFeatureNodes(nodes []*models.Node, detected map[string]features.Feature, text string) []*models.Node {
	present := make(map[string]bool, len(nodes))
	hasTrigger := false

	for _, node := range nodes {
		present[node.Type] = true

		if node.IsTrigger() {
			hasTrigger = true
		}
	}

	for _, nodeType := range features.RequiredNodeTypes(detected) {
		if present[nodeType] {
			continue
		}

		candidate := Parametrize(defaultSpecFor(nodeType), text)

		// At most one trigger: a detected trigger feature never displaces
		// the one the template (or the caller) already chose.
		if candidate.IsTrigger() && hasTrigger {
			continue
		}

		if candidate.IsTrigger() {
			hasTrigger = true
		}

		present[nodeType] = true
		nodes = insertByCategory(nodes, candidate)
	}

	return nodes
}

// insertByCategory places a synthesized node: triggers at the front,
// processing nodes before the first output, outputs at the end.
func insertByCategory(nodes []*models.Node, node *models.Node) []*models.Node {
	switch node.Category() {
	case models.CategoryTypeTrigger:
		return append([]*models.Node{node}, nodes...)

	case models.CategoryTypeProcessing:
		for i, existing := range nodes {
			if existing.Category() == models.CategoryTypeOutput {
				nodes = append(nodes, nil)
				copy(nodes[i+1:], nodes[i:])
				nodes[i] = node

				return nodes
			}
		}

		return append(nodes, node)

	case models.CategoryTypeOutput:
		return append(nodes, node)
	}

	return append(nodes, node)
}

// dedupeNames enforces the name-uniqueness invariant; names double as
// connection keys so collisions would corrupt the graph.
func dedupeNames(nodes []*models.Node) {
	seen := make(map[string]int, len(nodes))

	for _, node := range nodes {
		count := seen[node.Name]
		seen[node.Name] = count + 1

		if count > 0 {
			node.Name = node.Name + " " + strconv.Itoa(count+1)
		}
	}
}

func assignPositions(nodes []*models.Node) {
	for i, node := range nodes {
		node.Position = [2]float64{layoutStartX + layoutSpacing*float64(i), layoutY}
	}
}

// workflowName derives a short title from the request text.
func workflowName(description string) string {
	words := strings.Fields(description)
	if len(words) == 0 {
		return "Generated Workflow"
	}

	if len(words) > 6 {
		words = words[:6]
	}

	name := strings.Join(words, " ")
	if len(name) > 60 {
		name = name[:60]
	}

	return strings.ToUpper(name[:1]) + name[1:]
}
