// Package validation inspects assembled workflows for structural problems
// and computes a heuristic quality score. It is advisory: a report is always
// returned and never an error, and callers decide what a "not valid" verdict
// means for them.
package validation

import (
	"fmt"
	"strings"

	"github.com/flowsmith/flowsmith/pkg/models"
)

// Score model constants.
const (
	BaseScore         = 95
	ErrorPenalty      = 15
	WarningPenalty    = 3
	ComplexityPenalty = 5

	BonusErrorHandling = 5
	BonusMediumBand    = 5
	BonusComplexBand   = 10
	BonusTypeDiversity = 5

	// MaxScoreWithIssues caps the score whenever any error or warning
	// exists: a workflow with known issues must never report a perfect
	// score. This replaced an earlier scorer that happily returned 100 for
	// broken graphs.
	MaxScoreWithIssues = 97

	// Validity thresholds.
	MinValidScore    = 75
	MaxValidWarnings = 3
)

// Report is the validator's result object.
type Report struct {
	IsValid     bool           `json:"is_valid"`
	Score       int            `json:"score"`
	Errors      []string       `json:"errors"`
	Warnings    []string       `json:"warnings"`
	Suggestions []string       `json:"suggestions"`
	Metrics     map[string]any `json:"metrics"`
}

func (r *Report) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Report) addSuggestion(format string, args ...any) {
	r.Suggestions = append(r.Suggestions, fmt.Sprintf(format, args...))
}

// HasConnectionIssues reports whether any error concerns the connection
// graph; the service layer uses this to decide on a repair pass.
func (r *Report) HasConnectionIssues() bool {
	return r.Metrics["dangling_connections"] == true
}

// Validate runs all checks against the workflow and scores the result.
func Validate(workflow *models.Workflow) *Report {
	report := &Report{
		Errors:      []string{},
		Warnings:    []string{},
		Suggestions: []string{},
		Metrics:     map[string]any{},
	}

	if workflow == nil {
		report.addError("workflow is missing")
		report.Score = 0

		return report
	}

	checkStructure(workflow, report)
	checkNodes(workflow, report)
	checkConnections(workflow, report)
	checkLogic(workflow, report)
	computeMetrics(workflow, report)

	report.Score = computeScore(workflow, report)
	report.IsValid = len(report.Errors) == 0 &&
		report.Score >= MinValidScore &&
		len(report.Warnings) <= MaxValidWarnings

	return report
}

func checkStructure(workflow *models.Workflow, report *Report) {
	if workflow.Name == "" {
		report.addError("workflow has no name")
	}

	if len(workflow.Nodes) == 0 {
		report.addError("workflow has no nodes")
	}

	if workflow.Settings == nil {
		report.addWarning("workflow has no settings object")
	}
}

func checkNodes(workflow *models.Workflow, report *Report) {
	seenNames := make(map[string]bool, len(workflow.Nodes))
	seenIDs := make(map[string]bool, len(workflow.Nodes))

	for _, node := range workflow.Nodes {
		switch {
		case node == nil:
			report.addError("workflow contains a null node")

			continue
		case node.Name == "":
			report.addError("node '%s' has no name", node.ID)
		case seenNames[node.Name]:
			report.addError("duplicate node name '%s'", node.Name)
		default:
			seenNames[node.Name] = true
		}

		if node.ID == "" {
			report.addError("node '%s' has no id", node.Name)
		} else if seenIDs[node.ID] {
			report.addError("duplicate node id '%s'", node.ID)
		} else {
			seenIDs[node.ID] = true
		}

		if node.Type == "" {
			report.addError("node '%s' has no type", node.Name)
		} else if !models.IsRecognizedType(node.Type) {
			report.addWarning("node '%s' has unrecognized type '%s'", node.Name, node.Type)
		}

		if node.Position == [2]float64{} {
			report.addWarning("node '%s' has no layout position", node.Name)
		}

		if len(node.Parameters) == 0 {
			report.addWarning("node '%s' has no parameters", node.Name)
		}
	}
}

func checkConnections(workflow *models.Workflow, report *Report) {
	connected := make(map[string]bool, len(workflow.Nodes))
	dangling := false

	for source, entry := range workflow.Connections {
		if workflow.NodeByName(source) == nil {
			report.addError("connection source '%s' does not match any node", source)

			dangling = true
		} else {
			connected[source] = true
		}

		for _, target := range entry.Targets() {
			if workflow.NodeByName(target.Node) == nil {
				report.addError("connection target '%s' does not match any node", target.Node)

				dangling = true
			} else {
				connected[target.Node] = true
			}
		}
	}

	report.Metrics["dangling_connections"] = dangling

	// Lenient by intent: the first node of a legitimate chain participates
	// only as a source and the last only as a target, so absence from the
	// connected set is a warning, never an error.
	if len(workflow.Nodes) >= 2 {
		for _, node := range workflow.Nodes {
			if node != nil && !connected[node.Name] {
				report.addWarning("node '%s' is not connected to the workflow", node.Name)
			}
		}
	}
}

func checkLogic(workflow *models.Workflow, report *Report) {
	hasTrigger := false
	hasErrorHandling := false
	hasBranching := false

	for _, node := range workflow.Nodes {
		if node == nil {
			continue
		}

		if node.IsTrigger() {
			hasTrigger = true
		}

		if node.Type == models.NodeTypeErrorTrigger || containsAny(node, "error", "retry") {
			hasErrorHandling = true
		}

		if node.Type == models.NodeTypeIf || containsAny(node, "switch", "filter", "condition") {
			hasBranching = true
		}
	}

	if !hasTrigger {
		report.addWarning("workflow has no trigger node")
		report.addSuggestion("add a trigger node (webhook, schedule or manual) so the workflow can start")
	}

	if len(workflow.Nodes) > 3 && !hasErrorHandling {
		report.addSuggestion("consider adding error handling for a workflow of this size")
	}

	if len(workflow.Nodes) > 2 && !hasBranching {
		report.addSuggestion("consider adding validation or branching logic for multi-step workflows")
	}

	report.Metrics["has_error_handling"] = hasErrorHandling
}

func containsAny(node *models.Node, substrings ...string) bool {
	haystack := strings.ToLower(node.Type + " " + node.Name)

	for _, s := range substrings {
		if strings.Contains(haystack, s) {
			return true
		}
	}

	return false
}

func computeMetrics(workflow *models.Workflow, report *Report) {
	types := make(map[string]bool, len(workflow.Nodes))
	triggers := 0

	for _, node := range workflow.Nodes {
		if node == nil {
			continue
		}

		types[node.Type] = true

		if node.IsTrigger() {
			triggers++
		}
	}

	report.Metrics["node_count"] = len(workflow.Nodes)
	report.Metrics["connection_count"] = len(workflow.Connections)
	report.Metrics["distinct_node_types"] = len(types)
	report.Metrics["trigger_count"] = triggers
	report.Metrics["complexity"] = string(workflow.Complexity())
	report.Metrics["error_count"] = len(report.Errors)
	report.Metrics["warning_count"] = len(report.Warnings)
}

func computeScore(workflow *models.Workflow, report *Report) int {
	score := BaseScore
	score -= ErrorPenalty * len(report.Errors)
	score -= WarningPenalty * len(report.Warnings)

	complexity := workflow.Complexity()
	if complexity == models.ComplexityComplex {
		score -= ComplexityPenalty
	}

	// Good-practice bonuses.
	if report.Metrics["has_error_handling"] == true {
		score += BonusErrorHandling
	}

	switch complexity {
	case models.ComplexityMedium:
		score += BonusMediumBand
	case models.ComplexityComplex:
		score += BonusComplexBand
	case models.ComplexitySimple:
	}

	if count, ok := report.Metrics["distinct_node_types"].(int); ok && count >= 3 {
		score += BonusTypeDiversity
	}

	if (len(report.Errors) > 0 || len(report.Warnings) > 0) && score > MaxScoreWithIssues {
		score = MaxScoreWithIssues
	}

	if score < 0 {
		score = 0
	}

	if score > 100 {
		score = 100
	}

	return score
}
