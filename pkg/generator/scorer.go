package generator

import (
	"strings"

	"github.com/flowsmith/flowsmith/pkg/catalog"
	"github.com/flowsmith/flowsmith/pkg/features"
	"github.com/flowsmith/flowsmith/pkg/models"
)

// Scoring weights per signal category. The final score is clamped to [0, 1].
const (
	weightTagOverlap  = 0.4
	weightAI          = 0.25
	weightConditional = 0.15
	weightComplexity  = 0.2
	weightTextMention = 0.05
)

// AcceptanceThreshold is the minimum score a template must clear; below it
// the generic fallback is used instead. Degraded output is preferred to hard
// failure for unmatched input.
const AcceptanceThreshold = 0.25

// Selection is the outcome of template selection.
type Selection struct {
	Template *catalog.Template
	Score    float64
	Fallback bool
}

// Select scores every non-generic template against the detected features and
// raw text, picking the strictly highest scorer or falling back to the
// generic template when nothing clears the acceptance threshold.
func Select(
	library *catalog.Library,
	detected map[string]features.Feature,
	text string,
	requested models.Complexity,
) Selection {
	var (
		best      *catalog.Template
		bestScore float64
	)

	for _, template := range library.All() {
		if template.Name == catalog.GenericTemplateName {
			continue
		}

		score := scoreTemplate(template, detected, text, requested)
		if score > bestScore {
			best = template
			bestScore = score
		}
	}

	if best == nil || bestScore < AcceptanceThreshold {
		return Selection{
			Template: library.Generic(),
			Score:    bestScore,
			Fallback: true,
		}
	}

	return Selection{Template: best, Score: bestScore}
}

func scoreTemplate(
	template *catalog.Template,
	detected map[string]features.Feature,
	text string,
	requested models.Complexity,
) float64 {
	var score float64

	if len(template.Tags) > 0 {
		matched := 0

		for _, tag := range template.Tags {
			if _, ok := detected[tag]; ok {
				matched++
			}
		}

		score += weightTagOverlap * float64(matched) / float64(len(template.Tags))
	}

	_, wantsAI := detected["ai"]
	if wantsAI && template.HasTag("ai") {
		score += weightAI
	}

	_, wantsConditional := detected["conditional"]
	if wantsConditional && template.HasTag("conditional") {
		score += weightConditional
	}

	if requested == template.Complexity {
		score += weightComplexity
	}

	// Raw text signal: the template name mentioned literally.
	lowered := strings.ToLower(text)
	if strings.Contains(lowered, strings.ReplaceAll(template.Name, "-", " ")) {
		score += weightTextMention
	}

	if score > 1 {
		score = 1
	}

	return score
}
