// Package features detects capability requirements in natural-language
// automation requests via a static keyword registry.
package features

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed registry.yaml
var registryYAML []byte

// Spec is one entry of the keyword registry.
type Spec struct {
	Name      string   `yaml:"name"`
	Category  string   `yaml:"category"`
	Keywords  []string `yaml:"keywords"`
	Patterns  []string `yaml:"patterns"`
	NodeTypes []string `yaml:"node_types"`
}

type registryFile struct {
	Features []Spec `yaml:"features"`
}

// Feature is a detected capability requirement. Transient, recomputed per
// request, never persisted.
type Feature struct {
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Matched   []string `json:"matched"`
	NodeTypes []string `json:"node_types,omitempty"`
}

// Detector matches the registry against raw text. Safe for concurrent use;
// it holds only read-only state after construction.
type Detector struct {
	specs    []Spec
	patterns map[string][]*regexp.Regexp
}

// NewDetector loads the embedded keyword registry and compiles its patterns.
func NewDetector() (*Detector, error) {
	var file registryFile
	if err := yaml.Unmarshal(registryYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse feature registry: %w", err)
	}

	detector := &Detector{
		specs:    file.Features,
		patterns: make(map[string][]*regexp.Regexp),
	}

	for _, spec := range file.Features {
		for _, pattern := range spec.Patterns {
			compiled, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern for feature '%s': %w", spec.Name, err)
			}

			detector.patterns[spec.Name] = append(detector.patterns[spec.Name], compiled)
		}
	}

	return detector, nil
}

// Detect scans the text and returns the detected features keyed by name.
// This is a recall-oriented heuristic: keyword substring matches are accepted
// without disambiguation, and empty or very short text simply yields an empty
// set rather than an error.
func (d *Detector) Detect(text string) map[string]Feature {
	detected := make(map[string]Feature)
	lowered := strings.ToLower(text)

	for _, spec := range d.specs {
		var matched []string

		for _, keyword := range spec.Keywords {
			if strings.Contains(lowered, keyword) {
				matched = append(matched, keyword)
			}
		}

		for _, pattern := range d.patterns[spec.Name] {
			if hit := pattern.FindString(text); hit != "" {
				matched = append(matched, hit)
			}
		}

		if len(matched) > 0 {
			detected[spec.Name] = Feature{
				Name:      spec.Name,
				Category:  spec.Category,
				Matched:   matched,
				NodeTypes: spec.NodeTypes,
			}
		}
	}

	return detected
}

// Names returns the sorted names of a detected feature set.
func Names(detected map[string]Feature) []string {
	names := make([]string, 0, len(detected))
	for name := range detected {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// RequiredNodeTypes collects the node types implied by a detected feature
// set, de-duplicated, in sorted feature order.
func RequiredNodeTypes(detected map[string]Feature) []string {
	seen := make(map[string]bool)
	types := make([]string, 0, len(detected))

	for _, name := range Names(detected) {
		for _, nodeType := range detected[name].NodeTypes {
			if !seen[nodeType] {
				seen[nodeType] = true

				types = append(types, nodeType)
			}
		}
	}

	return types
}
