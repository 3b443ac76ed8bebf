// Package catalog holds the static workflow template library. Templates are
// loaded once at process start from embedded configuration and are read-only
// thereafter.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/xeipuuv/gojsonschema"

	"github.com/flowsmith/flowsmith/pkg/models"
)

//go:embed templates.yaml
var templatesYAML []byte

//go:embed schema.json
var catalogSchema []byte

// GenericTemplateName is the mandatory fallback template. Generation never
// fails outright for unmatched input because this template always exists.
const GenericTemplateName = "generic"

var (
	ErrEmptyCatalog      = errors.New("template catalog is empty")
	ErrMissingGeneric    = errors.New("template catalog has no generic fallback template")
	ErrInvalidCatalog    = errors.New("template catalog failed schema validation")
	ErrDuplicateTemplate = errors.New("duplicate template name")
)

// NodeSpec is a node blueprint inside a template: default type and parameters
// without identity, which is assigned at generation time.
type NodeSpec struct {
	Name        string         `yaml:"name"         json:"name"`
	Type        string         `yaml:"type"         json:"type"`
	TypeVersion float64        `yaml:"type_version" json:"type_version,omitempty"`
	Parameters  map[string]any `yaml:"parameters"   json:"parameters"`
}

// Template is a pre-authored workflow skeleton plus the feature tags it is a
// strong match for.
type Template struct {
	Name        string            `yaml:"name"        json:"name"`
	Description string            `yaml:"description" json:"description"`
	Complexity  models.Complexity `yaml:"complexity"  json:"complexity"`
	Tags        []string          `yaml:"tags"        json:"tags"`
	Nodes       []NodeSpec        `yaml:"nodes"       json:"nodes"`
}

// HasTag reports whether the template declares the given feature tag.
func (t *Template) HasTag(tag string) bool {
	for _, candidate := range t.Tags {
		if candidate == tag {
			return true
		}
	}

	return false
}

// NodeTypes returns the set of node types the template instantiates.
func (t *Template) NodeTypes() map[string]bool {
	types := make(map[string]bool, len(t.Nodes))
	for _, spec := range t.Nodes {
		types[spec.Type] = true
	}

	return types
}

type catalogFile struct {
	Templates []*Template `yaml:"templates"`
}

// Library is the loaded template catalog.
type Library struct {
	templates []*Template
	byName    map[string]*Template
}

// Load parses and schema-validates the embedded catalog.
func Load() (*Library, error) {
	return load(templatesYAML)
}

func load(raw []byte) (*Library, error) {
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse template catalog: %w", err)
	}

	if len(file.Templates) == 0 {
		return nil, ErrEmptyCatalog
	}

	library := &Library{
		templates: file.Templates,
		byName:    make(map[string]*Template, len(file.Templates)),
	}

	for _, template := range file.Templates {
		if _, exists := library.byName[template.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTemplate, template.Name)
		}

		if template.Complexity == "" {
			template.Complexity = models.ComplexityForNodeCount(len(template.Nodes))
		}

		for i := range template.Nodes {
			if template.Nodes[i].TypeVersion == 0 {
				template.Nodes[i].TypeVersion = 1
			}

			if template.Nodes[i].Parameters == nil {
				template.Nodes[i].Parameters = map[string]any{}
			}
		}

		library.byName[template.Name] = template
	}

	if _, exists := library.byName[GenericTemplateName]; !exists {
		return nil, ErrMissingGeneric
	}

	return library, nil
}

func validateSchema(raw []byte) error {
	jsonBytes, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return fmt.Errorf("failed to convert template catalog to JSON: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(catalogSchema),
		gojsonschema.NewBytesLoader(jsonBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to run catalog schema validation: %w", err)
	}

	if !result.Valid() {
		details := ""
		for _, issue := range result.Errors() {
			details += "; " + issue.String()
		}

		return fmt.Errorf("%w%s", ErrInvalidCatalog, details)
	}

	return nil
}

// All returns every template in declaration order.
func (l *Library) All() []*Template {
	return l.templates
}

// ByName returns the named template, or nil.
func (l *Library) ByName(name string) *Template {
	return l.byName[name]
}

// Generic returns the fallback template.
func (l *Library) Generic() *Template {
	return l.byName[GenericTemplateName]
}

// Len returns the number of templates.
func (l *Library) Len() int {
	return len(l.templates)
}
