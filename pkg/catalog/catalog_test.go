package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsmith/flowsmith/pkg/models"
)

func TestLoad_EmbeddedCatalog(t *testing.T) {
	t.Parallel()

	library, err := Load()
	require.NoError(t, err)
	require.NotNil(t, library)
	assert.GreaterOrEqual(t, library.Len(), 5)
}

func TestLoad_GenericFallbackAlwaysPresent(t *testing.T) {
	t.Parallel()

	library, err := Load()
	require.NoError(t, err)

	generic := library.Generic()
	require.NotNil(t, generic)
	assert.Equal(t, GenericTemplateName, generic.Name)
	assert.NotEmpty(t, generic.Nodes)
}

func TestLoad_TemplatesAreWellFormed(t *testing.T) {
	t.Parallel()

	library, err := Load()
	require.NoError(t, err)

	for _, template := range library.All() {
		t.Run(template.Name, func(t *testing.T) {
			t.Parallel()

			assert.NotEmpty(t, template.Name)
			assert.NotEmpty(t, template.Nodes)
			assert.Contains(t,
				[]models.Complexity{models.ComplexitySimple, models.ComplexityMedium, models.ComplexityComplex},
				template.Complexity)

			seen := make(map[string]bool)
			for _, spec := range template.Nodes {
				assert.NotEmpty(t, spec.Name)
				assert.NotEmpty(t, spec.Type)
				assert.GreaterOrEqual(t, spec.TypeVersion, 1.0)
				assert.NotNil(t, spec.Parameters)
				assert.False(t, seen[spec.Name], "node names must be unique within a template")
				seen[spec.Name] = true
			}
		})
	}
}

func TestLoad_RejectsEmptyTemplateList(t *testing.T) {
	t.Parallel()

	_, err := load([]byte("templates: []\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestLoad_RejectsMissingGeneric(t *testing.T) {
	t.Parallel()

	raw := []byte(`templates:
  - name: only-one
    tags: [slack]
    nodes:
      - name: Webhook
        type: n8n-nodes-base.webhook
`)

	_, err := load(raw)
	assert.ErrorIs(t, err, ErrMissingGeneric)
}

func TestLoad_RejectsDuplicateNames(t *testing.T) {
	t.Parallel()

	raw := []byte(`templates:
  - name: generic
    tags: []
    nodes:
      - name: Webhook
        type: n8n-nodes-base.webhook
  - name: generic
    tags: []
    nodes:
      - name: Webhook
        type: n8n-nodes-base.webhook
`)

	_, err := load(raw)
	assert.ErrorIs(t, err, ErrDuplicateTemplate)
}

func TestLoad_RejectsSchemaViolations(t *testing.T) {
	t.Parallel()

	// Node entries must carry a type.
	raw := []byte(`templates:
  - name: generic
    tags: []
    nodes:
      - name: Webhook
`)

	_, err := load(raw)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestLoad_DefaultsComplexityByNodeCount(t *testing.T) {
	t.Parallel()

	raw := []byte(`templates:
  - name: generic
    tags: []
    nodes:
      - name: Webhook
        type: n8n-nodes-base.webhook
      - name: Process
        type: n8n-nodes-base.set
`)

	library, err := load(raw)
	require.NoError(t, err)
	assert.Equal(t, models.ComplexitySimple, library.Generic().Complexity)
}

func TestTemplate_HasTag(t *testing.T) {
	t.Parallel()

	template := &Template{Tags: []string{"slack", "webhook_trigger"}}

	assert.True(t, template.HasTag("slack"))
	assert.False(t, template.HasTag("telegram"))
}

func TestTemplate_NodeTypes(t *testing.T) {
	t.Parallel()

	library, err := Load()
	require.NoError(t, err)

	template := library.ByName("webhook-to-slack")
	require.NotNil(t, template)

	types := template.NodeTypes()
	assert.True(t, types[models.NodeTypeWebhook])
	assert.True(t, types[models.NodeTypeSlack])
}
