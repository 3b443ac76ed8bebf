package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsmith/flowsmith/pkg/catalog"
	"github.com/flowsmith/flowsmith/pkg/models"
)

func TestParametrize_SlackChannelExtraction(t *testing.T) {
	t.Parallel()

	spec := catalog.NodeSpec{Name: "Send Slack Message", Type: models.NodeTypeSlack, TypeVersion: 2}

	node := Parametrize(spec, "post a summary to #alerts every morning")
	assert.Equal(t, "#alerts", node.Parameters["channel"])
	assert.NotEmpty(t, node.Parameters["text"])
	assert.InDelta(t, 2.0, node.TypeVersion, 0)

	node = Parametrize(spec, "post a summary every morning")
	assert.Equal(t, "#general", node.Parameters["channel"])
}

func TestParametrize_EmailExtraction(t *testing.T) {
	t.Parallel()

	spec := catalog.NodeSpec{Name: "Send Email", Type: models.NodeTypeEmailSend}

	node := Parametrize(spec, "send the report to ops@example.com")
	assert.Equal(t, "ops@example.com", node.Parameters["toEmail"])
	assert.Equal(t, "Automation notification", node.Parameters["subject"])

	node = Parametrize(spec, "send the report to the team")
	assert.Equal(t, "user@example.com", node.Parameters["toEmail"])
}

func TestParametrize_ConditionExtraction(t *testing.T) {
	t.Parallel()

	spec := catalog.NodeSpec{Name: "Check Condition", Type: models.NodeTypeIf}

	testCases := []struct {
		name  string
		text  string
		field string
		value string
	}{
		{"plain condition", "notify me if the status is urgent", "status", "urgent"},
		{"equals phrasing", `escalate if priority equals "very high"`, "priority", "very high"},
		{"multi word field", "if the order total is 100 then alert", "order_total", "100"},
		{"no condition falls back", "just forward everything", "status", "active"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			node := Parametrize(spec, tc.text)
			assert.Equal(t, tc.field, node.Parameters["field"])
			assert.Equal(t, tc.value, node.Parameters["value"])
		})
	}
}

func TestParametrize_StorageTargetExtraction(t *testing.T) {
	t.Parallel()

	postgres := catalog.NodeSpec{Name: "Store Record", Type: models.NodeTypePostgres}
	node := Parametrize(postgres, "save every new customer to the database")
	assert.Equal(t, "customers", node.Parameters["table"])

	node = Parametrize(postgres, "save everything to the database")
	assert.Equal(t, "records", node.Parameters["table"])

	sheets := catalog.NodeSpec{Name: "Append to Sheet", Type: models.NodeTypeGoogleSheets}
	node = Parametrize(sheets, "track each order in a spreadsheet")
	assert.Equal(t, "orders", node.Parameters["sheetName"])
}

func TestParametrize_HTTPURLExtraction(t *testing.T) {
	t.Parallel()

	spec := catalog.NodeSpec{Name: "Fetch Data", Type: models.NodeTypeHTTPRequest}

	node := Parametrize(spec, "fetch https://api.service.io/v1/items hourly")
	assert.Equal(t, "https://api.service.io/v1/items", node.Parameters["url"])
	assert.Equal(t, "GET", node.Parameters["method"])
}

func TestParametrize_RSSFeedURL(t *testing.T) {
	t.Parallel()

	spec := catalog.NodeSpec{
		Name:       "Read RSS Feed",
		Type:       models.NodeTypeRSSFeedRead,
		Parameters: map[string]any{"url": "https://news.example.com/rss.xml"},
	}

	node := Parametrize(spec, "monitor https://blog.example.org/feed.xml for new posts")
	assert.Equal(t, "https://blog.example.org/feed.xml", node.Parameters["url"])

	// A URL that does not look like a feed keeps the template default.
	node = Parametrize(spec, "monitor https://example.org/about for new posts")
	assert.Equal(t, "https://news.example.com/rss.xml", node.Parameters["url"])
}

func TestParametrize_CronDerivation(t *testing.T) {
	t.Parallel()

	spec := catalog.NodeSpec{Name: "Schedule Trigger", Type: models.NodeTypeScheduleTrigger}

	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{"minute interval", "sync every 15 minutes", "*/15 * * * *"},
		{"hourly", "refresh the cache every hour", "0 * * * *"},
		{"weekly", "send a weekly digest", "0 9 * * 1"},
		{"every morning", "check the feeds every morning", "0 8 * * *"},
		{"daily", "run this every day", "0 9 * * *"},
		{"no recurrence phrase", "run this for me", "0 9 * * *"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			node := Parametrize(spec, tc.text)
			assert.Equal(t, tc.expected, node.Parameters["cronExpression"])
		})
	}
}

func TestParametrize_OpenAIDefaults(t *testing.T) {
	t.Parallel()

	spec := catalog.NodeSpec{Name: "AI Processing", Type: models.NodeTypeOpenAI}

	node := Parametrize(spec, "summarize incoming tickets")
	assert.Equal(t, "gpt-4o-mini", node.Parameters["model"])
	assert.Contains(t, node.Parameters["prompt"], "summarize incoming tickets")
}

func TestParametrize_ParametersNeverEmpty(t *testing.T) {
	t.Parallel()

	// A type with no extraction rules and no template defaults still gets a
	// non-empty parameter set.
	spec := catalog.NodeSpec{Name: "Mystery", Type: "custom.mystery"}

	node := Parametrize(spec, "")
	require.NotEmpty(t, node.Parameters)
	assert.Equal(t, "auto-generated", node.Parameters["notes"])
}

func TestParametrize_TemplateDefaultsPreserved(t *testing.T) {
	t.Parallel()

	spec := catalog.NodeSpec{
		Name:       "Webhook",
		Type:       models.NodeTypeWebhook,
		Parameters: map[string]any{"path": "/notify", "httpMethod": "POST"},
	}

	node := Parametrize(spec, "whatever the request says")
	assert.Equal(t, "/notify", node.Parameters["path"])
	assert.Equal(t, "POST", node.Parameters["httpMethod"])

	// The blueprint map itself must not be mutated.
	assert.Len(t, spec.Parameters, 2)
}
