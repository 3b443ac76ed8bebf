package web_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/flowsmith/flowsmith/pkg/catalog"
	"github.com/flowsmith/flowsmith/pkg/features"
	"github.com/flowsmith/flowsmith/pkg/models"
	"github.com/flowsmith/flowsmith/pkg/services"
	"github.com/flowsmith/flowsmith/pkg/store"
	"github.com/flowsmith/flowsmith/pkg/testutil"
	"github.com/flowsmith/flowsmith/pkg/web"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	library, err := catalog.Load()
	require.NoError(t, err)

	detector, err := features.NewDetector()
	require.NoError(t, err)

	service := services.NewGeneration(
		library,
		detector,
		nil,
		store.NewMemoryStore(),
		nil,
		otel.Tracer("web-test"),
		slog.Default(),
	)

	handlers := web.NewAPIHandlers(service, validator.New(validator.WithRequiredStructEnabled()))

	app := fiber.New()

	w := app.Group("/workflows")
	w.Post("/generate", handlers.GenerateWorkflow)
	w.Post("/validate", handlers.ValidateWorkflow)
	w.Post("/repair", handlers.RepairWorkflow)
	w.Get("/:id", handlers.GetWorkflow)

	app.Get("/templates", handlers.ListTemplates)
	app.Post("/features/detect", handlers.DetectFeatures)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func jsonRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()

	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestGenerateWorkflow_Success(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	req := jsonRequest(t, http.MethodPost, "/workflows/generate", fiber.Map{
		"description":  "Send a Slack notification when a webhook is triggered",
		"trigger_type": "webhook",
		"complexity":   "simple",
	})

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result services.GenerateResult
	decodeBody(t, resp, &result)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "template", result.Source)
	assert.Equal(t, "webhook-to-slack", result.TemplateName)

	require.NotNil(t, result.Workflow)
	assert.Len(t, result.Workflow.Nodes, 2)
	assert.Len(t, result.Workflow.Connections, 1)

	require.NotNil(t, result.Validation)
	assert.True(t, result.Validation.IsValid)
}

func TestGenerateWorkflow_DescriptionTooShort(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	req := jsonRequest(t, http.MethodPost, "/workflows/generate", fiber.Map{
		"description": "too short",
	})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var problem map[string]any
	decodeBody(t, resp, &problem)
	assert.Equal(t, "validation_error", problem["type"])
}

func TestGenerateWorkflow_InvalidTriggerType(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	req := jsonRequest(t, http.MethodPost, "/workflows/generate", fiber.Map{
		"description":  "Send a Slack notification when a webhook is triggered",
		"trigger_type": "carrier-pigeon",
	})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateWorkflow_MalformedBody(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/workflows/generate", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidateWorkflow(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	workflow := testutil.CreateTestWorkflow("Check me",
		testutil.CreateTestNode(
			testutil.WithName("Webhook"),
			testutil.WithType(models.NodeTypeWebhook)),
		testutil.CreateTestNode(
			testutil.WithName("Send Email"),
			testutil.WithType(models.NodeTypeEmailSend),
			testutil.WithPosition(470, 300)),
	)

	req := jsonRequest(t, http.MethodPost, "/workflows/validate", fiber.Map{"workflow": workflow})

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report map[string]any
	decodeBody(t, resp, &report)

	assert.Equal(t, true, report["is_valid"])
	assert.InDelta(t, 95, report["score"], 0.001)
}

func TestValidateWorkflow_MissingWorkflow(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	req := jsonRequest(t, http.MethodPost, "/workflows/validate", fiber.Map{})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRepairWorkflow(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	broken := testutil.CreateDisconnectedWorkflow("Broken",
		testutil.CreateTestNode(
			testutil.WithName("Webhook"),
			testutil.WithType(models.NodeTypeWebhook)),
		testutil.CreateTestNode(
			testutil.WithName("Send Slack Message"),
			testutil.WithType(models.NodeTypeSlack),
			testutil.WithPosition(470, 300)),
	)

	req := jsonRequest(t, http.MethodPost, "/workflows/repair", fiber.Map{
		"workflow": broken,
		"strategy": "sequential",
	})

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Workflow   *models.Workflow `json:"workflow"`
		Validation map[string]any   `json:"validation"`
	}
	decodeBody(t, resp, &body)

	require.NotNil(t, body.Workflow)
	assert.Len(t, body.Workflow.Connections, 1)
	assert.Equal(t, true, body.Validation["is_valid"])
}

func TestGetWorkflow_RoundTrip(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	req := jsonRequest(t, http.MethodPost, "/workflows/generate", fiber.Map{
		"description": "Send a Slack notification when a webhook is triggered",
	})

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result services.GenerateResult
	decodeBody(t, resp, &result)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/workflows/"+result.ID, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var record store.Record
	decodeBody(t, resp, &record)

	assert.Equal(t, result.ID, record.ID)
	assert.Equal(t, "webhook-to-slack", record.TemplateName)
}

func TestGetWorkflow_NotFound(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/workflows/no-such-id", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var problem map[string]any
	decodeBody(t, resp, &problem)
	assert.Equal(t, "not_found", problem["type"])
}

func TestListTemplates(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/templates", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Templates []*catalog.Template `json:"templates"`
	}
	decodeBody(t, resp, &body)

	assert.NotEmpty(t, body.Templates)

	names := make([]string, 0, len(body.Templates))
	for _, template := range body.Templates {
		names = append(names, template.Name)
	}

	assert.Contains(t, names, catalog.GenericTemplateName)
}

func TestDetectFeatures(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	req := jsonRequest(t, http.MethodPost, "/features/detect", fiber.Map{
		"text": "post to #alerts on slack when the webhook fires",
	})

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Features map[string]features.Feature `json:"features"`
		Count    int                         `json:"count"`
	}
	decodeBody(t, resp, &body)

	assert.Equal(t, 2, body.Count)
	assert.Contains(t, body.Features, "slack")
	assert.Contains(t, body.Features, "webhook_trigger")
}

func TestDetectFeatures_RequiresText(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	req := jsonRequest(t, http.MethodPost, "/features/detect", fiber.Map{})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])
}
