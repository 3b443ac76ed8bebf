// Package web provides the HTTP handlers for the workflow generation API.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/flowsmith/flowsmith/pkg/services"
)

type APIHandlers struct {
	generationService *services.Generation
	validator         *validator.Validate
}

func NewAPIHandlers(generationService *services.Generation, validator *validator.Validate) *APIHandlers {
	return &APIHandlers{
		generationService: generationService,
		validator:         validator,
	}
}

// GenerateWorkflow turns a natural-language description into a workflow
// document. Validation findings are returned alongside the workflow, never
// withheld: advisory diagnostics, not a gate.
func (h *APIHandlers) GenerateWorkflow(c fiber.Ctx) error {
	var req GenerateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Invalid request: "+err.Error())
	}

	result, err := h.generationService.Generate(c.Context(), services.GenerateRequest{
		Description: req.Description,
		TriggerType: req.TriggerType,
		Complexity:  req.Complexity,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(result)
}

// ValidateWorkflow scores a caller-supplied workflow document.
func (h *APIHandlers) ValidateWorkflow(c fiber.Ctx) error {
	var req ValidateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Invalid request: "+err.Error())
	}

	report, err := h.generationService.Validate(req.Workflow)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(report)
}

// RepairWorkflow regenerates a workflow's connection graph.
func (h *APIHandlers) RepairWorkflow(c fiber.Ctx) error {
	var req RepairWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Invalid request: "+err.Error())
	}

	repaired, err := h.generationService.Repair(c.Context(), req.Workflow, req.Strategy)
	if err != nil {
		return handleServiceError(c, err)
	}

	report, err := h.generationService.Validate(repaired)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflow":   repaired,
		"validation": report,
	})
}

// GetWorkflow serves a previously generated workflow record by id.
func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "workflow id is required")
	}

	record, err := h.generationService.GetWorkflow(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(record)
}

// ListTemplates exposes the static template catalog.
func (h *APIHandlers) ListTemplates(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"templates": h.generationService.Templates(),
	})
}

// DetectFeatures runs the keyword detector without generating, so clients
// can preview what a description would produce.
func (h *APIHandlers) DetectFeatures(c fiber.Ctx) error {
	var req DetectFeaturesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Invalid request: "+err.Error())
	}

	detected := h.generationService.DetectFeatures(req.Text)

	return c.JSON(fiber.Map{
		"features": detected,
		"count":    len(detected),
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"message":   "Flowsmith API is healthy",
		"timestamp": time.Now().UTC(),
	})
}
