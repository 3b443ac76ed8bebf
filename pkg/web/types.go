package web

import "github.com/flowsmith/flowsmith/pkg/models"

// Input bounds for generation requests. Anything shorter than the minimum
// cannot carry enough signal for feature detection, so it is rejected here
// rather than silently producing the generic template.
const (
	MinDescriptionLength = 15
	MaxDescriptionLength = 2000
)

// GenerateWorkflowRequest is the payload for POST /workflows/generate.
type GenerateWorkflowRequest struct {
	Description string `json:"description"  validate:"required,min=15,max=2000"`
	TriggerType string `json:"trigger_type" validate:"omitempty,oneof=webhook schedule manual"`
	Complexity  string `json:"complexity"   validate:"omitempty,oneof=simple medium complex"`
}

// ValidateWorkflowRequest is the payload for POST /workflows/validate.
type ValidateWorkflowRequest struct {
	Workflow *models.Workflow `json:"workflow" validate:"required"`
}

// RepairWorkflowRequest is the payload for POST /workflows/repair.
type RepairWorkflowRequest struct {
	Workflow *models.Workflow `json:"workflow" validate:"required"`
	Strategy string           `json:"strategy" validate:"omitempty,oneof=sequential type_aware"`
}

// DetectFeaturesRequest is the payload for POST /features/detect.
type DetectFeaturesRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}
