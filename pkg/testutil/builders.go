// Package testutil provides test data builders shared across package tests.
package testutil

import (
	"github.com/google/uuid"

	"github.com/flowsmith/flowsmith/pkg/generator"
	"github.com/flowsmith/flowsmith/pkg/models"
)

// CreateTestNode creates a node with sane defaults that can be overridden.
func CreateTestNode(overrides ...func(*models.Node)) *models.Node {
	node := &models.Node{
		ID:          uuid.New().String(),
		Name:        "Test Node",
		Type:        models.NodeTypeSet,
		TypeVersion: 1,
		Position:    [2]float64{250, 300},
		Parameters:  map[string]any{"mode": "manual"},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithName sets the node name.
func WithName(name string) func(*models.Node) {
	return func(n *models.Node) {
		n.Name = name
	}
}

// WithType sets the node type.
func WithType(nodeType string) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = nodeType
	}
}

// WithParameters sets the node parameters.
func WithParameters(params map[string]any) func(*models.Node) {
	return func(n *models.Node) {
		n.Parameters = params
	}
}

// WithPosition sets the node position.
func WithPosition(x, y float64) func(*models.Node) {
	return func(n *models.Node) {
		n.Position = [2]float64{x, y}
	}
}

// CreateTestWorkflow builds a chained workflow from the given nodes.
func CreateTestWorkflow(name string, nodes ...*models.Node) *models.Workflow {
	workflow := models.NewWorkflow(name, nodes)
	workflow.Connections = generator.BuildConnections(nodes)

	return workflow
}

// CreateDisconnectedWorkflow builds a workflow with no connections at all.
func CreateDisconnectedWorkflow(name string, nodes ...*models.Node) *models.Workflow {
	return models.NewWorkflow(name, nodes)
}
