// Package repair regenerates the connection graph of workflows whose
// connections are empty or broken. Repair always replaces the connection map
// wholesale and is idempotent: repairing an already well-formed sequential
// workflow reproduces the same chain.
package repair

import (
	"github.com/flowsmith/flowsmith/pkg/generator"
	"github.com/flowsmith/flowsmith/pkg/models"
)

// Strategy selects how the replacement chain is built.
type Strategy string

const (
	// StrategySequential chains nodes in list order.
	StrategySequential Strategy = "sequential"
	// StrategyTypeAware routes triggers to the first processing node, chains
	// processing nodes, and ends at the first output-looking node.
	StrategyTypeAware Strategy = "type_aware"
)

// ParseStrategy normalizes a strategy name, defaulting to sequential.
func ParseStrategy(value string) Strategy {
	if Strategy(value) == StrategyTypeAware {
		return StrategyTypeAware
	}

	return StrategySequential
}

// NeedsRepair reports whether the workflow's connection graph is missing
// entries or references nodes that do not exist.
func NeedsRepair(workflow *models.Workflow) bool {
	if workflow == nil || len(workflow.Nodes) < 2 {
		return false
	}

	if len(workflow.Connections) < len(workflow.Nodes)-1 {
		return true
	}

	for source, entry := range workflow.Connections {
		if workflow.NodeByName(source) == nil {
			return true
		}

		for _, target := range entry.Targets() {
			if workflow.NodeByName(target.Node) == nil {
				return true
			}
		}
	}

	return false
}

// Repair returns a copy of the workflow with a regenerated connection graph.
// Workflows with fewer than 2 nodes are returned unchanged: there is nothing
// to connect.
func Repair(workflow *models.Workflow, strategy Strategy) *models.Workflow {
	repaired := workflow.Clone()
	if len(repaired.Nodes) < 2 {
		return repaired
	}

	switch strategy {
	case StrategyTypeAware:
		repaired.Connections = buildTypeAwareChain(repaired.Nodes)
	case StrategySequential:
		repaired.Connections = generator.BuildConnections(repaired.Nodes)
	default:
		repaired.Connections = generator.BuildConnections(repaired.Nodes)
	}

	return repaired
}

// buildTypeAwareChain wires all triggers into the first processing node,
// chains the processing nodes sequentially, and routes the chain into the
// outputs. When a band is empty the remaining bands are joined directly; if
// the classification collapses entirely, list order wins.
func buildTypeAwareChain(nodes []*models.Node) models.ConnectionMap {
	var triggers, processing, outputs []*models.Node

	for _, node := range nodes {
		switch node.Category() {
		case models.CategoryTypeTrigger:
			triggers = append(triggers, node)
		case models.CategoryTypeOutput:
			outputs = append(outputs, node)
		case models.CategoryTypeProcessing:
			processing = append(processing, node)
		}
	}

	// Everything landed in one band: fall back to list order.
	if len(triggers) == len(nodes) || len(processing) == len(nodes) || len(outputs) == len(nodes) {
		return generator.BuildConnections(nodes)
	}

	connections := make(models.ConnectionMap)

	// Targets after the trigger band: processing first, outputs otherwise.
	downstream := processing
	if len(downstream) == 0 {
		downstream = outputs
	}

	for _, trigger := range triggers {
		connections[trigger.Name] = models.NewMainConnection(downstream[0].Name)
	}

	for i := 0; i+1 < len(processing); i++ {
		connections[processing[i].Name] = models.NewMainConnection(processing[i+1].Name)
	}

	if len(processing) > 0 && len(outputs) > 0 {
		connections[processing[len(processing)-1].Name] = models.NewMainConnection(outputs[0].Name)
	}

	for i := 0; i+1 < len(outputs); i++ {
		connections[outputs[i].Name] = models.NewMainConnection(outputs[i+1].Name)
	}

	return connections
}
