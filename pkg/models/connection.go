package models

// PortKindMain is the only port kind the generator produces. The nested
// list-of-list shape exists to support fan-out, but every generated workflow
// carries exactly one outgoing edge per source.
const PortKindMain = "main"

// ConnectionTarget is one destination descriptor of a directed edge.
type ConnectionTarget struct {
	Node  string `json:"node"  validate:"required"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// NodeConnections holds the outgoing edges of a single source node, grouped
// by port kind. Only "main" is ever populated.
type NodeConnections struct {
	Main [][]ConnectionTarget `json:"main"`
}

// ConnectionMap is the workflow connection graph, keyed by source node name.
// Keying by display name instead of ID is a wire-format constraint of the
// downstream automation tool.
type ConnectionMap map[string]NodeConnections

// NewMainConnection builds a single-edge connection entry to the target node.
func NewMainConnection(targetName string) NodeConnections {
	return NodeConnections{
		Main: [][]ConnectionTarget{
			{
				{Node: targetName, Type: PortKindMain, Index: 0},
			},
		},
	}
}

// Targets flattens all destination descriptors of the entry.
func (nc NodeConnections) Targets() []ConnectionTarget {
	targets := make([]ConnectionTarget, 0, len(nc.Main))
	for _, group := range nc.Main {
		targets = append(targets, group...)
	}

	return targets
}

// FirstTarget returns the first destination name, or "" when the entry is empty.
func (nc NodeConnections) FirstTarget() string {
	for _, group := range nc.Main {
		for _, target := range group {
			return target.Node
		}
	}

	return ""
}
