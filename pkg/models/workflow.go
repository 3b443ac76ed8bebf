package models

// Complexity is a coarse size classification used to bias template selection
// and reported by the validator.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// ParseComplexity normalizes a requested complexity band, defaulting to medium.
func ParseComplexity(value string) Complexity {
	switch Complexity(value) {
	case ComplexitySimple, ComplexityMedium, ComplexityComplex:
		return Complexity(value)
	default:
		return ComplexityMedium
	}
}

// ComplexityForNodeCount computes the band a node count falls into.
func ComplexityForNodeCount(count int) Complexity {
	switch {
	case count <= 3:
		return ComplexitySimple
	case count <= 6:
		return ComplexityMedium
	default:
		return ComplexityComplex
	}
}

// Workflow is the top-level generated artifact. Node order is the intended
// execution order for the default linear case. The JSON shape must stay
// bit-compatible with the downstream automation tool.
type Workflow struct {
	Name        string         `json:"name"        validate:"required,min=3"`
	Nodes       []*Node        `json:"nodes"       validate:"required,min=1"`
	Connections ConnectionMap  `json:"connections"`
	Active      bool           `json:"active"`
	Settings    map[string]any `json:"settings"`
	Tags        []string       `json:"tags"`
}

// NewWorkflow creates a workflow with non-nil collections.
func NewWorkflow(name string, nodes []*Node) *Workflow {
	return &Workflow{
		Name:        name,
		Nodes:       nodes,
		Connections: ConnectionMap{},
		Settings:    map[string]any{},
		Tags:        []string{},
	}
}

// NodeByName returns the node with the given display name, or nil.
func (w *Workflow) NodeByName(name string) *Node {
	for _, node := range w.Nodes {
		if node.Name == name {
			return node
		}
	}

	return nil
}

// NodeNames returns display names in node order.
func (w *Workflow) NodeNames() []string {
	names := make([]string, 0, len(w.Nodes))
	for _, node := range w.Nodes {
		names = append(names, node.Name)
	}

	return names
}

// NodesByCategory returns the workflow nodes matching the category, preserving order.
func (w *Workflow) NodesByCategory(category CategoryType) []*Node {
	matched := make([]*Node, 0, len(w.Nodes))

	for _, node := range w.Nodes {
		if node.Category() == category {
			matched = append(matched, node)
		}
	}

	return matched
}

// Complexity computes the workflow's complexity band from its node count.
func (w *Workflow) Complexity() Complexity {
	return ComplexityForNodeCount(len(w.Nodes))
}

// Clone returns a deep copy; the repair utility mutates copies, never inputs.
func (w *Workflow) Clone() *Workflow {
	clone := &Workflow{
		Name:        w.Name,
		Active:      w.Active,
		Nodes:       make([]*Node, 0, len(w.Nodes)),
		Connections: make(ConnectionMap, len(w.Connections)),
		Settings:    make(map[string]any, len(w.Settings)),
		Tags:        append([]string{}, w.Tags...),
	}

	for _, node := range w.Nodes {
		nodeCopy := *node
		nodeCopy.Parameters = make(map[string]any, len(node.Parameters))

		for k, v := range node.Parameters {
			nodeCopy.Parameters[k] = v
		}

		clone.Nodes = append(clone.Nodes, &nodeCopy)
	}

	for source, entry := range w.Connections {
		main := make([][]ConnectionTarget, 0, len(entry.Main))
		for _, group := range entry.Main {
			main = append(main, append([]ConnectionTarget{}, group...))
		}

		clone.Connections[source] = NodeConnections{Main: main}
	}

	for k, v := range w.Settings {
		clone.Settings[k] = v
	}

	return clone
}
