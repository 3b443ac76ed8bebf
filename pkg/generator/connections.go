package generator

import "github.com/flowsmith/flowsmith/pkg/models"

// BuildConnections wires the ordered node list into a single linear chain:
// every node except the last gets exactly one outgoing "main" edge to its
// successor, so N nodes always yield N-1 connections. Conditional nodes are
// wired the same way; branching topologies are not synthesized.
//
// 0 or 1 node yields an empty map.
func BuildConnections(nodes []*models.Node) models.ConnectionMap {
	connections := make(models.ConnectionMap)

	for i := 0; i+1 < len(nodes); i++ {
		connections[nodes[i].Name] = models.NewMainConnection(nodes[i+1].Name)
	}

	return connections
}
