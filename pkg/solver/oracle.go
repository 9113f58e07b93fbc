package solver

import (
	"github.com/wardroplab/congestion-sim/pkg/network"
)

// ShortestPath returns the minimum-cost path from origin to destination
// under the given per-edge costs, as an edge-id sequence plus its cost.
// ok is false when no directed path exists.
func ShortestPath(net *network.Indexed, costs []float64, origin, destination string) ([]string, float64, bool) {
	tree := dijkstraFrom(net, costs, origin)
	edges, cost, ok := tree.pathTo(net, destination)
	if !ok {
		return nil, 0, false
	}
	ids := make([]string, len(edges))
	for i, ei := range edges {
		ids[i] = net.Edges[ei].ID
	}
	return ids, cost, true
}

// ShortestPathCost is ShortestPath without the path reconstruction.
func ShortestPathCost(net *network.Indexed, costs []float64, origin, destination string) (float64, bool) {
	tree := dijkstraFrom(net, costs, origin)
	cost, ok := tree.dist[destination]
	return cost, ok
}
