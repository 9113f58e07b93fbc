package engine

import (
	"github.com/wardroplab/congestion-sim/pkg/network"
	"github.com/wardroplab/congestion-sim/pkg/solver"
)

// buildResult shapes one solver outcome into the reporting form: per-edge
// flow/cost/congestion (+tolls for the system optimum), per-path flows,
// the total system cost, and the realized cost per OD pair. All costs here
// are average travel times at the final flows, whichever objective the
// solve minimized.
func buildResult(idx *network.Indexed, res *solver.Result, tolls map[string]float64) EquilibriumResult {
	avgCosts := make([]float64, len(idx.Edges))
	var maxFlow, totalCost float64
	for e, edge := range idx.Edges {
		avgCosts[e] = edge.Cost.Cost(res.Flows[e])
		totalCost += res.Flows[e] * avgCosts[e]
		if res.Flows[e] > maxFlow {
			maxFlow = res.Flows[e]
		}
	}

	edgeResults := make([]EdgeResult, len(idx.Edges))
	for e, edge := range idx.Edges {
		edgeResults[e] = EdgeResult{
			ID:              edge.ID,
			Flow:            res.Flows[e],
			Cost:            avgCosts[e],
			Toll:            tolls[edge.ID],
			CongestionLevel: edge.Cost.CongestionLevel(res.Flows[e], maxFlow),
		}
	}

	pathFlows := make([]PathFlow, len(res.PathFlows))
	for i, p := range res.PathFlows {
		pathFlows[i] = PathFlow{Path: p.Nodes, Edges: p.Edges, Flow: p.Flow}
	}

	return EquilibriumResult{
		EdgeResults:     edgeResults,
		PathFlows:       pathFlows,
		TotalSystemCost: totalCost,
		ODCosts:         odCosts(idx, res.PathFlows, avgCosts),
		Converged:       res.Converged,
		Iterations:      res.Iterations,
	}
}

// odCosts computes the realized travel cost per OD pair: the flow-weighted
// average cost over the pair's used paths, or the shortest-path cost at
// the final flows when the pair carries no flow (zero demand).
func odCosts(idx *network.Indexed, paths []solver.PathFlow, avgCosts []float64) map[string]float64 {
	type acc struct {
		flow     float64
		weighted float64
	}
	byOD := make(map[string]*acc)
	for _, p := range paths {
		if len(p.Nodes) == 0 {
			continue
		}
		key := p.Nodes[0] + "->" + p.Nodes[len(p.Nodes)-1]
		a := byOD[key]
		if a == nil {
			a = &acc{}
			byOD[key] = a
		}
		var cost float64
		for _, id := range p.Edges {
			cost += avgCosts[idx.EdgeIndex[id]]
		}
		a.flow += p.Flow
		a.weighted += p.Flow * cost
	}

	costs := make(map[string]float64, len(idx.Pairs))
	for _, pair := range idx.Pairs {
		key := pair.Key()
		if a, ok := byOD[key]; ok && a.flow > 0 {
			costs[key] = a.weighted / a.flow
			continue
		}
		// No tracked flow for this pair, report its cheapest available cost.
		if cost, ok := solver.ShortestPathCost(idx, avgCosts, pair.Origin, pair.Destination); ok {
			costs[key] = cost
		}
	}
	return costs
}
