package solver

import (
	"fmt"
	"sync"

	"github.com/wardroplab/congestion-sim/pkg/network"
	"github.com/wardroplab/congestion-sim/pkg/parallel"
)

// odPath is the shortest path chosen for one OD pair during an
// all-or-nothing step, together with its cost under the step's weighting.
type odPath struct {
	edges []int
	cost  float64
}

// aonResult is one all-or-nothing assignment: the auxiliary flow vector
// with each pair's entire demand on its shortest path, the chosen path per
// pair, and the shortest-path cost per pair (the lower-bound side of the
// relative-gap test).
type aonResult struct {
	flows []float64
	paths []odPath
}

// allOrNothing routes every OD pair's full demand along its shortest path
// under the given edge costs. OD pairs sharing an origin reuse one
// shortest-path tree; trees for distinct origins are computed on the
// worker pool. Connectivity is checked by the validator before solving, so
// a missing path here is an internal error.
func allOrNothing(net *network.Indexed, costs []float64, pool *parallel.WorkerPool) (*aonResult, error) {
	origins := make([]string, 0, len(net.Pairs))
	seen := make(map[string]bool, len(net.Pairs))
	for _, p := range net.Pairs {
		if !seen[p.Origin] {
			seen[p.Origin] = true
			origins = append(origins, p.Origin)
		}
	}

	trees := make(map[string]*spTree, len(origins))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, origin := range origins {
		origin := origin
		wg.Add(1)
		task := func() {
			defer wg.Done()
			tree := dijkstraFrom(net, costs, origin)
			mu.Lock()
			trees[origin] = tree
			mu.Unlock()
		}
		if pool == nil || !pool.Submit(task) {
			task()
		}
	}
	wg.Wait()

	res := &aonResult{
		flows: make([]float64, len(net.Edges)),
		paths: make([]odPath, len(net.Pairs)),
	}
	for i, p := range net.Pairs {
		edges, cost, ok := trees[p.Origin].pathTo(net, p.Destination)
		if !ok {
			return nil, fmt.Errorf("no path for OD pair %s", p.Key())
		}
		res.paths[i] = odPath{edges: edges, cost: cost}
		for _, ei := range edges {
			res.flows[ei] += p.Demand
		}
	}
	return res, nil
}

// lowerBound is the demand-weighted shortest-path cost of an assignment,
// the traffic-theoretic lower bound on the current objective value.
func (r *aonResult) lowerBound(pairs []network.ODPair) float64 {
	var total float64
	for i, p := range pairs {
		total += p.Demand * r.paths[i].cost
	}
	return total
}
