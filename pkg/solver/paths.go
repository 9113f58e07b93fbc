package solver

import (
	"sort"
	"strings"

	"github.com/wardroplab/congestion-sim/pkg/network"
)

// pruneThreshold drops tracked paths whose flow has decayed to noise,
// bounding tracker memory over long solves.
const pruneThreshold = 1e-9

// PathFlow is one distinct route carrying positive flow in a solution.
// Paths are identified by their edge sequence: two routes over the same
// edges are the same path.
type PathFlow struct {
	Nodes []string
	Edges []string
	Flow  float64
}

// pathTracker reconstructs per-path flow from the aggregate edge flow the
// Frank-Wolfe iteration maintains. Each step scales every tracked path by
// (1-lambda), mirroring the decay of previously assigned flow, then adds
// lambda*demand to the step's shortest path per OD pair.
type pathTracker struct {
	entries map[string]*PathFlow
}

func newPathTracker() *pathTracker {
	return &pathTracker{entries: make(map[string]*PathFlow)}
}

// pathKey is the canonical identity of a path: its edge ids in order.
func pathKey(net *network.Indexed, edges []int) string {
	ids := make([]string, len(edges))
	for i, ei := range edges {
		ids[i] = net.Edges[ei].ID
	}
	return strings.Join(ids, "|")
}

// assign applies one Frank-Wolfe step to the tracker. The initial
// all-or-nothing assignment is the same operation with lambda = 1.
func (t *pathTracker) assign(net *network.Indexed, lambda float64, paths []odPath) {
	decay := 1 - lambda
	for key, entry := range t.entries {
		entry.Flow *= decay
		if entry.Flow < pruneThreshold {
			delete(t.entries, key)
		}
	}

	for i, p := range paths {
		demand := net.Pairs[i].Demand
		if demand == 0 {
			continue
		}
		key := pathKey(net, p.edges)
		entry, ok := t.entries[key]
		if !ok {
			entry = &PathFlow{
				Nodes: pathNodes(net, net.Pairs[i].Origin, p.edges),
				Edges: strings.Split(key, "|"),
			}
			if key == "" {
				entry.Edges = []string{}
			}
			t.entries[key] = entry
		}
		entry.Flow += lambda * demand
	}
}

// pathNodes expands an edge sequence into the node sequence it visits.
func pathNodes(net *network.Indexed, origin string, edges []int) []string {
	nodes := make([]string, 0, len(edges)+1)
	nodes = append(nodes, origin)
	for _, ei := range edges {
		nodes = append(nodes, net.Edges[ei].Target)
	}
	return nodes
}

// flows returns the tracked paths with flow above the prune threshold,
// ordered by their canonical key so output is stable run to run.
func (t *pathTracker) flows() []PathFlow {
	keys := make([]string, 0, len(t.entries))
	for key, entry := range t.entries {
		if entry.Flow >= pruneThreshold {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	out := make([]PathFlow, 0, len(keys))
	for _, key := range keys {
		out = append(out, *t.entries[key])
	}
	return out
}
