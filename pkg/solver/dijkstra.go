package solver

import (
	"container/heap"
	"math"

	"github.com/wardroplab/congestion-sim/pkg/network"
)

// spTree is the single-source shortest-path tree produced by dijkstraFrom:
// for every settled node, the distance from the source and the index of the
// incoming edge on the cheapest path.
type spTree struct {
	source   string
	dist     map[string]float64
	prevEdge map[string]int
}

// pqItem is a heap entry. Stale entries (lazy decrease-key) are skipped on pop.
type pqItem struct {
	node string
	dist float64
}

type nodePQ []pqItem

func (pq nodePQ) Len() int { return len(pq) }

// Less orders by distance; equal distances fall back to the node id so the
// settle order, and with it every tie between equal-cost paths, is
// reproducible across runs.
func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].node < pq[j].node
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x any) { *pq = append(*pq, x.(pqItem)) }

func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// dijkstraFrom computes minimum-cost paths from source to every reachable
// node under the given per-edge costs. Costs must be non-negative, which
// the admissible cost-function parameter ranges guarantee. Adjacency lists
// are iterated in edge-id order and relaxation requires a strict
// improvement, so among equal-cost paths the lexicographically smallest
// edge sequence wins.
func dijkstraFrom(net *network.Indexed, costs []float64, source string) *spTree {
	t := &spTree{
		source:   source,
		dist:     make(map[string]float64, len(net.NodeIDs)),
		prevEdge: make(map[string]int, len(net.NodeIDs)),
	}

	visited := make(map[string]bool, len(net.NodeIDs))
	pq := make(nodePQ, 0, len(net.NodeIDs))

	t.dist[source] = 0
	heap.Push(&pq, pqItem{node: source, dist: 0})

	for pq.Len() > 0 {
		current := heap.Pop(&pq).(pqItem)
		if visited[current.node] {
			continue
		}
		visited[current.node] = true

		for _, ei := range net.Out[current.node] {
			edge := net.Edges[ei]
			next := current.dist + costs[ei]
			if old, seen := t.dist[edge.Target]; !seen || next < old {
				t.dist[edge.Target] = next
				t.prevEdge[edge.Target] = ei
				heap.Push(&pq, pqItem{node: edge.Target, dist: next})
			}
		}
	}

	return t
}

// pathTo reconstructs the edge sequence from the tree source to dest.
// ok is false when dest is unreachable; that is a distinct outcome, not an
// infinite cost.
func (t *spTree) pathTo(net *network.Indexed, dest string) (edges []int, cost float64, ok bool) {
	cost, ok = t.dist[dest]
	if !ok {
		return nil, math.Inf(1), false
	}
	if dest == t.source {
		return []int{}, cost, true
	}

	for node := dest; node != t.source; {
		ei := t.prevEdge[node]
		edges = append(edges, ei)
		node = net.Edges[ei].Source
	}

	// Reverse into source-to-dest order
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return edges, cost, true
}

// Reachable reports whether dest is reachable from the tree's source.
func (t *spTree) Reachable(dest string) bool {
	_, ok := t.dist[dest]
	return ok
}
