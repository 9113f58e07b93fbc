package network

import (
	"fmt"
	"sort"
)

// Indexed is the solver-ready view of a Network: edges in a stable order
// with dense indices, adjacency lists, and a node set. The stable edge
// order (lexicographic by edge id) is what makes shortest-path
// tie-breaking, and therefore whole solves, reproducible.
type Indexed struct {
	Edges     []Edge            // sorted lexicographically by ID
	EdgeIndex map[string]int    // edge ID -> position in Edges
	Out       map[string][]int  // node ID -> outgoing edge indices, in Edges order
	NodeIDs   map[string]struct{}
	Pairs     []ODPair
}

// Index builds the solver view. It fails on duplicate identifiers and on
// edges referencing undeclared nodes; full structural validation lives in
// the validation package.
func (n *Network) Index() (*Indexed, error) {
	idx := &Indexed{
		Edges:     make([]Edge, len(n.Edges)),
		EdgeIndex: make(map[string]int, len(n.Edges)),
		Out:       make(map[string][]int, len(n.Nodes)),
		NodeIDs:   make(map[string]struct{}, len(n.Nodes)),
		Pairs:     n.ODPairs,
	}

	for _, node := range n.Nodes {
		if _, dup := idx.NodeIDs[node.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %q", node.ID)
		}
		idx.NodeIDs[node.ID] = struct{}{}
	}

	copy(idx.Edges, n.Edges)
	sort.Slice(idx.Edges, func(i, j int) bool { return idx.Edges[i].ID < idx.Edges[j].ID })

	for i, e := range idx.Edges {
		if _, dup := idx.EdgeIndex[e.ID]; dup {
			return nil, fmt.Errorf("duplicate edge id %q", e.ID)
		}
		if _, ok := idx.NodeIDs[e.Source]; !ok {
			return nil, fmt.Errorf("edge %q references unknown source node %q", e.ID, e.Source)
		}
		if _, ok := idx.NodeIDs[e.Target]; !ok {
			return nil, fmt.Errorf("edge %q references unknown target node %q", e.ID, e.Target)
		}
		idx.EdgeIndex[e.ID] = i
		idx.Out[e.Source] = append(idx.Out[e.Source], i)
	}

	return idx, nil
}

// TotalDemand sums the demand over all OD pairs.
func (x *Indexed) TotalDemand() float64 {
	var total float64
	for _, p := range x.Pairs {
		total += p.Demand
	}
	return total
}
