package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNet() *Network {
	cf := CostFunction{Type: FunctionPolynomial, A: 1, K: 1}
	return &Network{
		Nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []Edge{
			{ID: "e3", Source: "b", Target: "c", Cost: cf},
			{ID: "e1", Source: "a", Target: "b", Cost: cf},
			{ID: "e2", Source: "a", Target: "c", Cost: cf},
		},
		ODPairs: []ODPair{{Origin: "a", Destination: "c", Demand: 4}},
	}
}

func TestIndexSortsEdgesByID(t *testing.T) {
	idx, err := testNet().Index()
	require.NoError(t, err)

	require.Len(t, idx.Edges, 3)
	assert.Equal(t, "e1", idx.Edges[0].ID)
	assert.Equal(t, "e2", idx.Edges[1].ID)
	assert.Equal(t, "e3", idx.Edges[2].ID)

	assert.Equal(t, 0, idx.EdgeIndex["e1"])
	assert.Equal(t, 2, idx.EdgeIndex["e3"])

	// Adjacency lists follow the sorted edge order.
	assert.Equal(t, []int{0, 1}, idx.Out["a"])
	assert.Equal(t, []int{2}, idx.Out["b"])
	assert.Empty(t, idx.Out["c"])
}

func TestIndexRejectsDuplicates(t *testing.T) {
	n := testNet()
	n.Nodes = append(n.Nodes, Node{ID: "a"})
	_, err := n.Index()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate node id "a"`)

	n = testNet()
	n.Edges = append(n.Edges, Edge{ID: "e1", Source: "a", Target: "b"})
	_, err = n.Index()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate edge id "e1"`)
}

func TestIndexRejectsUnknownEndpoints(t *testing.T) {
	n := testNet()
	n.Edges[0].Target = "ghost"
	_, err := n.Index()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target node")
}

func TestTotalDemand(t *testing.T) {
	n := testNet()
	n.ODPairs = append(n.ODPairs, ODPair{Origin: "a", Destination: "b", Demand: 2.5})

	idx, err := n.Index()
	require.NoError(t, err)
	assert.Equal(t, 6.5, idx.TotalDemand())
}

func TestODPairKey(t *testing.T) {
	assert.Equal(t, "a->c", ODPair{Origin: "a", Destination: "c"}.Key())
}
