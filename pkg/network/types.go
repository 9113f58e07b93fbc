package network

// Node is a network vertex. The solver only cares about the identifier;
// coordinates are carried through for the editing frontend.
type Node struct {
	ID string  `json:"id" validate:"required"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Edge is a directed link between two nodes. Parallel edges between the
// same pair of nodes are allowed and treated independently.
type Edge struct {
	ID     string       `json:"id" validate:"required"`
	Source string       `json:"source" validate:"required"`
	Target string       `json:"target" validate:"required"`
	Cost   CostFunction `json:"cost_function"`
}

// ODPair is an origin-destination demand: Demand units of flow must travel
// from Origin to Destination. Multiple pairs may share endpoints.
type ODPair struct {
	Origin      string  `json:"origin" validate:"required"`
	Destination string  `json:"destination" validate:"required"`
	Demand      float64 `json:"demand" validate:"gte=0"`
}

// Key returns the canonical "origin->destination" label used to key
// per-OD results.
func (p ODPair) Key() string {
	return p.Origin + "->" + p.Destination
}

// Network is the full input to one compute request: topology, cost
// functions and travel demand. It is immutable once handed to a solver.
type Network struct {
	Nodes   []Node   `json:"nodes" validate:"required,min=1,dive"`
	Edges   []Edge   `json:"edges" validate:"required,min=1,dive"`
	ODPairs []ODPair `json:"od_pairs" validate:"required,min=1,dive"`
}
