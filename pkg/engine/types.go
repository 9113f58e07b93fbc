package engine

// EdgeResult is the per-edge outcome of one equilibrium: its flow, the
// travel time at that flow, a [0,1] congestion level for display, and the
// marginal-cost toll (system-optimum results only).
type EdgeResult struct {
	ID              string  `json:"id"`
	Flow            float64 `json:"flow"`
	Cost            float64 `json:"cost"`
	Toll            float64 `json:"toll"`
	CongestionLevel float64 `json:"congestion_level"`
}

// PathFlow is one route carrying positive flow: its node sequence, edge
// sequence, and the flow it carries.
type PathFlow struct {
	Path  []string `json:"path"`
	Edges []string `json:"edges"`
	Flow  float64  `json:"flow"`
}

// EquilibriumResult is one solved assignment. Converged false flags an
// approximate best-so-far result returned after the iteration cap.
type EquilibriumResult struct {
	EdgeResults     []EdgeResult       `json:"edge_results"`
	PathFlows       []PathFlow         `json:"path_flows"`
	TotalSystemCost float64            `json:"total_system_cost"`
	ODCosts         map[string]float64 `json:"od_costs"`
	Converged       bool               `json:"converged"`
	Iterations      int                `json:"iterations"`
}

// ComputeResult pairs the Wardrop equilibrium with the system optimum and
// the efficiency metrics derived from them.
type ComputeResult struct {
	WardropEquilibrium EquilibriumResult  `json:"wardrop_equilibrium"`
	SystemOptimum      EquilibriumResult  `json:"system_optimum"`
	PriceOfAnarchy     float64            `json:"price_of_anarchy"`
	OptimalTolls       map[string]float64 `json:"optimal_tolls"`
}
