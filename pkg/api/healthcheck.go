package api

import (
	"context"
	"fmt"
	"time"

	"github.com/wardroplab/congestion-sim/pkg/health"
	"github.com/wardroplab/congestion-sim/pkg/network"
)

// solverCheck runs a miniature two-route solve so /health exercises the
// full solver path, not just process liveness.
func (s *Server) solverCheck() health.Check {
	net := &network.Network{
		Nodes: []network.Node{{ID: "a"}, {ID: "b"}},
		Edges: []network.Edge{
			{ID: "e1", Source: "a", Target: "b",
				Cost: network.CostFunction{Type: network.FunctionPolynomial, A: 0, K: 0, B: 1}},
			{ID: "e2", Source: "a", Target: "b",
				Cost: network.CostFunction{Type: network.FunctionPolynomial, A: 1, K: 1, B: 0}},
		},
		ODPairs: []network.ODPair{{Origin: "a", Destination: "b", Demand: 1}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := s.engine.Compute(ctx, net)
	if err != nil {
		return health.Check{Status: health.StatusUnhealthy, Message: err.Error()}
	}
	if !result.WardropEquilibrium.Converged || !result.SystemOptimum.Converged {
		return health.Check{Status: health.StatusDegraded, Message: "reference solve did not converge"}
	}
	return health.Check{
		Status:  health.StatusHealthy,
		Message: fmt.Sprintf("reference solve ok, PoA=%.4f", result.PriceOfAnarchy),
	}
}
