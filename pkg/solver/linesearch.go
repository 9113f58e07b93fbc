package solver

import (
	"math"

	"github.com/wardroplab/congestion-sim/pkg/network"
)

// dirDerivative evaluates the derivative of the 1-D objective along
// f + lambda*d:
//
//	phi'(lambda) = sum_e d_e * c_e(f_e + lambda*d_e)
//
// where c is the objective-defining cost (average cost for the user
// equilibrium, marginal cost for the system optimum). Because every c_e is
// non-decreasing, phi' is monotone in lambda.
func dirDerivative(edges []network.Edge, objective Objective, f, d []float64, lambda float64) float64 {
	var sum float64
	for e := range edges {
		if d[e] == 0 {
			continue
		}
		flow := f[e] + lambda*d[e]
		if flow < 0 {
			flow = 0
		}
		sum += d[e] * objective.cost(edges[e].Cost, flow)
	}
	return sum
}

// lineSearch picks the step size in [0, 1] minimizing the objective along
// the descent direction, by bisection on the monotone derivative. When no
// finite bracket exists (degenerate all-zero-demand inputs) it falls back
// to the averaging step 2/(iter+2).
func lineSearch(edges []network.Edge, objective Objective, f, d []float64, iter int, tol float64) float64 {
	g0 := dirDerivative(edges, objective, f, d, 0)
	g1 := dirDerivative(edges, objective, f, d, 1)
	if math.IsNaN(g0) || math.IsNaN(g1) || math.IsInf(g0, 0) || math.IsInf(g1, 0) {
		return 2 / float64(iter+2)
	}
	if g0 >= 0 {
		return 0
	}
	if g1 <= 0 {
		return 1
	}

	lo, hi := 0.0, 1.0
	for hi-lo > tol {
		mid := (lo + hi) / 2
		if dirDerivative(edges, objective, f, d, mid) > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return (lo + hi) / 2
}
