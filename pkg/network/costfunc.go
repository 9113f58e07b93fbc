package network

import (
	"fmt"
	"math"
)

// FunctionType selects the cost-function variant of an edge.
type FunctionType string

const (
	// FunctionPolynomial is t(f) = a*f^k + b.
	FunctionPolynomial FunctionType = "polynomial"
	// FunctionBPR is the Bureau of Public Roads curve
	// t(f) = T0 * (1 + alpha*(f/C)^beta).
	FunctionBPR FunctionType = "bpr"
)

// CostFunction holds the parameters of an edge travel-time function.
// The variant is selected by Type; an empty Type means polynomial.
type CostFunction struct {
	Type FunctionType `json:"function_type"`

	// Polynomial parameters: t(f) = A*f^K + B.
	A float64 `json:"a"`
	K float64 `json:"k"`
	B float64 `json:"b"`

	// BPR parameters: t(f) = FreeFlowTime * (1 + Alpha*(f/Capacity)^Beta).
	FreeFlowTime float64 `json:"free_flow_time"`
	Capacity     float64 `json:"capacity"`
	Alpha        float64 `json:"alpha"`
	Beta         float64 `json:"beta"`
}

// isBPR reports whether the BPR variant applies.
func (c CostFunction) isBPR() bool {
	return c.Type == FunctionBPR
}

// Cost evaluates the travel time t(f) at flow f >= 0.
// f^0 is taken as 1, including at f = 0.
func (c CostFunction) Cost(f float64) float64 {
	if c.isBPR() {
		if c.Capacity <= 0 {
			return c.FreeFlowTime
		}
		return c.FreeFlowTime * (1 + c.Alpha*math.Pow(f/c.Capacity, c.Beta))
	}
	return c.A*math.Pow(f, c.K) + c.B
}

// powerSlope evaluates f^(k-1) with the conventions the derivative needs:
// at f = 0 the term is 1 for k = 1 (slope at the origin) and clamped to 0
// for every other exponent, so fractional exponents never raise a domain
// error at zero flow.
func powerSlope(f, k float64) float64 {
	if f == 0 {
		if k == 1 {
			return 1
		}
		return 0
	}
	return math.Pow(f, k-1)
}

// Derivative evaluates t'(f), the flow-derivative of the travel time.
func (c CostFunction) Derivative(f float64) float64 {
	if c.isBPR() {
		if c.Capacity <= 0 {
			return 0
		}
		return c.FreeFlowTime * c.Alpha * c.Beta * powerSlope(f/c.Capacity, c.Beta) / c.Capacity
	}
	if c.K == 0 {
		return 0
	}
	return c.A * c.K * powerSlope(f, c.K)
}

// Marginal evaluates the marginal cost m(f) = t(f) + f*t'(f): the rate at
// which the total cost on the edge grows with one more unit of flow.
func (c CostFunction) Marginal(f float64) float64 {
	return c.Cost(f) + f*c.Derivative(f)
}

// Integral evaluates the Beckmann term, the integral of t from 0 to f.
func (c CostFunction) Integral(f float64) float64 {
	if c.isBPR() {
		if c.Capacity <= 0 {
			return c.FreeFlowTime * f
		}
		return c.FreeFlowTime*f +
			c.FreeFlowTime*c.Alpha*math.Pow(f, c.Beta+1)/((c.Beta+1)*math.Pow(c.Capacity, c.Beta))
	}
	return c.A*math.Pow(f, c.K+1)/(c.K+1) + c.B*f
}

// CongestionLevel maps a flow to [0, 1] for display. BPR edges use their
// capacity; other edges are normalized against the largest edge flow in
// the result (maxFlow), which is only a display proxy.
func (c CostFunction) CongestionLevel(f, maxFlow float64) float64 {
	practical := maxFlow
	if c.isBPR() && c.Capacity > 0 {
		practical = c.Capacity
	}
	if practical <= 0 {
		return 0
	}
	return math.Min(1, f/practical)
}

// CheckParams reports whether the parameters lie in the admissible range:
// every value finite, capacity strictly positive for BPR, and coefficients
// non-negative so that t is non-negative and non-decreasing on f >= 0.
func (c CostFunction) CheckParams() error {
	switch c.Type {
	case FunctionBPR:
		for name, v := range map[string]float64{
			"free_flow_time": c.FreeFlowTime,
			"capacity":       c.Capacity,
			"alpha":          c.Alpha,
			"beta":           c.Beta,
		} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("bpr parameter %s is not finite", name)
			}
		}
		if c.Capacity <= 0 {
			return fmt.Errorf("bpr capacity must be positive, got %g", c.Capacity)
		}
		if c.FreeFlowTime < 0 || c.Alpha < 0 || c.Beta < 0 {
			return fmt.Errorf("bpr parameters must be non-negative")
		}
	case FunctionPolynomial, "":
		for name, v := range map[string]float64{"a": c.A, "k": c.K, "b": c.B} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("polynomial coefficient %s is not finite", name)
			}
		}
		if c.A < 0 || c.K < 0 || c.B < 0 {
			return fmt.Errorf("polynomial coefficients must be non-negative")
		}
	default:
		return fmt.Errorf("unknown cost function type %q", c.Type)
	}
	return nil
}
