package network

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolynomialCost(t *testing.T) {
	linear := CostFunction{Type: FunctionPolynomial, A: 1, K: 1, B: 10}
	assert.Equal(t, 10.0, linear.Cost(0))
	assert.Equal(t, 20.0, linear.Cost(10))

	quadratic := CostFunction{Type: FunctionPolynomial, A: 2, K: 2, B: 1}
	assert.Equal(t, 1.0, quadratic.Cost(0))
	assert.Equal(t, 9.0, quadratic.Cost(2))

	constant := CostFunction{Type: FunctionPolynomial, A: 0, K: 0, B: 5}
	assert.Equal(t, 5.0, constant.Cost(0))
	assert.Equal(t, 5.0, constant.Cost(100))
}

func TestPolynomialDerivative(t *testing.T) {
	linear := CostFunction{Type: FunctionPolynomial, A: 3, K: 1, B: 10}
	// Slope at the origin for k=1 is a
	assert.Equal(t, 3.0, linear.Derivative(0))
	assert.Equal(t, 3.0, linear.Derivative(7))

	quadratic := CostFunction{Type: FunctionPolynomial, A: 2, K: 2, B: 0}
	assert.Equal(t, 0.0, quadratic.Derivative(0))
	assert.Equal(t, 12.0, quadratic.Derivative(3))

	constant := CostFunction{Type: FunctionPolynomial, A: 4, K: 0, B: 5}
	assert.Equal(t, 0.0, constant.Derivative(0))
	assert.Equal(t, 0.0, constant.Derivative(9))
}

// Fractional exponents must not blow up at zero flow; the derivative term
// is clamped to zero there.
func TestFractionalExponentAtZeroFlow(t *testing.T) {
	frac := CostFunction{Type: FunctionPolynomial, A: 1, K: 0.5, B: 0}
	d := frac.Derivative(0)
	assert.False(t, math.IsInf(d, 0) || math.IsNaN(d))
	assert.Equal(t, 0.0, d)

	bpr := CostFunction{Type: FunctionBPR, FreeFlowTime: 1, Capacity: 1, Alpha: 0.15, Beta: 0.5}
	d = bpr.Derivative(0)
	assert.False(t, math.IsInf(d, 0) || math.IsNaN(d))
	assert.Equal(t, 0.0, d)
}

func TestBPRCost(t *testing.T) {
	bpr := CostFunction{Type: FunctionBPR, FreeFlowTime: 10, Capacity: 100, Alpha: 0.15, Beta: 4}

	assert.Equal(t, 10.0, bpr.Cost(0))
	// At capacity: T0 * (1 + alpha)
	assert.InDelta(t, 11.5, bpr.Cost(100), 1e-12)
	// t'(f) = T0*alpha*beta*(f/C)^(beta-1)/C
	assert.InDelta(t, 10*0.15*4/100, bpr.Derivative(100), 1e-12)
}

func TestMarginalCost(t *testing.T) {
	linear := CostFunction{Type: FunctionPolynomial, A: 1, K: 1, B: 0}
	// m(f) = t(f) + f*t'(f) = 2f for t(f) = f
	assert.Equal(t, 0.0, linear.Marginal(0))
	assert.Equal(t, 6.0, linear.Marginal(3))
}

func TestIntegral(t *testing.T) {
	linear := CostFunction{Type: FunctionPolynomial, A: 1, K: 1, B: 10}
	// integral of f+10 from 0 to 4 is 8 + 40
	assert.InDelta(t, 48.0, linear.Integral(4), 1e-12)

	bpr := CostFunction{Type: FunctionBPR, FreeFlowTime: 1, Capacity: 1, Alpha: 0.15, Beta: 4}
	// T0*f + T0*alpha*f^5/5 at f=1
	assert.InDelta(t, 1+0.15/5, bpr.Integral(1), 1e-12)
}

func TestCongestionLevel(t *testing.T) {
	bpr := CostFunction{Type: FunctionBPR, FreeFlowTime: 1, Capacity: 50, Alpha: 0.15, Beta: 4}
	assert.InDelta(t, 0.5, bpr.CongestionLevel(25, 1000), 1e-12)
	// Capped at 1 beyond capacity
	assert.Equal(t, 1.0, bpr.CongestionLevel(80, 1000))

	poly := CostFunction{Type: FunctionPolynomial, A: 1, K: 1}
	assert.InDelta(t, 0.25, poly.CongestionLevel(25, 100), 1e-12)
	assert.Equal(t, 0.0, poly.CongestionLevel(0, 0))
}

func TestCheckParams(t *testing.T) {
	valid := CostFunction{Type: FunctionPolynomial, A: 1, K: 2, B: 3}
	require.NoError(t, valid.CheckParams())

	// Empty type defaults to polynomial
	require.NoError(t, CostFunction{A: 1, K: 1}.CheckParams())

	negative := CostFunction{Type: FunctionPolynomial, A: -1, K: 1}
	require.Error(t, negative.CheckParams())

	nan := CostFunction{Type: FunctionPolynomial, A: math.NaN(), K: 1}
	require.Error(t, nan.CheckParams())

	zeroCapacity := CostFunction{Type: FunctionBPR, FreeFlowTime: 1, Capacity: 0, Alpha: 0.15, Beta: 4}
	require.Error(t, zeroCapacity.CheckParams())

	infinite := CostFunction{Type: FunctionBPR, FreeFlowTime: math.Inf(1), Capacity: 1}
	require.Error(t, infinite.CheckParams())

	unknown := CostFunction{Type: "spline"}
	require.Error(t, unknown.CheckParams())
}
