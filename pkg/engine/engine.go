package engine

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/wardroplab/congestion-sim/pkg/logging"
	"github.com/wardroplab/congestion-sim/pkg/metrics"
	"github.com/wardroplab/congestion-sim/pkg/network"
	"github.com/wardroplab/congestion-sim/pkg/solver"
	"github.com/wardroplab/congestion-sim/pkg/validation"
)

// Engine computes traffic-assignment equilibria. It is stateless across
// requests: every Compute builds fresh solver state from its input, so
// independent requests can run fully in parallel.
type Engine struct {
	logger  logging.Logger
	metrics *metrics.Registry

	maxIterations       int
	tolerance           float64
	lineSearchTolerance float64
	workers             int
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics sets the metrics registry solve outcomes are recorded to.
func WithMetrics(r *metrics.Registry) Option {
	return func(e *Engine) { e.metrics = r }
}

// WithSolverLimits overrides the iteration cap and convergence tolerance.
func WithSolverLimits(maxIterations int, tolerance float64) Option {
	return func(e *Engine) {
		e.maxIterations = maxIterations
		e.tolerance = tolerance
	}
}

// WithLineSearchTolerance overrides the bisection bracket width.
func WithLineSearchTolerance(tol float64) Option {
	return func(e *Engine) { e.lineSearchTolerance = tol }
}

// WithWorkers sets the worker pool size used for per-origin shortest paths
// inside each all-or-nothing step.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// New creates an Engine with the default solver limits.
func New(opts ...Option) *Engine {
	defaults := solver.DefaultOptions(solver.UserEquilibrium)
	e := &Engine{
		logger:              logging.NewNopLogger(),
		maxIterations:       defaults.MaxIterations,
		tolerance:           defaults.Tolerance,
		lineSearchTolerance: defaults.LineSearchTolerance,
		workers:             defaults.Workers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate checks the network's structural preconditions without solving.
func (e *Engine) Validate(net *network.Network) *validation.Report {
	return validation.ValidateNetwork(net)
}

// Compute validates the network, solves for the Wardrop equilibrium and
// the system optimum concurrently, and derives tolls and the price of
// anarchy. Validation failures abort before any solver runs;
// non-convergence does not fail the call, it is flagged on the result.
func (e *Engine) Compute(ctx context.Context, net *network.Network) (*ComputeResult, error) {
	if fatal := e.Validate(net).Fatal(); len(fatal) > 0 {
		return nil, &validation.Error{Issues: fatal}
	}

	idx, err := net.Index()
	if err != nil {
		return nil, err
	}

	// The two solves share only the immutable indexed network, so they run
	// concurrently with independent flow state.
	var (
		ue, so       *solver.Result
		ueErr, soErr error
		wg           sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		ue, ueErr = e.runSolve(ctx, idx, solver.UserEquilibrium)
	}()
	go func() {
		defer wg.Done()
		so, soErr = e.runSolve(ctx, idx, solver.SystemOptimum)
	}()
	wg.Wait()

	if ueErr != nil {
		return nil, ueErr
	}
	if soErr != nil {
		return nil, soErr
	}

	tolls := optimalTolls(idx, so.Flows)
	ueResult := buildResult(idx, ue, nil)
	soResult := buildResult(idx, so, tolls)

	result := &ComputeResult{
		WardropEquilibrium: ueResult,
		SystemOptimum:      soResult,
		PriceOfAnarchy:     priceOfAnarchy(ueResult.TotalSystemCost, soResult.TotalSystemCost),
		OptimalTolls:       tolls,
	}

	e.logger.Info("compute finished",
		logging.Float64("price_of_anarchy", result.PriceOfAnarchy),
		logging.Bool("ue_converged", ueResult.Converged),
		logging.Bool("so_converged", soResult.Converged))
	return result, nil
}

// runSolve runs one Frank-Wolfe solve and records its outcome metrics.
func (e *Engine) runSolve(ctx context.Context, idx *network.Indexed, objective solver.Objective) (*solver.Result, error) {
	opts := solver.Options{
		Objective:           objective,
		MaxIterations:       e.maxIterations,
		Tolerance:           e.tolerance,
		LineSearchTolerance: e.lineSearchTolerance,
		Workers:             e.workers,
		Logger:              e.logger,
	}

	start := time.Now()
	res, err := solver.Solve(ctx, idx, opts)
	if e.metrics != nil {
		status := "error"
		iterations, gap := 0, math.NaN()
		if err == nil {
			status = res.State.String()
			iterations, gap = res.Iterations, res.RelativeGap
		}
		e.metrics.RecordSolve(objective.String(), status, time.Since(start), iterations, gap)
	}
	return res, err
}

// priceOfAnarchy is the ratio of the two total costs, defined as 1 for the
// degenerate zero-cost optimum (zero demand).
func priceOfAnarchy(ueTotal, soTotal float64) float64 {
	if soTotal <= 1e-12 {
		return 1
	}
	return ueTotal / soTotal
}

// optimalTolls derives the marginal-cost toll tau_e = f_e * t'_e(f_e) at
// the system-optimum flow. Charged on top of the travel time, it makes the
// system-optimum pattern a Wardrop equilibrium of the tolled network.
func optimalTolls(idx *network.Indexed, soFlows []float64) map[string]float64 {
	tolls := make(map[string]float64, len(idx.Edges))
	for e, edge := range idx.Edges {
		tolls[edge.ID] = soFlows[e] * edge.Cost.Derivative(soFlows[e])
	}
	return tolls
}
