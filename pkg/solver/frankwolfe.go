package solver

import (
	"context"
	"math"

	"github.com/wardroplab/congestion-sim/pkg/logging"
	"github.com/wardroplab/congestion-sim/pkg/network"
	"github.com/wardroplab/congestion-sim/pkg/parallel"
	"github.com/wardroplab/congestion-sim/pkg/pools"
)

// Objective selects which cost the Frank-Wolfe iteration minimizes.
// Average cost drives flows to the Wardrop (user) equilibrium; marginal
// cost drives them to the system optimum.
type Objective int

const (
	UserEquilibrium Objective = iota
	SystemOptimum
)

// String returns the objective name used in logs and metrics labels.
func (o Objective) String() string {
	if o == SystemOptimum {
		return "system_optimum"
	}
	return "user_equilibrium"
}

// cost evaluates the objective-defining edge cost at the given flow.
func (o Objective) cost(c network.CostFunction, f float64) float64 {
	if o == SystemOptimum {
		return c.Marginal(f)
	}
	return c.Cost(f)
}

// State is the solver lifecycle state.
type State int

const (
	Initializing State = iota
	Iterating
	Converged
	MaxIterationsReached
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	default:
		return "max_iterations_reached"
	}
}

// Options configures one Frank-Wolfe solve.
type Options struct {
	Objective           Objective
	MaxIterations       int     // iteration cap; best-so-far flow is returned when hit
	Tolerance           float64 // relative-gap and relative-step convergence tolerance
	LineSearchTolerance float64 // bisection bracket width
	Workers             int     // worker pool size for per-origin shortest paths
	Logger              logging.Logger
}

// DefaultOptions are tolerances that make the reference scenarios (single
// edge, Pigou, Braess) converge well inside the iteration cap.
func DefaultOptions(objective Objective) Options {
	return Options{
		Objective:           objective,
		MaxIterations:       500,
		Tolerance:           1e-6,
		LineSearchTolerance: 1e-10,
		Workers:             1,
		Logger:              logging.NewNopLogger(),
	}
}

// Result is the outcome of one solve. Flows is indexed like
// network.Indexed.Edges. Converged false means the iteration cap was hit;
// Flows still holds the best flow found and RelativeGap says how far from
// equilibrium it stopped.
type Result struct {
	Objective   Objective
	State       State
	Flows       []float64
	PathFlows   []PathFlow
	Iterations  int
	Converged   bool
	RelativeGap float64
}

// epsDenominator guards relative measures against zero denominators in
// degenerate (zero-demand) inputs.
const epsDenominator = 1e-12

// Solve runs the Frank-Wolfe iteration on net until the convergence
// criterion is met or the iteration cap is reached. The same criterion is
// applied regardless of objective so the two equilibria stay comparable.
// The context is checked every iteration; cancellation aborts the solve.
func Solve(ctx context.Context, net *network.Indexed, opts Options) (*Result, error) {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions(opts.Objective).MaxIterations
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultOptions(opts.Objective).Tolerance
	}
	if opts.LineSearchTolerance <= 0 {
		opts.LineSearchTolerance = DefaultOptions(opts.Objective).LineSearchTolerance
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.With(logging.Objective(opts.Objective.String()))

	var pool *parallel.WorkerPool
	if opts.Workers > 1 {
		p, err := parallel.NewWorkerPool(opts.Workers)
		if err != nil {
			return nil, err
		}
		pool = p
		defer pool.Close()
	}

	res := &Result{Objective: opts.Objective, State: Initializing}
	tracker := newPathTracker()

	// Scratch vectors come from the pool; flows is long-lived and does not.
	costs := pools.Get(len(net.Edges))
	defer pools.Put(costs)

	// Initialize from the all-or-nothing assignment on free-flow costs.
	zero := pools.Get(len(net.Edges))
	fillObjectiveCosts(costs, net, opts.Objective, zero)
	pools.Put(zero)
	init, err := allOrNothing(net, costs, pool)
	if err != nil {
		return nil, err
	}
	flows := init.flows
	tracker.assign(net, 1, init.paths)

	res.State = Iterating
	for iter := 1; iter <= opts.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Iterations = iter

		fillObjectiveCosts(costs, net, opts.Objective, flows)
		aon, err := allOrNothing(net, costs, pool)
		if err != nil {
			return nil, err
		}

		// Relative gap: current objective value against the
		// demand-weighted shortest-path lower bound.
		objValue := dot(flows, costs)
		gap := (objValue - aon.lowerBound(net.Pairs)) / math.Max(objValue, epsDenominator)
		res.RelativeGap = gap
		if gap <= opts.Tolerance {
			res.State = Converged
			res.Converged = true
			break
		}

		direction := pools.Get(len(flows))
		for e := range flows {
			direction[e] = aon.flows[e] - flows[e]
		}

		lambda := lineSearch(net.Edges, opts.Objective, flows, direction, iter, opts.LineSearchTolerance)
		tracker.assign(net, lambda, aon.paths)

		var stepNorm, flowNorm float64
		for e := range flows {
			flows[e] += lambda * direction[e]
			if flows[e] < 0 {
				flows[e] = 0
			}
			stepNorm += lambda * direction[e] * lambda * direction[e]
			flowNorm += flows[e] * flows[e]
		}
		pools.Put(direction)
		relStep := math.Sqrt(stepNorm) / math.Max(math.Sqrt(flowNorm), epsDenominator)

		logger.Debug("frank-wolfe iteration",
			logging.Iterations(iter),
			logging.Float64("lambda", lambda),
			logging.RelativeGap(gap),
			logging.Float64("relative_step", relStep))

		if relStep <= opts.Tolerance {
			res.State = Converged
			res.Converged = true
			break
		}
	}

	if res.State != Converged {
		res.State = MaxIterationsReached
		logger.Warn("solver hit iteration cap, returning approximate flows",
			logging.Iterations(res.Iterations),
			logging.RelativeGap(res.RelativeGap))
	}

	res.Flows = flows
	res.PathFlows = tracker.flows()
	return res, nil
}

// fillObjectiveCosts evaluates the objective-defining cost of every edge
// at the given flow vector, into costs.
func fillObjectiveCosts(costs []float64, net *network.Indexed, objective Objective, flows []float64) {
	for e := range net.Edges {
		costs[e] = objective.cost(net.Edges[e].Cost, flows[e])
	}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
