package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSolve(t *testing.T) {
	r := NewRegistry()

	r.RecordSolve("user_equilibrium", "converged", 50*time.Millisecond, 12, 1e-7)
	r.RecordSolve("user_equilibrium", "converged", 30*time.Millisecond, 8, 2e-7)
	r.RecordSolve("system_optimum", "max_iterations_reached", time.Second, 500, 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(
		r.SolvesTotal.WithLabelValues("user_equilibrium", "converged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		r.SolvesTotal.WithLabelValues("system_optimum", "max_iterations_reached")))
	assert.Equal(t, 0.01, testutil.ToFloat64(
		r.SolveRelativeGap.WithLabelValues("system_optimum")))
}

func TestRecordSolveSkipsNaNGap(t *testing.T) {
	r := NewRegistry()
	r.RecordSolve("user_equilibrium", "error", time.Millisecond, 0, math.NaN())

	// The gauge keeps its zero value instead of poisoning the scrape.
	assert.Equal(t, 0.0, testutil.ToFloat64(
		r.SolveRelativeGap.WithLabelValues("user_equilibrium")))
}

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRegistry()

	r.RecordHTTPRequest("POST", "/compute", "200", 20*time.Millisecond)
	r.RecordHTTPRequest("POST", "/compute", "200", 40*time.Millisecond)
	r.RecordHTTPRequest("POST", "/compute", "400", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(
		r.HTTPRequestsTotal.WithLabelValues("POST", "/compute", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		r.HTTPRequestsTotal.WithLabelValues("POST", "/compute", "400")))
}

func TestUpdateSystemMetrics(t *testing.T) {
	r := NewRegistry()
	r.UpdateSystemMetrics(time.Now().Add(-time.Minute))

	assert.GreaterOrEqual(t, testutil.ToFloat64(r.UptimeSeconds), 60.0)
	assert.Greater(t, testutil.ToFloat64(r.GoRoutines), 0.0)
	assert.Greater(t, testutil.ToFloat64(r.MemoryAllocBytes), 0.0)
}

// Separate registries must not share state; the API server creates one per
// process but tests create many.
func TestRegistriesAreIndependent(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()

	a.RecordSolve("user_equilibrium", "converged", time.Millisecond, 1, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		a.SolvesTotal.WithLabelValues("user_equilibrium", "converged")))
	assert.Equal(t, 0.0, testutil.ToFloat64(
		b.SolvesTotal.WithLabelValues("user_equilibrium", "converged")))
}

func TestDefaultRegistryIsSingleton(t *testing.T) {
	require.Same(t, DefaultRegistry(), DefaultRegistry())
}
