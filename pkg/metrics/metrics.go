package metrics

import (
	"math"
	"runtime"
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordSolve records one Frank-Wolfe solve outcome.
func (r *Registry) RecordSolve(objective, status string, duration time.Duration, iterations int, relativeGap float64) {
	r.SolvesTotal.WithLabelValues(objective, status).Inc()
	r.SolveDuration.WithLabelValues(objective).Observe(duration.Seconds())
	r.SolveIterations.WithLabelValues(objective).Observe(float64(iterations))
	if !math.IsNaN(relativeGap) {
		r.SolveRelativeGap.WithLabelValues(objective).Set(relativeGap)
	}
}

// UpdateSystemMetrics refreshes uptime and Go runtime gauges.
func (r *Registry) UpdateSystemMetrics(start time.Time) {
	r.UptimeSeconds.Set(time.Since(start).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
}
