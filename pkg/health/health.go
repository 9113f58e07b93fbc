package health

import (
	"time"
)

// NewHealthChecker creates a new health checker
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		version: version,
		started: time.Now(),
		checks:  make(map[string]CheckFunc),
	}
}

// RegisterCheck registers a health check
func (hc *HealthChecker) RegisterCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[name] = check
}

// Check performs all registered health checks. The overall status is the
// worst individual status; no checks at all means healthy.
func (hc *HealthChecker) Check() Response {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	response := Response{
		Status:    StatusHealthy,
		Version:   hc.version,
		Timestamp: time.Now(),
		Uptime:    time.Since(hc.started).Round(time.Second).String(),
	}
	if len(hc.checks) > 0 {
		response.Checks = make(map[string]Check, len(hc.checks))
	}

	for name, fn := range hc.checks {
		start := time.Now()
		check := fn()
		check.Name = name
		check.LastChecked = time.Now()
		check.Duration = time.Since(start) / time.Millisecond

		response.Checks[name] = check
		if worse(check.Status, response.Status) {
			response.Status = check.Status
		}
	}
	return response
}

// worse reports whether a is a worse status than b.
func worse(a, b Status) bool {
	rank := map[Status]int{StatusHealthy: 0, StatusDegraded: 1, StatusUnhealthy: 2}
	return rank[a] > rank[b]
}
