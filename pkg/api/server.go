package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wardroplab/congestion-sim/pkg/engine"
	"github.com/wardroplab/congestion-sim/pkg/health"
	"github.com/wardroplab/congestion-sim/pkg/logging"
	"github.com/wardroplab/congestion-sim/pkg/metrics"
)

// Version is the API version reported by the root and health endpoints.
const Version = "1.0.0"

// Server is the HTTP boundary of the equilibrium engine: two operations,
// validate and compute, plus health and metrics.
type Server struct {
	engine          *engine.Engine
	logger          logging.Logger
	metricsRegistry *metrics.Registry
	checker         *health.HealthChecker
	startTime       time.Time
}

// NewServer creates an API server around the given engine.
func NewServer(eng *engine.Engine, logger logging.Logger, registry *metrics.Registry) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	s := &Server{
		engine:          eng,
		logger:          logger.With(logging.Component("api")),
		metricsRegistry: registry,
		checker:         health.NewHealthChecker(Version),
		startTime:       time.Now(),
	}
	s.checker.RegisterCheck("solver", s.solverCheck)
	go s.updateSystemMetrics()
	return s
}

// Router builds the HTTP routes with the middleware chain applied.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/validate", s.handleValidate).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/compute", s.handleCompute).Methods(http.MethodPost, http.MethodOptions)
	r.Handle("/health", s.checker.HTTPHandler()).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(
		s.metricsRegistry.GetPrometheusRegistry(),
		promhttp.HandlerOpts{},
	)).Methods(http.MethodGet)

	r.Use(s.requestIDMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.metricsMiddleware)

	return r
}

// updateSystemMetrics refreshes runtime gauges every 10 seconds.
func (s *Server) updateSystemMetrics() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.metricsRegistry.UpdateSystemMetrics(s.startTime)
	}
}
