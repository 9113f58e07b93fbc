package api

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/wardroplab/congestion-sim/pkg/engine"
	"github.com/wardroplab/congestion-sim/pkg/logging"
	"github.com/wardroplab/congestion-sim/pkg/validation"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string, issues []validation.Issue) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
		Issues:  issues,
	})
}

// round4 trims a value to 4 decimal places for the wire, matching what the
// charting and editor frontends expect. Engine-level results stay full
// precision.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func roundEquilibrium(r engine.EquilibriumResult) engine.EquilibriumResult {
	out := r
	out.EdgeResults = make([]engine.EdgeResult, len(r.EdgeResults))
	for i, er := range r.EdgeResults {
		er.Flow = round4(er.Flow)
		er.Cost = round4(er.Cost)
		er.Toll = round4(er.Toll)
		er.CongestionLevel = round4(er.CongestionLevel)
		out.EdgeResults[i] = er
	}
	out.PathFlows = make([]engine.PathFlow, len(r.PathFlows))
	for i, pf := range r.PathFlows {
		pf.Flow = round4(pf.Flow)
		out.PathFlows[i] = pf
	}
	out.ODCosts = make(map[string]float64, len(r.ODCosts))
	for k, v := range r.ODCosts {
		out.ODCosts[k] = round4(v)
	}
	out.TotalSystemCost = round4(r.TotalSystemCost)
	return out
}

// roundComputeResult produces the wire form of a compute result.
func roundComputeResult(r *engine.ComputeResult) *engine.ComputeResult {
	tolls := make(map[string]float64, len(r.OptimalTolls))
	for k, v := range r.OptimalTolls {
		tolls[k] = round4(v)
	}
	return &engine.ComputeResult{
		WardropEquilibrium: roundEquilibrium(r.WardropEquilibrium),
		SystemOptimum:      roundEquilibrium(r.SystemOptimum),
		PriceOfAnarchy:     round4(r.PriceOfAnarchy),
		OptimalTolls:       tolls,
	}
}
