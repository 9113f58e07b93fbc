package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wardroplab/congestion-sim/pkg/logging"
	"github.com/wardroplab/congestion-sim/pkg/network"
	"github.com/wardroplab/congestion-sim/pkg/validation"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, InfoResponse{
		Message: "Congestion Game Simulator API",
		Version: Version,
	})
}

// handleValidate checks the network's structure without solving. The
// response always carries HTTP 200; validity is in the body.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var net network.Network
	if err := json.NewDecoder(r.Body).Decode(&net); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	report := s.engine.Validate(&net)
	s.respondJSON(w, http.StatusOK, report)
}

// handleCompute solves for both equilibria and returns the combined
// result. Validation failures are 400s carrying the issue list;
// non-convergence is not an error, it is flagged inside the result.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var net network.Network
	if err := json.NewDecoder(r.Body).Decode(&net); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	result, err := s.engine.Compute(r.Context(), &net)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			s.respondError(w, http.StatusBadRequest, "network validation failed", verr.Issues)
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			// Client went away or the request deadline passed.
			s.respondError(w, http.StatusRequestTimeout, "computation canceled", nil)
		default:
			s.logger.Error("compute failed", logging.Error(err))
			s.respondError(w, http.StatusInternalServerError, "computation failed", nil)
		}
		return
	}

	s.respondJSON(w, http.StatusOK, roundComputeResult(result))
}

