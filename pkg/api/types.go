package api

import (
	"github.com/wardroplab/congestion-sim/pkg/validation"
)

// InfoResponse is the root endpoint payload.
type InfoResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// ErrorResponse is the uniform error payload. Issues is populated for
// validation failures so the caller can fix the network and retry.
type ErrorResponse struct {
	Error   string             `json:"error"`
	Message string             `json:"message"`
	Code    int                `json:"code"`
	Issues  []validation.Issue `json:"issues,omitempty"`
}
