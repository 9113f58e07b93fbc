package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardroplab/congestion-sim/pkg/engine"
	"github.com/wardroplab/congestion-sim/pkg/metrics"
	"github.com/wardroplab/congestion-sim/pkg/validation"
)

func newTestServer() *Server {
	registry := metrics.NewRegistry()
	eng := engine.New(engine.WithMetrics(registry))
	return NewServer(eng, nil, registry)
}

const pigouJSON = `{
	"nodes": [{"id": "1"}, {"id": "2"}],
	"edges": [
		{"id": "e1", "source": "1", "target": "2",
		 "cost_function": {"function_type": "polynomial", "a": 0, "k": 0, "b": 1}},
		{"id": "e2", "source": "1", "target": "2",
		 "cost_function": {"function_type": "polynomial", "a": 1, "k": 1, "b": 0}}
	],
	"od_pairs": [{"origin": "1", "destination": "2", "demand": 1}]
}`

const disconnectedJSON = `{
	"nodes": [{"id": "1"}, {"id": "2"}, {"id": "3"}],
	"edges": [
		{"id": "e1", "source": "1", "target": "2",
		 "cost_function": {"function_type": "polynomial", "a": 1, "k": 1, "b": 0}}
	],
	"od_pairs": [{"origin": "1", "destination": "3", "demand": 5}]
}`

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestRootEndpoint(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var info InfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "Congestion Game Simulator API", info.Message)
	assert.Equal(t, Version, info.Version)
}

func TestValidateEndpoint(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodPost, "/validate", pigouJSON)
	require.Equal(t, http.StatusOK, rec.Code)

	var report validation.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Valid)
	assert.Equal(t, 2, report.NodeCount)
}

// Validation failures are not HTTP errors: the report itself says invalid.
func TestValidateEndpointInvalidNetwork(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodPost, "/validate", disconnectedJSON)
	require.Equal(t, http.StatusOK, rec.Code)

	var report validation.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.False(t, report.Valid)
	require.NotEmpty(t, report.Issues)
	assert.Equal(t, validation.CodeDisconnected, report.Issues[0].Code)
}

func TestValidateEndpointBadJSON(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodPost, "/validate", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComputeEndpoint(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodPost, "/compute", pigouJSON)
	require.Equal(t, http.StatusOK, rec.Code)

	var result engine.ComputeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.InDelta(t, 1.3333, result.PriceOfAnarchy, 1e-3)
	assert.InDelta(t, 1.0, result.WardropEquilibrium.TotalSystemCost, 1e-4)
	assert.InDelta(t, 0.75, result.SystemOptimum.TotalSystemCost, 1e-4)
	assert.InDelta(t, 0.5, result.OptimalTolls["e2"], 1e-4)
	assert.InDelta(t, 1.0, result.WardropEquilibrium.ODCosts["1->2"], 1e-4)
	assert.True(t, result.WardropEquilibrium.Converged)

	// Wire values are rounded to 4 decimals.
	for _, er := range result.SystemOptimum.EdgeResults {
		assert.Equal(t, round4(er.Flow), er.Flow)
	}
}

func TestComputeEndpointValidationFailure(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodPost, "/compute", disconnectedJSON)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, http.StatusBadRequest, errResp.Code)
	require.NotEmpty(t, errResp.Issues)
	assert.Equal(t, validation.CodeDisconnected, errResp.Issues[0].Code)
}

func TestComputeEndpointBadJSON(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodPost, "/compute", "[]")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string `json:"status"`
		Version string `json:"version"`
		Checks  map[string]struct {
			Status string `json:"status"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, Version, body.Version)
	assert.Equal(t, "healthy", body.Checks["solver"].Status)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer()
	// Drive one compute so solver metrics exist.
	doRequest(t, s, http.MethodPost, "/compute", pigouJSON)

	rec := doRequest(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "congestion_solves_total")
	assert.Contains(t, rec.Body.String(), "congestion_http_requests_total")
}

func TestRequestIDAssignedAndEchoed(t *testing.T) {
	s := newTestServer()

	rec := doRequest(t, s, http.MethodGet, "/", "")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "caller-supplied")
	echo := httptest.NewRecorder()
	s.Router().ServeHTTP(echo, req)
	assert.Equal(t, "caller-supplied", echo.Header().Get(requestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodOptions, "/compute", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestMethodNotAllowed(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/compute", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRound4(t *testing.T) {
	assert.Equal(t, 1.3333, round4(4.0/3.0))
	assert.Equal(t, 0.5, round4(0.50004))
	assert.Equal(t, -2.7183, round4(-2.71828))
}

func TestRoundComputeResultDoesNotMutateInput(t *testing.T) {
	original := &engine.ComputeResult{
		WardropEquilibrium: engine.EquilibriumResult{
			EdgeResults:     []engine.EdgeResult{{ID: "e1", Flow: 1.0 / 3.0}},
			ODCosts:         map[string]float64{"a->b": 2.0 / 3.0},
			TotalSystemCost: 1.0 / 3.0,
		},
		PriceOfAnarchy: 4.0 / 3.0,
		OptimalTolls:   map[string]float64{"e1": 1.0 / 7.0},
	}

	rounded := roundComputeResult(original)

	assert.Equal(t, 0.3333, rounded.WardropEquilibrium.EdgeResults[0].Flow)
	assert.Equal(t, 1.0/3.0, original.WardropEquilibrium.EdgeResults[0].Flow)
	assert.Equal(t, 0.1429, rounded.OptimalTolls["e1"])
	assert.Equal(t, 1.0/7.0, original.OptimalTolls["e1"])
}

func TestSolverHealthCheck(t *testing.T) {
	check := newTestServer().solverCheck()
	assert.EqualValues(t, "healthy", check.Status)
	assert.True(t, strings.HasPrefix(check.Message, "reference solve ok"))
}
