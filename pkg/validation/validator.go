package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/wardroplab/congestion-sim/pkg/network"
	"github.com/wardroplab/congestion-sim/pkg/parallel"
)

// validate is a singleton validator instance for struct-tag checks.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Issue codes. Everything except CodeIsolatedNode blocks computation.
const (
	CodeInvalidInput  = "invalid_input"
	CodeDuplicateID   = "duplicate_id"
	CodeMissingNode   = "missing_node"
	CodeBadCostParams = "bad_cost_params"
	CodeBadDemand     = "bad_demand"
	CodeDisconnected  = "disconnected_od_pair"
	CodeIsolatedNode  = "isolated_node"
)

// Issue is one structural problem found in a network.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Report is the outcome of validating a network. Valid is true only when
// no issues at all were found; Fatal lists the subset that prevents the
// solver from running (isolated nodes are reported but do not block).
type Report struct {
	Valid       bool    `json:"valid"`
	Issues      []Issue `json:"issues"`
	NodeCount   int     `json:"node_count"`
	EdgeCount   int     `json:"edge_count"`
	ODPairCount int     `json:"od_pair_count"`
}

// Fatal returns the issues that abort computation.
func (r *Report) Fatal() []Issue {
	fatal := make([]Issue, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if issue.Code != CodeIsolatedNode {
			fatal = append(fatal, issue)
		}
	}
	return fatal
}

// Error is the structured validation failure surfaced to callers. It is
// recoverable: the caller fixes the network and retries.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		return "network validation failed"
	}
	return fmt.Sprintf("network validation failed: %s (%d issue(s))", e.Issues[0].Message, len(e.Issues))
}

// ValidateNetwork checks every structural precondition the solver relies
// on: declared node references, admissible cost parameters, non-negative
// demand, and a directed path for every OD pair. All violations are
// collected rather than failing on the first.
func ValidateNetwork(net *network.Network) *Report {
	report := &Report{
		NodeCount:   len(net.Nodes),
		EdgeCount:   len(net.Edges),
		ODPairCount: len(net.ODPairs),
	}
	add := func(code, format string, args ...any) {
		report.Issues = append(report.Issues, Issue{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if err := validate.Struct(net); err != nil {
		for _, msg := range formatStructErrors(err) {
			add(CodeInvalidInput, "%s", msg)
		}
	}

	nodeSet := make(map[string]bool, len(net.Nodes))
	for _, n := range net.Nodes {
		if nodeSet[n.ID] {
			add(CodeDuplicateID, "duplicate node id %q", n.ID)
		}
		nodeSet[n.ID] = true
	}

	edgeSet := make(map[string]bool, len(net.Edges))
	degree := make(map[string]int, len(net.Nodes))
	for _, e := range net.Edges {
		if edgeSet[e.ID] {
			add(CodeDuplicateID, "duplicate edge id %q", e.ID)
		}
		edgeSet[e.ID] = true
		if !nodeSet[e.Source] {
			add(CodeMissingNode, "edge %q references unknown source node %q", e.ID, e.Source)
		}
		if !nodeSet[e.Target] {
			add(CodeMissingNode, "edge %q references unknown target node %q", e.ID, e.Target)
		}
		if err := e.Cost.CheckParams(); err != nil {
			add(CodeBadCostParams, "edge %q: %v", e.ID, err)
		}
		degree[e.Source]++
		degree[e.Target]++
	}

	for _, p := range net.ODPairs {
		if !nodeSet[p.Origin] {
			add(CodeMissingNode, "OD pair %s: origin node %q not found", p.Key(), p.Origin)
		}
		if !nodeSet[p.Destination] {
			add(CodeMissingNode, "OD pair %s: destination node %q not found", p.Key(), p.Destination)
		}
		if p.Demand < 0 {
			add(CodeBadDemand, "OD pair %s: demand must be non-negative, got %g", p.Key(), p.Demand)
		}
	}

	// Connectivity per OD pair, only meaningful once references resolve.
	if len(report.Issues) == 0 {
		checkConnectivity(net, add)
	}

	for _, n := range net.Nodes {
		if degree[n.ID] == 0 {
			add(CodeIsolatedNode, "node %q is isolated", n.ID)
		}
	}

	report.Valid = len(report.Issues) == 0
	return report
}

// checkConnectivity verifies a directed path exists for every OD pair.
// Reachability sets for distinct origins are independent, so they are
// computed in parallel.
func checkConnectivity(net *network.Network, add func(code, format string, args ...any)) {
	idx, err := net.Index()
	if err != nil {
		add(CodeDuplicateID, "%v", err)
		return
	}

	origins := make([]string, 0, len(net.ODPairs))
	seen := make(map[string]bool)
	for _, p := range net.ODPairs {
		if !seen[p.Origin] {
			seen[p.Origin] = true
			origins = append(origins, p.Origin)
		}
	}

	reachable := make([]map[string]bool, len(origins))
	parallel.ForEach(4, len(origins), func(i int) {
		reachable[i] = reachableFrom(idx, origins[i])
	})

	byOrigin := make(map[string]map[string]bool, len(origins))
	for i, origin := range origins {
		byOrigin[origin] = reachable[i]
	}
	for _, p := range net.ODPairs {
		if !byOrigin[p.Origin][p.Destination] {
			add(CodeDisconnected, "no path from %q to %q", p.Origin, p.Destination)
		}
	}
}

// reachableFrom is a plain BFS over the directed adjacency; edge costs are
// irrelevant for connectivity.
func reachableFrom(idx *network.Indexed, origin string) map[string]bool {
	visited := map[string]bool{origin: true}
	queue := []string{origin}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, ei := range idx.Out[current] {
			target := idx.Edges[ei].Target
			if !visited[target] {
				visited[target] = true
				queue = append(queue, target)
			}
		}
	}
	return visited
}

// formatStructErrors converts validator errors into user-facing messages.
func formatStructErrors(err error) []string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		switch e.Tag() {
		case "required", "min":
			msgs = append(msgs, fmt.Sprintf("%s: must not be empty", e.Namespace()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s: must be at least %s", e.Namespace(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: validation failed (%s)", e.Namespace(), e.Tag()))
		}
	}
	return msgs
}
