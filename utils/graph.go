package utils

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// graphEnvelope matches bodies that wrap the rule graph in {graph: ...}.
type graphEnvelope struct {
	Graph json.RawMessage `json:"graph"`
}

// ExtractGraphForSave accepts either {graph:{...}} or a raw {nodes,edges}
// object and returns the graph to persist, or nil when the body carries
// neither shape.
func ExtractGraphForSave(body json.RawMessage) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	var envelope graphEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Graph) > 0 {
		return envelope.Graph
	}
	var probe struct {
		Nodes json.RawMessage `json:"nodes"`
		Edges json.RawMessage `json:"edges"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil
	}
	if len(probe.Nodes) > 0 && len(probe.Edges) > 0 {
		return body
	}
	return nil
}

// NormalizeGraph undoes the two storage artifacts that content can arrive
// with: JSON encoded as a string, and a {graph:{...}} wrapper.
func NormalizeGraph(raw json.RawMessage) json.RawMessage {
	content := raw
	// Content stored as a JSON-encoded string.
	var asString string
	if err := json.Unmarshal(content, &asString); err == nil {
		content = json.RawMessage(asString)
	}
	var envelope graphEnvelope
	if err := json.Unmarshal(content, &envelope); err == nil && len(envelope.Graph) > 0 {
		content = envelope.Graph
	}
	return content
}

// ValidateGraph checks the two required top-level structural fields and
// names the first one missing.
func ValidateGraph(model json.RawMessage) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(model, &probe); err != nil {
		return NewValidationError("graph", "graph must be a JSON object")
	}
	if _, ok := probe["nodes"]; !ok {
		return NewValidationError("nodes", "graph is missing required field 'nodes'")
	}
	if _, ok := probe["edges"]; !ok {
		return NewValidationError("edges", "graph is missing required field 'edges'")
	}
	return nil
}

// ResolveEnv reads the requested environment key: query string first, then
// the X-Env header, defaulting to "dev".
func ResolveEnv(ctx *gin.Context) string {
	if env := ctx.Query("env"); env != "" {
		return env
	}
	if env := ctx.GetHeader("X-Env"); env != "" {
		return env
	}
	return "dev"
}

// ParseVersionSelector disambiguates the ?version= parameter: a small
// integer selects by ordinal, anything else is treated as an exact version
// id.
func ParseVersionSelector(value string) (versionID string, ordinal int) {
	if value == "" {
		return "", 0
	}
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
		return "", n
	}
	return value, 0
}
