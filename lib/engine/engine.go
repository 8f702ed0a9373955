package engine

import (
	"context"
	"encoding/json"
)

// Engine evaluates a decision graph against a runtime payload. The engine is
// stateless per invocation: a fresh decision context is built from the graph
// on every call, so one failing evaluation cannot corrupt another.
type Engine interface {
	Evaluate(ctx context.Context, graph json.RawMessage, payload json.RawMessage) (json.RawMessage, error)
}
