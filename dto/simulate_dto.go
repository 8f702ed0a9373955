package dto

import "encoding/json"

// SimulateRequest is the body for an evaluation request. Graph, when
// present, is used inline and never persisted.
type SimulateRequest struct {
	Payload json.RawMessage `json:"payload"`
	Graph   json.RawMessage `json:"graph"`
}
