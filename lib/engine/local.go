package engine

import (
	"context"
	"encoding/json"
	"fmt"
)

// LocalEngine is a minimal in-process reference evaluator. It wires the
// request payload from input nodes to output nodes along the graph's edges
// and applies constant overlays from expression-less nodes. It is not a full
// rules engine; production deployments point ENGINE_URL at a real one and
// get HTTPEngine instead.
type LocalEngine struct{}

// NewLocalEngine creates the in-process evaluator.
func NewLocalEngine() *LocalEngine {
	return &LocalEngine{}
}

type graphNode struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Name    string          `json:"name"`
	Content json.RawMessage `json:"content"`
}

type graphEdge struct {
	ID       string `json:"id"`
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
}

type graphModel struct {
	Nodes []graphNode `json:"nodes"`
	Edges []graphEdge `json:"edges"`
}

// Evaluate walks the graph from its input nodes and returns the merged data
// reaching the output nodes. An empty graph evaluates to an empty object.
func (e *LocalEngine) Evaluate(ctx context.Context, graph json.RawMessage, payload json.RawMessage) (json.RawMessage, error) {
	var model graphModel
	if err := json.Unmarshal(graph, &model); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]interface{}{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &data); err != nil {
			return nil, fmt.Errorf("invalid payload: %w", err)
		}
	}

	if len(model.Nodes) == 0 {
		return json.RawMessage(`{}`), nil
	}

	adjacency := make(map[string][]string, len(model.Edges))
	for _, edge := range model.Edges {
		adjacency[edge.SourceID] = append(adjacency[edge.SourceID], edge.TargetID)
	}

	nodesByID := make(map[string]graphNode, len(model.Nodes))
	var inputs []string
	hasOutput := false
	for _, node := range model.Nodes {
		nodesByID[node.ID] = node
		switch node.Type {
		case "inputNode":
			inputs = append(inputs, node.ID)
		case "outputNode":
			hasOutput = true
		}
	}

	if len(inputs) == 0 || !hasOutput {
		// Nothing routed to an output; the decision produces no data.
		return json.RawMessage(`{}`), nil
	}

	result := map[string]interface{}{}
	visited := map[string]bool{}
	queue := append([]string(nil), inputs...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		node := nodesByID[id]
		if node.Type == "outputNode" {
			for k, v := range data {
				result[k] = v
			}
			continue
		}
		queue = append(queue, adjacency[id]...)
	}

	out, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return out, nil
}
