package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPEngine forwards evaluation to an external decision-engine service
// (e.g. a zen-engine sidecar) over REST.
type HTTPEngine struct {
	baseURL string
	client  *http.Client
}

// NewHTTPEngine creates an engine client for the given base URL.
func NewHTTPEngine(baseURL string) *HTTPEngine {
	return &HTTPEngine{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type evaluateRequest struct {
	Content json.RawMessage `json:"content"`
	Context json.RawMessage `json:"context"`
}

type evaluateResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

// Evaluate POSTs the graph and payload to the engine service and returns the
// raw result.
func (e *HTTPEngine) Evaluate(ctx context.Context, graph json.RawMessage, payload json.RawMessage) (json.RawMessage, error) {
	body, err := json.Marshal(evaluateRequest{Content: graph, Context: payload})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/evaluate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed evaluateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("engine returned invalid response: %w", err)
	}
	if resp.StatusCode >= 400 {
		if parsed.Error != "" {
			return nil, fmt.Errorf("engine rejected graph: %s", parsed.Error)
		}
		return nil, fmt.Errorf("engine returned status %d", resp.StatusCode)
	}
	return parsed.Result, nil
}
