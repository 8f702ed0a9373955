package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/brms-lite/brms-lite/lib/engine"
	"github.com/brms-lite/brms-lite/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passthroughGraph = `{
	"nodes": [
		{"id": "in", "type": "inputNode", "name": "Request"},
		{"id": "out", "type": "outputNode", "name": "Response"}
	],
	"edges": [{"id": "e1", "sourceId": "in", "targetId": "out"}]
}`

func TestSimulateInlineGraph(t *testing.T) {
	actor := setupTest(t)
	svc := NewSimulationService(engine.NewLocalEngine())

	result, err := svc.Simulate(context.Background(), "scratch", SimulateRequest{
		InlineGraph: json.RawMessage(passthroughGraph),
		Payload:     json.RawMessage(`{"amount": 42}`),
		EnvKey:      "dev",
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, SourceInline, result.Source)
	assert.Nil(t, result.UsedVersionID)
	assert.JSONEq(t, `{"amount": 42}`, string(result.Result))
	assert.Contains(t, result.Performance, "µs")
}

func TestSimulateInlineGraphDoesNotPersist(t *testing.T) {
	actor := setupTest(t)
	svc := NewSimulationService(engine.NewLocalEngine())
	versions := NewVersionService()

	_, err := svc.Simulate(context.Background(), "scratch", SimulateRequest{
		InlineGraph: json.RawMessage(passthroughGraph),
	}, actor)
	require.NoError(t, err)

	_, err = versions.GetLatest("scratch", actor)
	var notFound *utils.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestSimulateStoredDocument(t *testing.T) {
	actor := setupTest(t)
	svc := NewSimulationService(engine.NewLocalEngine())
	versions := NewVersionService()

	_, v, err := versions.CreateVersion("d", json.RawMessage(passthroughGraph), "", actor)
	require.NoError(t, err)

	result, err := svc.Simulate(context.Background(), "d", SimulateRequest{
		Payload: json.RawMessage(`{"x": 1}`),
		EnvKey:  "dev",
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, SourceLatest, result.Source)
	require.NotNil(t, result.UsedVersionID)
	assert.Equal(t, v.ID, *result.UsedVersionID)
	assert.JSONEq(t, `{"x": 1}`, string(result.Result))
}

func TestSimulateUnwrapsStoredEnvelope(t *testing.T) {
	actor := setupTest(t)
	svc := NewSimulationService(engine.NewLocalEngine())
	versions := NewVersionService()

	// Content wrapped in {graph: ...} by an older client still evaluates.
	wrapped := json.RawMessage(`{"graph": ` + passthroughGraph + `}`)
	_, _, err := versions.CreateVersion("wrapped", wrapped, "", actor)
	require.NoError(t, err)

	result, err := svc.Simulate(context.Background(), "wrapped", SimulateRequest{
		Payload: json.RawMessage(`{"y": 2}`),
	}, actor)
	require.NoError(t, err)
	assert.JSONEq(t, `{"y": 2}`, string(result.Result))
}

func TestSimulateEmptyPayloadDefaultsToObject(t *testing.T) {
	actor := setupTest(t)
	svc := NewSimulationService(engine.NewLocalEngine())

	result, err := svc.Simulate(context.Background(), "scratch", SimulateRequest{
		InlineGraph: json.RawMessage(passthroughGraph),
	}, actor)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(result.Result))
}

func TestSimulateEmptyGraphYieldsEmptyResult(t *testing.T) {
	actor := setupTest(t)
	svc := NewSimulationService(engine.NewLocalEngine())

	result, err := svc.Simulate(context.Background(), "scratch", SimulateRequest{
		InlineGraph: json.RawMessage(`{"nodes": [], "edges": []}`),
		Payload:     json.RawMessage(`{"ignored": true}`),
	}, actor)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(result.Result))
}

func TestSimulateRejectsStructurallyInvalidGraph(t *testing.T) {
	actor := setupTest(t)
	svc := NewSimulationService(engine.NewLocalEngine())

	var validationErr *utils.ValidationError

	_, err := svc.Simulate(context.Background(), "scratch", SimulateRequest{
		InlineGraph: json.RawMessage(`{"edges": []}`),
	}, actor)
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Error(), "nodes")

	_, err = svc.Simulate(context.Background(), "scratch", SimulateRequest{
		InlineGraph: json.RawMessage(`{"nodes": []}`),
	}, actor)
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Error(), "edges")
}

func TestSimulateUnknownDocument(t *testing.T) {
	actor := setupTest(t)
	svc := NewSimulationService(engine.NewLocalEngine())

	_, err := svc.Simulate(context.Background(), "missing", SimulateRequest{}, actor)
	var notFound *utils.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
