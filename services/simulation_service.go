package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brms-lite/brms-lite/lib/engine"
	"github.com/brms-lite/brms-lite/models"
	"github.com/brms-lite/brms-lite/utils"
)

// SimulateRequest carries one evaluation request. An inline graph takes
// absolute precedence over every stored resolution and is never persisted.
type SimulateRequest struct {
	InlineGraph json.RawMessage
	Payload     json.RawMessage
	VersionID   string
	Ordinal     int
	EnvKey      string
}

// SimulateResult reports the resolution metadata alongside the engine's
// output.
type SimulateResult struct {
	Key           string          `json:"id"`
	Env           string          `json:"env"`
	UsedVersionID *string         `json:"usedVersion"`
	VersionNumber int             `json:"usedVersionNumber,omitempty"`
	Source        string          `json:"source"`
	Performance   string          `json:"performance"`
	Result        json.RawMessage `json:"result"`
}

// SimulationService resolves which content answers a simulation request and
// invokes the external decision engine. Evaluation never writes to stored
// documents.
type SimulationService struct {
	publicationService *PublicationService
	auditService       *AuditService
	decisionEngine     engine.Engine
}

// NewSimulationService creates a new simulation service instance
func NewSimulationService(decisionEngine engine.Engine) *SimulationService {
	return &SimulationService{
		publicationService: NewPublicationService(),
		auditService:       NewAuditService(),
		decisionEngine:     decisionEngine,
	}
}

// Simulate resolves content (inline graph first, then the publication
// resolver's precedence), validates its structure, evaluates it and reports
// the wall-clock duration of the engine call.
func (s *SimulationService) Simulate(ctx context.Context, key string, req SimulateRequest, actor models.ActorContext) (SimulateResult, error) {
	result := SimulateResult{
		Key:    key,
		Env:    req.EnvKey,
		Source: SourceInline,
	}

	model := req.InlineGraph
	if model == nil {
		resolution, err := s.publicationService.ResolveContent(key, ResolveOptions{
			VersionID: req.VersionID,
			Ordinal:   req.Ordinal,
			EnvKey:    req.EnvKey,
		}, actor)
		if err != nil {
			return SimulateResult{}, err
		}
		model = resolution.Content
		result.UsedVersionID = resolution.VersionID
		result.VersionNumber = resolution.VersionNumber
		result.Source = resolution.Source
	}

	model = utils.NormalizeGraph(model)
	if err := utils.ValidateGraph(model); err != nil {
		return SimulateResult{}, err
	}

	payload := req.Payload
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}

	started := time.Now()
	output, err := s.decisionEngine.Evaluate(ctx, model, payload)
	elapsed := time.Since(started)
	result.Performance = fmt.Sprintf("%.1fµs", float64(elapsed.Nanoseconds())/1000.0)

	if err != nil {
		// Failed evaluations are returned to the caller but not audited.
		return SimulateResult{}, &utils.EvaluationError{Message: err.Error()}
	}
	result.Result = output

	s.auditService.Record("simulation", "evaluate", "", map[string]interface{}{
		"documentKey": key,
		"source":      result.Source,
		"usedVersion": result.UsedVersionID,
		"env":         req.EnvKey,
		"performance": result.Performance,
	}, actor)

	return result, nil
}
