package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brms-lite/brms-lite/database"
	"github.com/brms-lite/brms-lite/middleware"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupRouter boots the full API against a fresh in-memory database.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(database.Models...))
	database.DB = db

	actor, err := database.EnsureDefaults(db)
	require.NoError(t, err)

	router := gin.New()
	api := router.Group("/api")
	api.Use(middleware.ActorMiddleware(actor))
	RegisterRoutes(api, actor)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndReadDocumentOverHTTP(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/documents/pricing/versions",
		`{"content": {"nodes": [], "edges": []}, "comment": "initial"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created struct {
		DocumentID string `json:"documentId"`
		VersionID  string `json:"versionId"`
		Version    int    `json:"version"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1, created.Version)

	rec = doJSON(t, router, http.MethodGet, "/api/documents/pricing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "latest", rec.Header().Get("X-Resolved-Source"))
	assert.Equal(t, created.VersionID, rec.Header().Get("X-Resolved-Version"))
	assert.JSONEq(t, `{"nodes": [], "edges": []}`, rec.Body.String())
}

func TestUnknownDocumentRespondsWithKnownKeys(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/documents/alpha/versions",
		`{"content": {"nodes": [], "edges": []}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/documents/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		OK        bool     `json:"ok"`
		Error     string   `json:"error"`
		KnownKeys []string `json:"knownKeys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.OK)
	assert.Contains(t, body.Error, "missing")
	assert.Equal(t, []string{"alpha"}, body.KnownKeys)
}

func TestSimulateEndpointEnvelope(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/simulate/scratch", `{
		"graph": {
			"nodes": [
				{"id": "in", "type": "inputNode"},
				{"id": "out", "type": "outputNode"}
			],
			"edges": [{"id": "e", "sourceId": "in", "targetId": "out"}]
		},
		"payload": {"score": 7}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		OK          bool            `json:"ok"`
		ID          string          `json:"id"`
		Env         string          `json:"env"`
		Source      string          `json:"source"`
		Performance string          `json:"performance"`
		Result      json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, "scratch", body.ID)
	assert.Equal(t, "dev", body.Env)
	assert.Equal(t, "inline", body.Source)
	assert.NotEmpty(t, body.Performance)
	assert.JSONEq(t, `{"score": 7}`, string(body.Result))
}

func TestSimulateCompatRouteUsesDefaultKey(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/simulate", `{
		"graph": {"nodes": [], "edges": []},
		"payload": {}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "default", body.ID)
}

func TestLegacyGraphRoutes(t *testing.T) {
	router := setupRouter(t)

	// Save accepts the {graph, comment} envelope.
	rec := doJSON(t, router, http.MethodPost, "/api/graphs/legacy-doc",
		`{"graph": {"nodes": [], "edges": []}, "comment": "from old ui"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"ok": true, "id": "legacy-doc", "version": 1}`, rec.Body.String())

	// Reads of unknown graphs answer an empty object, not a 404.
	rec = doJSON(t, router, http.MethodGet, "/api/graphs/never-saved", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	// Publish by legacy version number, then read the published marker.
	rec = doJSON(t, router, http.MethodPost, "/api/graphs/legacy-doc/publish", `{"version": 1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"ok": true, "id": "legacy-doc", "env": "dev", "version": 1}`, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/graphs/legacy-doc/published", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id": "legacy-doc", "env": "dev", "version": 1}`, rec.Body.String())

	// Version history in the legacy row shape.
	rec = doJSON(t, router, http.MethodGet, "/api/graphs/legacy-doc/versions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []struct {
		Version int    `json:"version"`
		Comment string `json:"comment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "from old ui", history[0].Comment)

	rec = doJSON(t, router, http.MethodDelete, "/api/graphs/legacy-doc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok": true, "id": "legacy-doc"}`, rec.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok": true}`, rec.Body.String())
}
