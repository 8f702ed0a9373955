package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/brms-lite/brms-lite/database"
	"github.com/brms-lite/brms-lite/models"
	"github.com/brms-lite/brms-lite/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphContent(marker string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"nodes":[{"id":"%s"}],"edges":[]}`, marker))
}

func TestCreateVersionNumbersSequentially(t *testing.T) {
	actor := setupTest(t)
	svc := NewVersionService()

	doc, v1, err := svc.CreateVersion("pricing", graphContent("a"), "first", actor)
	require.NoError(t, err)
	assert.Equal(t, 1, v1.Version)
	assert.Equal(t, "pricing", doc.Key)
	assert.Equal(t, models.DefaultContentType, doc.ContentType)

	doc2, v2, err := svc.CreateVersion("pricing", graphContent("b"), "", actor)
	require.NoError(t, err)
	assert.Equal(t, 2, v2.Version)
	assert.Equal(t, doc.ID, doc2.ID, "second write must reuse the document row")
}

func TestCreateVersionRejectsEmptyAndInvalidContent(t *testing.T) {
	actor := setupTest(t)
	svc := NewVersionService()

	_, _, err := svc.CreateVersion("pricing", nil, "", actor)
	var validationErr *utils.ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, _, err = svc.CreateVersion("pricing", json.RawMessage(`{not json`), "", actor)
	require.ErrorAs(t, err, &validationErr)
}

func TestGetLatestAndOrdinalAreDistinct(t *testing.T) {
	actor := setupTest(t)
	svc := NewVersionService()

	_, _, err := svc.CreateVersion("loan", graphContent("first"), "", actor)
	require.NoError(t, err)
	_, _, err = svc.CreateVersion("loan", graphContent("second"), "", actor)
	require.NoError(t, err)
	_, _, err = svc.CreateVersion("loan", graphContent("third"), "", actor)
	require.NoError(t, err)

	latest, err := svc.GetLatest("loan", actor)
	require.NoError(t, err)
	assert.Equal(t, 3, latest.Version)

	// Ordinal 1 is the earliest created version, never the newest.
	first, err := svc.GetByOrdinal("loan", 1, actor)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.JSONEq(t, string(graphContent("first")), string(first.Content))

	_, err = svc.GetByOrdinal("loan", 0, actor)
	var validationErr *utils.ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.GetByOrdinal("loan", 99, actor)
	var notFound *utils.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestUnknownDocumentEnumeratesKnownKeys(t *testing.T) {
	actor := setupTest(t)
	svc := NewVersionService()

	_, _, err := svc.CreateVersion("alpha", graphContent("a"), "", actor)
	require.NoError(t, err)
	_, _, err = svc.CreateVersion("beta", graphContent("b"), "", actor)
	require.NoError(t, err)

	_, err = svc.GetLatest("missing", actor)
	var notFound *utils.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Key)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, notFound.KnownKeys)
}

func TestListVersionsNewestFirst(t *testing.T) {
	actor := setupTest(t)
	svc := NewVersionService()

	for i := 0; i < 3; i++ {
		_, _, err := svc.CreateVersion("order", graphContent(fmt.Sprintf("v%d", i)), "", actor)
		require.NoError(t, err)
	}

	versions, err := svc.ListVersions("order", actor)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, 3, versions[0].Version)
	assert.Equal(t, 1, versions[2].Version)
}

func TestDeleteDocumentFreesTheKey(t *testing.T) {
	actor := setupTest(t)
	svc := NewVersionService()

	_, _, err := svc.CreateVersion("tmp", graphContent("a"), "", actor)
	require.NoError(t, err)
	_, _, err = svc.CreateVersion("tmp", graphContent("b"), "", actor)
	require.NoError(t, err)

	deleted, err := svc.DeleteDocument("tmp", actor)
	require.NoError(t, err)

	_, err = svc.GetLatest("tmp", actor)
	var notFound *utils.NotFoundError
	require.ErrorAs(t, err, &notFound)

	// Re-creating the key starts a fresh history at version 1.
	doc, version, err := svc.CreateVersion("tmp", graphContent("c"), "", actor)
	require.NoError(t, err)
	assert.NotEqual(t, deleted.ID, doc.ID)
	assert.Equal(t, 1, version.Version)

	// The soft-deleted document's version rows survive for audit history.
	var count int64
	require.NoError(t, database.DB.Model(&models.DocumentVersion{}).
		Where("document_id = ?", deleted.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestCreateVersionAuditsTheWrite(t *testing.T) {
	actor := setupTest(t)
	svc := NewVersionService()

	_, version, err := svc.CreateVersion("audited", graphContent("a"), "why", actor)
	require.NoError(t, err)

	var entry models.AuditLogEntry
	require.NoError(t, database.DB.Where("ref_id = ?", version.ID).First(&entry).Error)
	assert.Equal(t, "document", entry.EntryType)
	assert.Equal(t, "version.create", entry.Action)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, actor.UserID, *entry.ActorID)
}

func TestActiveDocumentKeyUniqueInSchema(t *testing.T) {
	actor := setupTest(t)
	svc := NewVersionService()

	_, _, err := svc.CreateVersion("dup", graphContent("a"), "", actor)
	require.NoError(t, err)

	// A second active row for the same (project, key) must be rejected by
	// the schema itself, not just the find-or-create path.
	err = database.DB.Create(&models.Document{
		ProjectID: actor.ProjectID,
		Key:       "dup",
		Name:      "dup",
	}).Error
	require.Error(t, err)
	assert.True(t, utils.IsDuplicateKey(err))

	// Soft-deleting the document frees the slot for a new active row.
	_, err = svc.DeleteDocument("dup", actor)
	require.NoError(t, err)
	err = database.DB.Create(&models.Document{
		ProjectID: actor.ProjectID,
		Key:       "dup",
		Name:      "dup",
	}).Error
	require.NoError(t, err)
}

func TestDocumentScopedToProject(t *testing.T) {
	actor := setupTest(t)
	svc := NewVersionService()

	_, _, err := svc.CreateVersion("shared-key", graphContent("a"), "", actor)
	require.NoError(t, err)

	other := actor
	otherProject := models.Project{Name: "other", OrganisationID: actor.OrganisationID}
	require.NoError(t, database.DB.Create(&otherProject).Error)
	other.ProjectID = otherProject.ID

	_, err = svc.GetLatest("shared-key", other)
	var notFound *utils.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Empty(t, notFound.KnownKeys)
}
