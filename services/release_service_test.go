package services

import (
	"testing"

	"github.com/brms-lite/brms-lite/database"
	"github.com/brms-lite/brms-lite/models"
	"github.com/brms-lite/brms-lite/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReleaseWithNothingPublished(t *testing.T) {
	actor := setupTest(t)
	versions := NewVersionService()
	releases := NewReleaseService()

	// Versions exist but nothing is published; the bundle is legal and empty.
	_, _, err := versions.CreateVersion("d", graphContent("a"), "", actor)
	require.NoError(t, err)

	release, err := releases.CreateRelease("", "", actor)
	require.NoError(t, err)
	assert.Equal(t, 1, release.Version)
	assert.Equal(t, "release-v1", release.Name)

	files, err := releases.ListReleaseFiles(release.ID, actor)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCreateReleaseSnapshotsPublishedDocuments(t *testing.T) {
	actor := setupTest(t)
	versions := NewVersionService()
	publications := NewPublicationService()
	releases := NewReleaseService()

	_, _, err := versions.CreateVersion("published-doc", graphContent("p"), "", actor)
	require.NoError(t, err)
	_, err = publications.Publish("published-doc", "", actor)
	require.NoError(t, err)

	// This one stays unpublished and must not enter the bundle.
	_, _, err = versions.CreateVersion("draft-doc", graphContent("d"), "", actor)
	require.NoError(t, err)

	release, err := releases.CreateRelease("summer", "June rules", actor)
	require.NoError(t, err)
	assert.Equal(t, "summer", release.Name)

	files, err := releases.ListReleaseFiles(release.ID, actor)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "published-doc", files[0].Path)
	assert.JSONEq(t, string(graphContent("p")), string(files[0].Content))
}

func TestReleaseFilesAreFrozen(t *testing.T) {
	actor := setupTest(t)
	versions := NewVersionService()
	publications := NewPublicationService()
	releases := NewReleaseService()

	_, _, err := versions.CreateVersion("d", graphContent("original"), "", actor)
	require.NoError(t, err)
	_, err = publications.Publish("d", "", actor)
	require.NoError(t, err)

	release, err := releases.CreateRelease("", "", actor)
	require.NoError(t, err)

	// New content and a republish must not reach the existing bundle.
	_, _, err = versions.CreateVersion("d", graphContent("changed"), "", actor)
	require.NoError(t, err)
	_, err = publications.Publish("d", "", actor)
	require.NoError(t, err)

	files, err := releases.ListReleaseFiles(release.ID, actor)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.JSONEq(t, string(graphContent("original")), string(files[0].Content))
}

func TestReleaseVersionsIncrementPerProject(t *testing.T) {
	actor := setupTest(t)
	releases := NewReleaseService()

	first, err := releases.CreateRelease("", "", actor)
	require.NoError(t, err)
	second, err := releases.CreateRelease("", "", actor)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)

	summaries, err := releases.ListReleases(actor)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 2, summaries[0].Version, "newest first")
}

func TestReleaseVersionUniqueInSchema(t *testing.T) {
	actor := setupTest(t)
	releases := NewReleaseService()

	release, err := releases.CreateRelease("", "", actor)
	require.NoError(t, err)

	// A second active release with the same (project, version) must be
	// rejected by the schema itself, not just the MAX+1 numbering.
	err = database.DB.Create(&models.Release{
		ProjectID: actor.ProjectID,
		Version:   release.Version,
		Name:      "shadow",
		CreatedBy: actor.UserID,
	}).Error
	require.Error(t, err)
	assert.True(t, utils.IsDuplicateKey(err))

	// A soft-deleted release keeps its number without blocking reuse.
	require.NoError(t, database.DB.Delete(&models.Release{}, "id = ?", release.ID).Error)
	next, err := releases.CreateRelease("", "", actor)
	require.NoError(t, err)
	assert.Equal(t, release.Version, next.Version)
}

func TestListReleaseFilesUnknownRelease(t *testing.T) {
	actor := setupTest(t)
	releases := NewReleaseService()

	_, err := releases.ListReleaseFiles("00000000-0000-0000-0000-00000000dead", actor)
	var notFound *utils.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
