package services

import (
	"testing"

	"github.com/brms-lite/brms-lite/models"
	"github.com/brms-lite/brms-lite/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeployAssignsReleaseAndRecordsRun(t *testing.T) {
	actor := setupTest(t)
	releases := NewReleaseService()
	deployments := NewDeploymentService()

	release, err := releases.CreateRelease("", "", actor)
	require.NoError(t, err)
	dev := environmentByKey(t, actor.ProjectID, "dev")

	run, err := deployments.Deploy(dev.ID, release.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, "deploy-dev", run.Name)
	assert.Equal(t, models.WorkflowStatusCompleted, run.Status)
	require.NotNil(t, run.ReleaseID)
	assert.Equal(t, release.ID, *run.ReleaseID)
	assert.NotNil(t, run.CompletedAt)

	environments, err := deployments.ListEnvironments(actor)
	require.NoError(t, err)
	for _, env := range environments {
		if env.ID == dev.ID {
			require.NotNil(t, env.CurrentReleaseID)
			assert.Equal(t, release.ID, *env.CurrentReleaseID)
		} else {
			assert.Nil(t, env.CurrentReleaseID)
		}
	}

	jobs, err := deployments.ListWorkflowJobs(run.ID, actor)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, dev.ID, jobs[0].EnvironmentID)
	assert.Equal(t, models.WorkflowStatusCompleted, jobs[0].Status)
	assert.NotNil(t, jobs[0].CompletedAt)
}

func TestDeployOverwritesPreviousRelease(t *testing.T) {
	actor := setupTest(t)
	releases := NewReleaseService()
	deployments := NewDeploymentService()

	first, err := releases.CreateRelease("", "", actor)
	require.NoError(t, err)
	second, err := releases.CreateRelease("", "", actor)
	require.NoError(t, err)
	dev := environmentByKey(t, actor.ProjectID, "dev")

	_, err = deployments.Deploy(dev.ID, first.ID, actor)
	require.NoError(t, err)
	_, err = deployments.Deploy(dev.ID, second.ID, actor)
	require.NoError(t, err)

	current := environmentByKey(t, actor.ProjectID, "dev")
	require.NotNil(t, current.CurrentReleaseID)
	assert.Equal(t, second.ID, *current.CurrentReleaseID)

	runs, err := deployments.ListWorkflowRuns(actor)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestDeployValidation(t *testing.T) {
	actor := setupTest(t)
	releases := NewReleaseService()
	deployments := NewDeploymentService()

	release, err := releases.CreateRelease("", "", actor)
	require.NoError(t, err)
	dev := environmentByKey(t, actor.ProjectID, "dev")

	_, err = deployments.Deploy(dev.ID, "", actor)
	var validationErr *utils.ValidationError
	require.ErrorAs(t, err, &validationErr)

	var notFound *utils.NotFoundError
	_, err = deployments.Deploy("00000000-0000-0000-0000-00000000dead", release.ID, actor)
	require.ErrorAs(t, err, &notFound)

	_, err = deployments.Deploy(dev.ID, "00000000-0000-0000-0000-00000000dead", actor)
	require.ErrorAs(t, err, &notFound)
}

func TestEnvironmentsListedInWorkflowOrder(t *testing.T) {
	actor := setupTest(t)
	deployments := NewDeploymentService()

	environments, err := deployments.ListEnvironments(actor)
	require.NoError(t, err)
	require.Len(t, environments, 3)
	assert.Equal(t, "dev", environments[0].Key)
	assert.Equal(t, "staging", environments[1].Key)
	assert.Equal(t, "prod", environments[2].Key)
}
