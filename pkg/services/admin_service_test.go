package services

import (
	"testing"

	"github.com/cluetrail/backend/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminSummary(t *testing.T) {
	svc, _ := newTestService()
	admin := NewAdminService(svc, testCatalog())

	teamA, err := svc.RegisterTeam("Night Owls", []string{"Ana", "Budi"})
	require.NoError(t, err)
	_, err = svc.RegisterTeam("Early Birds", []string{"Citra"})
	require.NoError(t, err)

	// Team A completes the first of two puzzles.
	for _, stepID := range []string{"s1", "s2", "s3"} {
		_, _, err = svc.SubmitStep(teamA.ID, correctSubmission("p1", stepID, 0))
		require.NoError(t, err)
	}

	summary, err := admin.GetSummary()
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TeamCount)
	assert.Equal(t, 2, summary.ActiveCount)
	assert.InDelta(t, 25.0, summary.AverageProgress, 0.01) // (50% + 0%) / 2
	assert.Positive(t, summary.TotalScore)

	var owls *models.TeamSummary
	for i := range summary.Teams {
		if summary.Teams[i].TeamID == teamA.ID {
			owls = &summary.Teams[i]
		}
	}
	require.NotNil(t, owls)
	assert.Equal(t, "The Security Footage", owls.CurrentPuzzle)
	assert.Equal(t, 2, owls.CurrentPuzzleSteps)
	assert.InDelta(t, 50.0, owls.CompletionPercent, 0.01)
	assert.Equal(t, 2, owls.CluesDiscovered)
}

func TestAdminSummaryEmpty(t *testing.T) {
	svc, _ := newTestService()
	admin := NewAdminService(svc, testCatalog())

	summary, err := admin.GetSummary()
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TeamCount)
	assert.Zero(t, summary.AverageProgress)
	assert.Empty(t, summary.Teams)
}
