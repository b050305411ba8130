package services

import (
	"time"

	"github.com/cluetrail/backend/pkg/models"
)

// AdminService derives operator reporting from the persisted team records.
// Read-only: it never mutates game state. Concurrent submissions during a
// scan can mix pre- and post-update state across teams; that is acceptable
// for a monitoring view.
type AdminService struct {
	teams   *TeamService
	catalog *Catalog
}

// NewAdminService creates the reporting service.
func NewAdminService(teams *TeamService, catalog *Catalog) *AdminService {
	return &AdminService{teams: teams, catalog: catalog}
}

// GetSummary folds over every team record and returns per-team summaries
// plus aggregate statistics.
func (a *AdminService) GetSummary() (*models.AdminSummary, error) {
	teams, err := a.teams.ListTeams()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	summary := &models.AdminSummary{
		Teams:     make([]models.TeamSummary, 0, len(teams)),
		TeamCount: len(teams),
	}

	var progressSum, elapsedSum float64
	for i := range teams {
		t := &teams[i]

		ts := models.TeamSummary{
			TeamID:            t.ID,
			TeamName:          t.Name,
			CompletionPercent: a.completionPercent(t),
			CluesDiscovered:   len(t.DiscoveredClues),
			TotalScore:        t.TotalScore,
			ElapsedMinutes:    int(now.Sub(t.GameStartTime).Minutes()),
			IsActive:          t.IsActive,
			LastActivity:      t.LastActivity,
		}
		if p := a.catalog.PuzzleByOrder(t.CurrentPuzzleIndex); p != nil {
			ts.CurrentPuzzle = p.Title
			ts.CurrentPuzzleSteps = len(p.Steps)
		} else {
			ts.CurrentPuzzle = "Finished"
		}

		summary.Teams = append(summary.Teams, ts)
		summary.TotalScore += t.TotalScore
		if t.IsActive {
			summary.ActiveCount++
		}
		progressSum += ts.CompletionPercent
		elapsedSum += float64(ts.ElapsedMinutes)
	}

	if len(teams) > 0 {
		summary.AverageProgress = progressSum / float64(len(teams))
		summary.AverageElapsedMins = elapsedSum / float64(len(teams))
	}
	return summary, nil
}

// completionPercent is the share of catalog puzzles the team has fully
// completed and scored.
func (a *AdminService) completionPercent(t *models.Team) float64 {
	total := a.catalog.PuzzleCount()
	if total == 0 {
		return 0
	}
	completed := 0
	for i := range t.CompletedPuzzles {
		if t.CompletedPuzzles[i].FinalScore > 0 {
			completed++
		}
	}
	return float64(completed) / float64(total) * 100
}
