package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/cluetrail/backend/pkg/models"
	"github.com/cluetrail/backend/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasthttp"
)

// TeamHandler serves the team-facing endpoints: registration, progress
// submission, per-team fetch, clues and leaderboard.
type TeamHandler struct {
	teamService *services.TeamService
	validate    *validator.Validate
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		validate:    validator.New(),
	}
}

// RegisterTeam handles POST /api/teams.
func (h *TeamHandler) RegisterTeam(ctx *fasthttp.RequestCtx) {
	var req models.RegisterTeamRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest,
			"team name must be 3-50 characters and 1-4 members of at least 2 characters each")
		return
	}

	team, err := h.teamService.RegisterTeam(req.Name, req.Members)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, models.TeamResponse{Team: team}, "team registered")
}

// GetTeam handles GET /api/teams/{id}.
func (h *TeamHandler) GetTeam(ctx *fasthttp.RequestCtx) {
	teamID := ctx.UserValue("id").(string)

	team, err := h.teamService.GetTeam(teamID)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, models.TeamResponse{Team: team}, "team retrieved")
}

// SubmitStep handles POST /api/teams/{id}/submit.
func (h *TeamHandler) SubmitStep(ctx *fasthttp.RequestCtx) {
	teamID := ctx.UserValue("id").(string)

	var req models.SubmitStepRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest,
			"puzzleId is required and timeSpent/attempts/hintsUsed must be non-negative")
		return
	}

	team, newClues, err := h.teamService.SubmitStep(teamID, req)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	message := "progress recorded"
	if len(newClues) > 0 {
		message = fmt.Sprintf("progress recorded, %d new clue(s) unlocked", len(newClues))
	}
	respondWithSuccess(ctx, models.TeamResponse{Team: team, NewClues: newClues}, message)
}

// SubmitAccusation handles POST /api/teams/{id}/accuse.
func (h *TeamHandler) SubmitAccusation(ctx *fasthttp.RequestCtx) {
	teamID := ctx.UserValue("id").(string)

	var req models.AccusationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "suspectId is required")
		return
	}

	team, err := h.teamService.SubmitAccusation(teamID, req.SuspectID)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	message := "accusation recorded"
	if team.AccusationCorrect {
		message = "accusation recorded: case closed!"
	}
	respondWithSuccess(ctx, models.TeamResponse{Team: team}, message)
}

// GetDiscoveredClues handles GET /api/teams/{id}/clues.
func (h *TeamHandler) GetDiscoveredClues(ctx *fasthttp.RequestCtx) {
	teamID := ctx.UserValue("id").(string)

	clues, err := h.teamService.DiscoveredClues(teamID)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, map[string]interface{}{
		"clues": clues,
		"count": len(clues),
	}, fmt.Sprintf("%d clue(s) discovered", len(clues)))
}

// GetLeaderboard handles GET /api/leaderboard.
func (h *TeamHandler) GetLeaderboard(ctx *fasthttp.RequestCtx) {
	leaderboard, err := h.teamService.GetLeaderboard()
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, leaderboard, "leaderboard retrieved")
}
