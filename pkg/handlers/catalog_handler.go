package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/cluetrail/backend/pkg/game"
	"github.com/cluetrail/backend/pkg/models"
	"github.com/cluetrail/backend/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasthttp"
)

// CatalogHandler serves read-only projections of the reference dataset and
// server-side answer validation.
type CatalogHandler struct {
	catalog  *services.Catalog
	validate *validator.Validate
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog *services.Catalog) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		validate: validator.New(),
	}
}

// puzzleView is a Puzzle stripped of its validation rules, so expected
// answers never leave the server.
type puzzleView struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Order      int        `json:"order"`
	Difficulty int        `json:"difficulty"`
	Steps      []stepView `json:"steps"`
}

type stepView struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Kind   string `json:"type"`
	Prompt string `json:"prompt"`
}

// GetPuzzles handles GET /api/puzzles.
func (h *CatalogHandler) GetPuzzles(ctx *fasthttp.RequestCtx) {
	puzzles := h.catalog.Puzzles()

	views := make([]puzzleView, 0, len(puzzles))
	for _, p := range puzzles {
		view := puzzleView{
			ID:         p.ID,
			Title:      p.Title,
			Order:      p.Order,
			Difficulty: p.Difficulty,
			Steps:      make([]stepView, 0, len(p.Steps)),
		}
		for _, s := range p.Steps {
			view.Steps = append(view.Steps, stepView{
				ID:     s.ID,
				Title:  s.Title,
				Kind:   s.Kind,
				Prompt: s.Prompt,
			})
		}
		views = append(views, view)
	}

	respondWithSuccess(ctx, map[string]interface{}{
		"puzzles": views,
		"count":   len(views),
	}, fmt.Sprintf("%d puzzle(s) in play", len(views)))
}

// suspectView hides the culprit flag from players.
type suspectView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Motive      string `json:"motive"`
}

// GetSuspects handles GET /api/suspects.
func (h *CatalogHandler) GetSuspects(ctx *fasthttp.RequestCtx) {
	suspects := h.catalog.Suspects()

	views := make([]suspectView, 0, len(suspects))
	for _, s := range suspects {
		views = append(views, suspectView{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Motive:      s.Motive,
		})
	}

	respondWithSuccess(ctx, map[string]interface{}{
		"suspects": views,
		"count":    len(views),
	}, fmt.Sprintf("%d suspect(s)", len(views)))
}

// ValidateAnswer handles POST /api/validate. It evaluates an answer against
// a step's rule without touching any team state; clients pass the result on
// to the submission endpoint.
func (h *CatalogHandler) ValidateAnswer(ctx *fasthttp.RequestCtx) {
	var req models.ValidateAnswerRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "puzzleId and stepId are required")
		return
	}

	puzzle := h.catalog.PuzzleByID(req.PuzzleID)
	if puzzle == nil {
		respondWithError(ctx, fasthttp.StatusNotFound, "unknown puzzle")
		return
	}
	var step *models.PuzzleStep
	for i := range puzzle.Steps {
		if puzzle.Steps[i].ID == req.StepID {
			step = &puzzle.Steps[i]
			break
		}
	}
	if step == nil {
		respondWithError(ctx, fasthttp.StatusNotFound, "unknown step")
		return
	}

	respondWithSuccess(ctx, map[string]interface{}{
		"isCorrect": game.EvaluateStep(req.Answer, *step),
	}, "answer evaluated")
}
