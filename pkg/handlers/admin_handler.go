package handlers

import (
	"fmt"

	"github.com/cluetrail/backend/pkg/redis"
	"github.com/cluetrail/backend/pkg/services"
	"github.com/valyala/fasthttp"
)

// AdminHandler serves the operator endpoints: summary, reset and health.
type AdminHandler struct {
	adminService *services.AdminService
	teamService  *services.TeamService
	store        redis.Store
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService *services.AdminService, teamService *services.TeamService, store redis.Store) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		teamService:  teamService,
		store:        store,
	}
}

// GetSummary handles GET /api/admin/summary.
func (h *AdminHandler) GetSummary(ctx *fasthttp.RequestCtx) {
	summary, err := h.adminService.GetSummary()
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, summary, fmt.Sprintf("%d team(s) summarized", summary.TeamCount))
}

// Reset handles POST /api/admin/reset. Destructive and irreversible.
func (h *AdminHandler) Reset(ctx *fasthttp.RequestCtx) {
	deleted, err := h.teamService.Reset()
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, map[string]interface{}{
		"keysDeleted": deleted,
	}, "all game state cleared")
}

// HealthCheck handles GET /api/health.
func (h *AdminHandler) HealthCheck(ctx *fasthttp.RequestCtx) {
	if err := h.store.Ping(); err != nil {
		respondWithError(ctx, fasthttp.StatusServiceUnavailable, "store unavailable")
		return
	}
	respondWithSuccess(ctx, map[string]string{"status": "ok"}, "service healthy")
}
