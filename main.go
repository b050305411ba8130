package main

import (
	"log"
	"strings"

	"github.com/cluetrail/backend/pkg/config"
	"github.com/cluetrail/backend/pkg/handlers"
	"github.com/cluetrail/backend/pkg/redis"
	"github.com/cluetrail/backend/pkg/services"
	"github.com/valyala/fasthttp"
)

var (
	teamHandler    *handlers.TeamHandler
	adminHandler   *handlers.AdminHandler
	catalogHandler *handlers.CatalogHandler
)

func main() {
	log.Println("🚀 Starting ClueTrail server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Error loading configuration: %v", err)
	}

	log.Printf("🔌 Connecting to Redis at %s...", cfg.RedisAddr)
	store, err := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("❌ Error connecting to Redis: %v", err)
	}
	defer store.Close()

	catalog, err := services.LoadCatalog(cfg.DataDir)
	if err != nil {
		log.Fatalf("❌ Error loading catalog from %s: %v", cfg.DataDir, err)
	}

	log.Println("⚙️  Initializing services...")
	teamService := services.NewTeamService(store, catalog, cfg.LeaderboardSize)
	adminService := services.NewAdminService(teamService, catalog)

	teamHandler = handlers.NewTeamHandler(teamService)
	adminHandler = handlers.NewAdminHandler(adminService, teamService, store)
	catalogHandler = handlers.NewCatalogHandler(catalog)

	server := &fasthttp.Server{
		Handler: requestHandler,
		Name:    "ClueTrail Server",
	}

	log.Printf("🎮 ClueTrail server listening on %s", cfg.HTTPAddr)
	log.Println("🔧 API Health: /api/health")
	log.Println("📊 Leaderboard: /api/leaderboard")

	if err := server.ListenAndServe(cfg.HTTPAddr); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	log.Printf("📡 %s %s", method, path)

	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
	ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if method == "OPTIONS" {
		ctx.SetStatusCode(fasthttp.StatusOK)
		return
	}

	switch {
	case path == "/api/health":
		adminHandler.HealthCheck(ctx)

	case path == "/api/teams" && method == "POST":
		teamHandler.RegisterTeam(ctx)
	case path == "/api/leaderboard" && method == "GET":
		teamHandler.GetLeaderboard(ctx)

	case path == "/api/puzzles" && method == "GET":
		catalogHandler.GetPuzzles(ctx)
	case path == "/api/validate" && method == "POST":
		catalogHandler.ValidateAnswer(ctx)
	case path == "/api/suspects" && method == "GET":
		catalogHandler.GetSuspects(ctx)

	case path == "/api/admin/summary" && method == "GET":
		adminHandler.GetSummary(ctx)
	case path == "/api/admin/reset" && method == "POST":
		adminHandler.Reset(ctx)

	case strings.HasPrefix(path, "/api/teams/") && method == "GET":
		handleTeamGetRoutes(ctx, path)
	case strings.HasPrefix(path, "/api/teams/") && method == "POST":
		handleTeamPostRoutes(ctx, path)

	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"success": false, "error": "not found"}`)
	}
}

func handleTeamGetRoutes(ctx *fasthttp.RequestCtx, path string) {
	parts := strings.Split(path, "/")

	// /api/teams/{id}
	if len(parts) == 4 && parts[3] != "" {
		ctx.SetUserValue("id", parts[3])
		teamHandler.GetTeam(ctx)
		return
	}

	// /api/teams/{id}/clues
	if len(parts) == 5 && parts[4] == "clues" {
		ctx.SetUserValue("id", parts[3])
		teamHandler.GetDiscoveredClues(ctx)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusNotFound)
	ctx.SetContentType("application/json")
	ctx.SetBodyString(`{"success": false, "error": "not found"}`)
}

func handleTeamPostRoutes(ctx *fasthttp.RequestCtx, path string) {
	parts := strings.Split(path, "/")

	// /api/teams/{id}/submit
	if len(parts) == 5 && parts[4] == "submit" {
		ctx.SetUserValue("id", parts[3])
		teamHandler.SubmitStep(ctx)
		return
	}

	// /api/teams/{id}/accuse
	if len(parts) == 5 && parts[4] == "accuse" {
		ctx.SetUserValue("id", parts[3])
		teamHandler.SubmitAccusation(ctx)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusNotFound)
	ctx.SetContentType("application/json")
	ctx.SetBodyString(`{"success": false, "error": "not found"}`)
}
