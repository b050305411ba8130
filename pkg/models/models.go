package models

import "time"

// APIResponse is the standard envelope for every API response.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterTeamRequest is the payload for team registration.
type RegisterTeamRequest struct {
	Name    string   `json:"name" validate:"required,min=3,max=50"`
	Members []string `json:"members" validate:"required,min=1,max=4,dive,min=2"`
}

// SubmitStepRequest is the payload for a step submission. Correctness is
// pre-computed by the caller's validation pass; the engine records it as-is.
// A hint-only report has attempts = 0, no answer and hintsUsed > 0.
type SubmitStepRequest struct {
	PuzzleID  string      `json:"puzzleId" validate:"required"`
	StepID    string      `json:"stepId"`
	Answer    interface{} `json:"answer"`
	IsCorrect bool        `json:"isCorrect"`
	TimeSpent int         `json:"timeSpent" validate:"gte=0"` // minutes
	Attempts  int         `json:"attempts" validate:"gte=0"`
	HintsUsed int         `json:"hintsUsed" validate:"gte=0"`
}

// ValidateAnswerRequest asks the server to evaluate an answer against a
// step's validation rule, for clients that do not validate locally.
type ValidateAnswerRequest struct {
	PuzzleID string      `json:"puzzleId" validate:"required"`
	StepID   string      `json:"stepId" validate:"required"`
	Answer   interface{} `json:"answer"`
}

// AccusationRequest is the payload for a team's final accusation.
type AccusationRequest struct {
	SuspectID string `json:"suspectId" validate:"required"`
}

// TeamResponse wraps one or many teams.
type TeamResponse struct {
	Team     *Team  `json:"team,omitempty"`
	Teams    []Team `json:"teams,omitempty"`
	NewClues []Clue `json:"newClues,omitempty"`
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank           int        `json:"rank"`
	TeamID         string     `json:"teamId"`
	TeamName       string     `json:"teamName"`
	Score          int        `json:"score"`
	PuzzleIndex    int        `json:"puzzleIndex"`
	CluesFound     int        `json:"cluesFound"`
	IsActive       bool       `json:"isActive"`
	LastCompletion *time.Time `json:"lastCompletion,omitempty"`
}

// LeaderboardResponse is the ordered leaderboard plus totals.
type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	TotalTeams  int                `json:"totalTeams"`
	ActiveTeams int                `json:"activeTeams"`
}

// TeamSummary is the per-team block of the admin summary.
type TeamSummary struct {
	TeamID             string    `json:"teamId"`
	TeamName           string    `json:"teamName"`
	CurrentPuzzle      string    `json:"currentPuzzle"`
	CurrentPuzzleSteps int       `json:"currentPuzzleSteps"`
	CompletionPercent  float64   `json:"completionPercent"`
	CluesDiscovered    int       `json:"cluesDiscovered"`
	TotalScore         int       `json:"totalScore"`
	ElapsedMinutes     int       `json:"elapsedMinutes"`
	IsActive           bool      `json:"isActive"`
	LastActivity       time.Time `json:"lastActivity"`
}

// AdminSummary is the operator view: every team plus aggregate stats.
type AdminSummary struct {
	Teams              []TeamSummary `json:"teams"`
	TeamCount          int           `json:"teamCount"`
	ActiveCount        int           `json:"activeCount"`
	AverageProgress    float64       `json:"averageProgress"`
	TotalScore         int           `json:"totalScore"`
	AverageElapsedMins float64       `json:"averageElapsedMinutes"`
}
