package models

import "time"

// Team represents a registered group progressing through the ordered
// puzzle sequence together.
type Team struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Members            []string          `json:"members"`
	CurrentPuzzleIndex int               `json:"currentPuzzleIndex"` // 1-based pointer into the puzzle sequence
	CompletedPuzzles   []CompletedPuzzle `json:"completedPuzzles"`
	DiscoveredClues    []string          `json:"discoveredClues"` // set semantics, no duplicates
	TotalScore         int               `json:"totalScore"`
	IsActive           bool              `json:"isActive"`
	AccusationMade     bool              `json:"accusationMade"`
	AccusationCorrect  bool              `json:"accusationCorrect"`
	AccusedSuspectID   string            `json:"accusedSuspectId,omitempty"`
	GameStartTime      time.Time         `json:"gameStartTime"`
	LastActivity       time.Time         `json:"lastActivity"`
	CompletionTime     *time.Time        `json:"completionTime,omitempty"`
}

// CompletedPuzzle tracks a team's cumulative effort on one puzzle.
// FinalScore stays 0 until the puzzle is fully and correctly completed,
// then it is fixed and never recomputed.
type CompletedPuzzle struct {
	PuzzleID       string          `json:"puzzleId"`
	TeamID         string          `json:"teamId"`
	FirstAttempt   time.Time       `json:"firstAttempt"`
	TimeSpentMin   int             `json:"timeSpentMinutes"` // cumulative across submissions
	Attempts       int             `json:"attempts"`         // cumulative across submissions
	HintsUsed      int             `json:"hintsUsed"`
	CompletedSteps []CompletedStep `json:"completedSteps"` // at most one entry per step id
	FinalScore     int             `json:"finalScore"`
}

// CompletedStep records the latest submission for one step of a puzzle.
// Re-submitting the same step id overwrites this record.
type CompletedStep struct {
	StepID      string      `json:"stepId"`
	CompletedAt time.Time   `json:"completedAt"`
	Attempts    int         `json:"attempts"`     // attempts reported on this call only
	TimeSpent   int         `json:"timeSpent"`    // minutes reported on this call only
	Answer      interface{} `json:"answer"`       // opaque payload, engine never inspects it
	IsCorrect   bool        `json:"isCorrect"`
}

// StepFor returns the recorded step with the given id, or nil.
func (cp *CompletedPuzzle) StepFor(stepID string) *CompletedStep {
	for i := range cp.CompletedSteps {
		if cp.CompletedSteps[i].StepID == stepID {
			return &cp.CompletedSteps[i]
		}
	}
	return nil
}

// PuzzleFor returns the team's progress record for the given puzzle, or nil.
func (t *Team) PuzzleFor(puzzleID string) *CompletedPuzzle {
	for i := range t.CompletedPuzzles {
		if t.CompletedPuzzles[i].PuzzleID == puzzleID {
			return &t.CompletedPuzzles[i]
		}
	}
	return nil
}

// HasClue reports whether the team already discovered the given clue.
func (t *Team) HasClue(clueID string) bool {
	for _, id := range t.DiscoveredClues {
		if id == clueID {
			return true
		}
	}
	return false
}
