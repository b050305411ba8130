package game

import (
	"time"

	"github.com/cluetrail/backend/pkg/models"
)

// Catalog is the read-only reference dataset the engine evaluates against.
type Catalog interface {
	PuzzleByID(id string) *models.Puzzle
	PuzzleByOrder(order int) *models.Puzzle
	PuzzleCount() int
	Clues() []models.Clue
}

// Submission carries one raw step submission into the engine. Correctness
// has already been decided by the caller's validation pass.
type Submission struct {
	PuzzleID  string
	StepID    string
	Answer    interface{}
	IsCorrect bool
	TimeSpent int // minutes spent on this submission
	Attempts  int // attempts on this submission; 0 marks a hint-only report
	HintsUsed int
}

// IsHintOnly reports whether the submission only records hint usage:
// no attempt, no answer, at least one hint.
func (s Submission) IsHintOnly() bool {
	return s.Attempts == 0 && s.Answer == nil && s.HintsUsed > 0
}

// ApplyStepSubmission applies one submission to the team state and returns
// the ids of any newly revealed clues. The team is mutated in place; callers
// own persistence of the result.
//
// A submission for a puzzle id missing from the catalog still records effort
// but can never complete: completion requires a non-empty required step set.
func ApplyStepSubmission(catalog Catalog, team *models.Team, sub Submission, now time.Time) []string {
	cp := team.PuzzleFor(sub.PuzzleID)
	if cp == nil {
		team.CompletedPuzzles = append(team.CompletedPuzzles, models.CompletedPuzzle{
			PuzzleID:     sub.PuzzleID,
			TeamID:       team.ID,
			FirstAttempt: now,
		})
		cp = &team.CompletedPuzzles[len(team.CompletedPuzzles)-1]
	}

	team.LastActivity = now

	if sub.IsHintOnly() {
		cp.HintsUsed += sub.HintsUsed
		return nil
	}

	step := models.CompletedStep{
		StepID:      sub.StepID,
		CompletedAt: now,
		Attempts:    sub.Attempts,
		TimeSpent:   sub.TimeSpent,
		Answer:      sub.Answer,
		IsCorrect:   sub.IsCorrect,
	}
	if existing := cp.StepFor(sub.StepID); existing != nil {
		*existing = step
	} else {
		cp.CompletedSteps = append(cp.CompletedSteps, step)
	}

	// Effort counts even when the answer is wrong.
	cp.TimeSpentMin += sub.TimeSpent
	cp.Attempts += sub.Attempts
	cp.HintsUsed += sub.HintsUsed

	puzzle := catalog.PuzzleByID(sub.PuzzleID)
	if puzzle != nil && cp.FinalScore == 0 && isPuzzleComplete(puzzle, cp) {
		cp.FinalScore = Score(cp.TimeSpentMin, cp.Attempts, cp.HintsUsed, puzzle.Difficulty)
		team.TotalScore += cp.FinalScore

		// The pointer tracks the ordered sequence: it only advances when
		// the puzzle at the current index closes, never past count+1.
		if puzzle.Order == team.CurrentPuzzleIndex && team.CurrentPuzzleIndex <= catalog.PuzzleCount() {
			team.CurrentPuzzleIndex++
			advancePastCompleted(catalog, team)
		}
	}

	newClues := RevealableClues(catalog, team)
	team.DiscoveredClues = append(team.DiscoveredClues, newClues...)
	return newClues
}

// RevealableClues scans the clue catalog and returns the ids of clues whose
// reveal condition the team now satisfies and that are not yet discovered.
// Completion is re-derived from the step records on every call; there is no
// cached completion flag to go stale.
func RevealableClues(catalog Catalog, team *models.Team) []string {
	var revealed []string
	for _, clue := range catalog.Clues() {
		if team.HasClue(clue.ID) {
			continue
		}
		cp := team.PuzzleFor(clue.RevealCondition.PuzzleID)
		if cp == nil {
			continue
		}
		if stepID := clue.RevealCondition.StepID; stepID != "" {
			if s := cp.StepFor(stepID); s != nil && s.IsCorrect {
				revealed = append(revealed, clue.ID)
			}
			continue
		}
		puzzle := catalog.PuzzleByID(clue.RevealCondition.PuzzleID)
		if puzzle != nil && isPuzzleComplete(puzzle, cp) {
			revealed = append(revealed, clue.ID)
		}
	}
	return revealed
}

// advancePastCompleted moves the pointer over any puzzles the team already
// completed out of order, so it always rests on the first unfinished puzzle
// (or count+1 when everything is done). Without this the pointer would
// dead-end: an out-of-order puzzle is scored exactly once, so its own
// completion block never fires again to push the pointer along.
func advancePastCompleted(catalog Catalog, team *models.Team) {
	for team.CurrentPuzzleIndex <= catalog.PuzzleCount() {
		next := catalog.PuzzleByOrder(team.CurrentPuzzleIndex)
		if next == nil {
			return
		}
		cp := team.PuzzleFor(next.ID)
		if cp == nil || !isPuzzleComplete(next, cp) {
			return
		}
		team.CurrentPuzzleIndex++
	}
}

// isPuzzleComplete reports whether every step the catalog defines for the
// puzzle has a correct recorded submission. A puzzle with no defined steps
// is never complete.
func isPuzzleComplete(puzzle *models.Puzzle, cp *models.CompletedPuzzle) bool {
	if len(puzzle.Steps) == 0 {
		return false
	}
	for _, stepID := range puzzle.StepIDs() {
		s := cp.StepFor(stepID)
		if s == nil || !s.IsCorrect {
			return false
		}
	}
	return true
}
