package game

// Scoring constants. The time penalty is capped at 30% of the base so a
// slow-but-correct team keeps most of the puzzle's value, and every
// completed puzzle is worth at least the floor.
const (
	basePerDifficulty = 1000
	timePenaltyRate   = 5
	timePenaltyCap    = 0.3
	attemptPenalty    = 50
	hintPenalty       = 100
	scoreFloor        = 100
)

// Score computes the fixed score for a completed puzzle from the cumulative
// time (minutes), attempts and hints recorded against it. Pure and
// deterministic.
func Score(timeSpentMinutes, attempts, hintsUsed, difficulty int) int {
	base := basePerDifficulty * difficulty

	timePen := timeSpentMinutes * timePenaltyRate
	if maxTimePen := int(float64(base) * timePenaltyCap); timePen > maxTimePen {
		timePen = maxTimePen
	}

	attemptPen := 0
	if attempts > 1 {
		attemptPen = (attempts - 1) * attemptPenalty
	}

	score := base - timePen - attemptPen - hintsUsed*hintPenalty
	if score < scoreFloor {
		return scoreFloor
	}
	return score
}
