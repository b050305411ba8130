package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		timeSpent  int
		attempts   int
		hintsUsed  int
		difficulty int
		want       int
	}{
		{"perfect hardest puzzle", 0, 1, 0, 5, 5000},
		{"time penalty capped at 30% of base", 1000, 1, 0, 1, 700},
		{"typical completion", 2, 3, 0, 3, 2890},
		{"one hint", 0, 1, 1, 1, 900},
		{"first attempt free", 5, 1, 0, 2, 1975},
		{"second attempt penalized", 5, 2, 0, 2, 1925},
		{"zero attempts treated like first", 0, 0, 0, 1, 1000},
		{"floor engages", 10000, 50, 50, 1, 100},
		{"floor on low difficulty with hints", 0, 1, 10, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.timeSpent, tt.attempts, tt.hintsUsed, tt.difficulty))
		})
	}
}

func TestScoreNeverBelowFloor(t *testing.T) {
	for difficulty := 1; difficulty <= 5; difficulty++ {
		for attempts := 0; attempts < 200; attempts += 37 {
			got := Score(99999, attempts, 25, difficulty)
			assert.GreaterOrEqual(t, got, 100)
		}
	}
}
