package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogFromDataDir(t *testing.T) {
	catalog, err := LoadCatalog("../../data")
	require.NoError(t, err)

	assert.Equal(t, 3, catalog.PuzzleCount())

	p1 := catalog.PuzzleByID("p1")
	require.NotNil(t, p1)
	assert.Equal(t, 1, p1.Order)
	assert.Equal(t, []string{"s1", "s2", "s3"}, p1.StepIDs())

	assert.Same(t, p1, catalog.PuzzleByOrder(1))
	assert.Nil(t, catalog.PuzzleByOrder(99))
	assert.Nil(t, catalog.PuzzleByID("ghost"))

	require.NotEmpty(t, catalog.Clues())
	c1 := catalog.ClueByID("c1")
	require.NotNil(t, c1)
	assert.Equal(t, "p1", c1.RevealCondition.PuzzleID)
	assert.Equal(t, "s1", c1.RevealCondition.StepID)

	assert.Equal(t, "sus-hartono", catalog.CulpritID())
	require.NotNil(t, catalog.SuspectByID("sus-ratna"))
	assert.False(t, catalog.SuspectByID("sus-ratna").IsCulprit)
}

func TestLoadCatalogMissingDir(t *testing.T) {
	_, err := LoadCatalog("does-not-exist")
	assert.Error(t, err)
}

func TestCatalogPuzzlesSortedByOrder(t *testing.T) {
	catalog, err := LoadCatalog("../../data")
	require.NoError(t, err)

	puzzles := catalog.Puzzles()
	for i := 1; i < len(puzzles); i++ {
		assert.Less(t, puzzles[i-1].Order, puzzles[i].Order)
	}
}
