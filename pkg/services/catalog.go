package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/cluetrail/backend/pkg/models"
)

// Catalog is the immutable reference dataset: puzzles, clues and suspects,
// loaded once at startup and indexed for lookup. It implements game.Catalog.
type Catalog struct {
	puzzles       []models.Puzzle
	puzzlesByID   map[string]*models.Puzzle
	puzzleByOrder map[int]*models.Puzzle
	clues         []models.Clue
	cluesByID     map[string]*models.Clue
	suspects      []models.Suspect
	suspectsByID  map[string]*models.Suspect
	culpritID     string
}

// LoadCatalog reads puzzles.json, clues.json and suspects.json from dir and
// builds the indexed catalog.
func LoadCatalog(dir string) (*Catalog, error) {
	var puzzlesData models.PuzzlesData
	if err := readJSONFile(filepath.Join(dir, "puzzles.json"), &puzzlesData); err != nil {
		return nil, err
	}

	var cluesData models.CluesData
	if err := readJSONFile(filepath.Join(dir, "clues.json"), &cluesData); err != nil {
		return nil, err
	}

	var suspectsData models.SuspectsData
	if err := readJSONFile(filepath.Join(dir, "suspects.json"), &suspectsData); err != nil {
		return nil, err
	}

	c := NewCatalog(puzzlesData.Puzzles, cluesData.Clues, suspectsData.Suspects)

	log.Printf("📚 Catalog loaded: %d puzzles, %d clues, %d suspects",
		len(c.puzzles), len(c.clues), len(c.suspects))

	return c, nil
}

// NewCatalog builds a catalog directly from in-memory data.
func NewCatalog(puzzles []models.Puzzle, clues []models.Clue, suspects []models.Suspect) *Catalog {
	c := &Catalog{
		puzzles:       puzzles,
		puzzlesByID:   make(map[string]*models.Puzzle),
		puzzleByOrder: make(map[int]*models.Puzzle),
		clues:         clues,
		cluesByID:     make(map[string]*models.Clue),
		suspects:      suspects,
		suspectsByID:  make(map[string]*models.Suspect),
	}
	sort.Slice(c.puzzles, func(i, j int) bool { return c.puzzles[i].Order < c.puzzles[j].Order })
	for i := range c.puzzles {
		p := &c.puzzles[i]
		c.puzzlesByID[p.ID] = p
		c.puzzleByOrder[p.Order] = p
	}
	for i := range c.clues {
		c.cluesByID[c.clues[i].ID] = &c.clues[i]
	}
	for i := range c.suspects {
		s := &c.suspects[i]
		c.suspectsByID[s.ID] = s
		if s.IsCulprit {
			c.culpritID = s.ID
		}
	}
	return c
}

// PuzzleByID returns the puzzle with the given id, or nil.
func (c *Catalog) PuzzleByID(id string) *models.Puzzle {
	return c.puzzlesByID[id]
}

// PuzzleByOrder returns the puzzle at the given 1-based sequence position,
// or nil past the end of the game.
func (c *Catalog) PuzzleByOrder(order int) *models.Puzzle {
	return c.puzzleByOrder[order]
}

// PuzzleCount returns the number of puzzles in the sequence.
func (c *Catalog) PuzzleCount() int {
	return len(c.puzzles)
}

// Puzzles returns the puzzle sequence in play order.
func (c *Catalog) Puzzles() []models.Puzzle {
	return c.puzzles
}

// Clues returns every clue definition.
func (c *Catalog) Clues() []models.Clue {
	return c.clues
}

// ClueByID returns the clue with the given id, or nil.
func (c *Catalog) ClueByID(id string) *models.Clue {
	return c.cluesByID[id]
}

// Suspects returns every suspect definition.
func (c *Catalog) Suspects() []models.Suspect {
	return c.suspects
}

// SuspectByID returns the suspect with the given id, or nil.
func (c *Catalog) SuspectByID(id string) *models.Suspect {
	return c.suspectsByID[id]
}

// CulpritID returns the id of the suspect flagged as the culprit.
func (c *Catalog) CulpritID() string {
	return c.culpritID
}

func readJSONFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
