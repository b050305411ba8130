package models

// ValidationRule describes how a submitted answer for a step is checked.
// Kind "custom" is an extension point: the generic evaluator always returns
// false for it and callers register a per-step-type predicate instead.
type ValidationRule struct {
	Kind          string `json:"type"` // "exact", "contains", "regex", "numeric", "custom"
	Value         string `json:"value"`
	CaseSensitive bool   `json:"caseSensitive"`
}

// PuzzleStep is an atomic question/task within a puzzle.
type PuzzleStep struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Kind       string         `json:"type"` // "multiple-choice", "text-input", "cipher", "image-analysis", ...
	Prompt     string         `json:"prompt"`
	Validation ValidationRule `json:"validation"`
}

// Puzzle is an ordered set of steps; Order is its 1-based position in the
// game sequence and Difficulty (1-5) feeds the scoring formula.
type Puzzle struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Order      int          `json:"order"`
	Difficulty int          `json:"difficulty"`
	Steps      []PuzzleStep `json:"steps"`
}

// StepIDs returns the ids of every step defined for the puzzle.
func (p *Puzzle) StepIDs() []string {
	ids := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		ids[i] = s.ID
	}
	return ids
}

// RevealCondition gates a clue's visibility: the puzzle must be fully
// complete, or the named step must be recorded correct when StepID is set.
type RevealCondition struct {
	PuzzleID string `json:"puzzleId"`
	StepID   string `json:"stepId,omitempty"`
}

// Clue is a narrative reward unlocked by a puzzle/step completion condition.
type Clue struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Content         string          `json:"content"`
	Category        string          `json:"category"`
	Importance      string          `json:"importance"` // "critical", "important", "minor"
	RevealCondition RevealCondition `json:"revealCondition"`
	RelatedSuspects []string        `json:"relatedSuspects,omitempty"`
	RelatedEvidence []string        `json:"relatedEvidence,omitempty"`
}

// Suspect is reference data for the final accusation.
type Suspect struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Motive      string `json:"motive"`
	IsCulprit   bool   `json:"isCulprit"`
}

// PuzzlesData is the on-disk shape of the puzzle catalog file.
type PuzzlesData struct {
	Puzzles  []Puzzle `json:"puzzles"`
	Metadata struct {
		Total       int    `json:"totalPuzzles"`
		Version     string `json:"version"`
		Description string `json:"description"`
	} `json:"metadata"`
}

// CluesData is the on-disk shape of the clue catalog file.
type CluesData struct {
	Clues []Clue `json:"clues"`
}

// SuspectsData is the on-disk shape of the suspect catalog file.
type SuspectsData struct {
	Suspects []Suspect `json:"suspects"`
}
