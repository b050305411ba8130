package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cluetrail/backend/pkg/models"
)

// The team codec maps the Team entity onto a flat string-keyed hash record:
// arrays and nested structs collapse to one JSON-string field each,
// timestamps use a sortable RFC3339 form, booleans the literals
// "true"/"false". Redis hashes only hold strings, so this is the entire
// persistence contract for a team.

const timeLayout = time.RFC3339Nano

// EncodeTeam flattens a team into the hash record stored under team:<id>.
func EncodeTeam(t *models.Team) (map[string]string, error) {
	members, err := json.Marshal(t.Members)
	if err != nil {
		return nil, fmt.Errorf("encoding members: %w", err)
	}
	puzzles, err := json.Marshal(t.CompletedPuzzles)
	if err != nil {
		return nil, fmt.Errorf("encoding completed puzzles: %w", err)
	}
	clues, err := json.Marshal(t.DiscoveredClues)
	if err != nil {
		return nil, fmt.Errorf("encoding discovered clues: %w", err)
	}

	fields := map[string]string{
		"id":                 t.ID,
		"name":               t.Name,
		"members":            string(members),
		"currentPuzzleIndex": strconv.Itoa(t.CurrentPuzzleIndex),
		"completedPuzzles":   string(puzzles),
		"discoveredClues":    string(clues),
		"totalScore":         strconv.Itoa(t.TotalScore),
		"isActive":           strconv.FormatBool(t.IsActive),
		"accusationMade":     strconv.FormatBool(t.AccusationMade),
		"accusationCorrect":  strconv.FormatBool(t.AccusationCorrect),
		"accusedSuspectId":   t.AccusedSuspectID,
		"gameStartTime":      t.GameStartTime.Format(timeLayout),
		"lastActivity":       t.LastActivity.Format(timeLayout),
	}
	if t.CompletionTime != nil {
		fields["completionTime"] = t.CompletionTime.Format(timeLayout)
	} else {
		fields["completionTime"] = ""
	}
	return fields, nil
}

// DecodeTeam rebuilds a team from its hash record. Optional collection
// fields absent on older records decode to empty collections instead of
// failing.
func DecodeTeam(fields map[string]string) (*models.Team, error) {
	t := &models.Team{
		ID:               fields["id"],
		Name:             fields["name"],
		AccusedSuspectID: fields["accusedSuspectId"],
	}

	if raw := fields["members"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &t.Members); err != nil {
			return nil, fmt.Errorf("decoding members: %w", err)
		}
	}
	t.CompletedPuzzles = []models.CompletedPuzzle{}
	if raw := fields["completedPuzzles"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &t.CompletedPuzzles); err != nil {
			return nil, fmt.Errorf("decoding completed puzzles: %w", err)
		}
	}
	t.DiscoveredClues = []string{}
	if raw := fields["discoveredClues"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &t.DiscoveredClues); err != nil {
			return nil, fmt.Errorf("decoding discovered clues: %w", err)
		}
	}

	var err error
	if t.CurrentPuzzleIndex, err = parseIntField(fields, "currentPuzzleIndex"); err != nil {
		return nil, err
	}
	if t.TotalScore, err = parseIntField(fields, "totalScore"); err != nil {
		return nil, err
	}

	t.IsActive = fields["isActive"] == "true"
	t.AccusationMade = fields["accusationMade"] == "true"
	t.AccusationCorrect = fields["accusationCorrect"] == "true"

	if t.GameStartTime, err = parseTimeField(fields, "gameStartTime"); err != nil {
		return nil, err
	}
	if t.LastActivity, err = parseTimeField(fields, "lastActivity"); err != nil {
		return nil, err
	}
	if raw := fields["completionTime"]; raw != "" {
		ct, err := time.Parse(timeLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("decoding completionTime: %w", err)
		}
		t.CompletionTime = &ct
	}

	return t, nil
}

// EncodeLeaderboardEntry serializes a leaderboard summary for the entries
// hash; the numeric score lives separately in the sorted set.
func EncodeLeaderboardEntry(e models.LeaderboardEntry) (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("encoding leaderboard entry: %w", err)
	}
	return string(data), nil
}

// DecodeLeaderboardEntry is the inverse of EncodeLeaderboardEntry.
func DecodeLeaderboardEntry(raw string) (models.LeaderboardEntry, error) {
	var e models.LeaderboardEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return e, fmt.Errorf("decoding leaderboard entry: %w", err)
	}
	return e, nil
}

func parseIntField(fields map[string]string, name string) (int, error) {
	raw := fields[name]
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decoding %s %q: %w", name, raw, err)
	}
	return int(v), nil
}

func parseTimeField(fields map[string]string, name string) (time.Time, error) {
	raw := fields[name]
	if raw == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("decoding %s %q: %w", name, raw, err)
	}
	return ts, nil
}
