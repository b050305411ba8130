package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/cluetrail/backend/pkg/game"
	"github.com/cluetrail/backend/pkg/models"
	"github.com/cluetrail/backend/pkg/redis"
	"github.com/google/uuid"
)

const (
	leaderboardKey        = "leaderboard"
	leaderboardEntriesKey = "leaderboard:entries"
)

func teamKey(id string) string      { return "team:" + id }
func analyticsKey(id string) string { return "analytics:" + id }

// TeamService owns the team lifecycle: registration, step submissions,
// accusations, leaderboard and reset. All team mutations funnel through it.
type TeamService struct {
	store           redis.Store
	catalog         *Catalog
	leaderboardSize int64

	// One mutex per team id guards the read-modify-write cycle against
	// concurrent submissions from the same team. This assumes a single
	// server process in front of the store; a cross-process deployment
	// would need a versioned conditional write instead.
	locks sync.Map
}

// NewTeamService creates a team service over the given store and catalog.
func NewTeamService(store redis.Store, catalog *Catalog, leaderboardSize int) *TeamService {
	if leaderboardSize <= 0 {
		leaderboardSize = 100
	}
	return &TeamService{
		store:           store,
		catalog:         catalog,
		leaderboardSize: int64(leaderboardSize),
	}
}

func (s *TeamService) lockFor(teamID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(teamID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// RegisterTeam creates a new team at the first puzzle with empty progress.
func (s *TeamService) RegisterTeam(name string, members []string) (*models.Team, error) {
	now := time.Now()
	team := &models.Team{
		ID:                 uuid.New().String(),
		Name:               name,
		Members:            members,
		CurrentPuzzleIndex: 1,
		CompletedPuzzles:   []models.CompletedPuzzle{},
		DiscoveredClues:    []string{},
		TotalScore:         0,
		IsActive:           true,
		GameStartTime:      now,
		LastActivity:       now,
	}

	if err := s.saveTeam(team); err != nil {
		return nil, err
	}
	if err := s.updateLeaderboard(team); err != nil {
		log.Printf("⚠️ Error seeding leaderboard for team %s: %v", team.ID, err)
	}

	log.Printf("✅ Team registered: %s (%s, %d members)", team.Name, team.ID, len(team.Members))
	return team, nil
}

// GetTeam loads and decodes the team with the given id.
func (s *TeamService) GetTeam(teamID string) (*models.Team, error) {
	fields, err := s.store.GetHash(teamKey(teamID))
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
		}
		return nil, err
	}
	team, err := DecodeTeam(fields)
	if err != nil {
		return nil, fmt.Errorf("decoding team %s: %w", teamID, err)
	}
	return team, nil
}

// ListTeams returns every persisted team, found by key-pattern scan.
func (s *TeamService) ListTeams() ([]models.Team, error) {
	keys, err := s.store.KeysByPattern("team:*")
	if err != nil {
		return nil, err
	}

	teams := make([]models.Team, 0, len(keys))
	for _, key := range keys {
		fields, err := s.store.GetHash(key)
		if err != nil {
			log.Printf("⚠️ Error reading %s: %v", key, err)
			continue
		}
		team, err := DecodeTeam(fields)
		if err != nil {
			log.Printf("⚠️ Error decoding %s: %v", key, err)
			continue
		}
		teams = append(teams, *team)
	}
	return teams, nil
}

// SubmitStep applies one step submission to the team and persists the
// result. It returns the updated team and the full clue objects revealed by
// this submission. The write-back is the one unsafe window: a store failure
// there surfaces as ErrCommitFailed so the caller knows to re-read instead
// of blindly retrying.
func (s *TeamService) SubmitStep(teamID string, req models.SubmitStepRequest) (*models.Team, []models.Clue, error) {
	sub := game.Submission{
		PuzzleID:  req.PuzzleID,
		StepID:    req.StepID,
		Answer:    req.Answer,
		IsCorrect: req.IsCorrect,
		TimeSpent: req.TimeSpent,
		Attempts:  req.Attempts,
		HintsUsed: req.HintsUsed,
	}
	if !sub.IsHintOnly() && sub.StepID == "" {
		return nil, nil, fmt.Errorf("%w: stepId is required", ErrValidation)
	}

	mu := s.lockFor(teamID)
	mu.Lock()
	defer mu.Unlock()

	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, nil, err
	}

	newClueIDs := game.ApplyStepSubmission(s.catalog, team, sub, time.Now())

	if err := s.saveTeam(team); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	if err := s.updateLeaderboard(team); err != nil {
		log.Printf("⚠️ Error updating leaderboard for team %s: %v", teamID, err)
	}
	s.trackSubmission(teamID, sub, len(newClueIDs))

	newClues := make([]models.Clue, 0, len(newClueIDs))
	for _, id := range newClueIDs {
		if clue := s.catalog.ClueByID(id); clue != nil {
			newClues = append(newClues, *clue)
		}
	}
	return team, newClues, nil
}

// SubmitAccusation records the team's final accusation and deactivates it.
func (s *TeamService) SubmitAccusation(teamID, suspectID string) (*models.Team, error) {
	suspect := s.catalog.SuspectByID(suspectID)
	if suspect == nil {
		return nil, fmt.Errorf("%w: unknown suspect %s", ErrValidation, suspectID)
	}

	mu := s.lockFor(teamID)
	mu.Lock()
	defer mu.Unlock()

	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, err
	}
	if team.AccusationMade {
		return nil, fmt.Errorf("%w: team %s already made its accusation", ErrValidation, teamID)
	}

	now := time.Now()
	team.AccusationMade = true
	team.AccusationCorrect = suspect.IsCulprit
	team.AccusedSuspectID = suspectID
	team.IsActive = false
	team.CompletionTime = &now
	team.LastActivity = now

	if err := s.saveTeam(team); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	if err := s.updateLeaderboard(team); err != nil {
		log.Printf("⚠️ Error updating leaderboard for team %s: %v", teamID, err)
	}

	log.Printf("🔍 Team %s accused %s (correct: %t)", team.Name, suspect.Name, team.AccusationCorrect)
	return team, nil
}

// DiscoveredClues resolves the team's discovered clue ids to full clue
// objects, in discovery order.
func (s *TeamService) DiscoveredClues(teamID string) ([]models.Clue, error) {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, err
	}
	clues := make([]models.Clue, 0, len(team.DiscoveredClues))
	for _, id := range team.DiscoveredClues {
		if clue := s.catalog.ClueByID(id); clue != nil {
			clues = append(clues, *clue)
		}
	}
	return clues, nil
}

// GetLeaderboard returns the top teams by score with 1-based ranks.
// Ties in score go to the team with the earlier last completion; teams with
// no completions rank last within the tie, by id so the order is stable.
func (s *TeamService) GetLeaderboard() (*models.LeaderboardResponse, error) {
	members, err := s.store.ZSetTopN(leaderboardKey, s.leaderboardSize)
	if err != nil {
		return nil, err
	}

	resp := &models.LeaderboardResponse{Leaderboard: []models.LeaderboardEntry{}}
	if len(members) == 0 {
		return resp, nil
	}

	raw, err := s.store.GetHash(leaderboardEntriesKey)
	if err != nil && !errors.Is(err, redis.ErrNotFound) {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(members))
	for _, m := range members {
		encoded, ok := raw[m.Member]
		if !ok {
			continue
		}
		entry, err := DecodeLeaderboardEntry(encoded)
		if err != nil {
			log.Printf("⚠️ Error decoding leaderboard entry %s: %v", m.Member, err)
			continue
		}
		entry.Score = int(m.Score)
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		ci, cj := entries[i].LastCompletion, entries[j].LastCompletion
		switch {
		case ci != nil && cj != nil && !ci.Equal(*cj):
			return ci.Before(*cj)
		case ci != nil && cj == nil:
			return true
		case ci == nil && cj != nil:
			return false
		}
		return entries[i].TeamID < entries[j].TeamID
	})

	for i := range entries {
		entries[i].Rank = i + 1
		if entries[i].IsActive {
			resp.ActiveTeams++
		}
	}
	resp.Leaderboard = entries
	resp.TotalTeams = len(entries)
	return resp, nil
}

// Reset destructively clears all persisted game state. Operator use only.
func (s *TeamService) Reset() (int, error) {
	total := 0
	for _, pattern := range []string{"team:*", "analytics:*", leaderboardKey, leaderboardEntriesKey} {
		n, err := s.store.DeleteByPattern(pattern)
		if err != nil {
			return total, err
		}
		total += n
	}
	log.Printf("🧹 Reset complete: %d keys deleted", total)
	return total, nil
}

func (s *TeamService) saveTeam(team *models.Team) error {
	fields, err := EncodeTeam(team)
	if err != nil {
		return err
	}
	return s.store.SetHash(teamKey(team.ID), fields)
}

func (s *TeamService) updateLeaderboard(team *models.Team) error {
	entry := models.LeaderboardEntry{
		TeamID:         team.ID,
		TeamName:       team.Name,
		Score:          team.TotalScore,
		PuzzleIndex:    team.CurrentPuzzleIndex,
		CluesFound:     len(team.DiscoveredClues),
		IsActive:       team.IsActive,
		LastCompletion: lastCompletionTime(team),
	}
	encoded, err := EncodeLeaderboardEntry(entry)
	if err != nil {
		return err
	}
	if err := s.store.SetHash(leaderboardEntriesKey, map[string]string{team.ID: encoded}); err != nil {
		return err
	}
	return s.store.ZSetAdd(leaderboardKey, team.ID, float64(team.TotalScore))
}

// trackSubmission bumps the per-team analytics counters. Failures only log:
// the counters are advisory and never gate game state.
func (s *TeamService) trackSubmission(teamID string, sub game.Submission, cluesUnlocked int) {
	key := analyticsKey(teamID)
	counters := map[string]int64{
		"submissions":   1,
		"hintsUsed":     int64(sub.HintsUsed),
		"cluesUnlocked": int64(cluesUnlocked),
	}
	if sub.IsCorrect && !sub.IsHintOnly() {
		counters["correctSteps"] = 1
	}
	for field, delta := range counters {
		if delta == 0 {
			continue
		}
		if err := s.store.IncrHashField(key, field, delta); err != nil {
			log.Printf("⚠️ Error tracking %s for team %s: %v", field, teamID, err)
		}
	}
}

// lastCompletionTime returns the timestamp at which the team's score last
// grew: the latest correct-step time across scored puzzles. Nil when the
// team has not completed anything yet.
func lastCompletionTime(team *models.Team) *time.Time {
	var last *time.Time
	for i := range team.CompletedPuzzles {
		cp := &team.CompletedPuzzles[i]
		if cp.FinalScore == 0 {
			continue
		}
		for j := range cp.CompletedSteps {
			ts := cp.CompletedSteps[j].CompletedAt
			if cp.CompletedSteps[j].IsCorrect && (last == nil || ts.After(*last)) {
				t := ts
				last = &t
			}
		}
	}
	return last
}
