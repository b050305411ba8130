package services

import (
	"strings"
	"testing"
	"time"

	"github.com/cluetrail/backend/pkg/models"
	"github.com/cluetrail/backend/pkg/redis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory redis.Store for service tests.
type memStore struct {
	hashes     map[string]map[string]string
	zsets      map[string]map[string]float64
	failWrites bool
}

func newMemStore() *memStore {
	return &memStore{
		hashes: make(map[string]map[string]string),
		zsets:  make(map[string]map[string]float64),
	}
}

func (m *memStore) SetHash(key string, fields map[string]string) error {
	if m.failWrites {
		return redis.ErrUnavailable
	}
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *memStore) GetHash(key string) (map[string]string, error) {
	h, ok := m.hashes[key]
	if !ok || len(h) == 0 {
		return nil, redis.ErrNotFound
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) IncrHashField(key, field string, delta int64) error {
	if m.failWrites {
		return redis.ErrUnavailable
	}
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	cur := int64(0)
	if raw, ok := h[field]; ok {
		for _, ch := range raw {
			cur = cur*10 + int64(ch-'0')
		}
	}
	h[field] = fmtInt(cur + delta)
	return nil
}

func fmtInt(v int64) string {
	if v == 0 {
		return "0"
	}
	var b []byte
	for v > 0 {
		b = append([]byte{byte('0' + v%10)}, b...)
		v /= 10
	}
	return string(b)
}

func (m *memStore) ZSetAdd(key, member string, score float64) error {
	if m.failWrites {
		return redis.ErrUnavailable
	}
	z, ok := m.zsets[key]
	if !ok {
		z = make(map[string]float64)
		m.zsets[key] = z
	}
	z[member] = score
	return nil
}

func (m *memStore) ZSetTopN(key string, n int64) ([]redis.ScoredMember, error) {
	z := m.zsets[key]
	members := make([]redis.ScoredMember, 0, len(z))
	for member, score := range z {
		members = append(members, redis.ScoredMember{Member: member, Score: score})
	}
	// Descending score; member order within a score is unspecified, as in
	// the real store.
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			if members[j].Score > members[i].Score {
				members[i], members[j] = members[j], members[i]
			}
		}
	}
	if int64(len(members)) > n {
		members = members[:n]
	}
	return members, nil
}

func (m *memStore) KeysByPattern(pattern string) ([]string, error) {
	var keys []string
	for key := range m.hashes {
		if matchPattern(pattern, key) {
			keys = append(keys, key)
		}
	}
	for key := range m.zsets {
		if matchPattern(pattern, key) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (m *memStore) DeleteByPattern(pattern string) (int, error) {
	n := 0
	for key := range m.hashes {
		if matchPattern(pattern, key) {
			delete(m.hashes, key)
			n++
		}
	}
	for key := range m.zsets {
		if matchPattern(pattern, key) {
			delete(m.zsets, key)
			n++
		}
	}
	return n, nil
}

func (m *memStore) Ping() error { return nil }

func matchPattern(pattern, key string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(key, strings.TrimSuffix(pattern, "*"))
	}
	return pattern == key
}

func testCatalog() *Catalog {
	puzzles := []models.Puzzle{
		{
			ID: "p1", Title: "The Warehouse Ledger", Order: 1, Difficulty: 3,
			Steps: []models.PuzzleStep{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}},
		},
		{
			ID: "p2", Title: "The Security Footage", Order: 2, Difficulty: 2,
			Steps: []models.PuzzleStep{{ID: "s1"}, {ID: "s2"}},
		},
	}
	clues := []models.Clue{
		{ID: "c1", Title: "Forged manifest", RevealCondition: models.RevealCondition{PuzzleID: "p1", StepID: "s1"}},
		{ID: "c2", Title: "Inside knowledge", RevealCondition: models.RevealCondition{PuzzleID: "p1"}},
	}
	suspects := []models.Suspect{
		{ID: "sus-hartono", Name: "Hartono Wijaya", IsCulprit: true},
		{ID: "sus-ratna", Name: "Ratna Sari"},
	}
	return NewCatalog(puzzles, clues, suspects)
}

func newTestService() (*TeamService, *memStore) {
	store := newMemStore()
	return NewTeamService(store, testCatalog(), 100), store
}

func correctSubmission(puzzleID, stepID string, minutes int) models.SubmitStepRequest {
	return models.SubmitStepRequest{
		PuzzleID:  puzzleID,
		StepID:    stepID,
		Answer:    "answer",
		IsCorrect: true,
		TimeSpent: minutes,
		Attempts:  1,
	}
}

func TestRegisterAndFetchTeam(t *testing.T) {
	svc, store := newTestService()

	team, err := svc.RegisterTeam("Night Owls", []string{"Ana", "Budi"})
	require.NoError(t, err)
	assert.NotEmpty(t, team.ID)
	assert.Equal(t, 1, team.CurrentPuzzleIndex)
	assert.Equal(t, 0, team.TotalScore)
	assert.True(t, team.IsActive)
	assert.False(t, team.GameStartTime.IsZero())

	fetched, err := svc.GetTeam(team.ID)
	require.NoError(t, err)
	assert.Equal(t, team.ID, fetched.ID)
	assert.Equal(t, []string{"Ana", "Budi"}, fetched.Members)

	// The team record landed under its scoped key.
	_, ok := store.hashes["team:"+team.ID]
	assert.True(t, ok)
}

func TestGetTeamNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetTeam("nope")
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestSubmitStepRequiresStepID(t *testing.T) {
	svc, _ := newTestService()
	team, err := svc.RegisterTeam("Night Owls", []string{"Ana"})
	require.NoError(t, err)

	_, _, err = svc.SubmitStep(team.ID, models.SubmitStepRequest{PuzzleID: "p1", Attempts: 1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitStepUnknownTeam(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.SubmitStep("ghost", correctSubmission("p1", "s1", 1))
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestSubmitStepFullPuzzleFlow(t *testing.T) {
	svc, store := newTestService()
	team, err := svc.RegisterTeam("Night Owls", []string{"Ana", "Budi"})
	require.NoError(t, err)

	updated, newClues, err := svc.SubmitStep(team.ID, correctSubmission("p1", "s1", 1))
	require.NoError(t, err)
	require.Len(t, newClues, 1)
	assert.Equal(t, "c1", newClues[0].ID)
	assert.Equal(t, "Forged manifest", newClues[0].Title)
	assert.Equal(t, 1, updated.CurrentPuzzleIndex)

	_, _, err = svc.SubmitStep(team.ID, correctSubmission("p1", "s2", 1))
	require.NoError(t, err)

	updated, newClues, err = svc.SubmitStep(team.ID, correctSubmission("p1", "s3", 0))
	require.NoError(t, err)
	require.Len(t, newClues, 1)
	assert.Equal(t, "c2", newClues[0].ID)

	// 2 cumulative minutes, 3 attempts, difficulty 3.
	assert.Equal(t, 2890, updated.TotalScore)
	assert.Equal(t, 2, updated.CurrentPuzzleIndex)
	assert.ElementsMatch(t, []string{"c1", "c2"}, updated.DiscoveredClues)

	// Persisted state matches the returned state.
	persisted, err := svc.GetTeam(team.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.TotalScore, persisted.TotalScore)
	assert.Equal(t, updated.CurrentPuzzleIndex, persisted.CurrentPuzzleIndex)

	// Leaderboard sorted set tracks the score.
	assert.Equal(t, float64(2890), store.zsets[leaderboardKey][team.ID])

	// Analytics counters advanced.
	analytics := store.hashes["analytics:"+team.ID]
	require.NotNil(t, analytics)
	assert.Equal(t, "3", analytics["submissions"])
	assert.Equal(t, "3", analytics["correctSteps"])
	assert.Equal(t, "2", analytics["cluesUnlocked"])
}

func TestSubmitStepCommitFailure(t *testing.T) {
	svc, store := newTestService()
	team, err := svc.RegisterTeam("Night Owls", []string{"Ana"})
	require.NoError(t, err)

	store.failWrites = true
	_, _, err = svc.SubmitStep(team.ID, correctSubmission("p1", "s1", 1))
	assert.ErrorIs(t, err, ErrCommitFailed)

	// The stored record is untouched: the failure happened on write-back.
	store.failWrites = false
	persisted, err := svc.GetTeam(team.ID)
	require.NoError(t, err)
	assert.Empty(t, persisted.CompletedPuzzles)
}

func TestHintOnlySubmissionThroughService(t *testing.T) {
	svc, _ := newTestService()
	team, err := svc.RegisterTeam("Night Owls", []string{"Ana"})
	require.NoError(t, err)

	updated, newClues, err := svc.SubmitStep(team.ID, models.SubmitStepRequest{
		PuzzleID:  "p1",
		HintsUsed: 2,
	})
	require.NoError(t, err)
	assert.Empty(t, newClues)

	cp := updated.PuzzleFor("p1")
	require.NotNil(t, cp)
	assert.Equal(t, 2, cp.HintsUsed)
	assert.Empty(t, cp.CompletedSteps)
}

func TestAccusationFlow(t *testing.T) {
	svc, _ := newTestService()
	team, err := svc.RegisterTeam("Night Owls", []string{"Ana"})
	require.NoError(t, err)

	_, err = svc.SubmitAccusation(team.ID, "sus-nobody")
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := svc.SubmitAccusation(team.ID, "sus-hartono")
	require.NoError(t, err)
	assert.True(t, updated.AccusationMade)
	assert.True(t, updated.AccusationCorrect)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "sus-hartono", updated.AccusedSuspectID)
	require.NotNil(t, updated.CompletionTime)

	// Only one accusation per team.
	_, err = svc.SubmitAccusation(team.ID, "sus-ratna")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestWrongAccusation(t *testing.T) {
	svc, _ := newTestService()
	team, err := svc.RegisterTeam("Night Owls", []string{"Ana"})
	require.NoError(t, err)

	updated, err := svc.SubmitAccusation(team.ID, "sus-ratna")
	require.NoError(t, err)
	assert.True(t, updated.AccusationMade)
	assert.False(t, updated.AccusationCorrect)
	assert.False(t, updated.IsActive)
}

func TestLeaderboardRankingAndTieBreak(t *testing.T) {
	svc, store := newTestService()

	early := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	seed := func(id, name string, score int, completed *time.Time) {
		entry := models.LeaderboardEntry{TeamID: id, TeamName: name, Score: score, LastCompletion: completed, IsActive: true}
		encoded, err := EncodeLeaderboardEntry(entry)
		require.NoError(t, err)
		require.NoError(t, store.SetHash(leaderboardEntriesKey, map[string]string{id: encoded}))
		require.NoError(t, store.ZSetAdd(leaderboardKey, id, float64(score)))
	}

	seed("t-slow", "Slow Burn", 2000, &late)
	seed("t-fast", "Fast Lane", 2000, &early)
	seed("t-top", "Top Dogs", 3000, &early)
	seed("t-new", "Newcomers", 0, nil)

	resp, err := svc.GetLeaderboard()
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 4)

	assert.Equal(t, "t-top", resp.Leaderboard[0].TeamID)
	assert.Equal(t, 1, resp.Leaderboard[0].Rank)
	// Same score: the earlier completion wins.
	assert.Equal(t, "t-fast", resp.Leaderboard[1].TeamID)
	assert.Equal(t, "t-slow", resp.Leaderboard[2].TeamID)
	assert.Equal(t, "t-new", resp.Leaderboard[3].TeamID)
	assert.Equal(t, 4, resp.Leaderboard[3].Rank)
	assert.Equal(t, 4, resp.TotalTeams)
}

func TestLeaderboardSizeCap(t *testing.T) {
	store := newMemStore()
	svc := NewTeamService(store, testCatalog(), 3)

	seed := func(id string, score int) {
		entry := models.LeaderboardEntry{TeamID: id, TeamName: id, Score: score}
		encoded, err := EncodeLeaderboardEntry(entry)
		require.NoError(t, err)
		require.NoError(t, store.SetHash(leaderboardEntriesKey, map[string]string{id: encoded}))
		require.NoError(t, store.ZSetAdd(leaderboardKey, id, float64(score)))
	}

	for i, score := range []int{100, 400, 200, 300} {
		seed(string(rune('a'+i)), score)
	}

	resp, err := svc.GetLeaderboard()
	require.NoError(t, err)

	// Only the top 3 of 4 teams survive the cap, highest first; the
	// lowest-scored team never makes the board.
	require.Len(t, resp.Leaderboard, 3)
	assert.Equal(t, "b", resp.Leaderboard[0].TeamID)
	assert.Equal(t, 400, resp.Leaderboard[0].Score)
	assert.Equal(t, "d", resp.Leaderboard[1].TeamID)
	assert.Equal(t, "c", resp.Leaderboard[2].TeamID)
	assert.Equal(t, 3, resp.Leaderboard[2].Rank)
	assert.Equal(t, 3, resp.TotalTeams)
}

func TestEmptyLeaderboard(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.GetLeaderboard()
	require.NoError(t, err)
	assert.Empty(t, resp.Leaderboard)
	assert.Equal(t, 0, resp.TotalTeams)
}

func TestListTeams(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.RegisterTeam("Night Owls", []string{"Ana"})
	require.NoError(t, err)
	_, err = svc.RegisterTeam("Early Birds", []string{"Budi"})
	require.NoError(t, err)

	teams, err := svc.ListTeams()
	require.NoError(t, err)
	assert.Len(t, teams, 2)
}

func TestReset(t *testing.T) {
	svc, store := newTestService()

	team, err := svc.RegisterTeam("Night Owls", []string{"Ana"})
	require.NoError(t, err)
	_, _, err = svc.SubmitStep(team.ID, correctSubmission("p1", "s1", 1))
	require.NoError(t, err)

	deleted, err := svc.Reset()
	require.NoError(t, err)
	assert.Positive(t, deleted)

	assert.Empty(t, store.hashes)
	assert.Empty(t, store.zsets)

	_, err = svc.GetTeam(team.ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}
