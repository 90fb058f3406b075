package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		require.NoError(t, err, "PRAGMA %s", tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{tableUsers, tablePreferences, tableQuestions, tableAnswers, tableLLMEvents, tableSequences} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s", table)
		assert.Equal(t, table, name)
	}
}

func TestOpenTwiceIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.UserRepo().Register(context.Background(), "u1", "Asha")
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	u, err := s2.UserRepo().Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.Name)
}

func TestSequence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		require.NoError(t, err)
		seqs = append(seqs, seq)
	}

	// Monotonically increasing starting from 1.
	for i, seq := range seqs {
		assert.Equal(t, int64(i+1), seq)
	}
}

func TestUserRepo_RegisterAndPreferences(t *testing.T) {
	s := openTestStore(t)
	repo := s.UserRepo()
	ctx := context.Background()

	u, err := repo.Register(ctx, "42", "Ravi")
	require.NoError(t, err)
	assert.Equal(t, "42", u.ID)
	assert.True(t, u.Active)
	assert.False(t, u.CreatedAt.IsZero())

	prefs, err := repo.Preferences(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)

	// Registering again keeps the original record and preferences.
	_, err = repo.UpdatePreferences(ctx, "42", PreferencesUpdate{Topic: strPtr("Geography")})
	require.NoError(t, err)
	again, err := repo.Register(ctx, "42", "Someone Else")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", again.Name)
	prefs, err = repo.Preferences(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Geography", prefs.Topic)
}

func TestUserRepo_RegisterRequiresID(t *testing.T) {
	s := openTestStore(t)
	_, err := s.UserRepo().Register(context.Background(), "", "nobody")
	assert.Error(t, err)
}

func TestUserRepo_UpdatePreferencesPartial(t *testing.T) {
	s := openTestStore(t)
	repo := s.UserRepo()
	ctx := context.Background()

	_, err := repo.Register(ctx, "u", "")
	require.NoError(t, err)

	prefs, err := repo.UpdatePreferences(ctx, "u", PreferencesUpdate{
		Topic:        strPtr("Basic Mathematics"),
		MathSubtopic: strPtr("Percentages"),
	})
	require.NoError(t, err)
	assert.Equal(t, Preferences{
		Topic:        "Basic Mathematics",
		Difficulty:   DefaultDifficulty,
		MathSubtopic: "Percentages",
		Language:     DefaultLanguage,
	}, prefs)

	prefs, err = repo.UpdatePreferences(ctx, "u", PreferencesUpdate{Language: strPtr("Hindi")})
	require.NoError(t, err)
	assert.Equal(t, "Hindi", prefs.Language)
	assert.Equal(t, "Percentages", prefs.MathSubtopic)

	// Empty update just reads back.
	same, err := repo.UpdatePreferences(ctx, "u", PreferencesUpdate{})
	require.NoError(t, err)
	assert.Equal(t, prefs, same)
}

func TestUserRepo_NotFound(t *testing.T) {
	s := openTestStore(t)
	repo := s.UserRepo()
	ctx := context.Background()

	_, err := repo.Get(ctx, "ghost")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = repo.Preferences(ctx, "ghost")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = repo.UpdatePreferences(ctx, "ghost", PreferencesUpdate{Topic: strPtr("History")})
	assert.True(t, errors.Is(err, ErrNotFound))

	err = repo.SetActive(ctx, "ghost", false)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUserRepo_ActiveUsers(t *testing.T) {
	s := openTestStore(t)
	repo := s.UserRepo()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := repo.Register(ctx, id, "")
		require.NoError(t, err)
	}
	require.NoError(t, repo.SetActive(ctx, "b", false))

	ids, err := repo.ActiveUsers(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "c"}, ids)
}

func TestQuestionRepo_RecentQuestions(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	texts := []string{"first?", "second?", "third?"}
	for i, text := range texts {
		err := repo.RecordQuestion(ctx, QuestionRecord{
			UserID:     "u",
			Topic:      "Geography",
			Difficulty: "Easy",
			Text:       text,
			Options:    []string{"a", "b", "c", "d"},
			Correct:    "A",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	require.NoError(t, repo.RecordQuestion(ctx, QuestionRecord{
		UserID: "u", Topic: "Geography", Difficulty: "Hard", Text: "other difficulty?",
		Options: []string{"a", "b", "c", "d"}, Correct: "B",
	}))

	got, err := repo.RecentQuestions(ctx, "Geography", "Easy", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"third?", "second?"}, got)

	none, err := repo.RecentQuestions(ctx, "History", "Easy", 5)
	require.NoError(t, err)
	assert.Empty(t, none)

	zero, err := repo.RecentQuestions(ctx, "Geography", "Easy", 0)
	require.NoError(t, err)
	assert.Empty(t, zero)
}

func TestStatsRepo_RecordStatsReset(t *testing.T) {
	s := openTestStore(t)
	repo := s.StatsRepo()
	ctx := context.Background()

	answers := []AnswerRecord{
		{UserID: "u", Topic: "Geography", Difficulty: "Easy", Chosen: "A", Correct: true},
		{UserID: "u", Topic: "Geography", Difficulty: "Hard", Chosen: "B", Correct: false},
		{UserID: "u", Topic: "History", Difficulty: "Easy", Chosen: "C", Correct: true},
		{UserID: "other", Topic: "History", Difficulty: "Easy", Chosen: "D", Correct: true},
	}
	for _, a := range answers {
		require.NoError(t, repo.RecordAnswer(ctx, a))
	}

	st, err := repo.Stats(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, Tally{Total: 3, Correct: 2}, st.Overall)
	assert.Equal(t, Tally{Total: 2, Correct: 1}, st.ByTopic["Geography"])
	assert.Equal(t, Tally{Total: 1, Correct: 1}, st.ByTopic["History"])
	assert.Equal(t, Tally{Total: 2, Correct: 2}, st.ByDifficulty["Easy"])
	assert.Equal(t, Tally{Total: 1, Correct: 0}, st.ByDifficulty["Hard"])
	assert.InDelta(t, 66.67, st.Overall.Accuracy(), 0.01)

	require.NoError(t, repo.ResetStats(ctx, "u"))
	st, err = repo.Stats(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, Tally{}, st.Overall)
	assert.Empty(t, st.ByTopic)

	other, err := repo.Stats(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, 1, other.Overall.Total)
}

func TestTally_AccuracyEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Tally{}.Accuracy())
}

func TestEventRepo_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gpt-4o-mini", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "[user]\nhi", ResponseBody: "Question: ..."},
		{Provider: "gpt-4o-mini", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 120, OutputTokens: 60, LatencyMs: 400, Success: true},
		{Provider: "gpt-4o-mini", Model: "gpt-4o-mini", Purpose: "question-gen", LatencyMs: 30, Success: false, ErrorMessage: "rate limited"},
		{Provider: "dall-e-3", Model: "dall-e-3", Purpose: "illustration", LatencyMs: 900, Success: true},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "illustration", all[0].Purpose, "newest first")
	assert.Greater(t, all[0].Sequence, all[1].Sequence)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: all[1].Sequence})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, all[0].ID, after[0].ID)

	gen, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "question-gen"})
	require.NoError(t, err)
	assert.Len(t, gen, 3)

	failed, err := repo.QueryLLMEvents(ctx, QueryOpts{FailedOnly: true})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "rate limited", failed[0].ErrorMessage)

	first := all[3]
	got, err := repo.GetLLMEvent(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "[user]\nhi", got.RequestBody)
	assert.Equal(t, "Question: ...", got.ResponseBody)
	assert.True(t, got.Success)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, PurposeUsage{Purpose: "illustration", Calls: 1, AvgLatencyMs: 900}, byPurpose[0])
	assert.Equal(t, "question-gen", byPurpose[1].Purpose)
	assert.Equal(t, 3, byPurpose[1].Calls)
	assert.Equal(t, 220, byPurpose[1].InputTokens)
	assert.Equal(t, int64(210), byPurpose[1].AvgLatencyMs)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, ModelUsage{Model: "gpt-4o-mini", Calls: 2, InputTokens: 220, OutputTokens: 110}, byModel[1])
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("MCQBOT_DB", filepath.Join(dir, "explicit", "bot.db"))
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "explicit", "bot.db"), p)
	assert.DirExists(t, filepath.Join(dir, "explicit"))

	t.Setenv("MCQBOT_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mcqbot", "mcqbot.db"), p)
}
