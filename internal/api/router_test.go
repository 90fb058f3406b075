package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mcqbot/internal/api/handler"
	"github.com/abhisek/mcqbot/internal/problemgen"
	"github.com/abhisek/mcqbot/internal/quiz"
	"github.com/abhisek/mcqbot/internal/ratelimit"
	"github.com/abhisek/mcqbot/internal/store"
)

const draft = "Question: 2+2?\nA) 3\nB) 4\nC) 5\nD) 6\nCorrect Answer: B\nExplanation: Basic addition."

type cannedGenerator struct {
	mu     sync.Mutex
	inputs []problemgen.Input
}

func (g *cannedGenerator) GenerateText(_ context.Context, in problemgen.Input) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inputs = append(g.inputs, in)
	return draft, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	router *gin.Engine
	gen    *cannedGenerator
	clock  *fakeClock
	store  *store.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	gen := &cannedGenerator{}
	svc := quiz.NewService(gen,
		quiz.NewPersister(st.QuestionRepo(), st.StatsRepo()),
		quiz.WithLogger(logger),
		quiz.WithGate(ratelimit.NewGate(ratelimit.DefaultCooldown, ratelimit.WithClock(clock.Now))),
	)

	router := NewRouter(Deps{
		Questions: svc,
		Users:     st.UserRepo(),
		Stats:     st.StatsRepo(),
		Logger:    logger,
		Version:   "test",
	})
	return &testEnv{router: router, gen: gen, clock: clock, store: st}
}

type envelope struct {
	Success  bool               `json:"success"`
	Data     json.RawMessage    `json:"data"`
	Error    *handler.ErrorInfo `json:"error"`
	Metadata handler.Metadata   `json:"metadata"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if path != "/health" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
		assert.NotEmpty(t, env.Metadata.Timestamp)
		assert.Equal(t, w.Header().Get("X-Request-ID"), env.Metadata.RequestID)
	}
	return w.Code, env
}

func (e *testEnv) register(t *testing.T, id string) {
	t.Helper()
	code, env := e.do(t, http.MethodPost, "/api/users", map[string]string{"id": id, "name": "Test"})
	require.Equal(t, http.StatusCreated, code)
	require.True(t, env.Success)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestTopics(t *testing.T) {
	env := newTestEnv(t)
	code, resp := env.do(t, http.MethodGet, "/api/topics", nil)
	require.Equal(t, http.StatusOK, code)

	var topics handler.TopicsResponse
	require.NoError(t, json.Unmarshal(resp.Data, &topics))
	assert.Equal(t, problemgen.RandomTopic, topics.Topics[0])
	assert.Len(t, topics.Topics, len(problemgen.Topics)+1)
	assert.Len(t, topics.MathSubtopics, 23)
	assert.Equal(t, []string{"Easy", "Medium", "Hard"}, topics.Difficulties)
}

func TestRegisterAndPreferences(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(t, http.MethodPost, "/api/users", map[string]string{"id": "42", "name": "Ravi"})
	require.Equal(t, http.StatusCreated, code)
	var user handler.UserResponse
	require.NoError(t, json.Unmarshal(resp.Data, &user))
	assert.Equal(t, "42", user.ID)
	assert.True(t, user.Active)
	assert.Equal(t, store.DefaultPreferences(), user.Preferences)

	code, resp = env.do(t, http.MethodPut, "/api/users/42/preferences", map[string]string{
		"topic":      "Basic Mathematics",
		"difficulty": "Hard",
	})
	require.Equal(t, http.StatusOK, code)
	var prefs store.Preferences
	require.NoError(t, json.Unmarshal(resp.Data, &prefs))
	assert.Equal(t, "Basic Mathematics", prefs.Topic)
	assert.Equal(t, "Hard", prefs.Difficulty)
	assert.Equal(t, "English", prefs.Language)

	code, resp = env.do(t, http.MethodPut, "/api/users/42/preferences", map[string]string{"difficulty": "Extreme"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, handler.CodeInvalidRequest, resp.Error.Code)

	code, resp = env.do(t, http.MethodGet, "/api/users/missing/preferences", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, handler.CodeUserNotFound, resp.Error.Code)

	code, _ = env.do(t, http.MethodPost, "/api/users", map[string]string{"name": "no id"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSetActive(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "7")

	code, _ := env.do(t, http.MethodPut, "/api/users/7/active", map[string]bool{"active": false})
	require.Equal(t, http.StatusOK, code)

	ids, err := env.store.UserRepo().ActiveUsers(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, ids, "7")

	code, _ = env.do(t, http.MethodPut, "/api/users/ghost/active", map[string]bool{"active": true})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestQuestionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "u1")

	code, resp := env.do(t, http.MethodGet, "/api/users/u1/question", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, handler.CodeNoActiveQuestion, resp.Error.Code)

	code, resp = env.do(t, http.MethodPost, "/api/users/u1/questions", map[string]string{
		"topic":      "Reasoning Ability",
		"difficulty": "Easy",
	})
	require.Equal(t, http.StatusOK, code)
	var q handler.QuestionView
	require.NoError(t, json.Unmarshal(resp.Data, &q))
	assert.Equal(t, "2+2?", q.Question)
	assert.Len(t, q.Options, 4)
	assert.Equal(t, "B", q.Options[1].ID)
	assert.Equal(t, "4", q.Options[1].Text)
	assert.Equal(t, "Reasoning Ability", q.Topic)
	assert.Equal(t, "Easy", q.Difficulty)
	assert.NotContains(t, string(resp.Data), "correct")

	code, resp = env.do(t, http.MethodGet, "/api/users/u1/question", nil)
	require.Equal(t, http.StatusOK, code)
	var active handler.QuestionView
	require.NoError(t, json.Unmarshal(resp.Data, &active))
	assert.Equal(t, q.SessionID, active.SessionID)

	// Invalid letter keeps the question open.
	code, resp = env.do(t, http.MethodPost, "/api/users/u1/answers", map[string]string{"answer": "E"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, handler.CodeInvalidAnswer, resp.Error.Code)

	code, resp = env.do(t, http.MethodPost, "/api/users/u1/answers", map[string]string{"answer": "b"})
	require.Equal(t, http.StatusOK, code)
	var ans handler.AnswerView
	require.NoError(t, json.Unmarshal(resp.Data, &ans))
	assert.True(t, ans.IsCorrect)
	assert.Equal(t, "B", ans.CorrectAnswer)
	assert.Equal(t, "4", ans.CorrectText)
	assert.Equal(t, "Basic addition.", ans.Explanation)

	code, resp = env.do(t, http.MethodPost, "/api/users/u1/answers", map[string]string{"answer": "B"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, handler.CodeNoActiveQuestion, resp.Error.Code)

	code, resp = env.do(t, http.MethodGet, "/api/users/u1/stats", nil)
	require.Equal(t, http.StatusOK, code)
	var stats struct {
		Overall  store.Tally `json:"overall"`
		Accuracy float64     `json:"accuracy"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, 1, stats.Overall.Total)
	assert.Equal(t, 1, stats.Overall.Correct)
	assert.InDelta(t, 100.0, stats.Accuracy, 0.001)

	code, _ = env.do(t, http.MethodDelete, "/api/users/u1/stats", nil)
	require.Equal(t, http.StatusOK, code)
	_, resp = env.do(t, http.MethodGet, "/api/users/u1/stats", nil)
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, 0, stats.Overall.Total)
}

func TestQuestionUsesStoredPreferences(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "u2")
	env.do(t, http.MethodPut, "/api/users/u2/preferences", map[string]string{
		"topic":         "Basic Mathematics",
		"math_subtopic": "Percentages",
		"language":      "Hindi",
	})

	code, _ := env.do(t, http.MethodPost, "/api/users/u2/questions", nil)
	require.Equal(t, http.StatusOK, code)

	require.Len(t, env.gen.inputs, 1)
	in := env.gen.inputs[0]
	assert.Equal(t, "Basic Mathematics", in.Topic)
	assert.Equal(t, "Percentages", in.Subtopic)
	assert.Equal(t, "Medium", in.Difficulty)
	assert.Equal(t, "Hindi", in.Language)
}

func TestQuestionRateLimited(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "u3")

	code, _ := env.do(t, http.MethodPost, "/api/users/u3/questions", nil)
	require.Equal(t, http.StatusOK, code)

	env.clock.Advance(2 * time.Second)
	code, resp := env.do(t, http.MethodPost, "/api/users/u3/questions", nil)
	require.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, handler.CodeRateLimited, resp.Error.Code)
	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), details["remaining_seconds"])
	assert.Equal(t, false, details["processing"])
	assert.Len(t, env.gen.inputs, 1)
}

func TestQuestionErrors(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(t, http.MethodPost, "/api/users/nobody/questions", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, handler.CodeUserNotFound, resp.Error.Code)

	env.register(t, "u4")
	code, resp = env.do(t, http.MethodPost, "/api/users/u4/questions", map[string]string{"topic": "Astrology"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, handler.CodeInvalidRequest, resp.Error.Code)

	code, _ = env.do(t, http.MethodPost, "/api/users/u4/answers", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.do(t, http.MethodGet, "/api/users/nobody/stats", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
