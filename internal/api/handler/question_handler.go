package handler

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mcqbot/internal/quiz"
	"github.com/abhisek/mcqbot/internal/session"
	"github.com/abhisek/mcqbot/internal/store"
)

// QuestionService is the lifecycle the handler drives.
type QuestionService interface {
	RequestQuestion(ctx context.Context, req quiz.Request) (*quiz.Delivery, error)
	SubmitAnswer(ctx context.Context, user, letter string) (*session.Outcome, error)
	ActiveQuestion(user string) (*session.Session, bool)
}

// QuestionHandler handles question delivery and answers.
type QuestionHandler struct {
	svc    QuestionService
	users  store.UserRepo
	logger *slog.Logger
}

// NewQuestionHandler creates a new question handler.
func NewQuestionHandler(svc QuestionService, users store.UserRepo, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{svc: svc, users: users, logger: logger}
}

// QuestionRequest optionally overrides the stored preferences for one
// question.
type QuestionRequest struct {
	Topic      string `json:"topic"`
	Subtopic   string `json:"subtopic"`
	Difficulty string `json:"difficulty"`
	Language   string `json:"language"`
}

// OptionView is one answer choice.
type OptionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuestionView is a delivered question without its answer.
type QuestionView struct {
	SessionID  string       `json:"session_id"`
	Question   string       `json:"question"`
	Options    []OptionView `json:"options"`
	Topic      string       `json:"topic"`
	Subtopic   string       `json:"subtopic,omitempty"`
	Difficulty string       `json:"difficulty"`
	Language   string       `json:"language"`
	ImageURL   string       `json:"image_url,omitempty"`
	Confidence string       `json:"confidence"`
	CreatedAt  string       `json:"created_at"`
}

// AnswerRequest submits a letter for the active question.
type AnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// AnswerView is the result of an answer.
type AnswerView struct {
	IsCorrect     bool   `json:"is_correct"`
	Chosen        string `json:"chosen"`
	CorrectAnswer string `json:"correct_answer"`
	CorrectText   string `json:"correct_text"`
	Explanation   string `json:"explanation"`
}

// RequestQuestion generates a question using the user's preferences,
// overridden by any non-empty request fields.
func (h *QuestionHandler) RequestQuestion(c *gin.Context) {
	var req QuestionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
			return
		}
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	prefs, err := h.users.Preferences(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, CodeUserNotFound, "User not found", nil)
			return
		}
		h.logger.Error("load preferences failed", "user", id, "error", err)
		respondError(c, http.StatusInternalServerError, CodeInternal, "Internal error", nil)
		return
	}

	qreq := quiz.Request{
		User:       id,
		Topic:      firstNonEmpty(req.Topic, prefs.Topic),
		Subtopic:   firstNonEmpty(req.Subtopic, prefs.MathSubtopic),
		Difficulty: firstNonEmpty(req.Difficulty, prefs.Difficulty),
		Language:   firstNonEmpty(req.Language, prefs.Language),
	}
	if msg := validatePreferences(store.PreferencesUpdate{
		Topic:        &qreq.Topic,
		MathSubtopic: &qreq.Subtopic,
		Difficulty:   &qreq.Difficulty,
		Language:     &qreq.Language,
	}); msg != "" {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, msg, nil)
		return
	}

	d, err := h.svc.RequestQuestion(ctx, qreq)
	if err != nil {
		h.logger.Error("request question failed", "user", id, "error", err)
		respondError(c, http.StatusInternalServerError, CodeInternal, "Internal error", nil)
		return
	}
	if d.Denied {
		message := "Please wait before requesting another question"
		if d.Processing {
			message = "A question is already being generated"
		}
		respondError(c, http.StatusTooManyRequests, CodeRateLimited, message, gin.H{
			"remaining_seconds": int(math.Ceil(d.Remaining.Seconds())),
			"processing":        d.Processing,
		})
		return
	}

	respondSuccess(c, http.StatusOK, newQuestionView(d.Session))
}

// ActiveQuestion returns the user's unanswered question.
func (h *QuestionHandler) ActiveQuestion(c *gin.Context) {
	sess, ok := h.svc.ActiveQuestion(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, CodeNoActiveQuestion, "No active question", nil)
		return
	}
	respondSuccess(c, http.StatusOK, newQuestionView(sess))
}

// SubmitAnswer resolves the user's active question.
func (h *QuestionHandler) SubmitAnswer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
		return
	}

	out, err := h.svc.SubmitAnswer(c.Request.Context(), c.Param("id"), req.Answer)
	switch {
	case errors.Is(err, session.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, CodeInvalidAnswer, "Answer must be A, B, C or D", nil)
		return
	case errors.Is(err, session.ErrNoActiveQuestion):
		respondError(c, http.StatusNotFound, CodeNoActiveQuestion, "No active question", nil)
		return
	case err != nil:
		h.logger.Error("submit answer failed", "user", c.Param("id"), "error", err)
		respondError(c, http.StatusInternalServerError, CodeInternal, "Internal error", nil)
		return
	}

	respondSuccess(c, http.StatusOK, AnswerView{
		IsCorrect:     out.IsCorrect,
		Chosen:        string(out.Chosen),
		CorrectAnswer: string(out.Correct),
		CorrectText:   out.CorrectText(),
		Explanation:   out.Explanation,
	})
}

func newQuestionView(sess *session.Session) QuestionView {
	q := sess.Question
	opts := make([]OptionView, 0, len(q.Options))
	for _, o := range q.Options {
		opts = append(opts, OptionView{ID: string(o.Letter), Text: o.Text})
	}
	return QuestionView{
		SessionID:  sess.ID,
		Question:   q.Text,
		Options:    opts,
		Topic:      sess.Topic,
		Subtopic:   sess.Subtopic,
		Difficulty: sess.Difficulty,
		Language:   sess.Language,
		ImageURL:   sess.ImageURL,
		Confidence: q.Confidence.String(),
		CreatedAt:  sess.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
