package quiz

import (
	"context"

	"github.com/abhisek/mcqbot/internal/session"
	"github.com/abhisek/mcqbot/internal/store"
)

// Store is the persistence collaborator of the Service.
type Store interface {
	// RecordQuestion appends a delivered question to the history.
	RecordQuestion(ctx context.Context, sess *session.Session) error

	// RecordAnswer records a resolved answer for score bookkeeping.
	RecordAnswer(ctx context.Context, out *session.Outcome) error

	// RecentQuestions returns recent question texts, newest first.
	RecentQuestions(ctx context.Context, topic, difficulty string, limit int) ([]string, error)
}

// Persister adapts the store repositories to Store.
type Persister struct {
	questions store.QuestionRepo
	stats     store.StatsRepo
}

// NewPersister creates a Persister.
func NewPersister(questions store.QuestionRepo, stats store.StatsRepo) *Persister {
	return &Persister{questions: questions, stats: stats}
}

func (p *Persister) RecordQuestion(ctx context.Context, sess *session.Session) error {
	q := sess.Question
	return p.questions.RecordQuestion(ctx, store.QuestionRecord{
		ID:          sess.ID,
		UserID:      sess.Owner,
		Topic:       sess.Topic,
		Subtopic:    sess.Subtopic,
		Difficulty:  sess.Difficulty,
		Language:    sess.Language,
		Text:        q.Text,
		Options:     q.OptionTexts(),
		Correct:     string(q.Correct),
		Explanation: q.Explanation,
		Confidence:  q.Confidence.String(),
		ImageURL:    sess.ImageURL,
		CreatedAt:   sess.CreatedAt,
	})
}

func (p *Persister) RecordAnswer(ctx context.Context, out *session.Outcome) error {
	return p.stats.RecordAnswer(ctx, store.AnswerRecord{
		UserID:     out.Session.Owner,
		QuestionID: out.Session.ID,
		Topic:      out.Session.Topic,
		Difficulty: out.Session.Difficulty,
		Chosen:     string(out.Chosen),
		Correct:    out.IsCorrect,
	})
}

func (p *Persister) RecentQuestions(ctx context.Context, topic, difficulty string, limit int) ([]string, error) {
	return p.questions.RecentQuestions(ctx, topic, difficulty, limit)
}

// NopStore discards everything. Used when no database is configured.
type NopStore struct{}

func (NopStore) RecordQuestion(context.Context, *session.Session) error { return nil }

func (NopStore) RecordAnswer(context.Context, *session.Outcome) error { return nil }

func (NopStore) RecentQuestions(context.Context, string, string, int) ([]string, error) {
	return nil, nil
}
