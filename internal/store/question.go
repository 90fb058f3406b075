package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// questionRepo implements QuestionRepo.
type questionRepo struct {
	drv *entsql.Driver
}

func (r *questionRepo) RecordQuestion(ctx context.Context, q QuestionRecord) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	opts, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}

	query, args := builder().Insert(tableQuestions).
		Columns(
			"id", "user_id", "topic", "subtopic", "difficulty", "language",
			"question_text", "options", "correct_answer", "explanation",
			"confidence", "image_url", "created_at",
		).
		Values(
			q.ID, q.UserID, q.Topic, q.Subtopic, q.Difficulty, q.Language,
			q.Text, string(opts), q.Correct, q.Explanation,
			q.Confidence, q.ImageURL, q.CreatedAt.UnixMilli(),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save question: %w", err)
	}
	return nil
}

func (r *questionRepo) RecentQuestions(ctx context.Context, topic, difficulty string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	query, args := builder().Select("question_text").
		From(builder().Table(tableQuestions)).
		Where(entsql.And(
			entsql.EQ("topic", topic),
			entsql.EQ("difficulty", difficulty),
		)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("rowid")).
		Limit(limit).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query recent questions: %w", err)
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		texts = append(texts, t)
	}
	return texts, rows.Err()
}
