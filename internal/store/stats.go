package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// statsRepo implements StatsRepo. Stats are derived from user_answers
// rather than kept as running counters, so a reset is a delete.
type statsRepo struct {
	drv *entsql.Driver
	seq *sequence
}

func (r *statsRepo) RecordAnswer(ctx context.Context, a AnswerRecord) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	query, args := builder().Insert(tableAnswers).
		Columns("sequence", "user_id", "question_id", "topic", "difficulty", "chosen", "correct", "created_at").
		Values(seqNum, a.UserID, a.QuestionID, a.Topic, a.Difficulty, a.Chosen, boolToInt(a.Correct), a.CreatedAt.UnixMilli()).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save answer: %w", err)
	}
	return nil
}

func (r *statsRepo) Stats(ctx context.Context, userID string) (*Stats, error) {
	st := &Stats{
		ByTopic:      map[string]Tally{},
		ByDifficulty: map[string]Tally{},
	}

	byTopic, err := r.tally(ctx, userID, "topic")
	if err != nil {
		return nil, err
	}
	for k, t := range byTopic {
		st.ByTopic[k] = t
		st.Overall.Total += t.Total
		st.Overall.Correct += t.Correct
	}

	byDifficulty, err := r.tally(ctx, userID, "difficulty")
	if err != nil {
		return nil, err
	}
	for k, t := range byDifficulty {
		st.ByDifficulty[k] = t
	}
	return st, nil
}

// tally groups a user's answers by column.
func (r *statsRepo) tally(ctx context.Context, userID, column string) (map[string]Tally, error) {
	query, args := builder().Select(
		column,
		entsql.As(entsql.Count("*"), "total"),
		entsql.As(entsql.Sum("correct"), "correct"),
	).
		From(builder().Table(tableAnswers)).
		Where(entsql.EQ("user_id", userID)).
		GroupBy(column).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query stats by %s: %w", column, err)
	}
	defer rows.Close()

	out := map[string]Tally{}
	for rows.Next() {
		var key string
		var t Tally
		if err := rows.Scan(&key, &t.Total, &t.Correct); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		out[key] = t
	}
	return out, rows.Err()
}

func (r *statsRepo) ResetStats(ctx context.Context, userID string) error {
	query, args := builder().Delete(tableAnswers).
		Where(entsql.EQ("user_id", userID)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("reset stats: %w", err)
	}
	return nil
}
