package store

import (
	"context"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

const seqEvents = "events"

// sequence numbers rows across user_answers and llm_events so an answer
// can be ordered against the LLM call that produced its question. The
// counter lives in the sequences table so it survives restarts and is
// shared with other processes using the same file.
type sequence struct {
	mu   sync.Mutex
	drv  *entsql.Driver
	name string
}

func newSequence(drv *entsql.Driver, name string) *sequence {
	return &sequence{drv: drv, name: name}
}

// Next returns the current value and advances the counter.
func (s *sequence) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin sequence tx: %w", err)
	}

	query, args := builder().Select("next_val").
		From(builder().Table(tableSequences)).
		Where(entsql.EQ("name", s.name)).
		Query()
	var rows entsql.Rows
	if err := tx.Query(ctx, query, args, &rows); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("read sequence %s: %w", s.name, err)
	}
	var val int64
	found := rows.Next()
	if found {
		err = rows.Scan(&val)
	}
	rows.Close()
	if err == nil && !found {
		err = ErrNotFound
	}
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("read sequence %s: %w", s.name, err)
	}

	query, args = builder().Update(tableSequences).
		Add("next_val", 1).
		Where(entsql.EQ("name", s.name)).
		Query()
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("advance sequence %s: %w", s.name, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sequence %s: %w", s.name, err)
	}
	return val, nil
}
