package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// userRepo implements UserRepo.
type userRepo struct {
	drv *entsql.Driver
}

func (r *userRepo) Register(ctx context.Context, id, name string) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("user id is required")
	}

	now := time.Now()
	query, args := builder().Insert(tableUsers).
		Columns("id", "name", "active", "created_at").
		Values(id, name, 1, now.UnixMilli()).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	defaults := DefaultPreferences()
	query, args = builder().Insert(tablePreferences).
		Columns("user_id", "topic", "difficulty", "math_subtopic", "language").
		Values(id, defaults.Topic, defaults.Difficulty, defaults.MathSubtopic, defaults.Language).
		OnConflict(entsql.ConflictColumns("user_id"), entsql.DoNothing()).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return nil, fmt.Errorf("insert preferences: %w", err)
	}

	return r.Get(ctx, id)
}

func (r *userRepo) Get(ctx context.Context, id string) (*User, error) {
	query, args := builder().Select("id", "name", "active", "created_at").
		From(builder().Table(tableUsers)).
		Where(entsql.EQ("id", id)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("user %q: %w", id, ErrNotFound)
	}
	var u User
	var created int64
	if err := rows.Scan(&u.ID, &u.Name, &u.Active, &created); err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt = time.UnixMilli(created)
	return &u, nil
}

func (r *userRepo) ActiveUsers(ctx context.Context) ([]string, error) {
	query, args := builder().Select("id").
		From(builder().Table(tableUsers)).
		Where(entsql.EQ("active", 1)).
		OrderBy("created_at").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query active users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *userRepo) SetActive(ctx context.Context, id string, active bool) error {
	query, args := builder().Update(tableUsers).
		Set("active", boolToInt(active)).
		Where(entsql.EQ("id", id)).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(res, "user", id)
}

func (r *userRepo) Preferences(ctx context.Context, id string) (Preferences, error) {
	query, args := builder().Select("topic", "difficulty", "math_subtopic", "language").
		From(builder().Table(tablePreferences)).
		Where(entsql.EQ("user_id", id)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Preferences{}, err
		}
		return Preferences{}, fmt.Errorf("preferences for %q: %w", id, ErrNotFound)
	}
	var p Preferences
	if err := rows.Scan(&p.Topic, &p.Difficulty, &p.MathSubtopic, &p.Language); err != nil {
		return Preferences{}, fmt.Errorf("scan preferences: %w", err)
	}
	return p, nil
}

func (r *userRepo) UpdatePreferences(ctx context.Context, id string, upd PreferencesUpdate) (Preferences, error) {
	set := map[string]*string{
		"topic":         upd.Topic,
		"difficulty":    upd.Difficulty,
		"math_subtopic": upd.MathSubtopic,
		"language":      upd.Language,
	}

	ub := builder().Update(tablePreferences).Where(entsql.EQ("user_id", id))
	changed := false
	for _, col := range []string{"topic", "difficulty", "math_subtopic", "language"} {
		if v := set[col]; v != nil {
			ub.Set(col, *v)
			changed = true
		}
	}

	if changed {
		query, args := ub.Query()
		var res sql.Result
		if err := r.drv.Exec(ctx, query, args, &res); err != nil {
			return Preferences{}, fmt.Errorf("update preferences: %w", err)
		}
		if err := requireAffected(res, "preferences for user", id); err != nil {
			return Preferences{}, err
		}
	}
	return r.Preferences(ctx, id)
}

func requireAffected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", what, id, ErrNotFound)
	}
	return nil
}
