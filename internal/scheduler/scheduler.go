// Package scheduler periodically delivers questions to every active user.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DefaultUserDelay spaces out deliveries within one round.
const DefaultUserDelay = time.Second

// ErrSkipped tells the scheduler a user was intentionally passed over, for
// example because their rate gate is closed.
var ErrSkipped = errors.New("scheduler: delivery skipped")

// UserLister returns the users that receive scheduled questions.
type UserLister interface {
	ActiveUsers(ctx context.Context) ([]string, error)
}

// DeliverFunc delivers one question to one user.
type DeliverFunc func(ctx context.Context, user string) error

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithUserDelay sets the pause between users within a round.
func WithUserDelay(d time.Duration) Option {
	return func(s *Scheduler) { s.userDelay = d }
}

// Scheduler runs delivery rounds on a fixed interval.
type Scheduler struct {
	interval  time.Duration
	users     UserLister
	deliver   DeliverFunc
	userDelay time.Duration
	logger    *slog.Logger
}

// Round summarizes one delivery round.
type Round struct {
	Delivered int
	Skipped   int
	Failed    int
}

// New creates a Scheduler.
func New(interval time.Duration, users UserLister, deliver DeliverFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		interval:  interval,
		users:     users,
		deliver:   deliver,
		userDelay: DefaultUserDelay,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks, running a round every interval until ctx is done. A
// non-positive interval returns immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info("scheduler disabled")
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("scheduled round failed", "error", err)
			}
		}
	}
}

// RunOnce delivers to every active user sequentially. A failure for one
// user is logged and does not stop the round. Only listing users or
// cancellation returns an error.
func (s *Scheduler) RunOnce(ctx context.Context) (Round, error) {
	var r Round

	users, err := s.users.ActiveUsers(ctx)
	if err != nil {
		return r, err
	}

	for i, user := range users {
		if i > 0 && s.userDelay > 0 {
			select {
			case <-ctx.Done():
				return r, ctx.Err()
			case <-time.After(s.userDelay):
			}
		}
		if err := ctx.Err(); err != nil {
			return r, err
		}

		switch err := s.deliver(ctx, user); {
		case err == nil:
			r.Delivered++
		case errors.Is(err, ErrSkipped):
			r.Skipped++
		default:
			r.Failed++
			s.logger.Warn("scheduled delivery failed", "user", user, "error", err)
		}
	}

	s.logger.Info("scheduled round complete",
		"users", len(users), "delivered", r.Delivered, "skipped", r.Skipped, "failed", r.Failed)
	return r, nil
}
