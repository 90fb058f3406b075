// Package quiz composes question generation, parsing, rate limiting and
// answer sessions into the request/answer lifecycle.
package quiz

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/abhisek/mcqbot/internal/mcq"
	"github.com/abhisek/mcqbot/internal/problemgen"
	"github.com/abhisek/mcqbot/internal/ratelimit"
	"github.com/abhisek/mcqbot/internal/session"
)

const (
	// DefaultMaxAttempts bounds generator calls per request.
	DefaultMaxAttempts = 3

	// DefaultRecentLimit is how many recent questions are fetched for the
	// prompt's avoid list.
	DefaultRecentLimit = 5
)

// Illustrator attaches an image to questions on visual topics.
type Illustrator interface {
	Illustrate(ctx context.Context, input problemgen.Input, q *mcq.ParsedQuestion) (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithGate replaces the default rate gate.
func WithGate(g *ratelimit.Gate) Option {
	return func(s *Service) { s.gate = g }
}

// WithSessions replaces the default session table.
func WithSessions(t *session.Table) Option {
	return func(s *Service) { s.sessions = t }
}

// WithParser replaces the default response parser.
func WithParser(p *mcq.Parser) Option {
	return func(s *Service) { s.parser = p }
}

// WithIllustrator enables images for visual topics.
func WithIllustrator(il Illustrator) Option {
	return func(s *Service) { s.illustrator = il }
}

// WithValidators adds quality checks; a retryable failure costs an attempt.
func WithValidators(v ...problemgen.Validator) Option {
	return func(s *Service) { s.validators = v }
}

// WithMaxAttempts sets the generator attempt bound. Values below 1 are
// ignored.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.maxAttempts = n
		}
	}
}

// WithRecentLimit sets how many recent questions are fetched per request.
func WithRecentLimit(n int) Option {
	return func(s *Service) { s.recentLimit = n }
}

// WithRand sets the random source for topic resolution and the fallback
// letter.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rng = r }
}

// Service runs the question lifecycle for many users concurrently.
type Service struct {
	gen         problemgen.Generator
	store       Store
	gate        *ratelimit.Gate
	sessions    *session.Table
	parser      *mcq.Parser
	illustrator Illustrator
	validators  []problemgen.Validator
	logger      *slog.Logger
	maxAttempts int
	recentLimit int

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService creates a Service. A nil store discards persistence.
func NewService(gen problemgen.Generator, st Store, opts ...Option) *Service {
	if st == nil {
		st = NopStore{}
	}
	s := &Service{
		gen:         gen,
		store:       st,
		logger:      slog.Default(),
		maxAttempts: DefaultMaxAttempts,
		recentLimit: DefaultRecentLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gate == nil {
		s.gate = ratelimit.NewGate(ratelimit.DefaultCooldown)
	}
	if s.sessions == nil {
		s.sessions = session.NewTable()
	}
	if s.parser == nil {
		s.parser = mcq.NewParser()
	}
	return s
}

// Gate returns the service's rate gate.
func (s *Service) Gate() *ratelimit.Gate { return s.gate }

// RequestQuestion generates, parses and delivers one question. Generator
// failures never surface: after the last attempt a question without a
// recovered answer gets a random letter. Only a denied request produces no
// session. The gate is always released once granted.
func (s *Service) RequestQuestion(ctx context.Context, req Request) (*Delivery, error) {
	if !s.gate.TryAcquire(req.User) {
		d := &Delivery{
			Denied:     true,
			Remaining:  s.gate.RemainingCooldown(req.User),
			Processing: s.gate.Processing(req.User),
		}
		s.logger.Debug("question request denied",
			"user", req.User, "remaining", d.Remaining, "processing", d.Processing)
		return d, nil
	}
	defer s.gate.Release(req.User)

	input := s.buildInput(ctx, req)

	pq, attempts := s.generate(ctx, req.User, input)
	degraded := false
	if !pq.HasAnswer() {
		s.withRand(func(r *rand.Rand) { mcq.AssignRandom(pq, r) })
		degraded = true
		s.logger.Warn("assigned random answer",
			"user", req.User, "topic", input.Topic, "attempts", attempts)
	}

	sess := &session.Session{
		Owner:      req.User,
		Question:   pq,
		Topic:      input.Topic,
		Subtopic:   input.Subtopic,
		Difficulty: input.Difficulty,
		Language:   input.Language,
	}
	if s.illustrator != nil {
		url, err := s.illustrator.Illustrate(ctx, input, pq)
		if err != nil {
			s.logger.Warn("question image failed", "user", req.User, "topic", input.Topic, "error", err)
		}
		sess.ImageURL = url
	}

	superseded := s.sessions.Open(sess)
	if superseded != nil {
		s.logger.Info("unanswered question superseded",
			"user", req.User, "session", superseded.ID, "topic", superseded.Topic)
	}

	if err := s.store.RecordQuestion(ctx, sess); err != nil {
		s.logger.Error("record question failed", "user", req.User, "session", sess.ID, "error", err)
	}

	s.logger.Info("question delivered",
		"user", req.User,
		"session", sess.ID,
		"topic", input.Topic,
		"subtopic", input.Subtopic,
		"difficulty", input.Difficulty,
		"confidence", pq.Confidence.String(),
		"attempts", attempts)

	return &Delivery{
		Session:    sess,
		Attempts:   attempts,
		Degraded:   degraded,
		Superseded: superseded,
	}, nil
}

// SubmitAnswer resolves the user's active question. Persistence failures
// are logged; the outcome is still returned.
func (s *Service) SubmitAnswer(ctx context.Context, user, letter string) (*session.Outcome, error) {
	out, err := s.sessions.Resolve(user, letter)
	if err != nil {
		return nil, err
	}
	if err := s.store.RecordAnswer(ctx, out); err != nil {
		s.logger.Error("record answer failed", "user", user, "session", out.Session.ID, "error", err)
	}
	s.logger.Info("answer resolved",
		"user", user,
		"session", out.Session.ID,
		"chosen", string(out.Chosen),
		"correct", string(out.Correct),
		"is_correct", out.IsCorrect)
	return out, nil
}

// ActiveQuestion returns the user's open session.
func (s *Service) ActiveQuestion(user string) (*session.Session, bool) {
	return s.sessions.Active(user)
}

// generate calls the generator until a draft carries an answer letter and
// passes validation, or attempts run out. The best draft seen is returned;
// it may lack a letter.
func (s *Service) generate(ctx context.Context, user string, input problemgen.Input) (*mcq.ParsedQuestion, int) {
	var best *mcq.ParsedQuestion
	attempt := 0
	for attempt < s.maxAttempts {
		attempt++

		raw, err := s.gen.GenerateText(ctx, input)
		if err != nil {
			gerr := &GenerationError{Attempt: attempt, Err: err}
			s.logger.Warn("question generation failed", "user", user, "topic", input.Topic, "error", gerr)
			continue
		}

		pq := s.parser.Parse(raw)
		if !pq.HasAnswer() {
			s.logger.Warn("no answer letter in generated question",
				"user", user, "topic", input.Topic, "attempt", attempt)
			if best == nil {
				best = pq
			}
			continue
		}

		if verr := problemgen.Validate(pq, input, s.validators); verr != nil {
			s.logger.Warn("generated question rejected",
				"user", user, "topic", input.Topic, "attempt", attempt, "error", verr)
			best = pq
			if verr.Retryable {
				continue
			}
		}
		return pq, attempt
	}

	if best == nil {
		best = s.parser.Parse("")
	}
	best.FillBlankOptions()
	return best, attempt
}

func (s *Service) buildInput(ctx context.Context, req Request) problemgen.Input {
	difficulty := req.Difficulty
	if !problemgen.ValidDifficulty(difficulty) {
		difficulty = problemgen.DifficultyMedium
	}
	language := req.Language
	if !problemgen.ValidLanguage(language) {
		language = problemgen.LanguageEnglish
	}

	var topic, subtopic string
	s.withRand(func(r *rand.Rand) {
		topic, subtopic = problemgen.ResolveTopic(req.Topic, req.Subtopic, r)
	})

	recent, err := s.store.RecentQuestions(ctx, topic, difficulty, s.recentLimit)
	if err != nil {
		s.logger.Warn("load recent questions failed", "topic", topic, "error", err)
	}

	return problemgen.Input{
		Topic:           topic,
		Subtopic:        subtopic,
		Difficulty:      difficulty,
		Language:        language,
		RecentQuestions: recent,
	}
}

// withRand serializes use of the configured source, which is not safe for
// concurrent use. A nil source means the global one.
func (s *Service) withRand(fn func(r *rand.Rand)) {
	if s.rng == nil {
		fn(nil)
		return
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	fn(s.rng)
}
