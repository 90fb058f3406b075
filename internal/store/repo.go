package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit      int       // max results (0 = unlimited)
	After      int64     // sequence > After
	Before     int64     // sequence < Before
	From       time.Time // timestamp >= From
	To         time.Time // timestamp <= To
	Purpose    string    // exact purpose match, empty for all
	FailedOnly bool
}

// Default preference values for newly registered users.
const (
	DefaultTopic      = "Random"
	DefaultDifficulty = "Medium"
	DefaultLanguage   = "English"
)

// User is a registered quiz participant.
type User struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
}

// Preferences controls what kind of question a user receives.
type Preferences struct {
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty"`
	MathSubtopic string `json:"math_subtopic"`
	Language     string `json:"language"`
}

// DefaultPreferences returns the preferences assigned on registration.
func DefaultPreferences() Preferences {
	return Preferences{
		Topic:      DefaultTopic,
		Difficulty: DefaultDifficulty,
		Language:   DefaultLanguage,
	}
}

// PreferencesUpdate is a partial update; nil fields are left unchanged.
type PreferencesUpdate struct {
	Topic        *string `json:"topic,omitempty"`
	Difficulty   *string `json:"difficulty,omitempty"`
	MathSubtopic *string `json:"math_subtopic,omitempty"`
	Language     *string `json:"language,omitempty"`
}

// UserRepo manages users and their preferences.
type UserRepo interface {
	// Register creates the user with default preferences. Registering an
	// existing user is a no-op that returns the stored record.
	Register(ctx context.Context, id, name string) (*User, error)

	// Get returns the user or ErrNotFound.
	Get(ctx context.Context, id string) (*User, error)

	// ActiveUsers returns the IDs of users that receive scheduled questions.
	ActiveUsers(ctx context.Context) ([]string, error)

	// SetActive toggles scheduled delivery for a user.
	SetActive(ctx context.Context, id string, active bool) error

	// Preferences returns the user's preferences or ErrNotFound.
	Preferences(ctx context.Context, id string) (Preferences, error)

	// UpdatePreferences applies a partial update and returns the result.
	UpdatePreferences(ctx context.Context, id string, upd PreferencesUpdate) (Preferences, error)
}

// QuestionRecord is one delivered question.
type QuestionRecord struct {
	ID          string
	UserID      string
	Topic       string
	Subtopic    string
	Difficulty  string
	Language    string
	Text        string
	Options     []string
	Correct     string
	Explanation string
	Confidence  string
	ImageURL    string
	CreatedAt   time.Time
}

// QuestionRepo stores question history.
type QuestionRepo interface {
	// RecordQuestion appends a delivered question to the history.
	RecordQuestion(ctx context.Context, q QuestionRecord) error

	// RecentQuestions returns the texts of the most recent questions for a
	// topic and difficulty, newest first.
	RecentQuestions(ctx context.Context, topic, difficulty string, limit int) ([]string, error)
}

// AnswerRecord is one resolved answer.
type AnswerRecord struct {
	UserID     string
	QuestionID string
	Topic      string
	Difficulty string
	Chosen     string
	Correct    bool
	CreatedAt  time.Time
}

// Tally counts answers.
type Tally struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// Accuracy returns the percentage of correct answers, or 0 with no answers.
func (t Tally) Accuracy() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) * 100 / float64(t.Total)
}

// Stats aggregates a user's answers.
type Stats struct {
	Overall      Tally            `json:"overall"`
	ByTopic      map[string]Tally `json:"by_topic"`
	ByDifficulty map[string]Tally `json:"by_difficulty"`
}

// StatsRepo records answers and aggregates them per user.
type StatsRepo interface {
	RecordAnswer(ctx context.Context, a AnswerRecord) error
	Stats(ctx context.Context, userID string) (*Stats, error)
	// ResetStats deletes all recorded answers for the user.
	ResetStats(ctx context.Context, userID string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM calls by purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM calls by model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
