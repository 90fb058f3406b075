package problemgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxAvoid is the maximum number of recent questions placed in the
	// prompt for deduplication.
	MaxAvoid int

	// Structured asks the provider for JSON matching mcq.Schema instead of
	// the labelled text template.
	Structured bool
}

// DefaultConfig returns a Config with the recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   512,
		Temperature: 0.9,
		MaxAvoid:    3,
	}
}
