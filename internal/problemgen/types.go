package problemgen

// Input holds all context needed to generate one question.
type Input struct {
	// Topic is a concrete topic from Topics (already resolved from Random).
	Topic string

	// Subtopic is set only for MathTopic.
	Subtopic string

	// Difficulty is one of Difficulties. Unknown values use Medium.
	Difficulty string

	// Language is one of Languages. Unknown values use English.
	Language string

	// RecentQuestions are earlier question texts for the same topic and
	// difficulty, newest first. Only the first few are placed in the prompt.
	RecentQuestions []string

	// Seed varies the prompt between calls. Zero picks a random seed.
	Seed int
}

// Visual reports whether the question should reference an illustration.
func (in Input) Visual() bool {
	return NeedsVisual(in.Topic, in.Subtopic)
}
