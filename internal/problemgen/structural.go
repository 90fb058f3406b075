package problemgen

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/mcqbot/internal/mcq"
)

const (
	maxQuestionRunes    = 500
	maxExplanationRunes = 1000
)

// StructuralValidator rejects questions with a missing stem, empty or
// repeated options, or oversized text.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *mcq.ParsedQuestion, _ Input) *ValidationError {
	fail := func(retry bool, format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: retry}
	}

	switch {
	case q.Text == "" || q.Text == mcq.PlaceholderQuestion:
		return fail(true, "question text is missing")
	case utf8.RuneCountInString(q.Text) > maxQuestionRunes:
		return fail(true, "question text exceeds %d characters", maxQuestionRunes)
	}

	seen := make(map[string]mcq.Letter, len(q.Options))
	for _, opt := range q.Options {
		if opt.Text == "" {
			return fail(true, "option %s is empty", opt.Letter)
		}
		key := strings.ToLower(opt.Text)
		if prev, dup := seen[key]; dup {
			return fail(true, "options %s and %s are identical", prev, opt.Letter)
		}
		seen[key] = opt.Letter
	}

	// A long explanation is still a usable question.
	if utf8.RuneCountInString(q.Explanation) > maxExplanationRunes {
		return fail(false, "explanation exceeds %d characters", maxExplanationRunes)
	}
	return nil
}
