// Package mcq recovers multiple-choice questions from free-form LLM output.
package mcq

import "strings"

// Letter identifies an option. Valid letters are A through D.
type Letter string

const (
	A Letter = "A"
	B Letter = "B"
	C Letter = "C"
	D Letter = "D"
)

// Letters lists the option letters in display order.
var Letters = [4]Letter{A, B, C, D}

// ParseLetter trims and upper-cases s and reports whether it is A-D.
func ParseLetter(s string) (Letter, bool) {
	l := Letter(strings.ToUpper(strings.TrimSpace(s)))
	return l, l.Valid()
}

// Valid reports whether l is one of A-D.
func (l Letter) Valid() bool {
	return l.Index() >= 0
}

// Index returns the zero-based position of l, or -1 if invalid.
func (l Letter) Index() int {
	for i, x := range Letters {
		if l == x {
			return i
		}
	}
	return -1
}

// Option is one answer choice.
type Option struct {
	Letter Letter `json:"letter"`
	Text   string `json:"text"`
}

// Confidence records how the parse was achieved.
type Confidence int

const (
	// Exact means the answer came from an explicit label and every part of
	// the template was present.
	Exact Confidence = iota
	// Recovered means a fallback heuristic supplied the answer or some part
	// of the template was missing.
	Recovered
	// Fallback means no answer letter could be found.
	Fallback
)

func (c Confidence) String() string {
	switch c {
	case Exact:
		return "exact"
	case Recovered:
		return "recovered"
	case Fallback:
		return "fallback"
	}
	return "unknown"
}

const (
	PlaceholderQuestion = "Question not found"
	PlaceholderOption   = "(option unavailable)"
	DefaultExplanation  = "Correct answer provided."
	RandomExplanation   = "Answer assigned randomly due to parsing issue."
)

// ParsedQuestion is the structured form of one generated question.
// Options always holds four entries in A-D order.
type ParsedQuestion struct {
	Text        string     `json:"question"`
	Options     [4]Option  `json:"options"`
	Correct     Letter     `json:"correct_answer,omitempty"`
	Explanation string     `json:"explanation"`
	Confidence  Confidence `json:"-"`
}

// HasAnswer reports whether a correct letter was recovered.
func (q *ParsedQuestion) HasAnswer() bool {
	return q != nil && q.Correct.Valid()
}

// OptionText returns the text of the option for l.
func (q *ParsedQuestion) OptionText(l Letter) string {
	if i := l.Index(); i >= 0 {
		return q.Options[i].Text
	}
	return ""
}

// FillBlankOptions gives every empty option body PlaceholderOption so a
// degraded question never shows blank choices.
func (q *ParsedQuestion) FillBlankOptions() {
	for i := range q.Options {
		if q.Options[i].Text == "" {
			q.Options[i].Text = PlaceholderOption
		}
	}
}

// OptionTexts returns the four option bodies in order.
func (q *ParsedQuestion) OptionTexts() []string {
	out := make([]string, len(q.Options))
	for i, o := range q.Options {
		out[i] = o.Text
	}
	return out
}

func newParsedQuestion() *ParsedQuestion {
	pq := &ParsedQuestion{Text: PlaceholderQuestion, Confidence: Fallback}
	for i, l := range Letters {
		pq.Options[i] = Option{Letter: l}
	}
	return pq
}
