package problemgen

import (
	"strings"
	"testing"

	"github.com/abhisek/mcqbot/internal/mcq"
)

func validQuestion() *mcq.ParsedQuestion {
	return &mcq.ParsedQuestion{
		Text: "What is 345 + 278?",
		Options: [4]mcq.Option{
			{Letter: mcq.A, Text: "613"},
			{Letter: mcq.B, Text: "623"},
			{Letter: mcq.C, Text: "633"},
			{Letter: mcq.D, Text: "523"},
		},
		Correct:     mcq.B,
		Explanation: "345 + 278 = 623.",
		Confidence:  mcq.Exact,
	}
}

func TestStructural_ValidQuestion(t *testing.T) {
	v := &StructuralValidator{}
	if err := v.Validate(validQuestion(), Input{}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestStructural_Failures(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(q *mcq.ParsedQuestion)
		retryable bool
		contains  string
	}{
		{"placeholder question", func(q *mcq.ParsedQuestion) { q.Text = mcq.PlaceholderQuestion }, true, "missing"},
		{"empty question", func(q *mcq.ParsedQuestion) { q.Text = "" }, true, "missing"},
		{"long question", func(q *mcq.ParsedQuestion) { q.Text = strings.Repeat("x", 501) }, true, "500"},
		{"empty option", func(q *mcq.ParsedQuestion) { q.Options[2].Text = "" }, true, "option C"},
		{"duplicate option", func(q *mcq.ParsedQuestion) { q.Options[3].Text = "613" }, true, "A and D"},
		{"duplicate option case-insensitive", func(q *mcq.ParsedQuestion) {
			q.Options[0].Text = "Bhopal"
			q.Options[1].Text = "bhopal"
		}, true, "A and B"},
		{"long explanation", func(q *mcq.ParsedQuestion) { q.Explanation = strings.Repeat("y", 1001) }, false, "1000"},
	}

	v := &StructuralValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion()
			tt.mutate(q)
			err := v.Validate(q, Input{})
			if err == nil {
				t.Fatal("expected validation error")
			}
			if err.Validator != "structural" {
				t.Errorf("validator = %q, want structural", err.Validator)
			}
			if err.Retryable != tt.retryable {
				t.Errorf("retryable = %v, want %v", err.Retryable, tt.retryable)
			}
			if !strings.Contains(err.Message, tt.contains) {
				t.Errorf("message %q does not contain %q", err.Message, tt.contains)
			}
		})
	}
}

func TestStructural_HindiLengthCountsRunes(t *testing.T) {
	q := validQuestion()
	// 400 Devanagari runes are well over 500 bytes.
	q.Text = strings.Repeat("क", 400)
	if err := (&StructuralValidator{}).Validate(q, Input{}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
