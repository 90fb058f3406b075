package problemgen

import (
	"testing"

	"github.com/abhisek/mcqbot/internal/mcq"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Validator: "test-validator",
		Message:   "something went wrong",
		Retryable: true,
	}
	expected := `validator "test-validator": something went wrong`
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestDefaultValidators_Chain(t *testing.T) {
	vs := DefaultValidators()
	if len(vs) != 1 {
		t.Fatalf("expected 1 validator, got %d", len(vs))
	}
	if vs[0].Name() != "structural" {
		t.Errorf("expected structural, got %q", vs[0].Name())
	}
}

type rejectAll struct{}

func (rejectAll) Name() string { return "reject-all" }

func (rejectAll) Validate(*mcq.ParsedQuestion, Input) *ValidationError {
	return &ValidationError{Validator: "reject-all", Message: "no"}
}

func TestValidate_StopsAtFirstFailure(t *testing.T) {
	q := validQuestion()
	if err := Validate(q, Input{}, nil); err != nil {
		t.Fatalf("empty chain should pass, got %v", err)
	}
	err := Validate(q, Input{}, []Validator{&StructuralValidator{}, rejectAll{}})
	if err == nil || err.Validator != "reject-all" {
		t.Fatalf("expected reject-all failure, got %v", err)
	}
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxTokens != 512 {
		t.Errorf("expected MaxTokens 512, got %d", cfg.MaxTokens)
	}
	if cfg.Temperature != 0.9 {
		t.Errorf("expected Temperature 0.9, got %f", cfg.Temperature)
	}
	if cfg.MaxAvoid != 3 {
		t.Errorf("expected MaxAvoid 3, got %d", cfg.MaxAvoid)
	}
	if cfg.Structured {
		t.Error("structured output should be off by default")
	}
}
