package problemgen

import (
	"fmt"

	"github.com/abhisek/mcqbot/internal/mcq"
)

// Validator checks a parsed question for quality problems the parser does
// not catch. Implementations should be stateless and safe for concurrent
// use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g. "structural".
	Name() string

	// Validate returns nil if the question passes.
	Validate(q *mcq.ParsedQuestion, input Input) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// DefaultValidators returns the standard validator chain.
func DefaultValidators() []Validator {
	return []Validator{&StructuralValidator{}}
}

// Validate runs validators in order and returns the first failure.
func Validate(q *mcq.ParsedQuestion, input Input, validators []Validator) *ValidationError {
	for _, v := range validators {
		if verr := v.Validate(q, input); verr != nil {
			return verr
		}
	}
	return nil
}
