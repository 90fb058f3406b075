package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON Schema a structured reply must satisfy. Declare schemas
// as package-level pointers; the compiled form is cached on first use.
type Schema struct {
	// Name is sent to backends that label schemas, in kebab-case.
	Name        string
	Description string
	Definition  map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// Validate checks that raw is a JSON document matching the schema.
func (s *Schema) Validate(raw []byte) error {
	s.once.Do(s.compile)
	if s.err != nil {
		return s.err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	if err := s.compiled.Validate(doc); err != nil {
		return fmt.Errorf("reply does not match %s: %w", s.Name, err)
	}
	return nil
}

func (s *Schema) compile() {
	def, err := json.Marshal(s.Definition)
	if err != nil {
		s.err = fmt.Errorf("encode schema %s: %w", s.Name, err)
		return
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		s.err = fmt.Errorf("decode schema %s: %w", s.Name, err)
		return
	}

	url := "mem://" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		s.err = fmt.Errorf("load schema %s: %w", s.Name, err)
		return
	}
	if s.compiled, err = c.Compile(url); err != nil {
		s.err = fmt.Errorf("compile schema %s: %w", s.Name, err)
	}
}
