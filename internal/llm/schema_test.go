package llm

import (
	"strings"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-object",
		Description: "A test object",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string"},
				"age":   map[string]any{"type": "integer", "minimum": 0},
				"grade": map[string]any{"type": "string", "enum": []any{"A", "B", "C"}},
				"tags": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"name", "age"},
		},
	}
}

func TestSchema_Validate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"all fields", `{"name":"Alice","age":10,"grade":"A","tags":["x"]}`, false},
		{"optional omitted", `{"name":"Bob","age":8}`, false},
		{"missing required", `{"name":"Charlie"}`, true},
		{"wrong type", `{"name":"Dave","age":"ten"}`, true},
		{"below minimum", `{"name":"Dana","age":-1}`, true},
		{"bad enum", `{"name":"Eve","age":9,"grade":"Z"}`, true},
		{"bad item type", `{"name":"Fay","age":9,"tags":[1]}`, true},
		{"not json", `Question: what?`, true},
		{"empty", ``, true},
	}
	s := testSchema()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%s) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestSchema_MismatchNamesSchema(t *testing.T) {
	err := testSchema().Validate([]byte(`{"name":"Charlie"}`))
	if err == nil || !strings.Contains(err.Error(), "test-object") {
		t.Fatalf("error should name the schema, got %v", err)
	}
}

func TestSchema_BrokenDefinition(t *testing.T) {
	s := &Schema{
		Name:       "broken",
		Definition: map[string]any{"type": 12},
	}
	for range 2 {
		if err := s.Validate([]byte(`{}`)); err == nil || !strings.Contains(err.Error(), "schema broken") {
			t.Fatalf("expected compile error on every call, got %v", err)
		}
	}
}
