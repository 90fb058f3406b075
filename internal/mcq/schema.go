package mcq

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/abhisek/mcqbot/internal/llm"
)

// Schema is the structured-output shape requested from providers that
// support it. Options must hold exactly four strings; array bounds are
// checked in code because strict providers reject minItems.
var Schema = &llm.Schema{
	Name:        "mcq-question",
	Description: "A multiple-choice question with four options and one correct answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question text, without the options",
			},
			"options": map[string]any{
				"type":        "array",
				"description": "Exactly four option texts in A, B, C, D order, without letter prefixes",
				"items":       map[string]any{"type": "string"},
			},
			"correct_answer": map[string]any{
				"type":        "string",
				"description": "Letter of the correct option",
				"enum":        []any{"A", "B", "C", "D"},
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "One short sentence explaining the answer",
			},
		},
		"required":             []any{"question", "options", "correct_answer", "explanation"},
		"additionalProperties": false,
	},
}

type jsonQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

var optionPrefixRe = regexp.MustCompile(`(?i)^\(?[a-d]\)\s*`)

// parseJSON accepts raw text that is, or embeds, a JSON object matching
// Schema.
func (p *Parser) parseJSON(raw string) (*ParsedQuestion, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	body := json.RawMessage(raw[start : end+1])
	if err := Schema.Validate(body); err != nil {
		return nil, false
	}

	var jq jsonQuestion
	if err := json.Unmarshal(body, &jq); err != nil || len(jq.Options) != len(Letters) {
		return nil, false
	}
	correct, ok := ParseLetter(jq.CorrectAnswer)
	if !ok {
		return nil, false
	}

	pq := newParsedQuestion()
	pq.Correct = correct
	pq.Confidence = Exact

	if q := p.norm.Normalize(strings.TrimSpace(jq.Question)); q != "" {
		pq.Text = q
	} else {
		pq.Confidence = Recovered
	}
	for i, l := range Letters {
		text := optionPrefixRe.ReplaceAllString(strings.TrimSpace(jq.Options[i]), "")
		pq.Options[i] = Option{Letter: l, Text: p.norm.Normalize(text)}
		if pq.Options[i].Text == "" {
			pq.Confidence = Recovered
		}
	}
	pq.Explanation = summarize(p.norm.Normalize(strings.TrimSpace(jq.Explanation)))
	return pq, true
}
