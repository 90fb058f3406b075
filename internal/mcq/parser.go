package mcq

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/mcqbot/internal/mathnorm"
)

// maxExplanationRunes bounds an explanation that has no sentence break.
const maxExplanationRunes = 80

var (
	blankLinesRe  = regexp.MustCompile(`\n[ \t]*\n`)
	spaceRunRe    = regexp.MustCompile(`  +`)
	questionRe    = regexp.MustCompile(`(?i)question\s*:`)
	markerRe      = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}(])([a-d])\)`)
	optionStopRe  = regexp.MustCompile(`(?i)correct\s+answer|\banswer\s*:|\bexplanation\s*:`)
	explanationRe = regexp.MustCompile(`(?i)explanation\s*:[ \t]*([^\n]*)`)
	sentenceEndRe = regexp.MustCompile(`\.(?:\s|$)`)
)

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithNormalizer sets the math normalizer applied to every fragment.
func WithNormalizer(n *mathnorm.Normalizer) ParserOption {
	return func(p *Parser) { p.norm = n }
}

// WithAnswerStrategies replaces the answer strategies, tried in order.
func WithAnswerStrategies(s ...AnswerStrategy) ParserOption {
	return func(p *Parser) { p.strategies = s }
}

// WithoutJSON disables recognition of structured JSON output.
func WithoutJSON() ParserOption {
	return func(p *Parser) { p.json = false }
}

// Parser turns raw generated text into a ParsedQuestion. It is stateless
// after construction and safe for concurrent use.
type Parser struct {
	norm       *mathnorm.Normalizer
	strategies []AnswerStrategy
	json       bool
}

// NewParser creates a Parser with the default strategies.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		norm:       mathnorm.New(),
		strategies: DefaultAnswerStrategies(),
		json:       true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse never fails. Missing parts are filled with placeholders and the
// outcome is reflected in Confidence.
func (p *Parser) Parse(raw string) *ParsedQuestion {
	if p.json {
		if pq, ok := p.parseJSON(raw); ok {
			return pq
		}
	}

	text := p.preClean(raw)
	pq := newParsedQuestion()

	questionFound := p.extractQuestion(text, pq)
	optionsFound := p.extractOptions(text, pq)

	exact := false
	for _, s := range p.strategies {
		if l, ok := s.Find(text); ok {
			pq.Correct = l
			exact = s.Exact
			break
		}
	}

	pq.Explanation = p.extractExplanation(text)

	switch {
	case !pq.Correct.Valid():
		pq.Correct = ""
		pq.Confidence = Fallback
	case exact && questionFound && optionsFound:
		pq.Confidence = Exact
	default:
		pq.Confidence = Recovered
	}
	return pq
}

// preClean collapses blank lines and repeated spaces, then normalizes the
// whole text once.
func (p *Parser) preClean(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	for blankLinesRe.MatchString(text) {
		text = blankLinesRe.ReplaceAllString(text, "\n")
	}
	text = spaceRunRe.ReplaceAllString(text, " ")
	return p.norm.Normalize(text)
}

// extractQuestion reports whether the question label and first option
// marker were both found.
func (p *Parser) extractQuestion(text string, pq *ParsedQuestion) bool {
	loc := questionRe.FindStringIndex(text)
	if loc == nil {
		return false
	}
	rest := text[loc[1]:]
	end := firstMarker(rest, A)
	if end < 0 {
		return false
	}
	q := p.norm.Normalize(strings.TrimSpace(rest[:end]))
	if q == "" {
		return false
	}
	pq.Text = q
	return true
}

// extractOptions fills every slot it can and reports whether all four
// were non-empty.
func (p *Parser) extractOptions(text string, pq *ParsedQuestion) bool {
	markers := markerRe.FindAllStringSubmatchIndex(text, -1)

	// Options are taken from the first A) onwards so a stray marker in the
	// question text cannot shadow the real list.
	first := 0
	for i, m := range markers {
		if Letter(strings.ToUpper(text[m[2]:m[3]])) == A {
			first = i
			break
		}
	}

	all := true
	for i, l := range Letters {
		body, ok := optionBody(text, markers[first:], l)
		if ok {
			body = p.norm.Normalize(body)
		}
		pq.Options[i] = Option{Letter: l, Text: body}
		if body == "" {
			all = false
		}
	}
	return all
}

// optionBody returns the first line of text following l's marker, ending at
// the next marker, an answer or explanation label, or end of text.
func optionBody(text string, markers [][]int, l Letter) (string, bool) {
	for i, m := range markers {
		if Letter(strings.ToUpper(text[m[2]:m[3]])) != l {
			continue
		}
		start := m[1]
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1][2]
		}
		if loc := optionStopRe.FindStringIndex(text[start:end]); loc != nil {
			end = start + loc[0]
		}
		for _, line := range strings.Split(text[start:end], "\n") {
			if line = strings.TrimSpace(line); line != "" {
				return line, true
			}
		}
		return "", false
	}
	return "", false
}

// firstMarker returns the byte offset of l's first marker in text, or -1.
func firstMarker(text string, l Letter) int {
	for _, m := range markerRe.FindAllStringSubmatchIndex(text, -1) {
		if Letter(strings.ToUpper(text[m[2]:m[3]])) == l {
			return m[2]
		}
	}
	return -1
}

func (p *Parser) extractExplanation(text string) string {
	m := explanationRe.FindStringSubmatch(text)
	if m == nil {
		return DefaultExplanation
	}
	return summarize(p.norm.Normalize(strings.TrimSpace(m[1])))
}

// summarize keeps the first sentence, or the first maxExplanationRunes
// runes followed by an ellipsis. A sentence ends at a period followed by
// whitespace or the end of the text, so decimals such as "3.14" do not cut
// the explanation short.
func summarize(s string) string {
	if s == "" {
		return DefaultExplanation
	}
	if loc := sentenceEndRe.FindStringIndex(s); loc != nil {
		return s[:loc[0]+1]
	}
	if utf8.RuneCountInString(s) > maxExplanationRunes {
		return string([]rune(s)[:maxExplanationRunes]) + "..."
	}
	return s
}
