package mcq

import (
	"regexp"
	"strings"
)

// AnswerStrategy is one way of locating the correct letter in cleaned text.
// Exact marks the strategy whose match counts toward Exact confidence.
type AnswerStrategy struct {
	Name  string
	Exact bool
	Find  func(text string) (Letter, bool)
}

var (
	correctAnswerRe = regexp.MustCompile(`(?i)correct\s+answer\s*:\s*\(?([a-d])\b`)
	answerLabelRe   = regexp.MustCompile(`(?i)\banswer\s*:\s*\(?([a-d])\b`)
	parenLetterRe   = regexp.MustCompile(`(?i)\(([a-d])\)`)
	standaloneRe    = regexp.MustCompile(`\b([A-D])\b`)
	questionLineRe  = regexp.MustCompile(`(?i)^\s*question\s*:`)
	explainLineRe   = regexp.MustCompile(`(?i)^\s*explanation\s*:`)
	optionLineRe    = regexp.MustCompile(`(?i)^[a-d]\)`)
)

// CorrectAnswerLabel matches "Correct Answer: B".
var CorrectAnswerLabel = AnswerStrategy{
	Name:  "correct-answer-label",
	Exact: true,
	Find:  regexpFinder(correctAnswerRe),
}

// AnswerLabel matches "Answer: B".
var AnswerLabel = AnswerStrategy{
	Name: "answer-label",
	Find: regexpFinder(answerLabelRe),
}

// ParenthesizedLetter matches the first "(B)" or "(b)" anywhere in the text.
var ParenthesizedLetter = AnswerStrategy{
	Name: "parenthesized-letter",
	Find: regexpFinder(parenLetterRe),
}

// TrailingLineLetter scans lines bottom-up for a standalone capital A-D,
// skipping option, question and explanation lines.
var TrailingLineLetter = AnswerStrategy{
	Name: "trailing-line-letter",
	Find: findTrailingLetter,
}

// DefaultAnswerStrategies returns the strategies in priority order.
func DefaultAnswerStrategies() []AnswerStrategy {
	return []AnswerStrategy{CorrectAnswerLabel, AnswerLabel, ParenthesizedLetter, TrailingLineLetter}
}

func regexpFinder(re *regexp.Regexp) func(string) (Letter, bool) {
	return func(text string) (Letter, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return ParseLetter(m[1])
	}
}

func findTrailingLetter(text string) (Letter, bool) {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" || optionLineRe.MatchString(line) || questionLineRe.MatchString(line) || explainLineRe.MatchString(line) {
			continue
		}
		ms := standaloneRe.FindAllStringSubmatch(line, -1)
		if len(ms) == 0 {
			continue
		}
		return ParseLetter(ms[len(ms)-1][1])
	}
	return "", false
}
