// Package mathnorm turns markup-laden math text produced by an LLM into
// plain text, optionally simplifying arithmetic it finds along the way.
package mathnorm

import (
	"regexp"
	"strings"
)

// Simplifier attempts a symbolic parse of a cleaned expression. It returns
// the re-serialized expression and true on success, or ("", false) when the
// input is not an expression it understands.
type Simplifier interface {
	Simplify(expr string) (string, bool)
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSimplifier replaces the default symbolic step.
func WithSimplifier(s Simplifier) Option {
	return func(n *Normalizer) { n.simplifier = s }
}

// WithoutSimplifier disables the symbolic step; only substitutions run.
func WithoutSimplifier() Option {
	return func(n *Normalizer) { n.simplifier = nil }
}

// Normalizer applies ordered textual substitutions followed by an optional
// symbolic simplification. Safe for concurrent use.
type Normalizer struct {
	simplifier Simplifier
}

// New creates a Normalizer that uses the Rational simplifier unless
// overridden.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{simplifier: Rational{}}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var defaultNormalizer = New()

// Normalize runs the default Normalizer.
func Normalize(text string) string {
	return defaultNormalizer.Normalize(text)
}

type substitution struct {
	re   *regexp.Regexp
	repl string
}

// delimiters strip math-mode markers before brace groups are expanded.
var delimiters = []substitution{
	{regexp.MustCompile(`\\[()\[\]]`), ""},
	{regexp.MustCompile(`\$\$(.*?)\$\$`), "${1}"},
	{regexp.MustCompile(`\$(.*?)\$`), "${1}"},
}

// substitutions run in order once every brace group is gone. Stray
// commands are dropped last so named operators are rewritten first.
var substitutions = []substitution{
	{regexp.MustCompile(`\\times|\\cdot`), "*"},
	{regexp.MustCompile(`\\div`), "/"},
	{regexp.MustCompile(`\\(pi|alpha|beta|gamma|delta|theta)`), "${1}"},
	{regexp.MustCompile(`\\log|\\ln`), "log"},
	{regexp.MustCompile(`\\(sin|cos|tan|exp)`), "${1}"},
	{regexp.MustCompile(`\(\)`), ""},
	{regexp.MustCompile(`//+`), "/"},
	{regexp.MustCompile(`[ \t\f\v]+`), " "},
	{regexp.MustCompile(` ?\n ?`), "\n"},
	{regexp.MustCompile(`\\[a-zA-Z]+`), ""},
}

var superscripts = strings.NewReplacer(
	"⁰", "^0", "¹", "^1", "²", "^2", "³", "^3", "⁴", "^4",
	"⁵", "^5", "⁶", "^6", "⁷", "^7", "⁸", "^8", "⁹", "^9",
)

var commandRe = regexp.MustCompile(`\\[a-zA-Z]+`)

// Normalize converts text to plain text. It never panics; on an internal
// failure it falls back to stripping backslash commands from the input.
func (n *Normalizer) Normalize(text string) (out string) {
	if text == "" {
		return text
	}
	defer func() {
		if r := recover(); r != nil {
			out = strings.TrimSpace(commandRe.ReplaceAllString(text, ""))
		}
	}()

	cleaned := substitute(text)

	if n.simplifier != nil && hasOperator(cleaned) {
		if simplified, ok := n.simplifier.Simplify(cleaned); ok {
			return simplified
		}
	}
	return cleaned
}

// substitute rewrites text until it stops changing. A pass that changes
// anything shortens the text or consumes markup, so the input length
// bounds the number of passes.
func substitute(text string) string {
	cur := strings.ReplaceAll(text, "\r\n", "\n")
	for range len(cur) + 1 {
		next := superscripts.Replace(cur)
		for _, s := range delimiters {
			next = s.re.ReplaceAllString(next, s.repl)
		}
		next = expandGroups(next)
		for _, s := range substitutions {
			next = s.re.ReplaceAllString(next, s.repl)
		}
		next = strings.TrimSpace(next)
		if next == cur {
			break
		}
		cur = next
	}
	return cur
}

// expandGroups rewrites brace groups at any depth:
//
//	\frac{a}{b} -> (a)/(b)
//	\sqrt{a}    -> sqrt(a)
//	^{a}        -> ^(a)
//	_{a}        -> _(a)
//	{a}         -> a
//
// Arguments are expanded before the group around them is rewritten. An
// unbalanced brace is kept as written.
func expandGroups(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		switch s[i] {
		case '\\':
			j := i + 1
			for j < len(s) && isASCIILetter(s[j]) {
				j++
			}
			switch s[i+1 : j] {
			case "frac":
				if num, k, ok := groupAt(s, j); ok {
					if den, m, ok := groupAt(s, k); ok {
						b.WriteString("(" + expandGroups(num) + ")/(" + expandGroups(den) + ")")
						i = m
						continue
					}
				}
			case "sqrt":
				if arg, k, ok := groupAt(s, j); ok {
					b.WriteString("sqrt(" + expandGroups(arg) + ")")
					i = k
					continue
				}
			}
			b.WriteString(s[i:j])
			if j > i+1 && j < len(s) && s[j] == '{' {
				// Keep the command apart from its argument: \text{cm} -> \text cm.
				b.WriteByte(' ')
			}
			i = j
		case '^', '_':
			if arg, k, ok := groupAt(s, i+1); ok {
				b.WriteString(s[i:i+1] + "(" + expandGroups(arg) + ")")
				i = k
				continue
			}
			b.WriteByte(s[i])
			i++
		case '{':
			if arg, k, ok := groupAt(s, i); ok {
				b.WriteString(expandGroups(arg))
				i = k
				continue
			}
			b.WriteByte(s[i])
			i++
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

// groupAt returns the contents of the balanced brace group opening at
// s[i] and the index just past its closing brace.
func groupAt(s string, i int) (inner string, end int, ok bool) {
	if i >= len(s) || s[i] != '{' {
		return "", i, false
	}
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[i+1 : j], j + 1, true
			}
		}
	}
	return "", i, false
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// hasOperator reports whether text contains an arithmetic operator or a
// comparison character.
func hasOperator(text string) bool {
	return strings.ContainsAny(text, "+-*/^=<>×÷")
}
