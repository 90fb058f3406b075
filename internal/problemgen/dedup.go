package problemgen

import (
	"strings"

	"github.com/samber/lo"
)

// buildAvoid formats the leading recent questions as a single prompt line.
// Returns "" if there is nothing to avoid.
func buildAvoid(recent []string, max int) string {
	recent = lo.Uniq(lo.Compact(lo.Map(recent, func(q string, _ int) string {
		return strings.TrimSpace(q)
	})))
	if len(recent) == 0 {
		return ""
	}

	// Keep only the first N, which are the newest.
	if max > 0 && len(recent) > max {
		recent = recent[:max]
	}
	return "\n\nAVOID these recent questions: " + strings.Join(recent, ", ")
}
