package pipeline

import (
	"regexp"
	"strings"
)

var (
	leadingMarkerRe = regexp.MustCompile(`^\s*(?:[-*•]|\(?[0-9]+[.)]?|\(?[a-z][.)]|[ivx]+[.)])\s+`)
	splitSpaceRe    = regexp.MustCompile(`\s+`)
)

// SplitScope is the heuristic line-item splitter: one item per
// newline-separated (or semicolon-separated) entry, with list markers
// and numbering stripped. Fragments too short to describe a product
// are dropped. Used when the LLM splitter is unavailable.
func SplitScope(scope string) []string {
	if strings.TrimSpace(scope) == "" {
		return nil
	}

	raw := strings.FieldsFunc(scope, func(r rune) bool {
		return r == '\n' || r == ';'
	})

	items := make([]string, 0, len(raw))
	for _, part := range raw {
		item := cleanScopeLine(part)
		if len(item) < 10 {
			continue
		}
		items = append(items, item)
	}

	// A scope written as one paragraph still yields a single item.
	if len(items) == 0 {
		if item := cleanScopeLine(scope); len(item) >= 10 {
			items = append(items, item)
		}
	}
	return items
}

func cleanScopeLine(s string) string {
	s = leadingMarkerRe.ReplaceAllString(s, "")
	s = splitSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
