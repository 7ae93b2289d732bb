package intake

import "strings"

// normalizeSpace collapses runs of whitespace into single spaces and
// trims the string.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
