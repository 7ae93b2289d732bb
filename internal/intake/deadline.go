package intake

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var deadlinePrefixes = []string{
	"submission deadline:", "last date of submission:", "closing date:",
	"due date:", "deadline:", "bids due:",
}

var (
	isoDateRe   = regexp.MustCompile(`\b(20\d{2})-(\d{2})-(\d{2})\b`)
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(20\d{2})\b`)
	monthDateRe = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2}),?\s+(20\d{2})\b`)
	dayFirstRe  = regexp.MustCompile(`\b(\d{1,2})\s+(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec),?\s+(20\d{2})\b`)
)

// ParseDeadline finds the submission deadline in tender text. Lines
// with an explicit deadline label are preferred; otherwise the first
// date-like token anywhere in the text is used. Dates without a time
// component resolve to end of day UTC. Returns nil when no date can be
// parsed; intake treats that as a tender that cannot be shortlisted.
func ParseDeadline(text string) *time.Time {
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		for _, p := range deadlinePrefixes {
			if idx := strings.Index(lower, p); idx != -1 {
				if t, err := parseDateToken(line[idx+len(p):]); err == nil {
					return &t
				}
			}
		}
	}

	if t, err := parseDateToken(text); err == nil {
		return &t
	}
	return nil
}

// parseDateToken parses the first recognizable date in s.
func parseDateToken(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	// Exact formats first, for clean single-value inputs.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	exactFormats := []string{
		"2006-01-02",
		"02/01/2006",
		"2 January 2006",
		"02 January 2006",
		"2 Jan 2006",
		"January 2, 2006",
		"Jan 2, 2006",
	}
	for _, format := range exactFormats {
		if t, err := time.Parse(format, s); err == nil {
			return toEndOfDay(t), nil
		}
	}

	// Regex fallbacks for dates embedded in surrounding text.
	if m := isoDateRe.FindString(s); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return toEndOfDay(t), nil
		}
	}
	if m := slashDateRe.FindStringSubmatch(s); len(m) == 4 {
		// Indian tenders write day first.
		if t, err := time.Parse("2/1/2006", fmt.Sprintf("%s/%s/%s", m[1], m[2], m[3])); err == nil {
			return toEndOfDay(t), nil
		}
		if t, err := time.Parse("1/2/2006", fmt.Sprintf("%s/%s/%s", m[1], m[2], m[3])); err == nil {
			return toEndOfDay(t), nil
		}
	}
	if m := dayFirstRe.FindStringSubmatch(s); len(m) == 4 {
		dateStr := fmt.Sprintf("%s %s %s", m[1], m[2], m[3])
		for _, format := range []string{"2 January 2006", "2 Jan 2006"} {
			if t, err := time.Parse(format, dateStr); err == nil {
				return toEndOfDay(t), nil
			}
		}
	}
	if m := monthDateRe.FindStringSubmatch(s); len(m) == 4 {
		dateStr := fmt.Sprintf("%s %s %s", m[1], m[2], m[3])
		for _, format := range []string{"January 2 2006", "Jan 2 2006"} {
			if t, err := time.Parse(format, dateStr); err == nil {
				return toEndOfDay(t), nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

// toEndOfDay sets the time to 23:59:59 UTC; a deadline date means the
// whole day is available.
func toEndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}
