package pricing

import (
	"regexp"
	"sort"
	"strings"
)

// Test requirement extraction is a fixed ordered table of lexical
// patterns. A pattern matching anywhere in the lower-cased requirements
// text activates all of its codes; the result is the set union across
// all matching rules. Kept as data so the table is testable on its own.

type testRule struct {
	pattern *regexp.Regexp
	codes   []string
}

var hvWithstandCodes = []string{"HVWT-1.1KV", "HVWT-3.5KV", "HVWT-11KV"}

var testRules = []testRule{
	{regexp.MustCompile(`high\s*voltage\s*withstand`), hvWithstandCodes},
	{regexp.MustCompile(`hv\s*withstand`), hvWithstandCodes},
	{regexp.MustCompile(`voltage\s*withstand`), hvWithstandCodes},
	{regexp.MustCompile(`insulation\s*resistance`), []string{"IRT-10M"}},
	{regexp.MustCompile(`\birt\b`), []string{"IRT-10M"}},
	{regexp.MustCompile(`tensile\s*strength`), []string{"TST-360", "TST-350"}},
	{regexp.MustCompile(`mechanical\s*(?:test|testing|strength)`), []string{"TST-360", "MI-01"}},
	{regexp.MustCompile(`mechanical\s*installation`), []string{"MII-01"}},
	{regexp.MustCompile(`mechanical\s*inspection`), []string{"MI-01"}},
	{regexp.MustCompile(`documentation`), []string{"DOC-01"}},
	{regexp.MustCompile(`certif(?:icate|ication)`), []string{"DOC-01"}},
	{regexp.MustCompile(`routine\s*(?:test|testing|insulation)`), []string{"RT-01", "ET-01"}},
	{regexp.MustCompile(`acceptance\s*(?:test|testing)`), []string{"AT-01", "AT-02"}},
	{regexp.MustCompile(`type\s*(?:test|testing)`), []string{"TT-01"}},
	{regexp.MustCompile(`electrical\s*(?:test|testing)`), []string{"ET-01", "ET-02"}},
}

// defaultTestCodes is the minimal set applied when the requirements
// text is empty or yields no usable codes.
var defaultTestCodes = []string{"DOC-01", "IRT-10M", "RT-01"}

// ExtractRequiredTests parses free-text testing requirements into a
// deduplicated sorted list of test codes. voltageRating (e.g. "11 kV")
// narrows the high-voltage withstand tests to the product's voltage
// class; pass "" to skip the filter. The result always includes a
// documentation code and never degenerates to documentation alone.
func ExtractRequiredTests(requirements, voltageRating string) []string {
	if strings.TrimSpace(requirements) == "" {
		out := make([]string, len(defaultTestCodes))
		copy(out, defaultTestCodes)
		return out
	}

	text := strings.ToLower(requirements)
	found := make(map[string]struct{})
	for _, rule := range testRules {
		if rule.pattern.MatchString(text) {
			for _, code := range rule.codes {
				found[code] = struct{}{}
			}
		}
	}

	filterVoltageClass(found, voltageRating)

	hasDoc := false
	for code := range found {
		if strings.HasPrefix(code, "DOC") {
			hasDoc = true
			break
		}
	}
	if !hasDoc {
		found["DOC-01"] = struct{}{}
	}

	// A documentation-only result means nothing real matched; fall back
	// to the basic tests.
	if len(found) == 1 {
		found["RT-01"] = struct{}{}
		found["IRT-10M"] = struct{}{}
	}

	out := make([]string, 0, len(found))
	for code := range found {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// filterVoltageClass keeps only the high-voltage withstand test that
// matches the product's voltage class, when any HV code is present.
func filterVoltageClass(found map[string]struct{}, voltageRating string) {
	if voltageRating == "" {
		return
	}
	hvPresent := false
	for _, code := range hvWithstandCodes {
		if _, ok := found[code]; ok {
			hvPresent = true
			break
		}
	}
	if !hvPresent {
		return
	}

	v := strings.ReplaceAll(strings.ToLower(voltageRating), " ", "")
	switch {
	case strings.Contains(v, "11kv"):
		delete(found, "HVWT-1.1KV")
		delete(found, "HVWT-3.5KV")
	case strings.Contains(v, "1.1kv") || strings.Contains(v, "1.1"):
		delete(found, "HVWT-11KV")
		delete(found, "HVWT-3.5KV")
	case strings.Contains(v, "0.6kv") || strings.Contains(v, "415v") || strings.Contains(v, "0.4kv"):
		delete(found, "HVWT-11KV")
	}
}
