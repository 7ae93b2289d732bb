package intake

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rakesh/rfp-evaluator/internal/models"
)

// Tender documents published on the sources we scrape follow a common
// eight-section layout. Section headings vary slightly between issuers,
// so each canonical key carries the aliases seen in the wild.
var sectionAliases = []struct {
	key     string
	aliases []string
}{
	{"project_overview", []string{"project overview", "overview", "introduction"}},
	{"scope_of_supply", []string{"scope of supply", "scope of work", "bill of quantities"}},
	{"technical_specifications", []string{"technical specifications", "technical specification", "technical requirements"}},
	{"testing_requirements", []string{"acceptance & test requirements", "acceptance and test requirements", "testing requirements", "test requirements", "inspection and testing"}},
	{"delivery_timeline", []string{"delivery timeline", "delivery schedule", "completion period"}},
	{"pricing_details", []string{"pricing details", "price schedule", "commercial terms"}},
	{"evaluation_criteria", []string{"evaluation criteria", "bid evaluation"}},
	{"submission_format", []string{"submission format", "bid submission", "submission instructions"}},
}

type sectionMark struct {
	key   string
	start int // index where the heading begins
	body  int // index where the section body begins
}

// SplitSections carves a tender document's plain text into the
// canonical sections. Headings are located case-insensitively, with or
// without leading numbering; text before the first recognized heading
// is ignored. Missing sections are simply absent from the map.
func SplitSections(text string) map[string]string {
	lower := strings.ToLower(text)

	var marks []sectionMark
	for _, sec := range sectionAliases {
		best := -1
		bodyAt := -1
		for _, alias := range sec.aliases {
			idx := strings.Index(lower, alias)
			if idx == -1 {
				continue
			}
			if best == -1 || idx < best {
				best = idx
				bodyAt = idx + len(alias)
			}
		}
		if best >= 0 {
			marks = append(marks, sectionMark{key: sec.key, start: best, body: bodyAt})
		}
	}
	if len(marks) == 0 {
		return map[string]string{}
	}

	sort.Slice(marks, func(i, j int) bool { return marks[i].start < marks[j].start })

	sections := make(map[string]string, len(marks))
	for i, m := range marks {
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		body := strings.Trim(text[m.body:end], " \t\n:.-")
		// Strip a trailing numbered heading fragment ("4." before the
		// next section's title) left behind by the cut.
		body = strings.TrimRight(body, "0123456789")
		body = strings.Trim(body, " \t\n:.-")
		if body != "" {
			if existing, ok := sections[m.key]; !ok || len(body) > len(existing) {
				sections[m.key] = body
			}
		}
	}
	return sections
}

// BuildRFP assembles an RFP record from a tender document: sections are
// split from the text, the deadline is parsed from the text's deadline
// line (or the whole text as a fallback), and a fresh ID is assigned.
func BuildRFP(doc TenderDocument, now time.Time) models.RFP {
	sections := SplitSections(doc.Text)

	rfp := models.RFP{
		ID:                      uuid.New(),
		ProjectName:             doc.Title,
		ProjectOverview:         sections["project_overview"],
		ScopeOfSupply:           sections["scope_of_supply"],
		TechnicalSpecifications: sections["technical_specifications"],
		TestingRequirements:     sections["testing_requirements"],
		DeliveryTimeline:        sections["delivery_timeline"],
		PricingDetails:          sections["pricing_details"],
		EvaluationCriteria:      sections["evaluation_criteria"],
		SubmissionFormat:        sections["submission_format"],
		SourceURL:               doc.URL,
		CreatedAt:               now,
	}

	if deadline := ParseDeadline(doc.Text); deadline != nil {
		rfp.SubmissionDeadline = deadline
	}
	if issuer := extractIssuer(doc.Text); issuer != "" {
		rfp.IssuedBy = issuer
	}
	return rfp
}

var issuerPrefixes = []string{"issued by:", "issued by", "tendering authority:", "purchaser:"}

func extractIssuer(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		for _, p := range issuerPrefixes {
			if strings.HasPrefix(lower, p) {
				return normalizeSpace(line[len(p):])
			}
		}
	}
	return ""
}
