package models

import "github.com/google/uuid"

// SpecComparison is one row of the requirement-vs-product comparison table
// built by the line-item matcher.
type SpecComparison struct {
	Dimension    string `json:"dimension"`
	Requirement  string `json:"requirement"`
	ProductValue string `json:"product_value"`
	Matched      bool   `json:"matched"`
}

// SpecMatch is the result of comparing one RFP (or one line item) against
// one catalog product. UnitPriceINR and MOQMeters are carried from the
// product row so the pricing engine has fallback values when a catalog
// lookup misses.
type SpecMatch struct {
	ProductID    string           `json:"product_id"`
	ProductName  string           `json:"product_name,omitempty"`
	SpecMatchPct float64          `json:"spec_match_percent"`
	Category     string           `json:"category"`
	BISCertified bool             `json:"bis_certified"`
	UnitPriceINR float64          `json:"unit_price_inr,omitempty"`
	MOQMeters    int              `json:"moq_meters,omitempty"`
	Comparison   []SpecComparison `json:"comparison,omitempty"`
}

// LineItem is one discrete product requirement extracted from an RFP's
// scope of supply. The ID is the join key between the matcher and the
// pricing engine; the raw text is display-only and must never be used as
// a merge key, since it can be re-derived with different whitespace.
type LineItem struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

// NewLineItem assigns the synthetic identifier at creation time.
func NewLineItem(text string) LineItem {
	return LineItem{ID: uuid.New(), Text: text}
}

// LineItemResult holds the ranked matches for one line item. Selected is
// nil when no product matched any dimension; when present it is always
// the head of TopMatches.
type LineItemResult struct {
	Item       LineItem          `json:"item"`
	Specs      map[string]string `json:"rfp_specs"`
	TopMatches []SpecMatch       `json:"top_matches"`
	Selected   *SpecMatch        `json:"selected,omitempty"`
}
