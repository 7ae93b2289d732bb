package models

// ComponentScores holds the five factor scores (or their weighted
// contributions) of the bid viability model, each on a 0-100 scale.
type ComponentScores struct {
	TechnicalMatch       float64 `json:"technical_match"`
	PriceCompetitiveness float64 `json:"price_competitiveness"`
	DeliveryCapability   float64 `json:"delivery_capability"`
	Compliance           float64 `json:"compliance"`
	RiskAssessment       float64 `json:"risk_assessment"`
}

// ViabilityScore is the weighted bid viability verdict for one RFP.
// FinalScore equals the sum of the weighted contributions within 0.01.
type ViabilityScore struct {
	FinalScore            float64         `json:"final_score"`
	Grade                 string          `json:"grade"`
	NormalizedScore       float64         `json:"normalized_score"`
	Components            ComponentScores `json:"component_scores"`
	WeightedContributions ComponentScores `json:"weighted_contributions"`
	Recommendation        string          `json:"recommendation"`
}
