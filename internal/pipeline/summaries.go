package pipeline

import "github.com/rakesh/rfp-evaluator/internal/models"

// Role-specific summaries carve the selected opportunity down to the
// sections each downstream stage needs, so handlers and tools never
// pass the full record where a slice of it will do.

// TechnicalSummary is the matcher-facing view of an opportunity.
type TechnicalSummary struct {
	ProjectName             string `json:"project_name"`
	IssuedBy                string `json:"issued_by"`
	SubmissionDeadline      string `json:"submission_deadline"`
	ProjectOverview         string `json:"project_overview"`
	ScopeOfSupply           string `json:"scope_of_supply"`
	TechnicalSpecifications string `json:"technical_specifications"`
	TestingRequirements     string `json:"testing_requirements"`
	DeliveryTimeline        string `json:"delivery_timeline"`
}

// PricingSummary is the pricing-facing view of an opportunity.
type PricingSummary struct {
	ProjectName         string `json:"project_name"`
	IssuedBy            string `json:"issued_by"`
	SubmissionDeadline  string `json:"submission_deadline"`
	ScopeOfSupply       string `json:"scope_of_supply"`
	TestingRequirements string `json:"testing_requirements"`
	PricingDetails      string `json:"pricing_details"`
	EvaluationCriteria  string `json:"evaluation_criteria"`
}

func TechnicalSummaryFor(r models.RFP) TechnicalSummary {
	return TechnicalSummary{
		ProjectName:             r.ProjectName,
		IssuedBy:                r.IssuedBy,
		SubmissionDeadline:      deadlineString(r),
		ProjectOverview:         r.ProjectOverview,
		ScopeOfSupply:           r.ScopeOfSupply,
		TechnicalSpecifications: r.TechnicalSpecifications,
		TestingRequirements:     r.TestingRequirements,
		DeliveryTimeline:        r.DeliveryTimeline,
	}
}

func PricingSummaryFor(r models.RFP) PricingSummary {
	return PricingSummary{
		ProjectName:         r.ProjectName,
		IssuedBy:            r.IssuedBy,
		SubmissionDeadline:  deadlineString(r),
		ScopeOfSupply:       r.ScopeOfSupply,
		TestingRequirements: r.TestingRequirements,
		PricingDetails:      r.PricingDetails,
		EvaluationCriteria:  r.EvaluationCriteria,
	}
}

func deadlineString(r models.RFP) string {
	if r.SubmissionDeadline == nil {
		return ""
	}
	return r.SubmissionDeadline.Format("2006-01-02")
}
