package models

import (
	"time"

	"github.com/google/uuid"
)

// RFP is one procurement tender under evaluation. The free-text sections
// are produced by the intake/extraction layer and are read-only to the
// scoring and matching pipeline.
type RFP struct {
	ID                      uuid.UUID  `json:"id"`
	ProjectName             string     `json:"project_name"`
	IssuedBy                string     `json:"issued_by"`
	Category                string     `json:"category"`
	SubmissionDeadline      *time.Time `json:"submission_deadline"`
	ProjectOverview         string     `json:"project_overview"`
	ScopeOfSupply           string     `json:"scope_of_supply"`
	TechnicalSpecifications string     `json:"technical_specifications"`
	TestingRequirements     string     `json:"testing_requirements"`
	DeliveryTimeline        string     `json:"delivery_timeline"`
	PricingDetails          string     `json:"pricing_details"`
	EvaluationCriteria      string     `json:"evaluation_criteria"`
	SubmissionFormat        string     `json:"submission_format"`
	SourceURL               string     `json:"source_url,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
}

// CombinedSpecText joins the sections the matchers care about.
func (r RFP) CombinedSpecText() string {
	return r.ScopeOfSupply + " " + r.TechnicalSpecifications
}
