package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// ExtractedRFP is the structured output the LLM produces from raw
// tender text. Section fields mirror the canonical RFP sections; any
// the model cannot find come back empty.
type ExtractedRFP struct {
	ProjectName string `json:"project_name"`
	IssuedBy    string `json:"issued_by"`
	DeadlineISO string `json:"deadline_iso"`

	ProjectOverview         string `json:"project_overview"`
	ScopeOfSupply           string `json:"scope_of_supply"`
	TechnicalSpecifications string `json:"technical_specifications"`
	TestingRequirements     string `json:"testing_requirements"`
	DeliveryTimeline        string `json:"delivery_timeline"`
	PricingDetails          string `json:"pricing_details"`
	EvaluationCriteria      string `json:"evaluation_criteria"`
	SubmissionFormat        string `json:"submission_format"`
}

// ExtractRFP uses the LLM to carve a raw tender document into the
// canonical sections. Heuristic section splitting handles well formed
// notices; this path covers scanned or free-form documents where the
// headings are missing or mangled.
func (c *OllamaClient) ExtractRFP(ctx context.Context, title, url, text string) (*ExtractedRFP, error) {
	prompt := fmt.Sprintf(`You are a procurement analyst for a power cable manufacturer. Extract key information from the following tender / RFP text into JSON format.

Input:
Title: %s
URL: %s
Text:
%s

Instructions:
1. project_name: the official project or tender title.
2. issued_by: the tendering authority or purchaser organisation.
3. deadline_iso: the bid submission deadline in ISO 8601 (YYYY-MM-DD), or null if not stated.
4. Copy the relevant text of the document into each section field below. Preserve the original wording; do not summarise. Use an empty string for sections the document does not cover.

JSON Schema:
{
	"project_name": "string",
	"issued_by": "string",
	"deadline_iso": "YYYY-MM-DD or null",
	"project_overview": "string",
	"scope_of_supply": "string",
	"technical_specifications": "string",
	"testing_requirements": "string",
	"delivery_timeline": "string",
	"pricing_details": "string",
	"evaluation_criteria": "string",
	"submission_format": "string"
}

Respond ONLY with the JSON object.`, title, url, text)

	// Strategy: try jsonMode first (better adherence for models that
	// support it), fall back to text mode plus robust extraction.
	resp, err := c.GenerateCompletion(ctx, prompt, true)
	if err == nil {
		if data, parseErr := parseRFPResponse(resp); parseErr == nil {
			return data, nil
		} else {
			log.Printf("JSON mode failed parsing: %v. Retrying with text mode...", parseErr)
		}
	} else {
		log.Printf("JSON mode generation failed: %v. Retrying with text mode...", err)
	}

	resp, err = c.GenerateCompletion(ctx, prompt, false)
	if err != nil {
		return nil, err
	}

	data, err := parseRFPResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LLM JSON after retry: %w (response: %s)", err, resp)
	}

	return data, nil
}

func parseRFPResponse(resp string) (*ExtractedRFP, error) {
	cleaned := stripCodeFences(resp)
	if jsonStr, ok := extractFirstJSONObject(cleaned); ok {
		cleaned = jsonStr
	}

	var data ExtractedRFP
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func stripCodeFences(resp string) string {
	cleaned := strings.TrimSpace(resp)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return cleaned
}

// extractFirstJSONObject finds the first outermost balanced {...}
func extractFirstJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}

		if char == '\\' {
			escaped = true
			continue
		}

		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			if char == '{' {
				depth++
			} else if char == '}' {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}
