package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// SplitLineItems asks the LLM to break a scope-of-supply block into
// individual supply line items. Satisfies pipeline.LineItemSplitter;
// the pipeline falls back to heuristic splitting when this errors.
func (c *OllamaClient) SplitLineItems(ctx context.Context, scope string) ([]string, error) {
	prompt := fmt.Sprintf(`You are a procurement analyst. Split the following scope-of-supply text from a cable tender into individual supply line items.

Text:
%s

Instructions:
1. One entry per distinct item to be supplied. Keep the original wording of each item, including quantities and standards.
2. Drop headings, numbering markers, and filler sentences that are not supply items.
3. Respond ONLY with a JSON array of strings.`, scope)

	resp, err := c.GenerateCompletion(ctx, prompt, true)
	if err == nil {
		if items, parseErr := parseLineItemResponse(resp); parseErr == nil {
			return items, nil
		}
	}

	resp, err = c.GenerateCompletion(ctx, prompt, false)
	if err != nil {
		return nil, err
	}

	items, err := parseLineItemResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse line item JSON: %w (response: %s)", err, resp)
	}
	return items, nil
}

func parseLineItemResponse(resp string) ([]string, error) {
	cleaned := stripCodeFences(resp)
	if arr, ok := extractFirstJSONArray(cleaned); ok {
		cleaned = arr
	}

	var items []string
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		// Some models wrap the array in an object, e.g. {"items": [...]}.
		var wrapped map[string][]string
		if err2 := json.Unmarshal([]byte(cleaned), &wrapped); err2 == nil {
			for _, v := range wrapped {
				items = v
				break
			}
		} else {
			return nil, err
		}
	}

	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no line items in response")
	}
	return out, nil
}

// extractFirstJSONArray finds the first outermost balanced [...]
func extractFirstJSONArray(s string) (string, bool) {
	start := strings.Index(s, "[")
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
			if char == '[' {
				depth++
			} else if char == ']' {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}
