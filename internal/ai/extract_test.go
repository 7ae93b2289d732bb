package ai

import (
	"testing"
)

func TestParseRFPResponseFenced(t *testing.T) {
	resp := "```json\n{\"project_name\": \"11 kV Cable Supply\", \"issued_by\": \"State DISCOM\", \"deadline_iso\": \"2026-10-15\", \"scope_of_supply\": \"Supply of 11 kV cable\"}\n```"
	data, err := parseRFPResponse(resp)
	if err != nil {
		t.Fatalf("parseRFPResponse failed: %v", err)
	}
	if data.ProjectName != "11 kV Cable Supply" {
		t.Errorf("project name = %q", data.ProjectName)
	}
	if data.DeadlineISO != "2026-10-15" {
		t.Errorf("deadline = %q", data.DeadlineISO)
	}
	if data.ScopeOfSupply != "Supply of 11 kV cable" {
		t.Errorf("scope = %q", data.ScopeOfSupply)
	}
}

func TestParseRFPResponseWithPreamble(t *testing.T) {
	resp := `Here is the extracted data: {"project_name": "X", "issued_by": "Y"} hope that helps`
	data, err := parseRFPResponse(resp)
	if err != nil {
		t.Fatalf("parseRFPResponse failed: %v", err)
	}
	if data.ProjectName != "X" || data.IssuedBy != "Y" {
		t.Errorf("got %+v", data)
	}
}

func TestExtractFirstJSONObject(t *testing.T) {
	s := `noise {"a": {"b": "va\"l}ue"}, "c": 1} trailing {"d": 2}`
	got, ok := extractFirstJSONObject(s)
	if !ok {
		t.Fatal("no object found")
	}
	want := `{"a": {"b": "va\"l}ue"}, "c": 1}`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if _, ok := extractFirstJSONObject("no braces here"); ok {
		t.Error("expected no match")
	}
}

func TestParseLineItemResponse(t *testing.T) {
	items, err := parseLineItemResponse("```json\n[\"11 kV AL XLPE cable\", \"  \", \"1.1 kV CU PVC cable\"]\n```")
	if err != nil {
		t.Fatalf("parseLineItemResponse failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items: %v", len(items), items)
	}
	if items[0] != "11 kV AL XLPE cable" || items[1] != "1.1 kV CU PVC cable" {
		t.Errorf("items = %v", items)
	}
}

func TestParseLineItemResponseWrappedObject(t *testing.T) {
	items, err := parseLineItemResponse(`{"items": ["cable A", "cable B"]}`)
	if err != nil {
		t.Fatalf("parseLineItemResponse failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("items = %v", items)
	}
}

func TestParseLineItemResponseEmpty(t *testing.T) {
	if _, err := parseLineItemResponse(`[]`); err == nil {
		t.Error("expected an error for an empty array")
	}
}
