package proposal

import (
	"errors"
	"strings"
	"testing"
)

func TestDecode_AllFields(t *testing.T) {
	d, err := Decode(strings.NewReader(`{"documentText":"Executive Summary","requiredKeywords":["Cloud","SLA"]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.DocumentText != "Executive Summary" {
		t.Errorf("DocumentText = %q", d.DocumentText)
	}
	if len(d.RequiredKeywords) != 2 || d.RequiredKeywords[0] != "Cloud" || d.RequiredKeywords[1] != "SLA" {
		t.Errorf("RequiredKeywords = %v", d.RequiredKeywords)
	}
}

func TestDecode_EmptyObjectUsesDefaults(t *testing.T) {
	d, err := Decode(strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.DocumentText != "" || len(d.RequiredKeywords) != 0 {
		t.Errorf("expected zero-value defaults, got %+v", d)
	}
}

func TestDecode_NullFieldsUseDefaults(t *testing.T) {
	d, err := Decode(strings.NewReader(`{"documentText":null,"requiredKeywords":null}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.DocumentText != "" || d.RequiredKeywords != nil {
		t.Errorf("expected zero-value defaults, got %+v", d)
	}
}

func TestDecode_UnknownFieldsIgnored(t *testing.T) {
	d, err := Decode(strings.NewReader(`{"documentText":"x","proposalId":42}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.DocumentText != "x" {
		t.Errorf("DocumentText = %q", d.DocumentText)
	}
}

func TestDecode_NonStringText(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"documentText":123}`))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "documentText") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestDecode_NonStringKeyword(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"requiredKeywords":["ok", 7]}`))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDecode_NullKeyword(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"documentText":"x","requiredKeywords":["SLA",null]}`))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "requiredKeywords[1]") {
		t.Errorf("error should name the element: %v", err)
	}
}

func TestDecode_KeywordsNotArray(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"requiredKeywords":"SLA"}`))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDecode_EmptyKeywordList(t *testing.T) {
	d, err := Decode(strings.NewReader(`{"requiredKeywords":[]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(d.RequiredKeywords) != 0 {
		t.Errorf("RequiredKeywords = %v", d.RequiredKeywords)
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"documentText":`))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStage_IsKnown(t *testing.T) {
	for _, s := range []Stage{StageEarly, StageMid, StageLate} {
		if !s.IsKnown() {
			t.Errorf("%q should be known", s)
		}
	}
	if Stage("final").IsKnown() {
		t.Error("final should not be a known stage")
	}
}
