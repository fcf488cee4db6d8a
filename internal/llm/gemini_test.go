package llm

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-3-flash-preview"},
		{"gemini-pro", "gemini-3-pro-preview"},
		{"gemini-lite", "gemini-2.5-flash-lite"},
		{"gemini-2.5-flash", "gemini-2.5-flash"},
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"eligibilityStatus": map[string]any{"type": "string", "description": "verdict"},
			"acceptanceProbability": map[string]any{
				"type":    "number",
				"minimum": 0,
				"maximum": 100,
			},
			"category": map[string]any{"type": "string", "enum": []any{"SC", "ST", "OBC"}},
			"riskFactors": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"shouldApply": map[string]any{"type": "boolean"},
		},
		"required": []any{"eligibilityStatus", "acceptanceProbability"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 5 {
		t.Fatalf("expected 5 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["eligibilityStatus"].Description != "verdict" {
		t.Fatalf("description not carried over")
	}
	prob := schema.Properties["acceptanceProbability"]
	if prob.Type != genai.TypeNumber || prob.Minimum == nil || *prob.Minimum != 0 || prob.Maximum == nil || *prob.Maximum != 100 {
		t.Fatalf("unexpected probability schema: %+v", prob)
	}
	if len(schema.Properties["category"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["category"].Enum))
	}
	if schema.Properties["riskFactors"].Items.Type != genai.TypeString {
		t.Fatalf("expected STRING items, got %s", schema.Properties["riskFactors"].Items.Type)
	}
	if schema.Properties["shouldApply"].Type != genai.TypeBoolean {
		t.Fatalf("expected BOOLEAN, got %s", schema.Properties["shouldApply"].Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestBuildGeminiContents(t *testing.T) {
	contents := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "q"},
		{Role: RoleAssistant, Content: "a"},
	})
	if contents[0].Role != "user" || contents[1].Role != "model" {
		t.Fatalf("unexpected roles %q, %q", contents[0].Role, contents[1].Role)
	}
	if contents[1].Parts[0].Text != "a" {
		t.Fatalf("unexpected text %q", contents[1].Parts[0].Text)
	}
}

func TestMapGeminiError(t *testing.T) {
	var rl *ErrRateLimit
	if !errors.As(mapGeminiError(&genai.APIError{Code: 429}), &rl) {
		t.Fatal("expected 429 to map to ErrRateLimit")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(mapGeminiError(&genai.APIError{Code: 503}), &unavail) {
		t.Fatal("expected 503 to map to ErrProviderUnavailable")
	}
	if !errors.Is(mapGeminiError(context.DeadlineExceeded), context.DeadlineExceeded) {
		t.Fatal("expected deadline errors to pass through")
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(context.Background(), GeminiConfig{Model: "gemini-flash"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
