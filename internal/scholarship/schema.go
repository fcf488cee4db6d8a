package scholarship

import "github.com/abhisek/scholarnav/internal/llm"

// AnalysisSchema is the JSON schema the service must answer with. Only
// missingInformation and a scholarship's amount are optional.
var AnalysisSchema = &llm.Schema{
	Name:        "scholarship-analysis",
	Description: "Scholarship eligibility verdict, approval probability and rejection risks for one student",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"eligibilityStatus": map[string]any{
				"type":        "string",
				"description": "One of: Eligible, Not Eligible, Borderline, Incomplete Data",
			},
			"acceptanceProbability": map[string]any{
				"type":        "integer",
				"description": "Percentage chance (0-100) that the application is approved, accounting for NPCI, PFMS and database-matching hurdles",
			},
			"riskFactors": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Technical reasons the application could be rejected after document upload",
			},
			"matchedScholarships": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":     map[string]any{"type": "string"},
						"provider": map[string]any{"type": "string"},
						"url": map[string]any{
							"type":        "string",
							"description": "Official application portal URL",
						},
						"amount": map[string]any{"type": "string"},
					},
					"required": []any{"name", "provider", "url"},
				},
			},
			"detailedReasoning": map[string]any{
				"type": "string",
			},
			"actionPlan": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"shouldApply": map[string]any{"type": "boolean"},
					"reason":      map[string]any{"type": "string"},
					"essentialDocuments": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required": []any{"shouldApply", "reason", "essentialDocuments"},
			},
			"missingInformation": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Profile details that would sharpen the verdict",
			},
		},
		"required": []any{
			"eligibilityStatus", "acceptanceProbability", "riskFactors",
			"matchedScholarships", "detailedReasoning", "actionPlan",
		},
	},
}
