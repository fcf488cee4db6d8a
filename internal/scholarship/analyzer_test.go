package scholarship

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/scholarnav/internal/llm"
)

func ashaProfile() StudentProfile {
	return StudentProfile{
		Name:            "Asha Verma",
		State:           "Uttar Pradesh",
		Category:        CategoryEWS,
		AnnualIncome:    "180000",
		LastClass:       "12th",
		Percentage:      "86",
		CurrentCourse:   "B.Sc Nursing",
		SituationPrompt: "Father is a daily-wage farmer; bank account not yet linked to Aadhaar.",
	}
}

func ashaReply() json.RawMessage {
	return json.RawMessage(`{
		"eligibilityStatus": "Eligible",
		"acceptanceProbability": 72,
		"riskFactors": [
			"Bank account not seeded with Aadhaar (NPCI mapping missing)",
			"Income certificate must be issued in the current financial year"
		],
		"matchedScholarships": [
			{"name": "UP Post-Matric Scholarship", "provider": "Government of Uttar Pradesh", "url": "https://scholarship.up.gov.in", "amount": "Up to ₹50,000"},
			{"name": "Central Sector Scheme", "provider": "Ministry of Education", "url": "https://scholarships.gov.in"}
		],
		"detailedReasoning": "Income is below the 2.5 LPA ceiling and marks exceed the cutoff.",
		"actionPlan": {
			"shouldApply": true,
			"reason": "Strong academic record within the income limit.",
			"essentialDocuments": ["Aadhaar card", "Income certificate", "12th marksheet"]
		}
	}`)
}

func newTestAnalyzer(mock *llm.MockProvider) *Analyzer {
	return NewAnalyzer(mock, DefaultConfig(), nil)
}

func TestAnalyze_ReturnsReplyVerbatim(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: ashaReply()})
	got, err := newTestAnalyzer(mock).Analyze(context.Background(), ashaProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &AnalysisResult{
		EligibilityStatus:     "Eligible",
		AcceptanceProbability: 72,
		RiskFactors: []string{
			"Bank account not seeded with Aadhaar (NPCI mapping missing)",
			"Income certificate must be issued in the current financial year",
		},
		MatchedScholarships: []MatchedScholarship{
			{Name: "UP Post-Matric Scholarship", Provider: "Government of Uttar Pradesh", URL: "https://scholarship.up.gov.in", Amount: "Up to ₹50,000"},
			{Name: "Central Sector Scheme", Provider: "Ministry of Education", URL: "https://scholarships.gov.in"},
		},
		DetailedReasoning: "Income is below the 2.5 LPA ceiling and marks exceed the cutoff.",
		ActionPlan: ActionPlan{
			ShouldApply:        true,
			Reason:             "Strong academic record within the income limit.",
			EssentialDocuments: []string{"Aadhaar card", "Income certificate", "12th marksheet"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected exactly 1 request, got %d", mock.CallCount())
	}
}

func TestAnalyze_RequestShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: ashaReply()})
	if _, err := newTestAnalyzer(mock).Analyze(context.Background(), ashaProfile()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req, _ := mock.LastCall()
	if req.Schema != AnalysisSchema {
		t.Fatal("expected AnalysisSchema on the request")
	}
	if !strings.Contains(req.System, "NPCI") {
		t.Error("system instruction should cover NPCI/DBT risk")
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != llm.RoleUser {
		t.Fatalf("expected a single user message, got %+v", req.Messages)
	}
	msg := req.Messages[0].Content
	for _, want := range []string{
		"Asha Verma", "Uttar Pradesh", "180000", "86%", "EWS", "B.Sc Nursing",
		"bank account not yet linked to Aadhaar",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
}

func TestAnalyze_UnvalidatedValuesPassThrough(t *testing.T) {
	reply := `{"eligibilityStatus":"Probably fine","acceptanceProbability":140,
		"riskFactors":["x","x"],"matchedScholarships":[{"name":"n","provider":"p","url":"not a url"}],
		"detailedReasoning":"","actionPlan":{"shouldApply":false,"reason":"","essentialDocuments":[]},
		"missingInformation":["Bank seeding status"]}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(reply)})

	got, err := newTestAnalyzer(mock).Analyze(context.Background(), StudentProfile{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AcceptanceProbability != 140 {
		t.Errorf("probability must not be clamped, got %d", got.AcceptanceProbability)
	}
	if len(got.RiskFactors) != 2 {
		t.Errorf("risk factors must not be deduplicated, got %v", got.RiskFactors)
	}
	if got.MatchedScholarships[0].URL != "not a url" {
		t.Errorf("url must be passed through, got %q", got.MatchedScholarships[0].URL)
	}
	if diff := cmp.Diff([]string{"Bank seeding status"}, got.MissingInformation); diff != "" {
		t.Errorf("missing information mismatch:\n%s", diff)
	}
}

func TestAnalyze_Failures(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
		kind FailureKind
	}{
		{"empty reply", llm.MockResponse{Content: json.RawMessage("  ")}, FailureMalformed},
		{"not json", llm.MockResponse{Content: json.RawMessage("Sorry, I can't help.")}, FailureMalformed},
		{"trailing content", llm.MockResponse{Content: append(ashaReply(), []byte(" thanks!")...)}, FailureMalformed},
		{"missing field", llm.MockResponse{Content: json.RawMessage(`{"eligibilityStatus":"Eligible"}`)}, FailureMalformed},
		{"wrong type", llm.MockResponse{Content: json.RawMessage(strings.Replace(string(ashaReply()), "72", `"72"`, 1))}, FailureMalformed},
		{"truncated", llm.MockResponse{Err: &llm.ErrMaxTokensExceeded{}}, FailureMalformed},
		{"network", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("connection reset")}}, FailureService},
		{"rate limit", llm.MockResponse{Err: &llm.ErrRateLimit{}}, FailureService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(tt.resp)
			got, err := newTestAnalyzer(mock).Analyze(context.Background(), ashaProfile())
			if got != nil {
				t.Fatalf("expected no result, got %+v", got)
			}
			assertAnalysisError(t, err, tt.kind)
		})
	}
}

func TestAnalyze_Timeout(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: ashaReply(), Delay: time.Second})
	provider := llm.WithTimeout(mock, 20*time.Millisecond)
	profile := ashaProfile()
	before := profile

	got, err := NewAnalyzer(provider, DefaultConfig(), nil).Analyze(context.Background(), profile)
	if got != nil {
		t.Fatal("expected no result on timeout")
	}
	assertAnalysisError(t, err, FailureService)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected the deadline to be the cause, got %v", errors.Unwrap(err))
	}
	if profile != before {
		t.Error("profile must be left intact for resubmission")
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected no retry, got %d calls", mock.CallCount())
	}
}

func TestAnalyze_LogsFailureOnce(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})

	_, _ = NewAnalyzer(mock, DefaultConfig(), zap.New(core)).Analyze(context.Background(), ashaProfile())

	entries := logs.FilterMessage("scholarship analysis failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["kind"] != "service" {
		t.Errorf("unexpected kind field: %v", entries[0].ContextMap()["kind"])
	}
}

func TestAnalyze_Concurrent(t *testing.T) {
	mock := llm.NewMockProvider()
	for range 8 {
		mock.AddResponse(llm.MockResponse{Content: ashaReply(), Delay: 5 * time.Millisecond})
	}
	a := newTestAnalyzer(mock)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.Analyze(context.Background(), ashaProfile())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if mock.CallCount() != 8 {
		t.Fatalf("expected 8 requests, got %d", mock.CallCount())
	}
}

func TestAnalysisError_Message(t *testing.T) {
	err := error(&AnalysisError{Kind: FailureMalformed, Cause: errors.New("bad json")})
	if err.Error() != "failed to analyze scholarship data. Please try again." {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Fatal("expected errors.Is ErrAnalysisFailed")
	}
}

func assertAnalysisError(t *testing.T, err error, kind FailureKind) {
	t.Helper()
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got %v", err)
	}
	var ae *AnalysisError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *AnalysisError, got %T", err)
	}
	if ae.Kind != kind {
		t.Errorf("kind = %v, want %v (cause: %v)", ae.Kind, kind, ae.Cause)
	}
	if err.Error() != ErrAnalysisFailed.Error() {
		t.Errorf("message leaked detail: %q", err.Error())
	}
}
