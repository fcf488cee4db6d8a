package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/scholarnav/internal/store"
)

func TestMockProvider_ServesResponsesInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: UserPrompt("first")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: UserPrompt("second")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})

	if _, ok := mock.LastCall(); ok {
		t.Fatal("expected no last call before Generate")
	}

	_, _ = mock.Generate(context.Background(), Request{System: "sys", Messages: UserPrompt("hello")})

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	last, ok := mock.LastCall()
	if !ok || last.System != "sys" || last.Messages[0].Content != "hello" {
		t.Fatalf("unexpected last call: %+v", last)
	}
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"status":"x"}`)})
	_, err := mock.Generate(context.Background(), Request{Schema: verdictSchema()})
	if !IsMalformed(err) {
		t.Fatalf("expected malformed error, got %v", err)
	}
}

func TestMockProvider_DelayHonorsContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`), Delay: time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := mock.Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestErrorTypes(t *testing.T) {
	cause := errors.New("boom")
	errs := []error{
		&ErrRateLimit{RetryAfter: time.Second, Err: cause},
		&ErrInvalidResponse{Err: cause},
		&ErrProviderUnavailable{Err: cause},
	}
	for _, err := range errs {
		if !errors.Is(err, cause) {
			t.Errorf("%T does not unwrap to its cause", err)
		}
		if err.Error() == "" {
			t.Errorf("%T has empty message", err)
		}
	}
	if !IsMalformed(&ErrMaxTokensExceeded{}) {
		t.Error("truncation should count as malformed")
	}
	if IsMalformed(&ErrProviderUnavailable{}) {
		t.Error("transport failure should not count as malformed")
	}
}

type fakeRecorder struct {
	calls []store.LLMCall
	err   error
}

func (f *fakeRecorder) AppendLLMCall(_ context.Context, call store.LLMCall) error {
	f.calls = append(f.calls, call)
	return f.err
}

func TestWithLogging_RecordsSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"status":"ok","score":1}`),
		Usage:   Usage{InputTokens: 7, OutputTokens: 3},
	})
	rec := &fakeRecorder{}
	p := WithLogging(mock, ProviderMock, rec, nil)

	ctx := WithPurpose(context.Background(), "scholarship-analysis")
	_, err := p.Generate(ctx, Request{
		System:   "be precise",
		Messages: UserPrompt("profile here"),
		Schema:   verdictSchema(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("expected 1 recorded call, got %d", len(rec.calls))
	}
	call := rec.calls[0]
	if !call.Success || call.Purpose != "scholarship-analysis" || call.Provider != ProviderMock {
		t.Fatalf("unexpected call: %+v", call)
	}
	if call.InputTokens != 7 || call.OutputTokens != 3 {
		t.Fatalf("unexpected usage: %d/%d", call.InputTokens, call.OutputTokens)
	}
	for _, section := range []string{"[system]", "[user]", "[schema: test-verdict]"} {
		if !strings.Contains(call.RequestBody, section) {
			t.Errorf("request body missing %s:\n%s", section, call.RequestBody)
		}
	}
}

func TestWithLogging_RecordsFailureAndLogs(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("dial tcp: refused")}})
	rec := &fakeRecorder{err: errors.New("disk full")}
	p := WithLogging(mock, ProviderMock, rec, zap.New(core))

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected the provider error to pass through, got %v", err)
	}
	if len(rec.calls) != 1 || rec.calls[0].Success || rec.calls[0].ErrorMessage == "" {
		t.Fatalf("expected a failed call record, got %+v", rec.calls)
	}
	if rec.calls[0].Purpose != "unknown" {
		t.Fatalf("expected default purpose, got %q", rec.calls[0].Purpose)
	}
	if logs.FilterMessage("llm request failed").Len() != 1 {
		t.Fatal("expected a failure log entry")
	}
	if logs.FilterMessage("failed to record llm call").Len() != 1 {
		t.Fatal("expected a recorder failure log entry")
	}
}
