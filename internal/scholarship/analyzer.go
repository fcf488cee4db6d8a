package scholarship

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/abhisek/scholarnav/internal/llm"
)

// Purpose labels analysis calls in the LLM call log.
const Purpose = "scholarship-analysis"

// ErrAnalysisFailed matches every error returned by Analyze.
var ErrAnalysisFailed = errors.New("failed to analyze scholarship data. Please try again.")

// FailureKind says which side of the call went wrong.
type FailureKind int

const (
	// FailureService means the provider call itself failed: network,
	// authentication, quota, rate limit, deadline or cancellation.
	FailureService FailureKind = iota
	// FailureMalformed means a reply arrived but was empty, not JSON, had
	// trailing content, or did not match AnalysisSchema.
	FailureMalformed
)

func (k FailureKind) String() string {
	if k == FailureMalformed {
		return "malformed"
	}
	return "service"
}

// AnalysisError is the only error Analyze returns. Its message is always
// the generic ErrAnalysisFailed text; Kind and the wrapped cause are for
// logs and callers that want them.
type AnalysisError struct {
	Kind  FailureKind
	Cause error
}

func (e *AnalysisError) Error() string { return ErrAnalysisFailed.Error() }

// Is reports a match against ErrAnalysisFailed.
func (e *AnalysisError) Is(target error) bool { return target == ErrAnalysisFailed }

func (e *AnalysisError) Unwrap() error { return e.Cause }

// Config tunes the request sent for each analysis.
type Config struct {
	// MaxTokens caps the reply length. Zero leaves it to the provider.
	MaxTokens int `mapstructure:"max_tokens"`

	// Temperature controls output randomness. Zero uses the provider
	// default.
	Temperature float64 `mapstructure:"temperature"`
}

// DefaultConfig returns the analysis defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0,
	}
}

// Analyzer sends profiles to a text-generation provider and returns the
// typed analysis. It holds no mutable state and is safe for concurrent
// use.
type Analyzer struct {
	provider llm.Provider
	config   Config
	logger   *zap.Logger
}

// NewAnalyzer creates an Analyzer. A nil logger disables logging.
func NewAnalyzer(provider llm.Provider, cfg Config, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{provider: provider, config: cfg, logger: logger}
}

// Analyze submits one profile and returns the service's assessment. It
// makes exactly one provider request (more only if retries are configured
// on the provider) and blocks until that request completes or ctx ends.
func (a *Analyzer) Analyze(ctx context.Context, profile StudentProfile) (*AnalysisResult, error) {
	ctx = llm.WithPurpose(ctx, Purpose)

	req := llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserPrompt(buildUserMessage(profile)),
		Schema:      AnalysisSchema,
		MaxTokens:   a.config.MaxTokens,
		Temperature: a.config.Temperature,
	}

	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		kind := FailureService
		if llm.IsMalformed(err) {
			kind = FailureMalformed
		}
		return nil, a.fail(kind, err)
	}

	result, err := decodeAnalysis(resp.Content)
	if err != nil {
		return nil, a.fail(FailureMalformed, err)
	}
	return result, nil
}

func (a *Analyzer) fail(kind FailureKind, cause error) error {
	a.logger.Error("scholarship analysis failed",
		zap.Stringer("kind", kind),
		zap.String("model", a.provider.ModelID()),
		zap.Error(cause),
	)
	return &AnalysisError{Kind: kind, Cause: cause}
}

// decodeAnalysis parses a reply into AnalysisResult. Exactly one JSON
// document is accepted, surrounded by optional whitespace, and every field
// must have the declared type.
func decodeAnalysis(raw []byte) (*AnalysisResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty response")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	var result AnalysisResult
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode analysis: trailing content after JSON document")
	}

	// Required keys must be present even if the provider skipped schema
	// validation.
	if err := checkRequired(trimmed); err != nil {
		return nil, err
	}
	return &result, nil
}

// checkRequired confirms the required top-level keys are present and not
// null.
func checkRequired(raw []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("decode analysis: %w", err)
	}
	for _, k := range AnalysisSchema.Definition["required"].([]any) {
		v, ok := fields[k.(string)]
		if !ok || string(v) == "null" {
			return fmt.Errorf("decode analysis: missing required field %q", k)
		}
	}
	return nil
}
