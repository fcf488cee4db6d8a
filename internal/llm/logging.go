package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/scholarnav/internal/store"
)

// CallRecorder persists one row per provider round-trip.
type CallRecorder interface {
	AppendLLMCall(ctx context.Context, call store.LLMCall) error
}

// LoggingProvider is a decorator that logs every request through zap and,
// when a recorder is configured, stores the full request and reply.
type LoggingProvider struct {
	inner    Provider
	provider string
	recorder CallRecorder
	logger   *zap.Logger
}

// WithLogging wraps p. A nil recorder disables persistence; a nil logger
// disables log output.
func WithLogging(p Provider, providerName string, recorder CallRecorder, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{inner: p, provider: providerName, recorder: recorder, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	call := store.LLMCall{
		Timestamp:   start.UTC(),
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		call.InputTokens = resp.Usage.InputTokens
		call.OutputTokens = resp.Usage.OutputTokens
		call.Model = resp.Model
		call.ResponseBody = string(resp.Content)
	}

	fields := []zap.Field{
		zap.String("provider", l.provider),
		zap.String("model", call.Model),
		zap.String("purpose", purpose),
		zap.Duration("latency", latency),
	}
	if err != nil {
		call.ErrorMessage = err.Error()
		l.logger.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		l.logger.Debug("llm request completed", append(fields,
			zap.Int("input_tokens", call.InputTokens),
			zap.Int("output_tokens", call.OutputTokens),
		)...)
	}

	// Recording failures never fail the request.
	if l.recorder != nil {
		if recErr := l.recorder.AppendLLMCall(context.WithoutCancel(ctx), call); recErr != nil {
			l.logger.Warn("failed to record llm call", zap.Error(recErr))
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest renders a request in a readable, sectioned form for
// `scholarnav llm view`.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(strings.TrimSpace(req.System))
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(strings.TrimSpace(m.Content))
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		if def, err := json.MarshalIndent(req.Schema.Definition, "", "  "); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
			b.Write(def)
			b.WriteString("\n")
		}
	}

	return b.String()
}
