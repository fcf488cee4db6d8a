package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// LLMCall is one recorded provider round-trip.
type LLMCall struct {
	ID           int
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// QueryOpts filters and paginates call queries. Zero values mean no
// constraint.
type QueryOpts struct {
	Limit   int
	Purpose string
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// UsageSummary aggregates calls sharing a purpose or model.
type UsageSummary struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	TotalLatency time.Duration
}

var llmCallFields = []string{
	"id", "timestamp", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success",
	"error_message", "request_body", "response_body",
}

// AppendLLMCall records a provider round-trip.
func (s *Store) AppendLLMCall(ctx context.Context, call LLMCall) error {
	ts := call.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := sqlite().
		Insert(llmCallsTable.Name).
		Columns(llmCallFields[1:]...).
		Values(
			ts.UnixMilli(), call.Provider, call.Model, call.Purpose,
			call.InputTokens, call.OutputTokens, call.LatencyMs, call.Success,
			call.ErrorMessage, call.RequestBody, call.ResponseBody,
		).
		Query()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save llm call: %w", err)
	}
	return nil
}

// ListLLMCalls returns recorded calls, newest first.
func (s *Store) ListLLMCalls(ctx context.Context, opts QueryOpts) ([]LLMCall, error) {
	sel := sqlite().
		Select(llmCallFields...).
		From(sqlite().Table(llmCallsTable.Name))
	applyOpts(sel, opts)
	sel.OrderBy(entsql.Desc("id"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query llm calls: %w", err)
	}
	defer rows.Close()

	var calls []LLMCall
	for rows.Next() {
		c, err := scanLLMCall(rows)
		if err != nil {
			return nil, err
		}
		calls = append(calls, c)
	}
	return calls, rows.Err()
}

// GetLLMCall returns a single call by ID, or nil if it does not exist.
func (s *Store) GetLLMCall(ctx context.Context, id int) (*LLMCall, error) {
	query, args := sqlite().
		Select(llmCallFields...).
		From(sqlite().Table(llmCallsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	c, err := scanLLMCall(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UsageByPurpose aggregates calls per purpose, busiest first.
func (s *Store) UsageByPurpose(ctx context.Context, opts QueryOpts) ([]UsageSummary, error) {
	return s.usageBy(ctx, "purpose", opts)
}

// UsageByModel aggregates calls per model, busiest first.
func (s *Store) UsageByModel(ctx context.Context, opts QueryOpts) ([]UsageSummary, error) {
	return s.usageBy(ctx, "model", opts)
}

func (s *Store) usageBy(ctx context.Context, column string, opts QueryOpts) ([]UsageSummary, error) {
	sel := sqlite().
		Select(
			column,
			entsql.As(entsql.Count("*"), "calls"),
			entsql.As("SUM(CASE WHEN success THEN 0 ELSE 1 END)", "failures"),
			entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
			entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
			entsql.As(entsql.Sum("latency_ms"), "latency_ms"),
		).
		From(sqlite().Table(llmCallsTable.Name))
	applyOpts(sel, opts)
	sel.GroupBy(column).OrderBy(entsql.Desc("calls"), column)

	query, args := sel.Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate llm calls by %s: %w", column, err)
	}
	defer rows.Close()

	var out []UsageSummary
	for rows.Next() {
		var u UsageSummary
		var latency int64
		if err := rows.Scan(&u.Key, &u.Calls, &u.Failures, &u.InputTokens, &u.OutputTokens, &latency); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.TotalLatency = time.Duration(latency) * time.Millisecond
		out = append(out, u)
	}
	return out, rows.Err()
}

func applyOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.Purpose != "" {
		sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UnixMilli()))
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLLMCall(r rowScanner) (LLMCall, error) {
	var c LLMCall
	var ts int64
	err := r.Scan(
		&c.ID, &ts, &c.Provider, &c.Model, &c.Purpose,
		&c.InputTokens, &c.OutputTokens, &c.LatencyMs, &c.Success,
		&c.ErrorMessage, &c.RequestBody, &c.ResponseBody,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("scan llm call: %w", err)
	}
	c.Timestamp = time.UnixMilli(ts).UTC()
	return c, nil
}
