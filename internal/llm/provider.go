package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one prompt to a hosted text-generation model and returns
// its reply. Implementations wrap a vendor SDK; decorators (retry, call
// recording) wrap other Providers.
type Provider interface {
	// Generate performs exactly one round-trip to the model. When
	// req.Schema is set the provider asks for schema-constrained JSON and
	// rejects replies that do not validate against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the resolved model identifier.
	ModelID() string
}

// Request is a single-turn (or short multi-turn) generation request.
type Request struct {
	// System carries the fixed instruction that frames the task.
	System string

	// Messages holds the per-call prompt. Analyses send one user message.
	Messages []Message

	// Schema declares the JSON shape the reply must take. Nil means the
	// reply is returned as raw text.
	Schema *Schema

	// MaxTokens bounds the reply length. Zero lets the provider decide.
	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default in place
	// for providers that treat zero as unset.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role identifies who authored a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt is shorthand for a request carrying a single user message.
func UserPrompt(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Schema is a named JSON Schema document used both to constrain the model
// and to validate its reply.
type Schema struct {
	// Name is a kebab-case identifier, e.g. "scholarship-analysis". It
	// doubles as the compiled-schema cache key.
	Name string

	// Description is forwarded to providers that accept one.
	Description string

	// Definition is the JSON Schema itself.
	Definition map[string]any
}

// Response is the model's reply.
type Response struct {
	// Content is the reply body. With a Schema it is a validated JSON
	// document; without one it is the raw text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request, which may
	// differ from ModelID when the vendor aliases names.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage reports token counts for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
