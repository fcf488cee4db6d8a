package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Options carries the optional collaborators of NewProvider.
type Options struct {
	// Recorder stores every round-trip. Nil disables recording.
	Recorder CallRecorder
	// Logger receives request logs. Nil means no logging.
	Logger *zap.Logger
	// Mock is returned as the base provider when cfg.Provider is "mock".
	Mock *MockProvider
}

// NewProvider builds the configured provider wrapped with middleware:
// caller → timeout → retry → logging → base.
func NewProvider(ctx context.Context, cfg Config, opts Options) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		if opts.Mock != nil {
			base = opts.Mock
		} else {
			base = NewMockProvider()
		}
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, opts.Recorder, opts.Logger)
	retried := WithRetry(logged, cfg.Retry)
	return WithTimeout(retried, cfg.Timeout), nil
}
