// internal/llm/generator.go
package llm

import (
	"context"
	"fmt"

	"qa-workers/internal/common/config"
	httpclient "qa-workers/internal/common/http"
)

// Backend names, used in error metadata and log fields.
const (
	BackendOllama = "ollama"
	BackendGemini = "gemini"
)

// Generator produces text for a prompt. Implementations return the
// model's text with surrounding whitespace trimmed.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type options struct {
	client *httpclient.Client
}

type Option func(*options)

// WithClient overrides the HTTP client used for model calls.
func WithClient(c *httpclient.Client) Option {
	return func(o *options) { o.client = c }
}

// New builds the backend for mode. Model calls have no client timeout;
// the caller's context bounds them.
func New(mode config.Mode, models config.ModelsConfig, geminiAPIKey string, opts ...Option) (Generator, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = httpclient.NewClient(0)
	}

	switch mode {
	case config.ModeLocal:
		return NewOllama(models.Local, o.client), nil
	case config.ModeCloud:
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("gemini backend requires an API key")
		}
		return NewGemini(models.Cloud, geminiAPIKey, o.client), nil
	default:
		return nil, fmt.Errorf("unknown backend mode %q", mode)
	}
}
