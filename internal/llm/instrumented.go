package llm

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/luxbiz/biz-optimizer/config"
	"github.com/luxbiz/biz-optimizer/internal/platform/metrics"
)

type instrumented struct {
	next    Provider
	limiter *rate.Limiter
	timeout time.Duration
}

// Instrument wraps p with a client-side rate limit, a per-call timeout and
// completion metrics.
func Instrument(p Provider, ratePerSecond float64, timeout time.Duration) Provider {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	return &instrumented{next: p, limiter: rate.NewLimiter(limit, 2), timeout: timeout}
}

func (i *instrumented) Name() string { return i.next.Name() }

// Close releases the wrapped provider when it holds a client.
func (i *instrumented) Close() error {
	if c, ok := i.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (i *instrumented) Complete(ctx context.Context, req Request) (*Completion, error) {
	if err := i.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("completion rate limit: %w", err)
	}
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	start := time.Now()
	c, err := i.next.Complete(ctx, req)
	metrics.RecordCompletion(i.next.Name(), time.Since(start), err)
	return c, err
}

// New builds the configured provider, instrumented.
func New(ctx context.Context, cfg config.LLMConfig) (Provider, error) {
	var p Provider
	switch cfg.Provider {
	case config.LLMProviderGemini:
		g, err := NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		p = g
	case config.LLMProviderOpenAI:
		p = NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	return Instrument(p, cfg.RatePerSecond, cfg.Timeout), nil
}
