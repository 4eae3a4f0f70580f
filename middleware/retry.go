package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/scttfrdmn/inquire/adapter/llm"
	"github.com/scttfrdmn/inquire/agent"
)

// RetryConfig controls the retrying LLM decorator.
type RetryConfig struct {
	// MaxAttempts includes the first try. Values below 1 become 1.
	MaxAttempts int

	// InitialBackoff is the delay before the second attempt; it doubles
	// per retry.
	InitialBackoff time.Duration

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// retryLLM wraps an LLM with bounded retries on transient failures.
type retryLLM struct {
	inner llm.LLM
	cfg   RetryConfig
}

// WithRetry returns an LLM that retries failed completions with
// exponential backoff. It is deliberately not applied by default: the
// research loop treats an unreachable backend as fatal, and callers opt
// in per deployment.
func WithRetry(inner llm.LLM, cfg RetryConfig) llm.LLM {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 500 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &retryLLM{inner: inner, cfg: cfg}
}

func (r *retryLLM) Complete(ctx context.Context, messages []*agent.Message, opts ...llm.CallOption) (*agent.Message, error) {
	backoff := r.cfg.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		reply, err := r.inner.Complete(ctx, messages, opts...)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		if attempt == r.cfg.MaxAttempts {
			break
		}
		r.cfg.Logger.Warn("llm call failed, retrying",
			"model", r.inner.Model(),
			"attempt", attempt,
			"backoff", backoff,
			"error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("after %d attempts: %w", r.cfg.MaxAttempts, lastErr)
}

func (r *retryLLM) Model() string { return r.inner.Model() }

func (r *retryLLM) Unwrap() interface{} { return r.inner }
