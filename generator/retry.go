package generator

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxRetries bounds retries after the first attempt.
const DefaultMaxRetries = 2

// RetryLLM retries transient failures of the wrapped client a bounded number
// of times and reports the final failure as *GenerationError.
type RetryLLM struct {
	next       LLMClient
	maxRetries int
	baseDelay  time.Duration
	logger     *zap.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewRetryLLM(next LLMClient, maxRetries int, baseDelay time.Duration, logger *zap.Logger) *RetryLLM {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryLLM{
		next:       next,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger.Named("retry"),
		sleep:      sleepCtx,
	}
}

func (r *RetryLLM) Complete(ctx context.Context, prompt Prompt, params Params) (string, error) {
	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		attempts++
		text, err := r.next.Complete(ctx, prompt, params)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if isPermanent(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
		if attempt == r.maxRetries {
			break
		}
		completionRetries.WithLabelValues(params.Model).Inc()
		delay := r.baseDelay * time.Duration(attempt+1)
		r.logger.Warn("completion failed, retrying",
			zap.String("model", params.Model),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := r.sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}
	}
	return "", &GenerationError{Attempts: attempts, Cause: lastErr}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
