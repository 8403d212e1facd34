package usecases

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/just-nibble/repo-analytics/pkg/config"
	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

// storePolicy bounds every store call by the operation timeout and retries
// idempotent writes while the store is unavailable.
type storePolicy struct {
	timeout  time.Duration
	attempts int
	backoff  time.Duration
}

func newStorePolicy(cfg config.DBConfig) storePolicy {
	p := storePolicy{timeout: cfg.OperationTimeout, attempts: cfg.RetryAttempts, backoff: cfg.RetryBackoff}
	if p.attempts < 1 {
		p.attempts = 1
	}
	return p
}

// withTimeout keeps an earlier deadline already carried by ctx.
func (p storePolicy) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

func call[T any](ctx context.Context, p storePolicy, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return fn(ctx)
}

func retry[T any](ctx context.Context, p storePolicy, op string, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	var (
		res T
		err error
	)
	for attempt := 1; attempt <= p.attempts; attempt++ {
		res, err = fn(ctx)
		if err == nil || !errcodes.Retryable(err) || attempt == p.attempts {
			return res, err
		}

		log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("store unavailable, retrying")
		select {
		case <-ctx.Done():
			return res, errcodes.Translate(ctx.Err())
		case <-time.After(p.backoff * time.Duration(attempt)):
		}
	}
	return res, err
}
