package providers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/nba-live-sync/internal/logging"
	"github.com/preston-bernstein/nba-live-sync/internal/upstream"
)

const (
	defaultRetryAttempts   = 3
	defaultInitialInterval = 200 * time.Millisecond
)

// retryingProvider wraps a ScoreboardProvider with exponential-backoff
// retries. Not-found responses are terminal and never retried.
type retryingProvider struct {
	inner           ScoreboardProvider
	logger          *slog.Logger
	maxAttempts     uint64
	initialInterval time.Duration
}

// NewRetryingProvider wraps the given provider with retries. If
// maxAttempts/initialInterval are <= 0, defaults are used.
func NewRetryingProvider(inner ScoreboardProvider, logger *slog.Logger, maxAttempts int, initialInterval time.Duration) ScoreboardProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if initialInterval <= 0 {
		initialInterval = defaultInitialInterval
	}
	return &retryingProvider{
		inner:           inner,
		logger:          logger,
		maxAttempts:     uint64(maxAttempts),
		initialInterval: initialInterval,
	}
}

func (r *retryingProvider) FetchScoreboard(ctx context.Context) (*upstream.Scoreboard, error) {
	return retry(ctx, r, "scoreboard", func() (*upstream.Scoreboard, error) {
		return r.inner.FetchScoreboard(ctx)
	})
}

func (r *retryingProvider) FetchBoxScore(ctx context.Context, gameID string) (*upstream.BoxScore, error) {
	return retry(ctx, r, "boxscore", func() (*upstream.BoxScore, error) {
		return r.inner.FetchBoxScore(ctx, gameID)
	})
}

func retry[T any](ctx context.Context, r *retryingProvider, op string, fn func() (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.initialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, r.maxAttempts-1), ctx)

	attempt := 0
	result, err := backoff.RetryWithData(func() (T, error) {
		attempt++
		out, err := fn()
		if err == nil {
			return out, nil
		}
		if errors.Is(err, ErrGameNotFound) {
			return out, backoff.Permanent(err)
		}
		r.logWarn(ctx, "provider fetch retry", "operation", op, "attempt", attempt, "err", err)
		return out, err
	}, policy)
	if err != nil {
		r.logWarn(ctx, "provider fetch failed", "operation", op, "attempts", attempt, "err", err)
	}
	return result, err
}

func (r *retryingProvider) logWarn(ctx context.Context, msg string, args ...any) {
	logger := logging.FromContext(ctx, r.logger)
	if logger != nil {
		logger.Warn(msg, args...)
	}
}
