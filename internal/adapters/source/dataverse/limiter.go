package dataverse

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/olusolaa/flow-drift-detector/internal/core/ports"
)

const (
	minRateLimitRPS = 1
	maxRateLimitRPS = 100
)

// apiLimiter throttles Web API calls for one Source. Dataverse enforces service
// protection limits per user, so both environments share the budget.
type apiLimiter struct {
	limiter *rate.Limiter
	logger  ports.Logger
}

func newAPILimiter(rps int, logger ports.Logger) *apiLimiter {
	limitValue := DefaultRequestsPerSecond
	if rps >= minRateLimitRPS && rps <= maxRateLimitRPS {
		limitValue = rps
	} else if rps != 0 {
		logger.Warnf(context.Background(), "Invalid Dataverse API RPS configured (%d), using default %d RPS. Valid range: %d-%d.",
			rps, DefaultRequestsPerSecond, minRateLimitRPS, maxRateLimitRPS)
	}
	logger.Debugf(context.Background(), "Initialized Dataverse API rate limiter: %d RPS", limitValue)
	return &apiLimiter{
		limiter: rate.NewLimiter(rate.Limit(limitValue), limitValue),
		logger:  logger,
	}
}

func (l *apiLimiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		if ctx.Err() == nil {
			l.logger.Warnf(ctx, "Error waiting for Dataverse API rate limiter: %v", err)
		}
		return err
	}
	return nil
}
