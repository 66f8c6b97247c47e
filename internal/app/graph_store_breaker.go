package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"

	"github.com/yungbote/heraldry-backend/internal/data/graph"
	"github.com/yungbote/heraldry-backend/internal/observability"
	"github.com/yungbote/heraldry-backend/internal/platform/apierr"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
)

// breakerGraphStore short-circuits transactions while the graph backend keeps
// failing. Only untagged store errors count against the breaker; domain
// failures (not found, bad request, in use) are successes from its point of
// view.
type breakerGraphStore struct {
	graph.Store
	cb *gobreaker.CircuitBreaker
}

func breakGraphStore(inner graph.Store, cfg BreakerConfig, log *logger.Logger, metrics *observability.Metrics) graph.Store {
	if inner == nil || !cfg.Enabled {
		return inner
	}
	log = log.With("component", "GraphBreaker")
	const name = "graph"
	metrics.SetBreakerState(name, int(gobreaker.StateClosed))
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			metrics.SetBreakerState(name, int(to))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isDomainError(err) || errors.Is(err, context.Canceled)
		},
	})
	return &breakerGraphStore{Store: inner, cb: cb}
}

func (s *breakerGraphStore) ExecuteRead(ctx context.Context, fn func(tx graph.Tx) error) error {
	return s.run(func() error { return s.Store.ExecuteRead(ctx, fn) })
}

func (s *breakerGraphStore) ExecuteWrite(ctx context.Context, fn func(tx graph.Tx) error) error {
	return s.run(func() error { return s.Store.ExecuteWrite(ctx, fn) })
}

func (s *breakerGraphStore) run(op func() error) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, op()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apierr.StoreFailure(fmt.Errorf("graph store unavailable: %w", err))
	}
	return err
}

// isDomainError reports whether err carries a catalog failure kind rather
// than a backend fault.
func isDomainError(err error) bool {
	var ae *apierr.Error
	return errors.As(err, &ae) && ae.Code != apierr.CodeStoreFailure
}
