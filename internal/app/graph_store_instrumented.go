package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/heraldry-backend/internal/data/graph"
	"github.com/yungbote/heraldry-backend/internal/observability"
)

type instrumentedGraphStore struct {
	graph.Store
	backend string
	metrics *observability.Metrics
	tracer  trace.Tracer
}

func instrumentGraphStore(backend string, inner graph.Store) graph.Store {
	if inner == nil {
		return nil
	}
	return &instrumentedGraphStore{
		Store:   inner,
		backend: backend,
		metrics: observability.Current(),
		tracer:  otel.Tracer(observability.TracerName),
	}
}

func (s *instrumentedGraphStore) ExecuteRead(ctx context.Context, fn func(tx graph.Tx) error) error {
	return s.observe(ctx, "read", func(ctx context.Context) error { return s.Store.ExecuteRead(ctx, fn) })
}

func (s *instrumentedGraphStore) ExecuteWrite(ctx context.Context, fn func(tx graph.Tx) error) error {
	return s.observe(ctx, "write", func(ctx context.Context) error { return s.Store.ExecuteWrite(ctx, fn) })
}

func (s *instrumentedGraphStore) observe(ctx context.Context, mode string, op func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "graph.tx."+mode, trace.WithAttributes(
		attribute.String("db.system", s.backend),
		attribute.String("graph.tx.mode", mode),
	))
	defer span.End()

	start := time.Now()
	err := op(ctx)
	outcome := txOutcome(err)
	s.metrics.ObserveGraphTx(mode, outcome, time.Since(start))

	span.SetAttributes(attribute.String("graph.tx.outcome", outcome))
	if outcome == "error" {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func txOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isDomainError(err):
		return "rejected"
	default:
		return "error"
	}
}
