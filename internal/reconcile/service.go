package reconcile

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"quizbank/internal/events"
	"quizbank/internal/platform/async"
	"quizbank/internal/platform/metrics"
	"quizbank/internal/store"
	"quizbank/pkg/domainerrors"
)

// Gate authorizes mutating callers. Satisfied by accessgate.Gate.
type Gate interface {
	Authorize(ctx context.Context, callerID string) bool
}

// Service runs registry reconciliation. Runs are expected to be serialized by
// the caller; the diff itself is idempotent and safe to re-enter.
type Service struct {
	store     store.Store
	gate      Gate
	registry  []Entry
	publisher events.Publisher
	runner    *async.Runner
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewService(
	st store.Store,
	gate Gate,
	registry []Entry,
	publisher events.Publisher,
	runner *async.Runner,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		store:     st,
		gate:      gate,
		registry:  registry,
		publisher: publisher,
		runner:    runner,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

// Result summarizes an applied run.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

// Run diffs the registry against the stored collection and applies the plan.
func (s *Service) Run(ctx context.Context, callerID string) (Result, error) {
	if !s.gate.Authorize(ctx, callerID) {
		return Result{}, domainerrors.New(domainerrors.CodeUnauthorized, "administrative privilege required")
	}

	tracer := otel.Tracer("quizbank/reconcile")
	ctx, reconcileSpan := tracer.Start(ctx, "reconcile.run")
	defer reconcileSpan.End()

	snaps, err := s.store.List(ctx, InfographicsCollection)
	if err != nil {
		return Result{}, domainerrors.Wrap(domainerrors.CodeInternal, "could not read infographic entities", err)
	}
	entities := make([]Entity, 0, len(snaps))
	for _, snap := range snaps {
		entities = append(entities, DecodeEntity(snap))
	}

	plan := Diff(s.registry, entities, s.now())
	reconcileSpan.SetAttributes(
		attribute.Int("reconcile.creates", len(plan.Creates)),
		attribute.Int("reconcile.updates", len(plan.Updates)),
		attribute.Int("reconcile.deletes", len(plan.Deletes)),
	)

	if err := Apply(ctx, s.store, plan); err != nil {
		return Result{}, domainerrors.Wrap(domainerrors.CodeInternal, "reconciliation batch failed", err)
	}

	s.metrics.ReconcileRuns.Inc()
	s.metrics.ReconcileOpsApplied.WithLabelValues("create").Add(float64(len(plan.Creates)))
	s.metrics.ReconcileOpsApplied.WithLabelValues("update").Add(float64(len(plan.Updates)))
	s.metrics.ReconcileOpsApplied.WithLabelValues("delete").Add(float64(len(plan.Deletes)))

	s.logger.InfoContext(ctx, "reconciliation run applied",
		"caller_id", callerID,
		"created", len(plan.Creates),
		"updated", len(plan.Updates),
		"deleted", len(plan.Deletes),
	)

	// Best effort, like mutation events: the run already committed.
	event := events.New(events.TypeInfographicsReconciled, InfographicsCollection, callerID)
	s.runner.Submit(ctx, "event-publish", func(taskCtx context.Context) error {
		return s.publisher.Publish(taskCtx, event)
	})

	return Result{
		Created: len(plan.Creates),
		Updated: len(plan.Updates),
		Deleted: len(plan.Deletes),
	}, nil
}
