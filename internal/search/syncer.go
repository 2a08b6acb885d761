package search

import (
	"context"
	"log/slog"

	"quizbank/internal/catalog"
	"quizbank/internal/platform/async"
	"quizbank/internal/platform/metrics"
)

// Syncer propagates record mutations into the search index as best-effort
// tasks. The index is eventually consistent with the primary store and never a
// dependency for its correctness: a failed sync is logged, counted, and left
// for the next mutation of the same record to correct. Upsert and Remove
// return nothing; there is no error for a caller to act on.
type Syncer struct {
	index     Index
	indexName string
	runner    *async.Runner
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewSyncer(index Index, indexName string, runner *async.Runner, logger *slog.Logger, m *metrics.Metrics) *Syncer {
	return &Syncer{
		index:     index,
		indexName: indexName,
		runner:    runner,
		logger:    logger,
		metrics:   m,
	}
}

// Upsert projects the record and schedules the index write. Must be called
// only after the primary-store write committed.
func (s *Syncer) Upsert(ctx context.Context, record catalog.Record) {
	obj := Project(record)
	s.metrics.IndexSyncTotal.WithLabelValues("upsert").Inc()
	s.runner.Submit(ctx, "index-upsert", func(taskCtx context.Context) error {
		return s.index.SaveObjects(taskCtx, s.indexName, []Object{obj})
	})
}

// Remove schedules deletion of the record's index object.
func (s *Syncer) Remove(ctx context.Context, recordID string) {
	s.metrics.IndexSyncTotal.WithLabelValues("delete").Inc()
	s.runner.Submit(ctx, "index-delete", func(taskCtx context.Context) error {
		return s.index.DeleteObject(taskCtx, s.indexName, recordID)
	})
}
