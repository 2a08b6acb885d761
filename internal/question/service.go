// Package question implements the administrative mutation path for catalog
// records: gate check, primary-store commit, then best-effort propagation to
// the search index and the event stream.
package question

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"quizbank/internal/catalog"
	"quizbank/internal/events"
	"quizbank/internal/platform/async"
	"quizbank/internal/platform/metrics"
	"quizbank/internal/search"
	"quizbank/internal/store"
	"quizbank/pkg/domainerrors"
	"quizbank/pkg/platform/sentinel"
)

// Gate authorizes mutating callers. Satisfied by accessgate.Gate.
type Gate interface {
	Authorize(ctx context.Context, callerID string) bool
}

// Service owns question mutations. Success or failure is decided entirely by
// the primary-store write; index and event propagation are fire-and-forget.
type Service struct {
	store     store.Store
	gate      Gate
	syncer    *search.Syncer
	publisher events.Publisher
	runner    *async.Runner
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewService(
	st store.Store,
	gate Gate,
	syncer *search.Syncer,
	publisher events.Publisher,
	runner *async.Runner,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		store:     st,
		gate:      gate,
		syncer:    syncer,
		publisher: publisher,
		runner:    runner,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

// Create stores a new record. The ID must be unused; a complete English
// translation is mandatory.
func (s *Service) Create(ctx context.Context, callerID string, record catalog.Record) error {
	if !s.gate.Authorize(ctx, callerID) {
		return domainerrors.New(domainerrors.CodeUnauthorized, "administrative privilege required")
	}
	if err := validateRecord(record); err != nil {
		return err
	}

	if _, err := s.store.Get(ctx, catalog.QuestionsCollection, record.ID); err == nil {
		return domainerrors.New(domainerrors.CodeBadRequest, "question ID already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return storeFailure("check question", err)
	}

	record.UpdatedAt = s.now().UTC()
	doc, err := catalog.ToDocument(record)
	if err != nil {
		return domainerrors.Wrap(domainerrors.CodeInternal, "could not store question", err)
	}
	if err := s.store.Set(ctx, catalog.QuestionsCollection, record.ID, doc, false); err != nil {
		s.metrics.MutationsTotal.WithLabelValues("create", "failure").Inc()
		return storeFailure("create question", err)
	}
	s.metrics.MutationsTotal.WithLabelValues("create", "success").Inc()

	s.propagate(ctx, events.TypeQuestionCreated, record, callerID)
	return nil
}

// Update merges the patch into an existing record and re-projects the result.
// The patch may not change the ID; updatedAt is stamped server-side.
func (s *Service) Update(ctx context.Context, callerID, id string, patch store.Document) (catalog.Record, error) {
	if !s.gate.Authorize(ctx, callerID) {
		return catalog.Record{}, domainerrors.New(domainerrors.CodeUnauthorized, "administrative privilege required")
	}
	if id == "" {
		return catalog.Record{}, domainerrors.New(domainerrors.CodeBadRequest, "question ID is required")
	}
	if len(patch) == 0 {
		return catalog.Record{}, domainerrors.New(domainerrors.CodeBadRequest, "update patch is empty")
	}
	delete(patch, "id")

	if _, err := s.store.Get(ctx, catalog.QuestionsCollection, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return catalog.Record{}, domainerrors.New(domainerrors.CodeNotFound, "question not found")
		}
		return catalog.Record{}, storeFailure("read question", err)
	}

	patch["updatedAt"] = s.now().UTC().Format(time.RFC3339Nano)
	if err := s.store.Set(ctx, catalog.QuestionsCollection, id, patch, true); err != nil {
		s.metrics.MutationsTotal.WithLabelValues("update", "failure").Inc()
		return catalog.Record{}, storeFailure("update question", err)
	}
	s.metrics.MutationsTotal.WithLabelValues("update", "success").Inc()

	// The patch is partial; the projection needs the merged document.
	doc, err := s.store.Get(ctx, catalog.QuestionsCollection, id)
	if err != nil {
		// The write committed, so the mutation succeeded. Only the projection
		// read missed; the index stays stale until the next mutation.
		s.logger.WarnContext(ctx, "post-update read failed, index sync skipped",
			"question_id", id,
			"error", err,
		)
		return catalog.Record{ID: id}, nil
	}
	record, err := catalog.FromDocument(id, doc)
	if err != nil {
		s.logger.WarnContext(ctx, "post-update decode failed, index sync skipped",
			"question_id", id,
			"error", err,
		)
		return catalog.Record{ID: id}, nil
	}

	s.propagate(ctx, events.TypeQuestionUpdated, record, callerID)
	return record, nil
}

// Delete removes the record and schedules removal of its index object.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	if !s.gate.Authorize(ctx, callerID) {
		return domainerrors.New(domainerrors.CodeUnauthorized, "administrative privilege required")
	}
	if id == "" {
		return domainerrors.New(domainerrors.CodeBadRequest, "question ID is required")
	}

	if err := s.store.Delete(ctx, catalog.QuestionsCollection, id); err != nil {
		s.metrics.MutationsTotal.WithLabelValues("delete", "failure").Inc()
		return storeFailure("delete question", err)
	}
	s.metrics.MutationsTotal.WithLabelValues("delete", "success").Inc()

	s.syncer.Remove(ctx, id)
	s.publishEvent(ctx, events.New(events.TypeQuestionDeleted, id, callerID))
	return nil
}

// Get returns a stored record. Read path for the admin UI.
func (s *Service) Get(ctx context.Context, callerID, id string) (catalog.Record, error) {
	if !s.gate.Authorize(ctx, callerID) {
		return catalog.Record{}, domainerrors.New(domainerrors.CodeUnauthorized, "administrative privilege required")
	}
	doc, err := s.store.Get(ctx, catalog.QuestionsCollection, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return catalog.Record{}, domainerrors.New(domainerrors.CodeNotFound, "question not found")
		}
		return catalog.Record{}, storeFailure("read question", err)
	}
	return catalog.FromDocument(id, doc)
}

func (s *Service) propagate(ctx context.Context, eventType string, record catalog.Record, actor string) {
	s.syncer.Upsert(ctx, record)
	s.publishEvent(ctx, events.New(eventType, record.ID, actor))
}

func (s *Service) publishEvent(ctx context.Context, event events.Event) {
	s.runner.Submit(ctx, "event-publish", func(taskCtx context.Context) error {
		return s.publisher.Publish(taskCtx, event)
	})
}

func validateRecord(record catalog.Record) error {
	if record.ID == "" {
		return domainerrors.New(domainerrors.CodeInvalidInput, "question ID is required")
	}
	if record.Category == "" {
		return domainerrors.New(domainerrors.CodeInvalidInput, "category is required")
	}
	en, ok := record.Translations[catalog.LocaleEN]
	if !ok || en.Text == "" {
		return domainerrors.New(domainerrors.CodeInvalidInput, "a complete English translation is required")
	}
	return nil
}

func storeFailure(op string, err error) error {
	if errors.Is(err, sentinel.ErrUnavailable) {
		return domainerrors.Wrap(domainerrors.CodeUnavailable, "primary store unavailable", fmt.Errorf("%s: %w", op, err))
	}
	return domainerrors.Wrap(domainerrors.CodeInternal, "primary store operation failed", fmt.Errorf("%s: %w", op, err))
}
