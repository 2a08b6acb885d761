package reconcile_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"quizbank/internal/events"
	"quizbank/internal/platform/async"
	"quizbank/internal/platform/metrics"
	"quizbank/internal/reconcile"
	"quizbank/internal/store"
	"quizbank/pkg/domainerrors"
)

type allowAllGate struct{ deny bool }

func (g allowAllGate) Authorize(context.Context, string) bool { return !g.deny }

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

type ReconcileServiceSuite struct {
	suite.Suite
	store     *store.Memory
	publisher *recordingPublisher
	runner    *async.Runner
	service   *reconcile.Service
}

func TestReconcileServiceSuite(t *testing.T) {
	suite.Run(t, new(ReconcileServiceSuite))
}

func (s *ReconcileServiceSuite) SetupTest() {
	s.store = store.NewMemory()
	s.publisher = &recordingPublisher{}
	s.runner = async.New(slog.New(slog.DiscardHandler), time.Second)
	registry := []reconcile.Entry{
		{ID: "infographic-a", Title: "Infographic A"},
		{ID: "infographic-b", Title: "Infographic B"},
	}
	s.service = reconcile.NewService(
		s.store,
		allowAllGate{},
		registry,
		s.publisher,
		s.runner,
		slog.New(slog.DiscardHandler),
		metrics.NewWith(prometheus.NewRegistry()),
	)
}

func (s *ReconcileServiceSuite) seed(id string, data store.Document) {
	s.Require().NoError(s.store.Set(context.Background(), reconcile.InfographicsCollection, id, data, false))
}

func (s *ReconcileServiceSuite) TestRun() {
	ctx := context.Background()

	s.Run("empty store creates all registry entries", func() {
		result, err := s.service.Run(ctx, "admin")
		s.Require().NoError(err)
		s.Equal(reconcile.Result{Created: 2}, result)

		doc, err := s.store.Get(ctx, reconcile.InfographicsCollection, "infographic-a")
		s.Require().NoError(err)
		s.Equal("Infographic A", doc["title"])
		s.Equal(true, doc["isMachineManaged"])
		s.NotEmpty(doc["createdAt"])
	})

	s.Run("second run is a no-op", func() {
		result, err := s.service.Run(ctx, "admin")
		s.Require().NoError(err)
		s.Equal(reconcile.Result{}, result)
	})
}

func (s *ReconcileServiceSuite) TestRunDeletesObsoleteManagedOnly() {
	ctx := context.Background()
	s.seed("obsolete", store.Document{"title": "Old", "isMachineManaged": true, "createdAt": "2024-01-01T00:00:00Z"})
	s.seed("manual", store.Document{"title": "Hand Curated"})

	result, err := s.service.Run(ctx, "admin")
	s.Require().NoError(err)
	s.Equal(2, result.Created)
	s.Equal(1, result.Deleted)

	_, err = s.store.Get(ctx, reconcile.InfographicsCollection, "obsolete")
	s.Error(err, "obsolete managed entity must be gone")

	doc, err := s.store.Get(ctx, reconcile.InfographicsCollection, "manual")
	s.Require().NoError(err, "manual entity must survive")
	s.Equal("Hand Curated", doc["title"])
}

func (s *ReconcileServiceSuite) TestRunUpdatesDriftedTitle() {
	ctx := context.Background()
	s.seed("infographic-a", store.Document{
		"title":            "Stale",
		"isMachineManaged": true,
		"createdAt":        "2024-01-01T00:00:00Z",
	})

	result, err := s.service.Run(ctx, "admin")
	s.Require().NoError(err)
	s.Equal(1, result.Updated)

	doc, err := s.store.Get(ctx, reconcile.InfographicsCollection, "infographic-a")
	s.Require().NoError(err)
	s.Equal("Infographic A", doc["title"])
	// Partial update: creation timestamp untouched.
	s.Equal("2024-01-01T00:00:00Z", doc["createdAt"])
}

func (s *ReconcileServiceSuite) TestRunRequiresAuthorization() {
	denied := reconcile.NewService(
		s.store,
		allowAllGate{deny: true},
		reconcile.Registry,
		s.publisher,
		s.runner,
		slog.New(slog.DiscardHandler),
		metrics.NewWith(prometheus.NewRegistry()),
	)
	_, err := denied.Run(context.Background(), "nobody")
	s.True(domainerrors.Is(err, domainerrors.CodeUnauthorized))

	s.runner.Wait()
	s.Empty(s.publisher.published(), "a rejected run must not announce anything")
}

func (s *ReconcileServiceSuite) TestRunPublishesReconciledEvent() {
	_, err := s.service.Run(context.Background(), "admin")
	s.Require().NoError(err)
	s.runner.Wait()

	published := s.publisher.published()
	s.Require().Len(published, 1)
	s.Equal(events.TypeInfographicsReconciled, published[0].Type)
	s.Equal(reconcile.InfographicsCollection, published[0].RecordID)
	s.Equal("admin", published[0].Actor)
}

func (s *ReconcileServiceSuite) TestRunSurfacesBatchFailure() {
	s.store.FailWrites = true
	_, err := s.service.Run(context.Background(), "admin")
	s.Error(err)
	s.True(domainerrors.Is(err, domainerrors.CodeInternal))
}
