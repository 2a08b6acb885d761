package question_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"quizbank/internal/catalog"
	"quizbank/internal/events"
	"quizbank/internal/platform/async"
	"quizbank/internal/platform/metrics"
	"quizbank/internal/question"
	"quizbank/internal/search"
	"quizbank/internal/store"
	"quizbank/pkg/domainerrors"
)

type stubGate struct{ deny bool }

func (g stubGate) Authorize(context.Context, string) bool { return !g.deny }

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	fail   bool
}

func (p *capturingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return assert.AnError
	}
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) Close() {}

func (p *capturingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type QuestionServiceSuite struct {
	suite.Suite
	store     *store.Memory
	index     *search.MemoryIndex
	publisher *capturingPublisher
	runner    *async.Runner
	service   *question.Service
}

func TestQuestionServiceSuite(t *testing.T) {
	suite.Run(t, new(QuestionServiceSuite))
}

func (s *QuestionServiceSuite) SetupTest() {
	s.store = store.NewMemory()
	s.index = search.NewMemoryIndex()
	s.publisher = &capturingPublisher{}

	log := slog.New(slog.DiscardHandler)
	m := metrics.NewWith(prometheus.NewRegistry())
	s.runner = async.New(log, time.Second)
	syncer := search.NewSyncer(s.index, "questions", s.runner, log, m)
	s.service = question.NewService(s.store, stubGate{}, syncer, s.publisher, s.runner, log, m)
}

func validRecord(id string) catalog.Record {
	return catalog.Record{
		ID:         id,
		Category:   "Head",
		Difficulty: "medium",
		Translations: map[string]catalog.Translation{
			"en": {Text: "Which bone forms the forehead?", Options: []string{"Frontal", "Parietal"}},
		},
	}
}

func (s *QuestionServiceSuite) TestCreate() {
	ctx := context.Background()

	s.Run("valid record commits and projects", func() {
		s.Require().NoError(s.service.Create(ctx, "admin", validRecord("q1")))
		s.runner.Wait()

		doc, err := s.store.Get(ctx, catalog.QuestionsCollection, "q1")
		s.Require().NoError(err)
		s.Equal("Head", doc["category"])
		s.NotEmpty(doc["updatedAt"])

		obj, ok := s.index.Get("questions", "q1")
		s.Require().True(ok)
		s.Equal("Which bone forms the forehead?", obj.TextEN)

		s.Equal([]string{events.TypeQuestionCreated}, s.publisher.types())
	})

	s.Run("duplicate ID is rejected", func() {
		err := s.service.Create(ctx, "admin", validRecord("q1"))
		s.True(domainerrors.Is(err, domainerrors.CodeBadRequest))
	})

	s.Run("missing english translation is rejected", func() {
		record := validRecord("q2")
		record.Translations = map[string]catalog.Translation{"de": {Text: "Nur Deutsch"}}
		err := s.service.Create(ctx, "admin", record)
		s.True(domainerrors.Is(err, domainerrors.CodeInvalidInput))
	})

	s.Run("missing ID is rejected", func() {
		record := validRecord("")
		err := s.service.Create(ctx, "admin", record)
		s.True(domainerrors.Is(err, domainerrors.CodeInvalidInput))
	})
}

func (s *QuestionServiceSuite) TestCreateUnauthorized() {
	log := slog.New(slog.DiscardHandler)
	m := metrics.NewWith(prometheus.NewRegistry())
	syncer := search.NewSyncer(s.index, "questions", s.runner, log, m)
	denied := question.NewService(s.store, stubGate{deny: true}, syncer, s.publisher, s.runner, log, m)

	err := denied.Create(context.Background(), "nobody", validRecord("q1"))
	s.True(domainerrors.Is(err, domainerrors.CodeUnauthorized))

	_, getErr := s.store.Get(context.Background(), catalog.QuestionsCollection, "q1")
	s.Error(getErr, "unauthorized call must not touch the store")
}

func (s *QuestionServiceSuite) TestUpdate() {
	ctx := context.Background()
	s.Require().NoError(s.service.Create(ctx, "admin", validRecord("q1")))
	s.runner.Wait()

	s.Run("merge patch keeps untouched fields and re-projects", func() {
		updated, err := s.service.Update(ctx, "admin", "q1", store.Document{"difficulty": "hard"})
		s.Require().NoError(err)
		s.Equal("hard", updated.Difficulty)
		s.Equal("Head", updated.Category)
		s.runner.Wait()

		obj, ok := s.index.Get("questions", "q1")
		s.Require().True(ok)
		s.Equal("hard", obj.Difficulty)
	})

	s.Run("missing question is not found", func() {
		_, err := s.service.Update(ctx, "admin", "ghost", store.Document{"difficulty": "hard"})
		s.True(domainerrors.Is(err, domainerrors.CodeNotFound))
	})

	s.Run("empty patch is rejected", func() {
		_, err := s.service.Update(ctx, "admin", "q1", store.Document{})
		s.True(domainerrors.Is(err, domainerrors.CodeBadRequest))
	})
}

func (s *QuestionServiceSuite) TestDelete() {
	ctx := context.Background()
	s.Require().NoError(s.service.Create(ctx, "admin", validRecord("q1")))
	s.runner.Wait()

	s.Require().NoError(s.service.Delete(ctx, "admin", "q1"))
	s.runner.Wait()

	_, err := s.store.Get(ctx, catalog.QuestionsCollection, "q1")
	s.Error(err)
	s.Zero(s.index.Len("questions"))
	s.Contains(s.publisher.types(), events.TypeQuestionDeleted)
}

// A search-index outage must not alter the success already earned by the
// primary-store commit.
func (s *QuestionServiceSuite) TestIndexFailureDoesNotFailMutation() {
	ctx := context.Background()
	s.index.Fail = true

	s.Require().NoError(s.service.Create(ctx, "admin", validRecord("q1")))
	s.runner.Wait()

	doc, err := s.store.Get(ctx, catalog.QuestionsCollection, "q1")
	s.Require().NoError(err, "primary write must have committed")
	s.Equal("Head", doc["category"])

	_, ok := s.index.Get("questions", "q1")
	s.False(ok, "index stays stale until the next successful sync")
}

// Same isolation for the event stream.
func (s *QuestionServiceSuite) TestPublishFailureDoesNotFailMutation() {
	s.publisher.fail = true
	s.Require().NoError(s.service.Create(context.Background(), "admin", validRecord("q1")))
	s.runner.Wait()
	s.Empty(s.publisher.types())
}

func (s *QuestionServiceSuite) TestStoreOutageFailsMutation() {
	s.store.FailWrites = true
	err := s.service.Create(context.Background(), "admin", validRecord("q1"))
	s.True(domainerrors.Is(err, domainerrors.CodeUnavailable))
}
