//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"quizbank/internal/store"
	"quizbank/pkg/platform/sentinel"
	"quizbank/pkg/testutil/containers"
)

// Runs the same semantic contract the memory store covers in unit tests
// against a real Postgres, since the JSONB merge and ordering behavior is
// what the rest of the system depends on.
type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.pg.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) TearDownSuite() {
	_ = s.pg.DB.Close()
	_ = s.pg.Container.Terminate(context.Background())
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateDocuments(context.Background()))
}

func (s *PostgresStoreSuite) TestGetMissingReturnsSentinel() {
	_, err := s.store.Get(context.Background(), "questions", "ghost")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSetReplaceAndMerge() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "questions", "q1",
		store.Document{"category": "Head", "difficulty": "easy"}, false))

	s.Run("merge keeps untouched fields", func() {
		s.Require().NoError(s.store.Set(ctx, "questions", "q1",
			store.Document{"difficulty": "hard"}, true))
		doc, err := s.store.Get(ctx, "questions", "q1")
		s.Require().NoError(err)
		s.Equal("hard", doc["difficulty"])
		s.Equal("Head", doc["category"])
	})

	s.Run("merge is shallow", func() {
		s.Require().NoError(s.store.Set(ctx, "questions", "q1",
			store.Document{"translations": map[string]any{"en": map[string]any{"text": "a"}}}, true))
		s.Require().NoError(s.store.Set(ctx, "questions", "q1",
			store.Document{"translations": map[string]any{"de": map[string]any{"text": "b"}}}, true))

		doc, err := s.store.Get(ctx, "questions", "q1")
		s.Require().NoError(err)
		translations, _ := doc["translations"].(map[string]any)
		s.Contains(translations, "de")
		s.NotContains(translations, "en", "top-level merge replaces nested objects wholesale")
	})

	s.Run("replace drops absent fields", func() {
		s.Require().NoError(s.store.Set(ctx, "questions", "q1",
			store.Document{"category": "Limbs"}, false))
		doc, err := s.store.Get(ctx, "questions", "q1")
		s.Require().NoError(err)
		s.Equal("Limbs", doc["category"])
		s.NotContains(doc, "difficulty")
	})
}

func (s *PostgresStoreSuite) TestDeleteIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "questions", "q1", store.Document{"category": "Head"}, false))
	s.Require().NoError(s.store.Delete(ctx, "questions", "q1"))
	s.Require().NoError(s.store.Delete(ctx, "questions", "q1"))
	_, err := s.store.Get(ctx, "questions", "q1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestQueryEqualsOrdering() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "questions", "q3", store.Document{"category": "Head"}, false))
	s.Require().NoError(s.store.Set(ctx, "questions", "q1", store.Document{"category": "Head"}, false))
	s.Require().NoError(s.store.Set(ctx, "questions", "q2", store.Document{"category": "Limbs"}, false))

	snaps, err := s.store.QueryEquals(ctx, "questions", "category", "Head")
	s.Require().NoError(err)
	s.Require().Len(snaps, 2)
	s.Equal("q1", snaps[0].ID)
	s.Equal("q3", snaps[1].ID)

	empty, err := s.store.QueryEquals(ctx, "questions", "category", "Torso")
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *PostgresStoreSuite) TestBatchIsAtomic() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "infographics", "old", store.Document{"title": "Old"}, false))

	batch := s.store.Batch()
	batch.Delete("infographics", "old")
	batch.Set("infographics", "new-1", store.Document{"title": "One"}, false)
	batch.Set("infographics", "new-2", store.Document{"title": "Two"}, false)
	s.Require().NoError(batch.Commit(ctx))

	_, err := s.store.Get(ctx, "infographics", "old")
	s.ErrorIs(err, sentinel.ErrNotFound)
	snaps, err := s.store.List(ctx, "infographics")
	s.Require().NoError(err)
	s.Len(snaps, 2)

	s.Error(batch.Commit(ctx), "a batch commits at most once")
}

func (s *PostgresStoreSuite) TestBatchSizeLimit() {
	batch := s.store.Batch()
	for i := 0; i <= store.MaxBatchOps; i++ {
		batch.Set("questions", "q", store.Document{"n": float64(i)}, false)
	}
	s.Error(batch.Commit(context.Background()))
}
