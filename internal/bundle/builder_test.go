package bundle

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"quizbank/internal/catalog"
	"quizbank/internal/platform/metrics"
	"quizbank/internal/store"
	"quizbank/pkg/domainerrors"
)

type BuilderSuite struct {
	suite.Suite
	store   *store.Memory
	builder *Builder
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderSuite))
}

func (s *BuilderSuite) SetupTest() {
	s.store = store.NewMemory()
	s.builder = NewBuilder(s.store, metrics.NewWith(prometheus.NewRegistry()))
}

func (s *BuilderSuite) seed(id, category string) {
	s.Require().NoError(s.store.Set(context.Background(), catalog.QuestionsCollection, id,
		store.Document{"category": category, "difficulty": "medium"}, false))
}

func (s *BuilderSuite) TestBuildFiltersByCategory() {
	s.seed("q1", "Head")
	s.seed("q2", "Limbs")
	s.seed("q3", "Head")

	artifact, err := s.builder.Build(context.Background(), "Head")
	s.Require().NoError(err)

	header, snaps, err := Decode(artifact)
	s.Require().NoError(err)
	s.Equal("questions-head", header.QueryName)
	s.Equal(2, header.Count)
	s.Equal("q1", snaps[0].ID)
	s.Equal("q3", snaps[1].ID)
}

func (s *BuilderSuite) TestBuildIsDeterministic() {
	s.seed("q1", "Head")
	s.seed("q2", "Head")

	first, err := s.builder.Build(context.Background(), "Head")
	s.Require().NoError(err)
	second, err := s.builder.Build(context.Background(), "Head")
	s.Require().NoError(err)
	s.Equal(first, second, "unchanged store must yield byte-identical artifacts")
}

func (s *BuilderSuite) TestBuildUnknownCategoryYieldsEmptyArtifact() {
	artifact, err := s.builder.Build(context.Background(), "Torso")
	s.Require().NoError(err)

	header, snaps, err := Decode(artifact)
	s.Require().NoError(err)
	s.Equal("questions-torso", header.QueryName)
	s.Zero(header.Count)
	s.Empty(snaps)
}

func (s *BuilderSuite) TestBuildRejectsEmptyCategory() {
	_, err := s.builder.Build(context.Background(), "")
	s.True(domainerrors.Is(err, domainerrors.CodeBadRequest))
}
