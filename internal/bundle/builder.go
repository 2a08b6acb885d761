package bundle

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"quizbank/internal/catalog"
	"quizbank/internal/platform/metrics"
	"quizbank/internal/store"
	"quizbank/pkg/domainerrors"
)

// Builder turns a category into a named binary artifact. Builds are read-only
// against the store and all-or-nothing: a failed document read aborts the
// whole build. Concurrent builds for the same category coalesce through
// singleflight since the artifact is a pure function of (category, store
// state).
type Builder struct {
	store   store.Store
	metrics *metrics.Metrics
	group   singleflight.Group
}

func NewBuilder(st store.Store, m *metrics.Metrics) *Builder {
	return &Builder{store: st, metrics: m}
}

// QueryName derives the artifact name for a category.
func QueryName(category string) string {
	return "questions-" + strings.ToLower(category)
}

// Build executes the category query and serializes the result set. An unknown
// category yields a valid empty artifact, not an error; only an empty
// category label is rejected.
func (b *Builder) Build(ctx context.Context, category string) ([]byte, error) {
	if category == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "category is required")
	}

	artifact, err, _ := b.group.Do(category, func() (any, error) {
		return b.build(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return artifact.([]byte), nil
}

func (b *Builder) build(ctx context.Context, category string) ([]byte, error) {
	tracer := otel.Tracer("quizbank/bundle")
	ctx, buildSpan := tracer.Start(ctx, "bundle.build")
	defer buildSpan.End()
	buildSpan.SetAttributes(attribute.String("bundle.category", category))

	start := time.Now()
	snaps, err := b.store.QueryEquals(ctx, catalog.QuestionsCollection, "category", category)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "could not query catalog records", err)
	}

	artifact, err := Encode(QueryName(category), category, snaps)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "could not serialize bundle", err)
	}

	b.metrics.BundleBuildSeconds.Observe(time.Since(start).Seconds())
	b.metrics.BundleBytes.Observe(float64(len(artifact)))
	buildSpan.SetAttributes(attribute.Int("bundle.bytes", len(artifact)))
	return artifact, nil
}
