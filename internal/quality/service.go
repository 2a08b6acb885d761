package quality

import (
	"context"
	"errors"
	"strings"

	"quizbank/internal/catalog"
	"quizbank/internal/store"
	"quizbank/pkg/domainerrors"
	"quizbank/pkg/platform/sentinel"
)

// Gate authorizes callers. Satisfied by accessgate.Gate.
type Gate interface {
	Authorize(ctx context.Context, callerID string) bool
}

// Service runs the reference dimension of a quality assessment against stored
// questions. The remaining dimensions come from the external assessor and are
// out of this service's hands.
type Service struct {
	store  store.Store
	gate   Gate
	lookup MetadataLookup
}

func NewService(st store.Store, gate Gate, lookup MetadataLookup) *Service {
	return &Service{store: st, gate: gate, lookup: lookup}
}

// CheckReference resolves the stored question's scientific reference and
// returns the verdict for its reference dimension.
func (s *Service) CheckReference(ctx context.Context, callerID, questionID string) (DimensionResult, error) {
	if !s.gate.Authorize(ctx, callerID) {
		return DimensionResult{}, domainerrors.New(domainerrors.CodeUnauthorized, "administrative privilege required")
	}

	doc, err := s.store.Get(ctx, catalog.QuestionsCollection, questionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return DimensionResult{}, domainerrors.New(domainerrors.CodeNotFound, "question not found")
		}
		return DimensionResult{}, domainerrors.Wrap(domainerrors.CodeInternal, "could not read question", err)
	}
	record, err := catalog.FromDocument(questionID, doc)
	if err != nil {
		return DimensionResult{}, domainerrors.Wrap(domainerrors.CodeInternal, "could not decode question", err)
	}

	return ResolveReference(ctx, s.lookup, referenceText(record.Reference)), nil
}

// An explicit DOI field wins over whatever identifiers hide in the free text.
func referenceText(ref *catalog.Reference) string {
	if ref == nil {
		return ""
	}
	if ref.DOI != "" {
		return ref.DOI
	}
	return strings.TrimSpace(ref.Text)
}
