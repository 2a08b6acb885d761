// Package category manages per-main-category subcategory name sets. The sets
// are append-only from this subsystem's point of view: registration is a set
// union, never a reorder or prune.
package category

import (
	"context"
	"errors"
	"log/slog"

	"quizbank/internal/store"
	"quizbank/pkg/domainerrors"
	"quizbank/pkg/platform/sentinel"
)

// Collection holds one document per main category with its subcategory set.
const Collection = "categories"

const fieldSubcategories = "subcategories"

// Gate authorizes callers. Satisfied by accessgate.Gate.
type Gate interface {
	Authorize(ctx context.Context, callerID string) bool
}

type Service struct {
	store  store.Store
	gate   Gate
	logger *slog.Logger
}

func NewService(st store.Store, gate Gate, logger *slog.Logger) *Service {
	return &Service{store: st, gate: gate, logger: logger}
}

// Register appends name to the subcategory set of mainCategory. Already
// present is a no-op, not an error.
func (s *Service) Register(ctx context.Context, callerID, mainCategory, name string) error {
	if !s.gate.Authorize(ctx, callerID) {
		return domainerrors.New(domainerrors.CodeUnauthorized, "administrative privilege required")
	}
	if mainCategory == "" || name == "" {
		return domainerrors.New(domainerrors.CodeBadRequest, "main category and subcategory name are required")
	}

	current, err := s.read(ctx, mainCategory)
	if err != nil {
		return err
	}
	for _, existing := range current {
		if existing == name {
			return nil
		}
	}
	// Union by appending: the set keeps registration order, this subsystem
	// never reorders or prunes it.
	next := append(current, name)

	// Merge write: only the subcategory field is touched, so any other fields
	// on the category document survive.
	err = s.store.Set(ctx, Collection, mainCategory, store.Document{
		fieldSubcategories: toAny(next),
	}, true)
	if err != nil {
		return domainerrors.Wrap(domainerrors.CodeInternal, "could not register subcategory", err)
	}
	return nil
}

// List returns the current subcategory set, empty when none are registered.
func (s *Service) List(ctx context.Context, callerID, mainCategory string) ([]string, error) {
	if !s.gate.Authorize(ctx, callerID) {
		return nil, domainerrors.New(domainerrors.CodeUnauthorized, "administrative privilege required")
	}
	if mainCategory == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "main category is required")
	}
	return s.read(ctx, mainCategory)
}

func (s *Service) read(ctx context.Context, mainCategory string) ([]string, error) {
	doc, err := s.store.Get(ctx, Collection, mainCategory)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return []string{}, nil
		}
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "could not read subcategories", err)
	}

	raw, _ := doc[fieldSubcategories].([]any)
	names := make([]string, 0, len(raw))
	for _, item := range raw {
		if name, ok := item.(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func toAny(names []string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}
