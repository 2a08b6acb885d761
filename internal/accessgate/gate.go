// Package accessgate decides whether a caller may mutate the catalog. Every
// mutating operation in every other component calls Authorize first.
package accessgate

import (
	"context"
	"errors"
	"log/slog"

	"quizbank/internal/identity"
	"quizbank/internal/store"
	"quizbank/pkg/platform/sentinel"
)

// Gate verifies administrative privilege against the primary store. It fails
// closed: any doubt (empty identity, store error, missing user, wrong role)
// resolves to "not authorized" and never to an error the caller could
// misinterpret as transient.
type Gate struct {
	store  store.Store
	logger *slog.Logger
}

func New(st store.Store, logger *slog.Logger) *Gate {
	return &Gate{store: st, logger: logger}
}

// Authorize reports whether callerID identifies a stored admin user. A missing
// user record is a normal false, not an error; store failures are logged and
// also resolve to false so an outage cannot widen access.
func (g *Gate) Authorize(ctx context.Context, callerID string) bool {
	if callerID == "" {
		return false
	}

	user, err := g.store.Get(ctx, identity.UsersCollection, callerID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			g.logger.WarnContext(ctx, "access gate store lookup failed",
				"caller_id", callerID,
				"error", err,
			)
		}
		return false
	}

	role, _ := user["role"].(string)
	return role == identity.RoleAdmin
}
