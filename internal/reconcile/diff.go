package reconcile

import (
	"time"

	"quizbank/internal/store"
)

// Create is a full document for a registry entry with no stored counterpart.
type Create struct {
	ID   string
	Data store.Document
}

// Update carries only the fields that drifted from the registry; unchanged
// fields are never rewritten.
type Update struct {
	ID   string
	Data store.Document
}

// Plan is the minimal change set that aligns the store with the registry.
// Applying it twice in a row yields an empty second plan.
type Plan struct {
	Creates []Create
	Updates []Update
	Deletes []string
}

// Empty reports whether the plan contains no operations.
func (p Plan) Empty() bool {
	return len(p.Creates) == 0 && len(p.Updates) == 0 && len(p.Deletes) == 0
}

// Diff computes the plan for a registry against the stored entities. now is
// injected so created/backfilled timestamps are deterministic under test.
//
// Deletion only ever considers Managed entities; Unmanaged ones are invisible
// to the delete pass no matter what the registry says. An Unmanaged entity
// whose ID collides with a registry entry is adopted: it gets the managed
// flag, title, and a creation timestamp through a partial update.
func Diff(registry []Entry, stored []Entity, now time.Time) Plan {
	registryIDs := make(map[string]Entry, len(registry))
	for _, entry := range registry {
		registryIDs[entry.ID] = entry
	}

	storedByID := make(map[string]Entity, len(stored))
	var plan Plan
	for _, entity := range stored {
		storedByID[entity.EntityID()] = entity
		managed, ok := entity.(Managed)
		if !ok {
			continue
		}
		if _, wanted := registryIDs[managed.ID]; !wanted {
			plan.Deletes = append(plan.Deletes, managed.ID)
		}
	}

	stamp := now.UTC().Format(time.RFC3339Nano)
	for _, entry := range registry {
		entity, exists := storedByID[entry.ID]
		if !exists {
			plan.Creates = append(plan.Creates, Create{
				ID: entry.ID,
				Data: store.Document{
					fieldTitle:     entry.Title,
					fieldManaged:   true,
					fieldCreatedAt: stamp,
				},
			})
			continue
		}

		patch := store.Document{}
		switch e := entity.(type) {
		case Managed:
			if e.Title != entry.Title {
				patch[fieldTitle] = entry.Title
			}
			if e.CreatedAt.IsZero() {
				patch[fieldCreatedAt] = stamp
			}
		case Unmanaged:
			patch[fieldTitle] = entry.Title
			patch[fieldManaged] = true
			patch[fieldCreatedAt] = stamp
		}
		if len(patch) > 0 {
			plan.Updates = append(plan.Updates, Update{ID: entry.ID, Data: patch})
		}
	}

	return plan
}
