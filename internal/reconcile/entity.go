package reconcile

import (
	"time"

	"quizbank/internal/store"
)

// Entity is the tagged variant decoded from a stored infographic document.
// Only Managed values are ever considered for deletion, which makes the
// ownership invariant structural rather than a flag check at each call site.
type Entity interface {
	EntityID() string
	sealed()
}

// Managed is a machine-managed entity fully owned by the registry.
type Managed struct {
	ID        string
	Title     string
	CreatedAt time.Time
}

func (m Managed) EntityID() string { return m.ID }
func (Managed) sealed()            {}

// Unmanaged is a manually curated entity. Reconciliation reads its ID for
// diffing and nothing else.
type Unmanaged struct {
	ID string
}

func (u Unmanaged) EntityID() string { return u.ID }
func (Unmanaged) sealed()            {}

// Stored document field names.
const (
	fieldTitle     = "title"
	fieldManaged   = "isMachineManaged"
	fieldCreatedAt = "createdAt"
)

// DecodeEntity classifies a stored document. A document lacking the managed
// flag, or carrying anything but an explicit true, decodes as Unmanaged: the
// safe default, since unmanaged entities are never deleted.
func DecodeEntity(snap store.Snapshot) Entity {
	managed, _ := snap.Data[fieldManaged].(bool)
	if !managed {
		return Unmanaged{ID: snap.ID}
	}

	title, _ := snap.Data[fieldTitle].(string)
	var createdAt time.Time
	if raw, ok := snap.Data[fieldCreatedAt].(string); ok {
		createdAt, _ = time.Parse(time.RFC3339Nano, raw)
	}
	return Managed{ID: snap.ID, Title: title, CreatedAt: createdAt}
}
