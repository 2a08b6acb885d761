package search

import "context"

// Index is the contract over the external search service. Implementations
// must treat each object independently: one bad object in a SaveObjects call
// must not block the rest.
type Index interface {
	SaveObjects(ctx context.Context, indexName string, objects []Object) error
	DeleteObject(ctx context.Context, indexName, objectID string) error
}

// NopIndex is used when no search backend is configured. Syncs succeed and go
// nowhere; the primary store stays fully functional.
type NopIndex struct{}

func (NopIndex) SaveObjects(context.Context, string, []Object) error  { return nil }
func (NopIndex) DeleteObject(context.Context, string, string) error   { return nil }
