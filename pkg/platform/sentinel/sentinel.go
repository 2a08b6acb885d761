package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Store adapters and index clients
// return these (optionally wrapped) so services can translate them into domain
// errors without string matching.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: document or entity does not exist in the store
// - ErrConflict: write collided with an existing document
// - ErrUnavailable: store, index, or broker temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domainerrors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
