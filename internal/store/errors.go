package store

import (
	"fmt"

	"quizbank/pkg/platform/sentinel"
)

// notFound wraps the sentinel with location context so logs say which lookup
// missed while errors.Is(err, sentinel.ErrNotFound) still holds.
func notFound(collection, id string) error {
	return fmt.Errorf("%s/%s: %w", collection, id, sentinel.ErrNotFound)
}
