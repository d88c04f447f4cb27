// Package refreshtokens provides the PostgreSQL-backed store for refresh
// token records used by the session issuer.
package refreshtokens

import (
	"context"
	"time"
)

// Repository defines persistence for refresh-token records. The session
// issuer is the only component allowed to mutate records through it.
type Repository interface {
	// Create stores a new record for userID expiring at now+validity.
	Create(ctx context.Context, userID string, validity time.Duration) (*Token, error)

	// FindActive returns the unexpired record with the given id owned by
	// userID. It returns common.ErrNotFound both when the id is absent and
	// when it belongs to a different user, so existence never leaks across
	// principals.
	FindActive(ctx context.Context, id, userID string) (*Token, error)

	// Delete removes a record by id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteMatching atomically removes the record only when it exists and
	// belongs to userID, reporting whether a row was removed. It is the
	// single eligibility gate for rotation: of two concurrent rotations on
	// one token, exactly one observes true.
	DeleteMatching(ctx context.Context, id, userID string) (bool, error)
}
