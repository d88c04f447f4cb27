// Package users provides the user entity, its PostgreSQL repository, and the
// service layer used by registration, login, and the admin management routes.
package users

import (
	"context"
	"errors"
)

// ErrDuplicateEmail is returned when a create would reuse an existing email.
var ErrDuplicateEmail = errors.New("email already registered")

// ListFilter narrows and pages List results.
type ListFilter struct {
	// Query matches the concatenated name or the email, case-insensitively.
	Query string
	// Role filters to a single role when non-empty.
	Role string
	// Page is 1-based.
	Page    int
	PerPage int
}

// TxScope runs fn against a Repository bound to a single transaction, so a
// multi-statement sequence commits or rolls back as one unit.
type TxScope func(ctx context.Context, fn func(Repository) error) error

// Repository defines persistence for users.
type Repository interface {
	// Create inserts the user and fills in its generated fields.
	// Reusing an email fails with ErrDuplicateEmail.
	Create(ctx context.Context, user *User) (*User, error)

	// GetByEmail returns the user with the given email or common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID returns the user with the given id or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*User, error)

	// List returns a page of users plus the total match count.
	List(ctx context.Context, filter ListFilter) ([]User, int64, error)

	// Update rewrites the mutable profile fields (never the password hash).
	Update(ctx context.Context, user *User) error

	// Delete removes a user, reporting common.ErrNotFound for unknown ids.
	Delete(ctx context.Context, id string) error
}
