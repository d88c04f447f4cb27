// Package tenants provides the tenant entity, its PostgreSQL repository, and
// the thin service used by the admin management routes.
package tenants

import "context"

// ListFilter narrows and pages List results.
type ListFilter struct {
	// Query matches the concatenated name and address, case-insensitively.
	Query string
	// Page is 1-based.
	Page    int
	PerPage int
}

// Repository defines persistence for tenants.
type Repository interface {
	// Create inserts the tenant and fills in its generated fields.
	Create(ctx context.Context, tenant *Tenant) (*Tenant, error)

	// GetByID returns the tenant with the given id or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*Tenant, error)

	// List returns a page of tenants plus the total match count.
	List(ctx context.Context, filter ListFilter) ([]Tenant, int64, error)

	// Update rewrites name and address.
	Update(ctx context.Context, tenant *Tenant) error

	// Delete removes a tenant, reporting common.ErrNotFound for unknown ids.
	Delete(ctx context.Context, id string) error
}
