package tenants

import "time"

// Tenant is an organization owning a slice of the user base.
type Tenant struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
