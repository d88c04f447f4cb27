package users

import (
	"time"

	"github.com/dkrasnovs/tenauth/internal/server/auth"
)

// User is a registered principal. PasswordHash is write-once at creation;
// no operation in this service ever mutates it.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         auth.Role
	// TenantID is nil for users that belong to no tenant (admins).
	TenantID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
