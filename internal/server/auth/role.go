// Package auth implements the token lifecycle of the service: bcrypt
// credential verification, RS256 access tokens, HS256 refresh tokens backed
// by database records, rotation with revocation checks, and the HTTP guards
// that gate protected routes.
package auth

// Role is the authorization role carried by every user and embedded in
// every issued token.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCustomer:
		return true
	}
	return false
}

// Principal is the identity a token is issued for.
type Principal struct {
	ID   string
	Role Role
}

// Authorize reports whether role is contained in required. An empty or
// unknown role is always denied, regardless of the required set.
func Authorize(required []Role, role Role) bool {
	if !role.Valid() {
		return false
	}
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}
