package auth

import "errors"

// Sentinel errors for the token and credential subsystem. Handlers collapse
// these into coarse HTTP outcomes; the distinctions exist so that callers can
// branch for logging and metrics.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases are intentionally indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenMalformed means the presented token is not a structurally
	// valid JWT or carries unacceptable claims.
	ErrTokenMalformed = errors.New("malformed token")

	// ErrTokenExpired means the token was well-formed and correctly signed
	// but its expiry is in the past.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenSignature means the signature does not verify, including
	// tokens signed with the wrong scheme.
	ErrTokenSignature = errors.New("invalid token signature")

	// ErrSessionRevoked means a structurally valid refresh token references
	// a session record that no longer exists.
	ErrSessionRevoked = errors.New("session revoked")

	// ErrForbidden means the identity is valid but the role is not allowed.
	ErrForbidden = errors.New("insufficient role")

	// ErrStoreUnavailable wraps persistence failures in the token store.
	ErrStoreUnavailable = errors.New("token store unavailable")
)

// IsAuthError reports whether err belongs to the token-problem class that
// collapses to an unauthenticated outcome at the HTTP boundary.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenSignature) ||
		errors.Is(err, ErrSessionRevoked)
}
