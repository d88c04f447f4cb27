package refreshtokens

import "time"

// Token is one outstanding refresh session. A user may hold many concurrent
// records, one per active session or device. The id doubles as the jti claim
// of the signed refresh token, so deleting the record permanently invalidates
// every token that references it.
type Token struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
