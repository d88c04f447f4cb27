package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dkrasnovs/tenauth/internal/logging"
	"github.com/dkrasnovs/tenauth/internal/server/metrics"
)

// Cookie names shared with the handlers that set them.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

type identityKey struct{}
type refreshClaimsKey struct{}

// Identity is the authenticated caller attached to the request context by
// Authenticate.
type Identity struct {
	Subject string
	Role    Role
}

// IdentityFromContext returns the identity placed by the authentication gate.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// RefreshClaimsFromContext returns the refresh claims placed by RefreshGate.
func RefreshClaimsFromContext(ctx context.Context) (*RefreshClaims, bool) {
	claims, ok := ctx.Value(refreshClaimsKey{}).(*RefreshClaims)
	return claims, ok
}

// Guard gates protected routes. Authenticate validates the access token and
// exposes the identity; RequireRole checks it against a required set;
// RefreshGate validates the refresh token and its server-side record.
type Guard struct {
	signer  *Signer
	issuer  *Issuer
	log     logging.Logger
	metrics *metrics.AuthMetrics
}

// NewGuard wires the guard. metrics may be nil.
func NewGuard(signer *Signer, issuer *Issuer, log logging.Logger, m *metrics.AuthMetrics) *Guard {
	return &Guard{
		signer:  signer,
		issuer:  issuer,
		log:     log.With("module", "guard"),
		metrics: m,
	}
}

// Authenticate rejects the request before any handler logic runs unless a
// valid access token is presented in the accessToken cookie or as a bearer
// Authorization header.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := accessTokenFromRequest(r)
		if !ok {
			unauthenticated(w)
			return
		}

		claims, err := g.signer.ParseAccess(token)
		if err != nil {
			g.rejectToken(r, err)
			unauthenticated(w)
			return
		}

		identity := Identity{Subject: claims.Subject, Role: claims.Role}
		ctx := context.WithValue(r.Context(), identityKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole allows the request through only when the authenticated role is
// in the required set. A request with no identity is always denied.
func (g *Guard) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				unauthenticated(w)
				return
			}
			if !Authorize(roles, identity.Role) {
				g.log.Warn(r.Context(), "role denied",
					"user_id", identity.Subject, "role", string(identity.Role))
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RefreshGate parses the refresh token from its cookie, runs the revocation
// check against the store, and attaches the claims to the context.
func (g *Guard) RefreshGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(RefreshTokenCookie)
		if err != nil || cookie.Value == "" {
			unauthenticated(w)
			return
		}

		claims, err := g.signer.ParseRefresh(cookie.Value)
		if err != nil {
			g.rejectToken(r, err)
			unauthenticated(w)
			return
		}

		if g.issuer.Revoked(r.Context(), claims) {
			g.metrics.Rejected(r.Context(), metrics.ReasonRevoked)
			g.log.Warn(r.Context(), "revoked refresh token presented",
				"user_id", claims.Subject, "record_id", claims.ID)
			unauthenticated(w)
			return
		}

		ctx := context.WithValue(r.Context(), refreshClaimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rejectToken records why a token was refused. Expiry is routine churn and
// logged at debug; signature failures are suspicious and logged at warn.
func (g *Guard) rejectToken(r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, ErrTokenExpired):
		g.metrics.Rejected(ctx, metrics.ReasonExpired)
		g.log.Debug(ctx, "expired token", "path", r.URL.Path)
	case errors.Is(err, ErrTokenSignature):
		g.metrics.Rejected(ctx, metrics.ReasonSignature)
		g.log.Warn(ctx, "token signature rejected", "path", r.URL.Path)
	default:
		g.metrics.Rejected(ctx, metrics.ReasonMalformed)
		g.log.Debug(ctx, "malformed token", "path", r.URL.Path)
	}
}

func accessTokenFromRequest(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	const bearer = "Bearer "
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, bearer) && len(header) > len(bearer) {
		return header[len(bearer):], true
	}
	return "", false
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthenticated"}`))
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"forbidden"}`))
}
