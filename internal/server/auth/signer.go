package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuerName is the iss claim stamped into every token.
const TokenIssuerName = "auth_service"

// AccessClaims is the closed claim set of an access token.
type AccessClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is the closed claim set of a refresh token. The registered
// ID (jti) carries the refresh-token record id, so each refresh token maps
// to exactly one database record.
type RefreshClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// SignerConfig carries the key material and lifetimes for the Signer. It is
// read once at construction; the Signer never consults mutable state after.
type SignerConfig struct {
	// PrivateKeyPEM is the PEM-encoded RSA private key for access tokens.
	PrivateKeyPEM []byte
	// RefreshSecret is the HMAC secret for refresh tokens.
	RefreshSecret []byte
	// AccessTokenTTL is the access token lifetime (default 1h).
	AccessTokenTTL time.Duration
	// RefreshTokenTTL is the refresh token lifetime (default 365 days,
	// a fixed duration that ignores leap years).
	RefreshTokenTTL time.Duration
}

// Signer produces and parses the two token kinds. Access tokens use RS256 so
// the public key can be distributed for out-of-process verification; refresh
// tokens use HS256 with a server-held secret. The two schemes are never
// interchangeable: parsing pins the expected algorithm.
type Signer struct {
	privateKey *rsa.PrivateKey
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewSigner validates the configuration and parses the signing key. Any
// failure here is a fatal misconfiguration: the process must not accept
// traffic with a signer it could not construct.
func NewSigner(cfg SignerConfig) (*Signer, error) {
	if len(cfg.PrivateKeyPEM) == 0 {
		return nil, errors.New("signer: private key is not set")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(cfg.PrivateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("signer: parse RSA private key: %w", err)
	}
	if len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("signer: refresh secret is not set")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, errors.New("signer: token TTLs must be positive")
	}
	return &Signer{
		privateKey: key,
		secret:     cfg.RefreshSecret,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}, nil
}

// PublicKey returns the verification key paired with the access signing key.
func (s *Signer) PublicKey() *rsa.PublicKey {
	return &s.privateKey.PublicKey
}

// RefreshTokenTTL returns the configured refresh token lifetime.
func (s *Signer) RefreshTokenTTL() time.Duration {
	return s.refreshTTL
}

// AccessTokenTTL returns the configured access token lifetime.
func (s *Signer) AccessTokenTTL() time.Duration {
	return s.accessTTL
}

// SignAccess mints an RS256 access token for the principal.
func (s *Signer) SignAccess(p Principal) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    TokenIssuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}

// SignRefresh mints an HS256 refresh token bound to the given record id.
func (s *Signer) SignRefresh(p Principal, recordID string) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        recordID,
			Subject:   p.ID,
			Issuer:    TokenIssuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return token, nil
}

// ParseAccess verifies an access token and returns its claims. Failures are
// classified as ErrTokenExpired, ErrTokenSignature or ErrTokenMalformed.
func (s *Signer) ParseAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return &s.privateKey.PublicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(TokenIssuerName),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, classifyParseError(err)
	}
	return claims, nil
}

// ParseRefresh verifies a refresh token and returns its claims.
func (s *Signer) ParseRefresh(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuerName),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, classifyParseError(err)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing jti claim", ErrTokenMalformed)
	}
	return claims, nil
}

// classifyParseError maps jwt/v5 errors onto the package taxonomy. Expiry and
// forgery both end up unauthenticated at the HTTP boundary, but logging and
// metrics need to tell them apart.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %s", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %s", ErrTokenSignature, err)
	default:
		return fmt.Errorf("%w: %s", ErrTokenMalformed, err)
	}
}
