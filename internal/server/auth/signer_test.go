package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func testKeyPEM(t *testing.T) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

func testSigner(t *testing.T) *Signer {
	t.Helper()
	signer, err := NewSigner(SignerConfig{
		PrivateKeyPEM:   testKeyPEM(t),
		RefreshSecret:   []byte("test-refresh-secret"),
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 365 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return signer
}

func TestNewSigner_Misconfiguration(t *testing.T) {
	valid := SignerConfig{
		PrivateKeyPEM:   testKeyPEM(t),
		RefreshSecret:   []byte("secret"),
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: time.Hour,
	}

	tests := []struct {
		name   string
		mutate func(cfg *SignerConfig)
	}{
		{"missing private key", func(cfg *SignerConfig) { cfg.PrivateKeyPEM = nil }},
		{"garbage private key", func(cfg *SignerConfig) { cfg.PrivateKeyPEM = []byte("not a pem") }},
		{"missing refresh secret", func(cfg *SignerConfig) { cfg.RefreshSecret = nil }},
		{"zero access TTL", func(cfg *SignerConfig) { cfg.AccessTokenTTL = 0 }},
		{"negative refresh TTL", func(cfg *SignerConfig) { cfg.RefreshTokenTTL = -time.Hour }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			_, err := NewSigner(cfg)
			require.Error(t, err)
		})
	}
}

func TestSignAccess_RoundTrip(t *testing.T) {
	signer := testSigner(t)
	p := Principal{ID: "42", Role: RoleManager}

	token, err := signer.SignAccess(p)
	require.NoError(t, err)

	claims, err := signer.ParseAccess(token)
	require.NoError(t, err)
	require.Equal(t, "42", claims.Subject)
	require.Equal(t, RoleManager, claims.Role)
	require.Equal(t, TokenIssuerName, claims.Issuer)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestSignRefresh_RoundTrip(t *testing.T) {
	signer := testSigner(t)
	p := Principal{ID: "42", Role: RoleCustomer}

	token, err := signer.SignRefresh(p, "record-id-1")
	require.NoError(t, err)

	claims, err := signer.ParseRefresh(token)
	require.NoError(t, err)
	require.Equal(t, "42", claims.Subject)
	require.Equal(t, RoleCustomer, claims.Role)
	require.Equal(t, "record-id-1", claims.ID)
}

// tamper flips one byte inside the signature segment.
func tamper(t *testing.T, token string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[2] = string(sig)
	return strings.Join(parts, ".")
}

func TestParseAccess_TamperedSignature(t *testing.T) {
	signer := testSigner(t)
	token, err := signer.SignAccess(Principal{ID: "1", Role: RoleAdmin})
	require.NoError(t, err)

	_, err = signer.ParseAccess(tamper(t, token))
	require.ErrorIs(t, err, ErrTokenSignature)
}

func TestParseRefresh_TamperedSignature(t *testing.T) {
	signer := testSigner(t)
	token, err := signer.SignRefresh(Principal{ID: "1", Role: RoleAdmin}, "rec")
	require.NoError(t, err)

	_, err = signer.ParseRefresh(tamper(t, token))
	require.ErrorIs(t, err, ErrTokenSignature)
}

func TestParseAccess_Expired(t *testing.T) {
	signer := testSigner(t)

	// Craft a token with the real key but an expiry in the past.
	claims := AccessClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    TokenIssuerName,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(signer.privateKey)
	require.NoError(t, err)

	_, err = signer.ParseAccess(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccess_Malformed(t *testing.T) {
	signer := testSigner(t)

	_, err := signer.ParseAccess("not.a.token")
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestParse_SchemesNotInterchangeable(t *testing.T) {
	signer := testSigner(t)
	p := Principal{ID: "7", Role: RoleManager}

	access, err := signer.SignAccess(p)
	require.NoError(t, err)
	refresh, err := signer.SignRefresh(p, "rec")
	require.NoError(t, err)

	_, err = signer.ParseRefresh(access)
	require.Error(t, err, "RS256 token must not parse as refresh")

	_, err = signer.ParseAccess(refresh)
	require.Error(t, err, "HS256 token must not parse as access")
}

func TestParseRefresh_MissingJTI(t *testing.T) {
	signer := testSigner(t)

	claims := RefreshClaims{
		Role: RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    TokenIssuerName,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signer.secret)
	require.NoError(t, err)

	_, err = signer.ParseRefresh(token)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestParseAccess_WrongIssuer(t *testing.T) {
	signer := testSigner(t)

	claims := AccessClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "someone_else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(signer.privateKey)
	require.NoError(t, err)

	_, err = signer.ParseAccess(token)
	require.ErrorIs(t, err, ErrTokenMalformed)
}
