package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkrasnovs/tenauth/internal/common"
	"github.com/dkrasnovs/tenauth/internal/logging"
	"github.com/dkrasnovs/tenauth/internal/server/metrics"
	"github.com/dkrasnovs/tenauth/internal/server/refreshtokens"
)

// TokenPair is the result of a successful login, registration, or rotation.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// RecordID is the id of the refresh-token record backing RefreshToken.
	RecordID string
}

// Credential is the minimum a credential source must expose for a login
// attempt: the principal and its stored password hash.
type Credential struct {
	Principal    Principal
	PasswordHash string
}

// CredentialSource looks up login credentials by email. A missing email is
// reported as common.ErrNotFound; the issuer collapses it into
// ErrInvalidCredentials so callers cannot enumerate accounts.
type CredentialSource interface {
	CredentialByEmail(ctx context.Context, email string) (*Credential, error)
}

// Issuer owns the session lifecycle. It is the only component that decides
// when refresh-token records are created, rotated, or deleted.
type Issuer struct {
	signer  *Signer
	store   refreshtokens.Repository
	creds   CredentialSource
	log     logging.Logger
	metrics *metrics.AuthMetrics
}

// NewIssuer wires the issuer. metrics may be nil.
func NewIssuer(signer *Signer, store refreshtokens.Repository, creds CredentialSource, log logging.Logger, m *metrics.AuthMetrics) *Issuer {
	return &Issuer{
		signer:  signer,
		store:   store,
		creds:   creds,
		log:     log.With("module", "issuer"),
		metrics: m,
	}
}

// Login verifies the email/password pair and issues a token pair. Unknown
// email and wrong password are indistinguishable: both return
// ErrInvalidCredentials, and neither mints tokens nor touches the store.
func (i *Issuer) Login(ctx context.Context, email, password string) (*TokenPair, *Principal, error) {
	cred, err := i.creds.CredentialByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			i.metrics.Rejected(ctx, "credentials")
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("credential lookup: %w", err)
	}

	ok, err := VerifyPassword(password, cred.PasswordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("credential check: %w", err)
	}
	if !ok {
		i.metrics.Rejected(ctx, "credentials")
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := i.IssuePair(ctx, cred.Principal)
	if err != nil {
		return nil, nil, err
	}

	i.metrics.LoginSucceeded(ctx)
	i.log.Info(ctx, "user logged in", "user_id", cred.Principal.ID)
	p := cred.Principal
	return pair, &p, nil
}

// IssuePair mints an access token, persists a fresh refresh-token record,
// and mints a refresh token bound to that record.
//
// If refresh signing fails after the record was persisted, the record is
// orphaned: no client ever learns its id, so it can never authenticate a
// request, and it expires naturally.
func (i *Issuer) IssuePair(ctx context.Context, p Principal) (*TokenPair, error) {
	access, err := i.signer.SignAccess(p)
	if err != nil {
		return nil, err
	}

	record, err := i.store.Create(ctx, p.ID, i.signer.RefreshTokenTTL())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
	}

	refresh, err := i.signer.SignRefresh(p, record.ID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, RecordID: record.ID}, nil
}

// Rotate issues a new token pair and retires the record behind the presented
// refresh token. The old record is deleted only after the new pair is fully
// mintable, so a failed rotation leaves the old session usable and retryable.
//
// The delete is conditional on the record still existing and belonging to
// the principal. When a concurrent rotation on the same token wins the
// delete, this call loses: its freshly minted session is torn down and the
// rotation fails as revoked, so one presented token yields at most one
// surviving successor session.
func (i *Issuer) Rotate(ctx context.Context, p Principal, oldRecordID string) (*TokenPair, error) {
	pair, err := i.IssuePair(ctx, p)
	if err != nil {
		return nil, err
	}

	removed, err := i.store.DeleteMatching(ctx, oldRecordID, p.ID)
	if err != nil {
		// The new session is valid; a lingering old record is an
		// operational issue, not a security one.
		i.log.Error(ctx, "failed to delete rotated refresh token",
			"record_id", oldRecordID, "error", err)
		i.metrics.TokenRotated(ctx)
		return pair, nil
	}
	if !removed {
		i.metrics.Rejected(ctx, metrics.ReasonRevoked)
		if delErr := i.store.Delete(ctx, pair.RecordID); delErr != nil {
			i.log.Error(ctx, "failed to discard losing rotation record",
				"record_id", pair.RecordID, "error", delErr)
		}
		return nil, ErrSessionRevoked
	}

	i.metrics.TokenRotated(ctx)
	i.log.Info(ctx, "refresh token rotated",
		"user_id", p.ID, "old_record_id", oldRecordID, "record_id", pair.RecordID)
	return pair, nil
}

// Revoked reports whether the session behind the refresh claims no longer
// exists. A store failure counts as revoked: an inability to prove the
// session is alive must not be treated as proof that it is.
func (i *Issuer) Revoked(ctx context.Context, claims *RefreshClaims) bool {
	_, err := i.store.FindActive(ctx, claims.ID, claims.Subject)
	if err == nil {
		return false
	}
	if !errors.Is(err, common.ErrNotFound) {
		i.log.Error(ctx, "revocation check failed, treating token as revoked",
			"record_id", claims.ID, "error", err)
	}
	return true
}

// Logout deletes the record behind the presented refresh token, invalidating
// it permanently. Deleting an already absent record succeeds.
func (i *Issuer) Logout(ctx context.Context, recordID string) error {
	if err := i.store.Delete(ctx, recordID); err != nil {
		return fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
	}
	i.log.Info(ctx, "session terminated", "record_id", recordID)
	return nil
}
