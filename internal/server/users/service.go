package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkrasnovs/tenauth/internal/common"
	"github.com/dkrasnovs/tenauth/internal/logging"
	"github.com/dkrasnovs/tenauth/internal/server/auth"
)

// ErrInvalidRole is returned when a create or update names an unknown role.
var ErrInvalidRole = errors.New("invalid role")

// CreateParams are the fields accepted when creating a user, whether through
// self-registration or the admin route.
type CreateParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      auth.Role
	TenantID  *string
}

// UpdateParams are the profile fields an admin may rewrite. The password is
// deliberately absent.
type UpdateParams struct {
	FirstName string
	LastName  string
	Email     string
	Role      auth.Role
	TenantID  *string
}

// Service implements user management on top of the repository.
type Service struct {
	repo       Repository
	inTx       TxScope
	bcryptCost int
	log        logging.Logger
}

// NewService wires the service. inTx may be nil, in which case multi-statement
// sequences run against the base repository without transactional isolation.
func NewService(repo Repository, inTx TxScope, bcryptCost int, log logging.Logger) *Service {
	return &Service{
		repo:       repo,
		inTx:       inTx,
		bcryptCost: bcryptCost,
		log:        log.With("module", "users"),
	}
}

func (s *Service) runTx(ctx context.Context, fn func(Repository) error) error {
	if s.inTx != nil {
		return s.inTx(ctx, fn)
	}
	return fn(s.repo)
}

// Create hashes the password and stores a new user. The email must be unused.
// The existence check and the insert share one transaction; the unique index
// on email remains the final arbiter for writes that race past it.
func (s *Service) Create(ctx context.Context, params CreateParams) (*User, error) {
	if !params.Role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := auth.HashPassword(params.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	var user *User
	err = s.runTx(ctx, func(repo Repository) error {
		if _, err := repo.GetByEmail(ctx, params.Email); err == nil {
			return ErrDuplicateEmail
		} else if !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("email lookup: %w", err)
		}

		user, err = repo.Create(ctx, &User{
			FirstName:    params.FirstName,
			LastName:     params.LastName,
			Email:        params.Email,
			PasswordHash: hash,
			Role:         params.Role,
			TenantID:     params.TenantID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user created", "user_id", user.ID, "role", string(user.Role))
	return user, nil
}

// Update rewrites the mutable profile fields of an existing user.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*User, error) {
	if !params.Role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FirstName = params.FirstName
	user.LastName = params.LastName
	user.Email = params.Email
	user.Role = params.Role
	user.TenantID = params.TenantID

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user updated", "user_id", user.ID)
	return user, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]User, int64, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "user deleted", "user_id", id)
	return nil
}

// CredentialByEmail lets the session issuer treat this service as its
// credential source.
func (s *Service) CredentialByEmail(ctx context.Context, email string) (*auth.Credential, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &auth.Credential{
		Principal:    auth.Principal{ID: user.ID, Role: user.Role},
		PasswordHash: user.PasswordHash,
	}, nil
}
