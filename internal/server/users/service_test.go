package users

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dkrasnovs/tenauth/internal/common"
	"github.com/dkrasnovs/tenauth/internal/logging"
	"github.com/dkrasnovs/tenauth/internal/server/auth"
)

type fakeRepo struct {
	mu      sync.Mutex
	byID    map[string]*User
	byEmail map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]*User), byEmail: make(map[string]*User)}
}

func (f *fakeRepo) Create(ctx context.Context, user *User) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[user.Email]; ok {
		return nil, ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return user, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return user, nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []User
	for _, u := range f.byID {
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

func (f *fakeRepo) Update(ctx context.Context, user *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; !ok {
		return common.ErrNotFound
	}
	f.byID[user.ID] = user
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	delete(f.byEmail, user.Email)
	delete(f.byID, id)
	return nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewService(repo, nil, auth.DefaultBcryptCost, logger), repo
}

func TestServiceCreate_HashesPassword(t *testing.T) {
	service, _ := newTestService()

	user, err := service.Create(context.Background(), CreateParams{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  "Secret123",
		Role:      auth.RoleCustomer,
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEqual(t, "Secret123", user.PasswordHash)

	ok, err := auth.VerifyPassword("Secret123", user.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestServiceCreate_RunsInTxScope(t *testing.T) {
	repo := newFakeRepo()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	var scopeCalls int
	inTx := func(ctx context.Context, fn func(Repository) error) error {
		scopeCalls++
		return fn(repo)
	}
	service := NewService(repo, inTx, auth.DefaultBcryptCost, logger)

	_, err := service.Create(context.Background(), CreateParams{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  "Secret123",
		Role:      auth.RoleCustomer,
	})
	require.NoError(t, err)
	require.Equal(t, 1, scopeCalls, "existence check and insert must share one transaction")

	// Reads outside Create stay off the transactional scope.
	_, err = service.FindByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, scopeCalls)
}

func TestServiceCreate_DuplicateEmail(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	params := CreateParams{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  "Secret123",
		Role:      auth.RoleCustomer,
	}
	_, err := service.Create(ctx, params)
	require.NoError(t, err)

	_, err = service.Create(ctx, params)
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestServiceCreate_InvalidRole(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), CreateParams{
		Email:    "jane@example.com",
		Password: "Secret123",
		Role:     auth.Role("superuser"),
	})
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestServiceUpdate(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, CreateParams{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  "Secret123",
		Role:      auth.RoleCustomer,
	})
	require.NoError(t, err)

	tenantID := "tenant-1"
	updated, err := service.Update(ctx, created.ID, UpdateParams{
		FirstName: "Janet",
		LastName:  "Doe",
		Email:     "janet@example.com",
		Role:      auth.RoleManager,
		TenantID:  &tenantID,
	})
	require.NoError(t, err)
	require.Equal(t, "Janet", updated.FirstName)
	require.Equal(t, auth.RoleManager, updated.Role)
	require.Equal(t, &tenantID, updated.TenantID)

	// The password hash survives a profile update untouched.
	require.Equal(t, created.PasswordHash, updated.PasswordHash)
}

func TestServiceUpdate_NotFound(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Update(context.Background(), "missing", UpdateParams{
		Email: "jane@example.com",
		Role:  auth.RoleCustomer,
	})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestServiceCredentialByEmail(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, CreateParams{
		Email:    "jane@example.com",
		Password: "Secret123",
		Role:     auth.RoleManager,
	})
	require.NoError(t, err)

	cred, err := service.CredentialByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, cred.Principal.ID)
	require.Equal(t, auth.RoleManager, cred.Principal.Role)
	require.Equal(t, created.PasswordHash, cred.PasswordHash)

	_, err = service.CredentialByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestServiceDelete(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, CreateParams{
		Email:    "jane@example.com",
		Password: "Secret123",
		Role:     auth.RoleCustomer,
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.ID))
	_, err = service.FindByID(ctx, created.ID)
	require.ErrorIs(t, err, common.ErrNotFound)

	require.ErrorIs(t, service.Delete(ctx, created.ID), common.ErrNotFound)
}
