// Package storage opens the PostgreSQL connection, applies migrations, and
// hands out the repositories built on top of it.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dkrasnovs/tenauth/internal/dbx"
	"github.com/dkrasnovs/tenauth/internal/server/migrations"
	"github.com/dkrasnovs/tenauth/internal/server/refreshtokens"
	"github.com/dkrasnovs/tenauth/internal/server/tenants"
	"github.com/dkrasnovs/tenauth/internal/server/users"
)

// Manager owns the *sql.DB and the repositories bound to it.
type Manager struct {
	db            *sql.DB
	users         users.Repository
	tenants       tenants.Repository
	refreshTokens refreshtokens.Repository
}

// NewPostgresManager opens the database, verifies connectivity, runs the
// embedded migrations, and constructs the repositories.
func NewPostgresManager(ctx context.Context, dsn string) (*Manager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := &Manager{
		db:            db,
		users:         users.NewPostgresRepository(db),
		tenants:       tenants.NewPostgresRepository(db),
		refreshTokens: refreshtokens.NewPostgresRepository(db),
	}

	if err := m.runMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return m, nil
}

func (m *Manager) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, m.db, ".")
}

func (m *Manager) Conn() *sql.DB { return m.db }

func (m *Manager) Users() users.Repository { return m.users }

// UsersTx returns a scope that runs its function against a user repository
// bound to one transaction, committing on success and rolling back on error.
func (m *Manager) UsersTx() users.TxScope {
	return func(ctx context.Context, fn func(users.Repository) error) error {
		return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return fn(users.NewPostgresRepository(tx))
		})
	}
}

func (m *Manager) Tenants() tenants.Repository { return m.tenants }

func (m *Manager) RefreshTokens() refreshtokens.Repository { return m.refreshTokens }

func (m *Manager) Close() error { return m.db.Close() }
