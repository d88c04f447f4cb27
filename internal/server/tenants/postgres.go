package tenants

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkrasnovs/tenauth/internal/common"
	"github.com/dkrasnovs/tenauth/internal/dbx"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, tenant *Tenant) (*Tenant, error) {
	query := `
		INSERT INTO tenants (id, name, address)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`
	if tenant.ID == "" {
		tenant.ID = uuid.NewString()
	}
	err := r.db.QueryRowContext(ctx, query, tenant.ID, tenant.Name, tenant.Address).
		Scan(&tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return tenant, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Tenant, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`
	tenant := &Tenant{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&tenant.ID, &tenant.Name, &tenant.Address, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return tenant, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Tenant, int64, error) {
	var (
		clause string
		args   []any
	)
	if filter.Query != "" {
		clause = ` WHERE concat(name, ' ', address) ILIKE $1`
		args = append(args, "%"+filter.Query+"%")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM tenants`+clause, args...).
		Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error performing sql request: %w", err)
	}

	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)
	query := `SELECT id, name, address, created_at, updated_at FROM tenants` + clause +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []Tenant
	for rows.Next() {
		var t Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Address, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, tenant *Tenant) error {
	query := `
		UPDATE tenants
		SET name = $1, address = $2, updated_at = now()
		WHERE id = $3
	`
	res, err := r.db.ExecContext(ctx, query, tenant.Name, tenant.Address, tenant.ID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
