package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkrasnovs/tenauth/internal/common"
	"github.com/dkrasnovs/tenauth/internal/dbx"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, validity time.Duration) (*Token, error) {
	query := `
		INSERT INTO refresh_tokens (id, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`
	token := &Token{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(validity),
	}
	if err := r.db.QueryRowContext(ctx, query, token.ID, token.UserID, token.ExpiresAt).
		Scan(&token.CreatedAt, &token.UpdatedAt); err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return token, nil
}

func (r *PostgresRepository) FindActive(ctx context.Context, id, userID string) (*Token, error) {
	query := `
		SELECT id, user_id, expires_at, created_at, updated_at
		FROM refresh_tokens
		WHERE id = $1 AND user_id = $2 AND expires_at > now()
	`
	token := &Token{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&token.ID, &token.UserID, &token.ExpiresAt, &token.CreatedAt, &token.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return token, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteMatching(ctx context.Context, id, userID string) (bool, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("error performing sql request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error performing sql request: %w", err)
	}
	return affected > 0, nil
}
