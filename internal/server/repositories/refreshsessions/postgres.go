package refreshsessions

import (
	"context"
	"fmt"
	"time"

	"github.com/taskvault/taskvault/internal/common"
	"github.com/taskvault/taskvault/internal/dbx"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID, tokenID string, validity time.Duration) error {
	query := `
		INSERT INTO refresh_sessions (user_id, token_id, expires_at, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id)
		DO UPDATE SET token_id = EXCLUDED.token_id, expires_at = EXCLUDED.expires_at, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, tokenID, time.Now().Add(validity)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Rotate relies on the row-level atomicity of a single conditional UPDATE:
// two concurrent refresh calls presenting the same token race on this
// statement and exactly one observes a matching token_id.
func (r *PostgresRepository) Rotate(ctx context.Context, userID, oldTokenID, newTokenID string, validity time.Duration) error {
	query := `
		UPDATE refresh_sessions
		SET token_id = $3, expires_at = $4, updated_at = now()
		WHERE user_id = $1 AND token_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, oldTokenID, newTokenID, time.Now().Add(validity))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	query := `
		DELETE FROM refresh_sessions
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
