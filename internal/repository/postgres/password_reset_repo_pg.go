package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tradevault/tradevault-api/internal/domain"
)

type PasswordResetRepository struct {
	db *sqlx.DB
}

func NewPasswordResetRepo(db *sqlx.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, email string, otpHash []byte, expiresAt time.Time) (*domain.PasswordReset, error) {
	const query = `
        INSERT INTO password_resets (email, otp_hash, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, email, otp_hash, expires_at, used, created_at
    `
	row := r.db.QueryRowxContext(ctx, query, email, otpHash, expiresAt)
	var reset domain.PasswordReset
	if err := row.StructScan(&reset); err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *PasswordResetRepository) FindLatestUnused(ctx context.Context, email string) (*domain.PasswordReset, error) {
	const query = `
        SELECT id, email, otp_hash, expires_at, used, created_at
        FROM password_resets
        WHERE email = $1 AND used = FALSE
        ORDER BY created_at DESC
        LIMIT 1
    `
	var reset domain.PasswordReset
	if err := r.db.GetContext(ctx, &reset, query, email); err != nil {
		return nil, err
	}
	return &reset, nil
}

// Consume is conditional on used = FALSE so that of two concurrent
// verifications only one can win the flip.
func (r *PasswordResetRepository) Consume(ctx context.Context, id int64) (bool, error) {
	const query = `
        UPDATE password_resets
        SET used = TRUE
        WHERE id = $1 AND used = FALSE
    `
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
