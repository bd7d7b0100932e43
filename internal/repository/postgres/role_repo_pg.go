package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type RoleRepository struct {
	db *sqlx.DB
}

func NewRoleRepo(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Assign(ctx context.Context, userID uuid.UUID, role string) error {
	const query = `
        INSERT INTO user_roles (user_id, role)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE
        SET role = EXCLUDED.role
    `
	_, err := r.db.ExecContext(ctx, query, userID, role)
	return err
}

func (r *RoleRepository) FindByUser(ctx context.Context, userID uuid.UUID) (string, error) {
	const query = `
        SELECT role
        FROM user_roles
        WHERE user_id = $1
    `
	var role string
	if err := r.db.GetContext(ctx, &role, query, userID); err != nil {
		return "", err
	}
	return role, nil
}
