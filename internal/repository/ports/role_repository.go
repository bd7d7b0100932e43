package ports

import (
	"context"

	"github.com/google/uuid"
)

type RoleRepository interface {
	// Assign replaces any existing role row for the user.
	Assign(ctx context.Context, userID uuid.UUID, role string) error
	FindByUser(ctx context.Context, userID uuid.UUID) (string, error)
}
