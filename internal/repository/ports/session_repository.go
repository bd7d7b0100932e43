package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tradevault/tradevault-api/internal/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error)
	FindActiveByToken(ctx context.Context, token string, now time.Time) (*domain.Session, error)
	Deactivate(ctx context.Context, token string) error
	DeactivateByUser(ctx context.Context, userID uuid.UUID) error
}
