package ports

import (
	"context"
	"time"

	"github.com/tradevault/tradevault-api/internal/domain"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, email string, otpHash []byte, expiresAt time.Time) (*domain.PasswordReset, error)
	// FindLatestUnused returns the most recently created unused row for the
	// email, expired or not; expiry is the caller's concern.
	FindLatestUnused(ctx context.Context, email string) (*domain.PasswordReset, error)
	// Consume flips the used flag with an update conditional on used=false and
	// reports whether this call won the flip.
	Consume(ctx context.Context, id int64) (bool, error)
}
