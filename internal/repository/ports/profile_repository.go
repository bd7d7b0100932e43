package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/tradevault/tradevault-api/internal/domain"
)

type ProfileUpdate struct {
	FullName          *string
	FatherName        *string
	MotherName        *string
	NomineeName       *string
	Phone             *string
	Aadhaar           *string
	PAN               *string
	AccountHolderName *string
	AccountNumber     *string
	IFSCCode          *string
	UPIID             *string
}

type ProfileRepository interface {
	// Ensure creates an empty profile row for the user if none exists and
	// returns the current row either way.
	Ensure(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*domain.Profile, error)
	SetDocumentURL(ctx context.Context, userID uuid.UUID, column string, url string) error
	SetKYCStatus(ctx context.Context, userID uuid.UUID, status string) error
	ListByKYCStatus(ctx context.Context, status string, limit, offset int) ([]domain.Profile, error)
	CountByKYCStatus(ctx context.Context, status string) (int64, error)
	Count(ctx context.Context) (int64, error)
}
