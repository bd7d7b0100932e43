package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tradevault/tradevault-api/internal/domain"
	"github.com/tradevault/tradevault-api/internal/repository/ports"
)

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepo(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `user_id, full_name, father_name, mother_name, nominee_name, phone,
        aadhaar, pan, account_holder_name, account_number, ifsc_code, upi_id,
        aadhaar_front_url, aadhaar_back_url, pan_card_url, passport_url,
        bank_passbook_url, kyc_document_url, profile_image_url, kyc_status,
        current_balance, total_deposited, total_withdrawn, created_at, updated_at`

// documentColumns whitelists the URL columns SetDocumentURL may touch, keyed
// by the domain document kinds.
var documentColumns = map[string]string{
	domain.DocumentAadhaarFront: "aadhaar_front_url",
	domain.DocumentAadhaarBack:  "aadhaar_back_url",
	domain.DocumentPANCard:      "pan_card_url",
	domain.DocumentPassport:     "passport_url",
	domain.DocumentBankPassbook: "bank_passbook_url",
	domain.DocumentKYCGeneric:   "kyc_document_url",
	domain.DocumentProfileImage: "profile_image_url",
}

func (r *ProfileRepository) Ensure(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	const query = `
        INSERT INTO user_profiles (user_id)
        VALUES ($1)
        ON CONFLICT (user_id) DO UPDATE
        SET user_id = EXCLUDED.user_id
        RETURNING ` + profileColumns + `
    `
	row := r.db.QueryRowxContext(ctx, query, userID)
	var profile domain.Profile
	if err := row.StructScan(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	const query = `
        SELECT ` + profileColumns + `
        FROM user_profiles
        WHERE user_id = $1
    `
	var profile domain.Profile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, userID uuid.UUID, update ports.ProfileUpdate) (*domain.Profile, error) {
	const query = `
        UPDATE user_profiles
        SET full_name = COALESCE($2, full_name),
            father_name = COALESCE($3, father_name),
            mother_name = COALESCE($4, mother_name),
            nominee_name = COALESCE($5, nominee_name),
            phone = COALESCE($6, phone),
            aadhaar = COALESCE($7, aadhaar),
            pan = COALESCE($8, pan),
            account_holder_name = COALESCE($9, account_holder_name),
            account_number = COALESCE($10, account_number),
            ifsc_code = COALESCE($11, ifsc_code),
            upi_id = COALESCE($12, upi_id),
            updated_at = NOW()
        WHERE user_id = $1
        RETURNING ` + profileColumns + `
    `
	row := r.db.QueryRowxContext(ctx, query, userID,
		update.FullName, update.FatherName, update.MotherName, update.NomineeName,
		update.Phone, update.Aadhaar, update.PAN, update.AccountHolderName,
		update.AccountNumber, update.IFSCCode, update.UPIID)
	var profile domain.Profile
	if err := row.StructScan(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) SetDocumentURL(ctx context.Context, userID uuid.UUID, kind string, url string) error {
	column, ok := documentColumns[kind]
	if !ok {
		return fmt.Errorf("unknown document kind %q", kind)
	}
	query := fmt.Sprintf(`
        UPDATE user_profiles
        SET %s = $2,
            updated_at = NOW()
        WHERE user_id = $1
    `, column)
	_, err := r.db.ExecContext(ctx, query, userID, url)
	return err
}

func (r *ProfileRepository) SetKYCStatus(ctx context.Context, userID uuid.UUID, status string) error {
	const query = `
        UPDATE user_profiles
        SET kyc_status = $2,
            updated_at = NOW()
        WHERE user_id = $1
    `
	_, err := r.db.ExecContext(ctx, query, userID, status)
	return err
}

func (r *ProfileRepository) ListByKYCStatus(ctx context.Context, status string, limit, offset int) ([]domain.Profile, error) {
	const query = `
        SELECT ` + profileColumns + `
        FROM user_profiles
        WHERE kyc_status = $1
        ORDER BY updated_at DESC
        LIMIT $2 OFFSET $3
    `
	profiles := []domain.Profile{}
	if err := r.db.SelectContext(ctx, &profiles, query, status, limit, offset); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *ProfileRepository) CountByKYCStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM user_profiles WHERE kyc_status = $1`, status); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM user_profiles`); err != nil {
		return 0, err
	}
	return count, nil
}
