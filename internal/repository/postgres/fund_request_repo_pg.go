package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tradevault/tradevault-api/internal/domain"
	"github.com/tradevault/tradevault-api/internal/repository/ports"
)

type FundRequestRepository struct {
	db *sqlx.DB
}

func NewFundRequestRepo(db *sqlx.DB) *FundRequestRepository {
	return &FundRequestRepository{db: db}
}

const fundRequestColumns = `id, user_id, request_type, amount, payment_method,
        transaction_reference, screenshot_url, status, admin_notes,
        processed_by, processed_at, created_at`

func (r *FundRequestRepository) Create(ctx context.Context, request ports.NewFundRequest) (*domain.FundRequest, error) {
	const query = `
        INSERT INTO fund_requests (user_id, request_type, amount, payment_method, transaction_reference, screenshot_url)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + fundRequestColumns + `
    `
	row := r.db.QueryRowxContext(ctx, query, request.UserID, request.RequestType, request.Amount,
		request.PaymentMethod, request.TransactionReference, request.ScreenshotURL)
	var created domain.FundRequest
	if err := row.StructScan(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *FundRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.FundRequest, error) {
	const query = `
        SELECT ` + fundRequestColumns + `
        FROM fund_requests
        WHERE id = $1
    `
	var request domain.FundRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *FundRequestRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.FundRequest, error) {
	const query = `
        SELECT ` + fundRequestColumns + `
        FROM fund_requests
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	requests := []domain.FundRequest{}
	if err := r.db.SelectContext(ctx, &requests, query, userID, limit, offset); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *FundRequestRepository) List(ctx context.Context, filter ports.FundRequestFilter, limit, offset int) ([]domain.FundRequestListItem, error) {
	const query = `
        SELECT f.id, f.user_id, f.request_type, f.amount, f.payment_method,
               f.transaction_reference, f.screenshot_url, f.status, f.admin_notes,
               f.processed_by, f.processed_at, f.created_at,
               p.full_name AS requester_name, p.phone AS requester_phone
        FROM fund_requests f
        LEFT JOIN user_profiles p ON p.user_id = f.user_id
        WHERE ($1 = '' OR f.request_type = $1)
          AND (cardinality($2::text[]) = 0 OR f.status = ANY($2))
        ORDER BY f.created_at DESC
        LIMIT $3 OFFSET $4
    `
	statuses := filter.Statuses
	if statuses == nil {
		statuses = []string{}
	}
	items := []domain.FundRequestListItem{}
	if err := r.db.SelectContext(ctx, &items, query, filter.RequestType, pq.Array(statuses), limit, offset); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *FundRequestRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM fund_requests WHERE status = $1`, status); err != nil {
		return 0, err
	}
	return count, nil
}

// Process settles a pending request inside one transaction. The request row is
// locked FOR UPDATE so two admins cannot both approve it, and an approved
// withdrawal is rejected when it would overdraw the profile balance.
func (r *FundRequestRepository) Process(ctx context.Context, id uuid.UUID, status string, adminID uuid.UUID, notes *string, processedAt time.Time) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var request domain.FundRequest
	const lockQuery = `
        SELECT ` + fundRequestColumns + `
        FROM fund_requests
        WHERE id = $1
        FOR UPDATE
    `
	if err := tx.GetContext(ctx, &request, lockQuery, id); err != nil {
		return false, err
	}
	if request.Status != domain.FundRequestPending {
		return false, nil
	}

	const settleQuery = `
        UPDATE fund_requests
        SET status = $2,
            admin_notes = COALESCE($3, admin_notes),
            processed_by = $4,
            processed_at = $5
        WHERE id = $1
    `
	if _, err := tx.ExecContext(ctx, settleQuery, id, status, notes, adminID, processedAt); err != nil {
		return false, err
	}

	if status == domain.FundRequestApproved {
		if err := applyBalance(ctx, tx, &request); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func applyBalance(ctx context.Context, tx *sqlx.Tx, request *domain.FundRequest) error {
	switch request.RequestType {
	case domain.FundRequestDeposit:
		const query = `
            UPDATE user_profiles
            SET current_balance = current_balance + $2,
                total_deposited = total_deposited + $2,
                updated_at = NOW()
            WHERE user_id = $1
        `
		_, err := tx.ExecContext(ctx, query, request.UserID, request.Amount)
		return err
	case domain.FundRequestWithdraw:
		const query = `
            UPDATE user_profiles
            SET current_balance = current_balance - $2,
                total_withdrawn = total_withdrawn + $2,
                updated_at = NOW()
            WHERE user_id = $1 AND current_balance >= $2
        `
		result, err := tx.ExecContext(ctx, query, request.UserID, request.Amount)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ports.ErrInsufficientBalance
		}
		return nil
	}
	return nil
}
