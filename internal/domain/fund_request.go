package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	FundRequestDeposit  = "deposit"
	FundRequestWithdraw = "withdraw"

	FundRequestPending  = "pending"
	FundRequestApproved = "approved"
	FundRequestRejected = "rejected"
)

type FundRequest struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	UserID               uuid.UUID  `db:"user_id" json:"user_id"`
	RequestType          string     `db:"request_type" json:"request_type"`
	Amount               float64    `db:"amount" json:"amount"`
	PaymentMethod        *string    `db:"payment_method" json:"payment_method,omitempty"`
	TransactionReference *string    `db:"transaction_reference" json:"transaction_reference,omitempty"`
	ScreenshotURL        *string    `db:"screenshot_url" json:"screenshot_url,omitempty"`
	Status               string     `db:"status" json:"status"`
	AdminNotes           *string    `db:"admin_notes" json:"admin_notes,omitempty"`
	ProcessedBy          *uuid.UUID `db:"processed_by" json:"processed_by,omitempty"`
	ProcessedAt          *time.Time `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
}

// FundRequestListItem joins the requester's profile name and phone for the
// admin review screens.
type FundRequestListItem struct {
	FundRequest
	RequesterName  *string `db:"requester_name" json:"requester_name,omitempty"`
	RequesterPhone *string `db:"requester_phone" json:"requester_phone,omitempty"`
}
