package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	KYCStatusUnsubmitted = "unsubmitted"
	KYCStatusPending     = "pending"
	KYCStatusApproved    = "approved"
	KYCStatusRejected    = "rejected"
)

const (
	DocumentAadhaarFront = "aadhaar_front"
	DocumentAadhaarBack  = "aadhaar_back"
	DocumentPANCard      = "pan_card"
	DocumentPassport     = "passport"
	DocumentBankPassbook = "bank_passbook"
	DocumentKYCGeneric   = "kyc_document"
	DocumentProfileImage = "profile_image"
)

func ValidDocumentKind(kind string) bool {
	switch kind {
	case DocumentAadhaarFront, DocumentAadhaarBack, DocumentPANCard,
		DocumentPassport, DocumentBankPassbook, DocumentKYCGeneric, DocumentProfileImage:
		return true
	}
	return false
}

// Profile holds the trading-account details kept alongside the auth record:
// KYC identity fields, payout bank details, uploaded document URLs, and the
// running balance totals maintained by fund-request processing.
type Profile struct {
	UserID            uuid.UUID `db:"user_id" json:"user_id"`
	FullName          *string   `db:"full_name" json:"full_name,omitempty"`
	FatherName        *string   `db:"father_name" json:"father_name,omitempty"`
	MotherName        *string   `db:"mother_name" json:"mother_name,omitempty"`
	NomineeName       *string   `db:"nominee_name" json:"nominee_name,omitempty"`
	Phone             *string   `db:"phone" json:"phone,omitempty"`
	Aadhaar           *string   `db:"aadhaar" json:"aadhaar,omitempty"`
	PAN               *string   `db:"pan" json:"pan,omitempty"`
	AccountHolderName *string   `db:"account_holder_name" json:"account_holder_name,omitempty"`
	AccountNumber     *string   `db:"account_number" json:"account_number,omitempty"`
	IFSCCode          *string   `db:"ifsc_code" json:"ifsc_code,omitempty"`
	UPIID             *string   `db:"upi_id" json:"upi_id,omitempty"`
	AadhaarFrontURL   *string   `db:"aadhaar_front_url" json:"aadhaar_front_url,omitempty"`
	AadhaarBackURL    *string   `db:"aadhaar_back_url" json:"aadhaar_back_url,omitempty"`
	PANCardURL        *string   `db:"pan_card_url" json:"pan_card_url,omitempty"`
	PassportURL       *string   `db:"passport_url" json:"passport_url,omitempty"`
	BankPassbookURL   *string   `db:"bank_passbook_url" json:"bank_passbook_url,omitempty"`
	KYCDocumentURL    *string   `db:"kyc_document_url" json:"kyc_document_url,omitempty"`
	ProfileImageURL   *string   `db:"profile_image_url" json:"profile_image_url,omitempty"`
	KYCStatus         string    `db:"kyc_status" json:"kyc_status"`
	CurrentBalance    float64   `db:"current_balance" json:"current_balance"`
	TotalDeposited    float64   `db:"total_deposited" json:"total_deposited"`
	TotalWithdrawn    float64   `db:"total_withdrawn" json:"total_withdrawn"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
