package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/tradevault/tradevault-api/internal/domain"
	"github.com/tradevault/tradevault-api/internal/media"
	"github.com/tradevault/tradevault-api/internal/repository/ports"
)

var (
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrInsufficientBalance    = errors.New("insufficient balance for this withdrawal")
	ErrFundRequestNotFound    = errors.New("fund request not found")
	ErrFundRequestProcessed   = errors.New("fund request has already been processed")
	ErrInvalidFundDecision    = errors.New("decision must be approved or rejected")
	ErrInvalidFundRequestType = errors.New("request type must be deposit or withdraw")
)

// FundService handles deposit and withdrawal requests and their admin
// settlement. Approval and the balance adjustment happen atomically in the
// repository so concurrent settlements cannot double-apply.
type FundService struct {
	requests      ports.FundRequestRepository
	profiles      ports.ProfileRepository
	storage       ports.ObjectStorage
	bucket        string
	maxImageBytes int64
}

func NewFundService(requests ports.FundRequestRepository, profiles ports.ProfileRepository, storage ports.ObjectStorage, bucket string, maxImageBytes int64) *FundService {
	return &FundService{requests: requests, profiles: profiles, storage: storage, bucket: bucket, maxImageBytes: maxImageBytes}
}

// RequestDeposit records a pending deposit, storing the payment screenshot
// when one is attached.
func (s *FundService) RequestDeposit(ctx context.Context, userID uuid.UUID, amount float64, paymentMethod, transactionReference *string, screenshot *media.Upload) (*domain.FundRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var screenshotURL *string
	if screenshot != nil {
		validated, err := media.ValidateImage(*screenshot, s.maxImageBytes, media.DefaultMaxDimension)
		if err != nil {
			return nil, err
		}
		objectName := fmt.Sprintf("%s/deposit-%d%s", userID, time.Now().UnixNano(), path.Ext(screenshot.FileName))
		url, err := s.storage.Upload(ctx, s.bucket, objectName, validated.ContentType,
			bytes.NewReader(validated.Bytes), int64(len(validated.Bytes)))
		if err != nil {
			return nil, fmt.Errorf("upload screenshot: %w", err)
		}
		screenshotURL = &url
	}

	return s.requests.Create(ctx, ports.NewFundRequest{
		UserID:               userID,
		RequestType:          domain.FundRequestDeposit,
		Amount:               amount,
		PaymentMethod:        paymentMethod,
		TransactionReference: transactionReference,
		ScreenshotURL:        screenshotURL,
	})
}

// RequestWithdrawal records a pending withdrawal. The balance is checked up
// front to reject obvious overdrafts early; the authoritative check happens
// again inside the approval transaction.
func (s *FundService) RequestWithdrawal(ctx context.Context, userID uuid.UUID, amount float64) (*domain.FundRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	profile, err := s.profiles.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.CurrentBalance < amount {
		return nil, ErrInsufficientBalance
	}
	return s.requests.Create(ctx, ports.NewFundRequest{
		UserID:      userID,
		RequestType: domain.FundRequestWithdraw,
		Amount:      amount,
	})
}

func (s *FundService) ListMine(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.FundRequest, error) {
	limit, offset = normalizePagination(limit, offset)
	return s.requests.ListByUser(ctx, userID, limit, offset)
}

func (s *FundService) List(ctx context.Context, requestType, status string, limit, offset int) ([]domain.FundRequestListItem, error) {
	if requestType != "" && requestType != domain.FundRequestDeposit && requestType != domain.FundRequestWithdraw {
		return nil, ErrInvalidFundRequestType
	}
	limit, offset = normalizePagination(limit, offset)
	filter := ports.FundRequestFilter{RequestType: requestType}
	if status != "" {
		filter.Statuses = []string{status}
	}
	return s.requests.List(ctx, filter, limit, offset)
}

// Process applies an admin decision to a pending request.
func (s *FundService) Process(ctx context.Context, id uuid.UUID, decision string, adminID uuid.UUID, notes *string) (*domain.FundRequest, error) {
	if decision != domain.FundRequestApproved && decision != domain.FundRequestRejected {
		return nil, ErrInvalidFundDecision
	}

	processed, err := s.requests.Process(ctx, id, decision, adminID, notes, time.Now())
	if err != nil {
		switch {
		case isNotFound(err):
			return nil, ErrFundRequestNotFound
		case errors.Is(err, ports.ErrInsufficientBalance):
			return nil, ErrInsufficientBalance
		default:
			return nil, err
		}
	}
	if !processed {
		return nil, ErrFundRequestProcessed
	}
	return s.requests.FindByID(ctx, id)
}
