package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tradevault/tradevault-api/internal/domain"
	"github.com/tradevault/tradevault-api/internal/repository/ports"
)

type fakeFundRequestRepo struct {
	createInput  ports.NewFundRequest
	createResult *domain.FundRequest
	createErr    error

	findResult *domain.FundRequest
	findErr    error

	listByUserResult []domain.FundRequest

	listFilter ports.FundRequestFilter
	listResult []domain.FundRequestListItem

	countResult int64

	processID      uuid.UUID
	processStatus  string
	processAdminID uuid.UUID
	processNotes   *string
	processCalls   int
	processResult  bool
	processErr     error
}

func (f *fakeFundRequestRepo) Create(ctx context.Context, request ports.NewFundRequest) (*domain.FundRequest, error) {
	f.createInput = request
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResult != nil {
		return f.createResult, nil
	}
	return &domain.FundRequest{
		ID:          uuid.New(),
		UserID:      request.UserID,
		RequestType: request.RequestType,
		Amount:      request.Amount,
		Status:      domain.FundRequestPending,
	}, nil
}

func (f *fakeFundRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.FundRequest, error) {
	return f.findResult, f.findErr
}

func (f *fakeFundRequestRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.FundRequest, error) {
	return append([]domain.FundRequest(nil), f.listByUserResult...), nil
}

func (f *fakeFundRequestRepo) List(ctx context.Context, filter ports.FundRequestFilter, limit, offset int) ([]domain.FundRequestListItem, error) {
	f.listFilter = filter
	return append([]domain.FundRequestListItem(nil), f.listResult...), nil
}

func (f *fakeFundRequestRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	return f.countResult, nil
}

func (f *fakeFundRequestRepo) Process(ctx context.Context, id uuid.UUID, status string, adminID uuid.UUID, notes *string, processedAt time.Time) (bool, error) {
	f.processCalls++
	f.processID = id
	f.processStatus = status
	f.processAdminID = adminID
	f.processNotes = notes
	return f.processResult, f.processErr
}

type fakeObjectStorage struct {
	bucket      string
	objectName  string
	contentType string
	size        int64
	uploadURL   string
	uploadErr   error
}

func (f *fakeObjectStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	f.bucket = bucket
	f.objectName = objectName
	f.contentType = contentType
	f.size = size
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	return f.uploadURL, nil
}

func newTestFundService(requests *fakeFundRequestRepo, profiles *fakeProfileRepo) *FundService {
	return NewFundService(requests, profiles, &fakeObjectStorage{uploadURL: "http://minio/receipts/x.png"}, "receipts", 0)
}

func TestRequestDepositWithoutScreenshot(t *testing.T) {
	requests := &fakeFundRequestRepo{}
	svc := newTestFundService(requests, &fakeProfileRepo{})

	userID := uuid.New()
	method := "UPI"
	request, err := svc.RequestDeposit(context.Background(), userID, 5000, &method, nil, nil)
	if err != nil {
		t.Fatalf("RequestDeposit returned error: %v", err)
	}
	if request.Status != domain.FundRequestPending {
		t.Fatalf("expected pending status, got %q", request.Status)
	}
	if requests.createInput.RequestType != domain.FundRequestDeposit {
		t.Fatalf("expected deposit type, got %q", requests.createInput.RequestType)
	}
	if requests.createInput.ScreenshotURL != nil {
		t.Fatalf("expected no screenshot URL")
	}
}

func TestRequestDepositRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestFundService(&fakeFundRequestRepo{}, &fakeProfileRepo{})

	for _, amount := range []float64{0, -100} {
		if _, err := svc.RequestDeposit(context.Background(), uuid.New(), amount, nil, nil, nil); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount for %v, got %v", amount, err)
		}
	}
}

func TestRequestWithdrawalChecksBalance(t *testing.T) {
	profiles := &fakeProfileRepo{ensureResult: &domain.Profile{CurrentBalance: 1000}}
	requests := &fakeFundRequestRepo{}
	svc := newTestFundService(requests, profiles)

	if _, err := svc.RequestWithdrawal(context.Background(), uuid.New(), 1500); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if requests.createInput.RequestType != "" {
		t.Fatalf("expected no request recorded for overdraft")
	}

	request, err := svc.RequestWithdrawal(context.Background(), uuid.New(), 800)
	if err != nil {
		t.Fatalf("RequestWithdrawal returned error: %v", err)
	}
	if request.RequestType != domain.FundRequestWithdraw {
		t.Fatalf("expected withdraw type, got %q", request.RequestType)
	}
}

func TestListValidatesRequestType(t *testing.T) {
	requests := &fakeFundRequestRepo{}
	svc := newTestFundService(requests, &fakeProfileRepo{})

	if _, err := svc.List(context.Background(), "transfer", "", 20, 0); !errors.Is(err, ErrInvalidFundRequestType) {
		t.Fatalf("expected ErrInvalidFundRequestType, got %v", err)
	}

	if _, err := svc.List(context.Background(), domain.FundRequestDeposit, domain.FundRequestPending, 20, 0); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if requests.listFilter.RequestType != domain.FundRequestDeposit {
		t.Fatalf("expected type filter passed through")
	}
	if len(requests.listFilter.Statuses) != 1 || requests.listFilter.Statuses[0] != domain.FundRequestPending {
		t.Fatalf("expected status filter passed through, got %v", requests.listFilter.Statuses)
	}
}

func TestProcessApprovesRequest(t *testing.T) {
	requestID := uuid.New()
	adminID := uuid.New()
	requests := &fakeFundRequestRepo{
		processResult: true,
		findResult:    &domain.FundRequest{ID: requestID, Status: domain.FundRequestApproved},
	}
	svc := newTestFundService(requests, &fakeProfileRepo{})

	notes := "verified against bank statement"
	request, err := svc.Process(context.Background(), requestID, domain.FundRequestApproved, adminID, &notes)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if request.Status != domain.FundRequestApproved {
		t.Fatalf("expected approved request, got %q", request.Status)
	}
	if requests.processAdminID != adminID || requests.processNotes == nil || *requests.processNotes != notes {
		t.Fatalf("expected admin attribution recorded")
	}
}

func TestProcessRejectsBadDecision(t *testing.T) {
	requests := &fakeFundRequestRepo{}
	svc := newTestFundService(requests, &fakeProfileRepo{})

	if _, err := svc.Process(context.Background(), uuid.New(), "maybe", uuid.New(), nil); !errors.Is(err, ErrInvalidFundDecision) {
		t.Fatalf("expected ErrInvalidFundDecision, got %v", err)
	}
	if requests.processCalls != 0 {
		t.Fatalf("expected no settlement attempt for bad decision")
	}
}

func TestProcessAlreadySettled(t *testing.T) {
	requests := &fakeFundRequestRepo{processResult: false}
	svc := newTestFundService(requests, &fakeProfileRepo{})

	if _, err := svc.Process(context.Background(), uuid.New(), domain.FundRequestRejected, uuid.New(), nil); !errors.Is(err, ErrFundRequestProcessed) {
		t.Fatalf("expected ErrFundRequestProcessed, got %v", err)
	}
}

func TestProcessOverdrawingWithdrawal(t *testing.T) {
	requests := &fakeFundRequestRepo{processErr: ports.ErrInsufficientBalance}
	svc := newTestFundService(requests, &fakeProfileRepo{})

	if _, err := svc.Process(context.Background(), uuid.New(), domain.FundRequestApproved, uuid.New(), nil); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestProcessUnknownRequest(t *testing.T) {
	requests := &fakeFundRequestRepo{processErr: sql.ErrNoRows}
	svc := newTestFundService(requests, &fakeProfileRepo{})

	if _, err := svc.Process(context.Background(), uuid.New(), domain.FundRequestApproved, uuid.New(), nil); !errors.Is(err, ErrFundRequestNotFound) {
		t.Fatalf("expected ErrFundRequestNotFound, got %v", err)
	}
}
