package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tradevault/tradevault-api/internal/domain"
	"github.com/tradevault/tradevault-api/internal/util"
)

type fakeResetRepo struct {
	createdEmail  string
	createdHash   []byte
	createdExpiry time.Time
	createErr     error

	latestInput  string
	latestResult *domain.PasswordReset
	latestErr    error

	consumeInput  int64
	consumeCalls  int
	consumeResult bool
	consumeErr    error
}

func (f *fakeResetRepo) Create(ctx context.Context, email string, otpHash []byte, expiresAt time.Time) (*domain.PasswordReset, error) {
	f.createdEmail = email
	f.createdHash = append([]byte(nil), otpHash...)
	f.createdExpiry = expiresAt
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.PasswordReset{ID: 1, Email: email, OTPHash: otpHash, ExpiresAt: expiresAt}, nil
}

func (f *fakeResetRepo) FindLatestUnused(ctx context.Context, email string) (*domain.PasswordReset, error) {
	f.latestInput = email
	return f.latestResult, f.latestErr
}

func (f *fakeResetRepo) Consume(ctx context.Context, id int64) (bool, error) {
	f.consumeCalls++
	f.consumeInput = id
	return f.consumeResult, f.consumeErr
}

type fakeResetMailer struct {
	to      string
	otp     string
	sendErr error
}

func (f *fakeResetMailer) SendResetOTP(ctx context.Context, to, otp string) error {
	f.to = to
	f.otp = otp
	return f.sendErr
}

func hashOTP(t *testing.T, otp string) []byte {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash otp: %v", err)
	}
	return hash
}

func TestRequestStoresHashedOTPAndMails(t *testing.T) {
	resets := &fakeResetRepo{}
	mailer := &fakeResetMailer{}
	svc := NewPasswordResetService(resets, &fakeUserRepo{}, mailer, 10*time.Minute)

	before := time.Now()
	if err := svc.Request(context.Background(), "  Trader@Example.com "); err != nil {
		t.Fatalf("Request returned error: %v", err)
	}

	if resets.createdEmail != "trader@example.com" {
		t.Fatalf("expected normalized email, got %q", resets.createdEmail)
	}
	if mailer.to != "trader@example.com" {
		t.Fatalf("expected mail to normalized address, got %q", mailer.to)
	}

	code, err := strconv.Atoi(mailer.otp)
	if err != nil || code < 100000 || code > 999999 {
		t.Fatalf("expected six-digit code, got %q", mailer.otp)
	}
	if bcrypt.CompareHashAndPassword(resets.createdHash, []byte(mailer.otp)) != nil {
		t.Fatalf("stored hash does not match mailed code")
	}

	wantExpiry := before.Add(10 * time.Minute)
	if resets.createdExpiry.Before(wantExpiry.Add(-time.Minute)) || resets.createdExpiry.After(wantExpiry.Add(time.Minute)) {
		t.Fatalf("expected expiry near %v, got %v", wantExpiry, resets.createdExpiry)
	}
}

func TestRequestSucceedsForUnknownEmail(t *testing.T) {
	// Issuance never consults the accounts table, so there is nothing to
	// distinguish a registered address from an unknown one.
	resets := &fakeResetRepo{}
	mailer := &fakeResetMailer{}
	users := &fakeUserRepo{findByEmailErr: sql.ErrNoRows}
	svc := NewPasswordResetService(resets, users, mailer, 10*time.Minute)

	if err := svc.Request(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("Request returned error: %v", err)
	}
	if users.findByEmailInput != "" {
		t.Fatalf("expected no account lookup during issuance")
	}
	if mailer.otp == "" {
		t.Fatalf("expected code mailed regardless of account existence")
	}
}

func TestRequestPropagatesMailerFailure(t *testing.T) {
	resets := &fakeResetRepo{}
	mailer := &fakeResetMailer{sendErr: errors.New("smtp down")}
	svc := NewPasswordResetService(resets, &fakeUserRepo{}, mailer, 10*time.Minute)

	if err := svc.Request(context.Background(), "trader@example.com"); err == nil {
		t.Fatalf("expected error when mail delivery fails")
	}
}

func TestConfirmUpdatesPasswordAndConsumes(t *testing.T) {
	userID := uuid.New()
	resets := &fakeResetRepo{
		latestResult: &domain.PasswordReset{
			ID:        7,
			Email:     "trader@example.com",
			OTPHash:   hashOTP(t, "123456"),
			ExpiresAt: time.Now().Add(5 * time.Minute),
		},
		consumeResult: true,
	}
	users := &fakeUserRepo{findByEmailResult: &domain.User{ID: userID, Email: "trader@example.com"}}
	svc := NewPasswordResetService(resets, users, &fakeResetMailer{}, 10*time.Minute)

	if err := svc.Confirm(context.Background(), "Trader@Example.com", "123456", "brand new password"); err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}

	if resets.latestInput != "trader@example.com" {
		t.Fatalf("expected normalized lookup, got %q", resets.latestInput)
	}
	if resets.consumeCalls != 1 || resets.consumeInput != 7 {
		t.Fatalf("expected record 7 consumed once")
	}
	if users.updatePasswordCalls != 1 || users.updatePasswordID != userID {
		t.Fatalf("expected password updated for account")
	}
	if !util.VerifyPassword("brand new password", users.updatePasswordSalt, users.updatePasswordHash) {
		t.Fatalf("expected stored hash to match new password")
	}
}

func TestConfirmWrongCodeLeavesRecordUntouched(t *testing.T) {
	resets := &fakeResetRepo{
		latestResult: &domain.PasswordReset{
			ID:        7,
			OTPHash:   hashOTP(t, "123456"),
			ExpiresAt: time.Now().Add(5 * time.Minute),
		},
	}
	users := &fakeUserRepo{}
	svc := NewPasswordResetService(resets, users, &fakeResetMailer{}, 10*time.Minute)

	if err := svc.Confirm(context.Background(), "trader@example.com", "654321", "brand new password"); !errors.Is(err, ErrResetOTPInvalid) {
		t.Fatalf("expected ErrResetOTPInvalid, got %v", err)
	}
	if resets.consumeCalls != 0 {
		t.Fatalf("expected record not consumed on wrong code")
	}
	if users.updatePasswordCalls != 0 {
		t.Fatalf("expected no password change on wrong code")
	}
}

func TestConfirmExpiredCode(t *testing.T) {
	resets := &fakeResetRepo{
		latestResult: &domain.PasswordReset{
			ID:        7,
			OTPHash:   hashOTP(t, "123456"),
			ExpiresAt: time.Now().Add(-time.Minute),
		},
	}
	users := &fakeUserRepo{}
	svc := NewPasswordResetService(resets, users, &fakeResetMailer{}, 10*time.Minute)

	if err := svc.Confirm(context.Background(), "trader@example.com", "123456", "brand new password"); !errors.Is(err, ErrResetOTPExpired) {
		t.Fatalf("expected ErrResetOTPExpired, got %v", err)
	}
	if resets.consumeCalls != 0 {
		t.Fatalf("expected expired record left unused")
	}
	if users.updatePasswordCalls != 0 {
		t.Fatalf("expected no password change for expired code")
	}
}

func TestConfirmNoIssuedCode(t *testing.T) {
	resets := &fakeResetRepo{latestErr: sql.ErrNoRows}
	svc := NewPasswordResetService(resets, &fakeUserRepo{}, &fakeResetMailer{}, 10*time.Minute)

	if err := svc.Confirm(context.Background(), "trader@example.com", "123456", "brand new password"); !errors.Is(err, ErrResetOTPInvalid) {
		t.Fatalf("expected ErrResetOTPInvalid, got %v", err)
	}
}

func TestConfirmLostConsumeRace(t *testing.T) {
	resets := &fakeResetRepo{
		latestResult: &domain.PasswordReset{
			ID:        7,
			OTPHash:   hashOTP(t, "123456"),
			ExpiresAt: time.Now().Add(5 * time.Minute),
		},
		consumeResult: false,
	}
	users := &fakeUserRepo{}
	svc := NewPasswordResetService(resets, users, &fakeResetMailer{}, 10*time.Minute)

	if err := svc.Confirm(context.Background(), "trader@example.com", "123456", "brand new password"); !errors.Is(err, ErrResetOTPInvalid) {
		t.Fatalf("expected ErrResetOTPInvalid when consume is lost, got %v", err)
	}
	if users.updatePasswordCalls != 0 {
		t.Fatalf("expected no password change when another request consumed the code")
	}
}

func TestConfirmConsumeFailureAbortsPasswordChange(t *testing.T) {
	resets := &fakeResetRepo{
		latestResult: &domain.PasswordReset{
			ID:        7,
			OTPHash:   hashOTP(t, "123456"),
			ExpiresAt: time.Now().Add(5 * time.Minute),
		},
		consumeErr: errors.New("connection reset"),
	}
	users := &fakeUserRepo{}
	svc := NewPasswordResetService(resets, users, &fakeResetMailer{}, 10*time.Minute)

	err := svc.Confirm(context.Background(), "trader@example.com", "123456", "brand new password")
	if err == nil || errors.Is(err, ErrResetOTPInvalid) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if users.updatePasswordCalls != 0 {
		t.Fatalf("expected password change aborted when consume fails")
	}
}

func TestConfirmUnknownAccountAfterConsume(t *testing.T) {
	// A valid code for an email with no account consumes the record but
	// reports the same generic failure as a wrong code.
	resets := &fakeResetRepo{
		latestResult: &domain.PasswordReset{
			ID:        7,
			OTPHash:   hashOTP(t, "123456"),
			ExpiresAt: time.Now().Add(5 * time.Minute),
		},
		consumeResult: true,
	}
	users := &fakeUserRepo{findByEmailErr: sql.ErrNoRows}
	svc := NewPasswordResetService(resets, users, &fakeResetMailer{}, 10*time.Minute)

	if err := svc.Confirm(context.Background(), "ghost@example.com", "123456", "brand new password"); !errors.Is(err, ErrResetOTPInvalid) {
		t.Fatalf("expected ErrResetOTPInvalid for unknown account, got %v", err)
	}
	if resets.consumeCalls != 1 {
		t.Fatalf("expected record consumed before account lookup")
	}
}

func TestConfirmShortPasswordCheckedFirst(t *testing.T) {
	resets := &fakeResetRepo{}
	svc := NewPasswordResetService(resets, &fakeUserRepo{}, &fakeResetMailer{}, 10*time.Minute)

	if err := svc.Confirm(context.Background(), "trader@example.com", "123456", "short"); !errors.Is(err, util.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if resets.latestInput != "" {
		t.Fatalf("expected no store access before password validation")
	}
}
