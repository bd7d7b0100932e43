package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tradevault/tradevault-api/internal/repository/ports"
	"github.com/tradevault/tradevault-api/internal/util"
)

var (
	// ErrResetOTPInvalid deliberately covers wrong code, no issued code, a
	// lost consume race, and an email with no account, so the endpoint never
	// reveals which of those happened.
	ErrResetOTPInvalid = errors.New("OTP invalid or expired")
	ErrResetOTPExpired = errors.New("OTP expired")
)

const otpHashCost = 10 // bcrypt work factor

// ResetMailer is the outbound side of the reset flow.
type ResetMailer interface {
	SendResetOTP(ctx context.Context, to, otp string) error
}

// PasswordResetService issues and verifies one-time password-reset codes.
// Issuance never checks whether the email has an account; verification
// considers only the most recently issued unused code.
type PasswordResetService struct {
	resets ports.PasswordResetRepository
	users  ports.UserRepository
	mailer ResetMailer
	ttl    time.Duration
}

func NewPasswordResetService(resets ports.PasswordResetRepository, users ports.UserRepository, mailer ResetMailer, ttl time.Duration) *PasswordResetService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &PasswordResetService{resets: resets, users: users, mailer: mailer, ttl: ttl}
}

// Request generates a code, stores its bcrypt hash, and emails the plaintext
// code. It succeeds whether or not the email belongs to an account.
func (s *PasswordResetService) Request(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	otp, err := util.GenerateResetOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	otpHash, err := bcrypt.GenerateFromPassword([]byte(otp), otpHashCost)
	if err != nil {
		return fmt.Errorf("hash otp: %w", err)
	}

	expiresAt := time.Now().Add(s.ttl)
	if _, err := s.resets.Create(ctx, email, otpHash, expiresAt); err != nil {
		return fmt.Errorf("store reset record: %w", err)
	}

	if err := s.mailer.SendResetOTP(ctx, email, otp); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// Confirm verifies the submitted code against the latest unused record and,
// on success, sets the account's password. The record is consumed with a
// conditional update before the password changes; if the consume is lost to a
// concurrent request, no password change happens.
func (s *PasswordResetService) Confirm(ctx context.Context, email, otp, newPassword string) error {
	if err := util.ValidatePassword(newPassword); err != nil {
		return err
	}
	email = normalizeEmail(email)

	reset, err := s.resets.FindLatestUnused(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return ErrResetOTPInvalid
		}
		return fmt.Errorf("load reset record: %w", err)
	}

	// Expired codes fail without being consumed; the row stays unused until
	// external cleanup removes it.
	if reset.Expired(time.Now()) {
		return ErrResetOTPExpired
	}

	if bcrypt.CompareHashAndPassword(reset.OTPHash, []byte(otp)) != nil {
		return ErrResetOTPInvalid
	}

	consumed, err := s.resets.Consume(ctx, reset.ID)
	if err != nil {
		return fmt.Errorf("consume reset record: %w", err)
	}
	if !consumed {
		return ErrResetOTPInvalid
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return ErrResetOTPInvalid
		}
		return fmt.Errorf("resolve account: %w", err)
	}

	passwordHash, passwordSalt, err := util.DerivePassword(newPassword)
	if err != nil {
		return fmt.Errorf("derive password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash, passwordSalt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
