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
	ErrUnknownDocumentKind = errors.New("unknown document kind")
	ErrInvalidKYCDecision  = errors.New("kyc decision must be approved or rejected")
	ErrProfileNotFound     = errors.New("profile not found")
)

// KYCService manages trading profiles: identity and bank details, uploaded
// KYC documents, and the admin review queue.
type KYCService struct {
	profiles      ports.ProfileRepository
	storage       ports.ObjectStorage
	bucket        string
	maxImageBytes int64
}

func NewKYCService(profiles ports.ProfileRepository, storage ports.ObjectStorage, bucket string, maxImageBytes int64) *KYCService {
	return &KYCService{profiles: profiles, storage: storage, bucket: bucket, maxImageBytes: maxImageBytes}
}

func (s *KYCService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.profiles.Ensure(ctx, userID)
}

func (s *KYCService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ports.ProfileUpdate) (*domain.Profile, error) {
	if _, err := s.profiles.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	return s.profiles.Update(ctx, userID, update)
}

// UploadDocument validates the image, stores it, records its URL on the
// profile, and moves the profile's KYC status to pending so an admin reviews
// the new document. Profile images skip the status change.
func (s *KYCService) UploadDocument(ctx context.Context, userID uuid.UUID, kind string, upload media.Upload) (string, error) {
	if !domain.ValidDocumentKind(kind) {
		return "", ErrUnknownDocumentKind
	}

	validated, err := media.ValidateImage(upload, s.maxImageBytes, media.DefaultMaxDimension)
	if err != nil {
		return "", err
	}

	if _, err := s.profiles.Ensure(ctx, userID); err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("%s/%s-%d%s", userID, kind, time.Now().UnixNano(), path.Ext(upload.FileName))
	url, err := s.storage.Upload(ctx, s.bucket, objectName, validated.ContentType,
		bytes.NewReader(validated.Bytes), int64(len(validated.Bytes)))
	if err != nil {
		return "", fmt.Errorf("upload document: %w", err)
	}

	if err := s.profiles.SetDocumentURL(ctx, userID, kind, url); err != nil {
		return "", err
	}
	if kind != domain.DocumentProfileImage {
		if err := s.profiles.SetKYCStatus(ctx, userID, domain.KYCStatusPending); err != nil {
			return "", err
		}
	}
	return url, nil
}

func (s *KYCService) ListPending(ctx context.Context, limit, offset int) ([]domain.Profile, error) {
	limit, offset = normalizePagination(limit, offset)
	return s.profiles.ListByKYCStatus(ctx, domain.KYCStatusPending, limit, offset)
}

// Review records an admin's approve/reject decision on a pending profile.
func (s *KYCService) Review(ctx context.Context, userID uuid.UUID, decision string) error {
	if decision != domain.KYCStatusApproved && decision != domain.KYCStatusRejected {
		return ErrInvalidKYCDecision
	}
	if _, err := s.profiles.FindByUser(ctx, userID); err != nil {
		if isNotFound(err) {
			return ErrProfileNotFound
		}
		return err
	}
	return s.profiles.SetKYCStatus(ctx, userID, decision)
}
