package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/tradevault/tradevault-api/internal/domain"
	"github.com/tradevault/tradevault-api/internal/repository/ports"
)

var (
	ErrInvalidRole  = errors.New("role must be admin, moderator, or user")
	ErrUserNotFound = errors.New("user not found")
)

// Overview is the admin dashboard headline card.
type Overview struct {
	TotalUsers          int64 `json:"total_users"`
	TotalTrades         int64 `json:"total_trades"`
	PendingFundRequests int64 `json:"pending_fund_requests"`
	PendingKYC          int64 `json:"pending_kyc"`
}

type AdminService struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	profiles ports.ProfileRepository
	trades   ports.TradeRepository
	requests ports.FundRequestRepository
}

func NewAdminService(users ports.UserRepository, roles ports.RoleRepository, profiles ports.ProfileRepository, trades ports.TradeRepository, requests ports.FundRequestRepository) *AdminService {
	return &AdminService{users: users, roles: roles, profiles: profiles, trades: trades, requests: requests}
}

func (s *AdminService) Overview(ctx context.Context) (*Overview, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalTrades, err := s.trades.Count(ctx)
	if err != nil {
		return nil, err
	}
	pendingFunds, err := s.requests.CountByStatus(ctx, domain.FundRequestPending)
	if err != nil {
		return nil, err
	}
	pendingKYC, err := s.profiles.CountByKYCStatus(ctx, domain.KYCStatusPending)
	if err != nil {
		return nil, err
	}
	return &Overview{
		TotalUsers:          totalUsers,
		TotalTrades:         totalTrades,
		PendingFundRequests: pendingFunds,
		PendingKYC:          pendingKYC,
	}, nil
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	limit, offset = normalizePagination(limit, offset)
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range users {
		role, err := s.roles.FindByUser(ctx, users[i].ID)
		if err != nil {
			if isNotFound(err) {
				users[i].Role = domain.RoleUser
				continue
			}
			return nil, err
		}
		users[i].Role = role
	}
	return users, nil
}

// SetRole replaces the user's role row.
func (s *AdminService) SetRole(ctx context.Context, userID uuid.UUID, role string) error {
	if !domain.ValidRole(role) {
		return ErrInvalidRole
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	return s.roles.Assign(ctx, userID, role)
}
