package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/idtoken"

	"github.com/tradevault/tradevault-api/internal/domain"
	"github.com/tradevault/tradevault-api/internal/repository/ports"
	"github.com/tradevault/tradevault-api/internal/util"
)

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type AuthService struct {
	users      ports.UserRepository
	roles      ports.RoleRepository
	sessions   ports.SessionRepository
	profiles   ports.ProfileRepository
	jwt        *util.JWTManager
	sessionTTL time.Duration
	googleAud  string
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

func NewAuthService(users ports.UserRepository, roles ports.RoleRepository, sessions ports.SessionRepository, profiles ports.ProfileRepository, jwtManager *util.JWTManager, sessionTTL time.Duration, googleAud string) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		roles:      roles,
		sessions:   sessions,
		profiles:   profiles,
		jwt:        jwtManager,
		sessionTTL: sessionTTL,
		googleAud:  googleAud,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string, fullName *string) (*domain.User, error) {
	if err := util.ValidatePassword(password); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)

	passwordHash, passwordSalt, err := util.DerivePassword(password)
	if err != nil {
		return nil, fmt.Errorf("derive password: %w", err)
	}

	user, err := s.users.Create(ctx, email, fullName, passwordHash, passwordSalt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if err := s.roles.Assign(ctx, user.ID, domain.RoleUser); err != nil {
		return nil, fmt.Errorf("assign default role: %w", err)
	}
	user.Role = domain.RoleUser

	if _, err := s.profiles.Ensure(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.openSession(ctx, user)
}

// LoginWithGoogle validates a Google ID token and signs the account in,
// creating it on first sight.
func (s *AuthService) LoginWithGoogle(ctx context.Context, rawIDToken string) (*LoginResult, error) {
	payload, err := idtoken.Validate(ctx, rawIDToken, s.googleAud)
	if err != nil {
		return nil, ErrInvalidToken
	}
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, ErrInvalidToken
	}
	var fullName *string
	if name, ok := payload.Claims["name"].(string); ok && name != "" {
		fullName = &name
	}

	user, err := s.users.UpsertGoogleUser(ctx, normalizeEmail(email), fullName)
	if err != nil {
		return nil, err
	}
	if _, err := s.roles.FindByUser(ctx, user.ID); err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		if err := s.roles.Assign(ctx, user.ID, domain.RoleUser); err != nil {
			return nil, fmt.Errorf("assign default role: %w", err)
		}
	}
	if _, err := s.profiles.Ensure(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return s.openSession(ctx, user)
}

// Authenticate resolves a bearer token to its account. The token must both
// parse as one of our JWTs and match an active session row, so logout takes
// effect before the JWT expires.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if _, err := s.sessions.FindActiveByToken(ctx, token, time.Now()); err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if err := s.loadRole(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Deactivate(ctx, token)
}

// ChangePassword verifies the current password before setting the new one,
// then signs the user out of every session.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !util.VerifyPassword(current, user.PasswordSalt, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	if err := util.ValidatePassword(newPassword); err != nil {
		return err
	}
	passwordHash, passwordSalt, err := util.DerivePassword(newPassword)
	if err != nil {
		return fmt.Errorf("derive password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash, passwordSalt); err != nil {
		return err
	}
	return s.sessions.DeactivateByUser(ctx, user.ID)
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User) (*LoginResult, error) {
	if err := s.loadRole(ctx, user); err != nil {
		return nil, err
	}
	token, expiresAt, err := s.jwt.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	if _, err := s.sessions.Create(ctx, user.ID, token, expiresAt); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) loadRole(ctx context.Context, user *domain.User) error {
	role, err := s.roles.FindByUser(ctx, user.ID)
	if err != nil {
		if isNotFound(err) {
			user.Role = domain.RoleUser
			return nil
		}
		return err
	}
	user.Role = role
	return nil
}
