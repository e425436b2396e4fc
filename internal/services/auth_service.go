package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/you/coursegate/domain"
	"go.uber.org/zap"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	revoked     domain.RevocationStore
	audit       domain.AuditLogger
	log         *zap.Logger
	now         domain.Clock

	sessionTTL        time.Duration
	minPasswordLength int
}

// AuthConfig holds the session and password settings of the auth service
type AuthConfig struct {
	SessionTTL        time.Duration
	MinPasswordLength int
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	revoked domain.RevocationStore,
	audit domain.AuditLogger,
	log *zap.Logger,
	cfg AuthConfig,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:          userRepo,
		passwordSvc:       passwordSvc,
		tokenSvc:          tokenSvc,
		revoked:           revoked,
		audit:             audit,
		log:               log.Named("auth"),
		now:               time.Now,
		sessionTTL:        cfg.SessionTTL,
		minPasswordLength: minPasswordLength(cfg.MinPasswordLength),
	}
}

type signupInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

// Signup implements domain.AuthService. New accounts are always students.
func (s *AuthServiceImpl) Signup(ctx context.Context, name, email, password string) (*domain.AuthResult, error) {
	in := signupInput{Name: strings.TrimSpace(name), Email: normalizeEmail(email), Password: password}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := checkPassword(password, s.minPasswordLength); err != nil {
		return nil, err
	}

	_, err := s.userRepo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, domain.ErrUserAlreadyExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	code, err := newUserCode()
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Code:         code,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleStudent,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	cred, err := s.tokenSvc.Issue(user, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserSignupEvent).WithUser(user.ID).WithEmail(user.Email))
	return &domain.AuthResult{User: user, Credential: cred}, nil
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.loginFailed(ctx, email, domain.ErrInvalidCredentials)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.loginFailed(ctx, email, domain.ErrInvalidCredentials)
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("failed to record last login", zap.Uint("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLogin = &now
	}

	cred, err := s.tokenSvc.Issue(user, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginEvent).WithUser(user.ID).WithEmail(user.Email))
	return &domain.AuthResult{User: user, Credential: cred}, nil
}

func (s *AuthServiceImpl) loginFailed(ctx context.Context, email string, err error) {
	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent).WithEmail(email).WithError(err))
}

// Logout implements domain.AuthService. The credential's jti stays denylisted until it would have expired.
func (s *AuthServiceImpl) Logout(ctx context.Context, identity *domain.Identity) error {
	if identity == nil || identity.TokenID == "" {
		return domain.ErrCredentialMissing
	}
	if s.revoked == nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
		return err
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLogoutEvent).WithUser(identity.UserID))
	return nil
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

const defaultMinPasswordLength = 8

func minPasswordLength(n int) int {
	if n <= 0 {
		return defaultMinPasswordLength
	}
	return n
}

// checkPassword enforces the length policy; bcrypt rejects input over 72 bytes
func checkPassword(password string, min int) error {
	switch {
	case len(password) < min:
		return domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", min))
	case len(password) > 72:
		return domain.NewValidationError("password", "must be at most 72 bytes")
	}
	return nil
}
