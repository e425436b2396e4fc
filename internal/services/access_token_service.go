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

// accessTokenBytes is the entropy of a course access token before hex encoding
const accessTokenBytes = 32

// AccessTokenServiceImpl implements domain.AccessTokenManager
type AccessTokenServiceImpl struct {
	access      domain.CourseAccessRepository
	enrollments domain.EnrollmentRepository
	tx          domain.Transactor
	passwords   domain.PasswordService
	tokens      domain.TokenService
	audit       domain.AuditLogger
	log         *zap.Logger
	now         domain.Clock

	sessionTTL        time.Duration
	minPasswordLength int
}

// NewAccessTokenService creates a new access token manager
func NewAccessTokenService(
	stores domain.Stores,
	tx domain.Transactor,
	passwords domain.PasswordService,
	tokens domain.TokenService,
	audit domain.AuditLogger,
	log *zap.Logger,
	cfg AuthConfig,
) domain.AccessTokenManager {
	return &AccessTokenServiceImpl{
		access:            stores.Access,
		enrollments:       stores.Enrollments,
		tx:                tx,
		passwords:         passwords,
		tokens:            tokens,
		audit:             audit,
		log:               log.Named("access"),
		now:               time.Now,
		sessionTTL:        cfg.SessionTTL,
		minPasswordLength: minPasswordLength(cfg.MinPasswordLength),
	}
}

// Issue implements domain.AccessTokenManager. repo is passed in so the token is
// written inside the caller's transaction.
func (s *AccessTokenServiceImpl) Issue(ctx context.Context, repo domain.CourseAccessRepository, enrollmentID uint, lifetime time.Duration) (*domain.CourseAccess, error) {
	if lifetime <= 0 {
		return nil, domain.NewValidationError("lifetime", "must be positive")
	}
	token, err := randomHex(accessTokenBytes)
	if err != nil {
		return nil, err
	}

	access := &domain.CourseAccess{
		EnrollmentID: enrollmentID,
		Token:        token,
		ExpiresAt:    s.now().UTC().Add(lifetime),
		Status:       domain.AccessActive,
	}
	if err := repo.Create(ctx, access); err != nil {
		return nil, err
	}
	return access, nil
}

// Verify implements domain.AccessTokenManager
func (s *AccessTokenServiceImpl) Verify(ctx context.Context, token string) (*domain.AccessVerification, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrTokenNotFound
	}

	access, err := s.access.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if !access.ExpiresAt.After(now) {
		return nil, domain.ErrTokenExpired
	}
	if access.Status != domain.AccessActive {
		return nil, domain.ErrTokenRevoked
	}

	enrollment, err := s.enrollments.FindByID(ctx, access.EnrollmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}

	if err := s.access.TouchLastAccess(ctx, access.ID, now); err != nil {
		s.log.Warn("failed to record token access", zap.Uint("enrollment_id", access.EnrollmentID), zap.Error(err))
	} else {
		access.LastAccessedAt = &now
	}

	return &domain.AccessVerification{
		Access:             access,
		Enrollment:         enrollment,
		NeedsPasswordSetup: access.NeedsPasswordSetup(),
	}, nil
}

// ConsumeForPasswordSetup implements domain.AccessTokenManager. The token can set a
// password exactly once; every later call fails with ErrAlreadyInitialized.
func (s *AccessTokenServiceImpl) ConsumeForPasswordSetup(ctx context.Context, token, password string) (*domain.AuthResult, error) {
	v, err := s.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if !v.NeedsPasswordSetup {
		return nil, domain.ErrAlreadyInitialized
	}
	if v.Enrollment.UserID == nil {
		return nil, domain.ErrInvalidState
	}
	userID := *v.Enrollment.UserID

	if err := checkPassword(password, s.minPasswordLength); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	var user *domain.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, st domain.Stores) error {
		current, err := st.Users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if !isPlaceholderHash(current.PasswordHash) {
			return domain.ErrAlreadyInitialized
		}
		// conditional on first_accessed_at IS NULL, so a concurrent submission loses here
		if err := st.Access.MarkFirstAccess(ctx, v.Access.ID, now); err != nil {
			return err
		}
		if err := st.Users.UpdatePasswordHash(ctx, userID, hash); err != nil {
			return err
		}
		if err := st.Users.TouchLastLogin(ctx, userID, now); err != nil {
			return err
		}
		user, err = st.Users.FindByID(ctx, userID)
		return err
	})
	if err != nil {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.PasswordBootstrapEvent).
			WithUser(userID).WithEnrollment(v.Enrollment.ID).WithError(err))
		return nil, err
	}

	cred, err := s.tokens.Issue(user, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.PasswordBootstrapEvent).
		WithUser(userID).WithEnrollment(v.Enrollment.ID))
	return &domain.AuthResult{User: user, Credential: cred}, nil
}

// Revoke implements domain.AccessTokenManager. Revoking an already revoked token succeeds.
func (s *AccessTokenServiceImpl) Revoke(ctx context.Context, enrollmentID uint, reason *string) error {
	reason = trimOptional(reason)
	if err := s.access.Revoke(ctx, enrollmentID, reason, s.now().UTC()); err != nil {
		return err
	}

	event := domain.NewAuditEvent(domain.AccessTokenRevokedEvent).WithEnrollment(enrollmentID)
	if reason != nil {
		event.WithMetadata("reason", *reason)
	}
	s.audit.LogEvent(ctx, event)
	return nil
}

// StatusFor implements domain.AccessTokenManager
func (s *AccessTokenServiceImpl) StatusFor(ctx context.Context, enrollmentID uint) (*domain.CourseAccess, error) {
	return s.access.FindByEnrollmentID(ctx, enrollmentID)
}

// trimOptional trims s and maps blank to nil
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
