package mocks

import (
	"context"
	"time"

	"github.com/you/coursegate/domain"
)

// MockAccessTokenManager implements domain.AccessTokenManager interface for testing
type MockAccessTokenManager struct {
	IssueFunc                   func(ctx context.Context, repo domain.CourseAccessRepository, enrollmentID uint, lifetime time.Duration) (*domain.CourseAccess, error)
	VerifyFunc                  func(ctx context.Context, token string) (*domain.AccessVerification, error)
	ConsumeForPasswordSetupFunc func(ctx context.Context, token, password string) (*domain.AuthResult, error)
	RevokeFunc                  func(ctx context.Context, enrollmentID uint, reason *string) error
	StatusForFunc               func(ctx context.Context, enrollmentID uint) (*domain.CourseAccess, error)
}

// NewMockAccessTokenManager creates a new MockAccessTokenManager with default behaviors
func NewMockAccessTokenManager() *MockAccessTokenManager {
	return &MockAccessTokenManager{}
}

// Issue creates an access token through repo
func (m *MockAccessTokenManager) Issue(ctx context.Context, repo domain.CourseAccessRepository, enrollmentID uint, lifetime time.Duration) (*domain.CourseAccess, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, repo, enrollmentID, lifetime)
	}
	access := &domain.CourseAccess{
		EnrollmentID: enrollmentID,
		Token:        "mock_access_token",
		ExpiresAt:    time.Now().UTC().Add(lifetime),
		Status:       domain.AccessActive,
	}
	if err := repo.Create(ctx, access); err != nil {
		return nil, err
	}
	return access, nil
}

// Verify checks an access token
func (m *MockAccessTokenManager) Verify(ctx context.Context, token string) (*domain.AccessVerification, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, token)
	}
	return nil, domain.ErrTokenNotFound
}

// ConsumeForPasswordSetup sets the first password
func (m *MockAccessTokenManager) ConsumeForPasswordSetup(ctx context.Context, token, password string) (*domain.AuthResult, error) {
	if m.ConsumeForPasswordSetupFunc != nil {
		return m.ConsumeForPasswordSetupFunc(ctx, token, password)
	}
	return nil, domain.ErrTokenNotFound
}

// Revoke revokes the token of an enrollment
func (m *MockAccessTokenManager) Revoke(ctx context.Context, enrollmentID uint, reason *string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, enrollmentID, reason)
	}
	return nil
}

// StatusFor loads the token of an enrollment
func (m *MockAccessTokenManager) StatusFor(ctx context.Context, enrollmentID uint) (*domain.CourseAccess, error) {
	if m.StatusForFunc != nil {
		return m.StatusForFunc(ctx, enrollmentID)
	}
	return nil, domain.ErrTokenNotFound
}

// Compile-time interface compliance verification
var _ domain.AccessTokenManager = (*MockAccessTokenManager)(nil)
