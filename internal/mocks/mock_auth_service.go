package mocks

import (
	"context"
	"time"

	"github.com/you/coursegate/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	SignupFunc         func(ctx context.Context, name, email, password string) (*domain.AuthResult, error)
	LoginFunc          func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	LogoutFunc         func(ctx context.Context, identity *domain.Identity) error
	GetUserProfileFunc func(ctx context.Context, userID uint) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func mockAuthResult(user *domain.User) *domain.AuthResult {
	now := time.Now().UTC()
	return &domain.AuthResult{
		User: user,
		Credential: &domain.SessionCredential{
			Token:     "mock_session_token",
			TokenID:   "mock_jti",
			IssuedAt:  now,
			ExpiresAt: now.Add(7 * 24 * time.Hour),
		},
	}
}

// Signup creates a student account
func (m *MockAuthService) Signup(ctx context.Context, name, email, password string) (*domain.AuthResult, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, name, email, password)
	}
	// Default behavior: return a new student
	return mockAuthResult(&domain.User{ID: 1, Code: "USR-MOCK01", Name: name, Email: email, Role: domain.RoleStudent}), nil
}

// Login authenticates a user and returns auth result
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	// Default behavior: return successful auth result
	return mockAuthResult(&domain.User{ID: 1, Code: "USR-MOCK01", Email: email, Role: domain.RoleStudent}), nil
}

// Logout revokes the presented credential
func (m *MockAuthService) Logout(ctx context.Context, identity *domain.Identity) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, identity)
	}
	return nil
}

// GetUserProfile loads the live user record
func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return &domain.User{ID: userID, Code: "USR-MOCK01", Email: "test@example.com", Role: domain.RoleStudent}, nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
