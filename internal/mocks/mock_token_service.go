package mocks

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/you/coursegate/domain"
)

// MockTokenService implements domain.TokenService interface for testing.
// Default tokens look like "session_<userID>_<role>_<n>" and parse back to their claims.
type MockTokenService struct {
	IssueFunc func(user *domain.User, lifetime time.Duration) (*domain.SessionCredential, error)
	ParseFunc func(token string) (*domain.TokenClaims, error)

	issued int
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// Issue mints a session credential for the user
func (m *MockTokenService) Issue(user *domain.User, lifetime time.Duration) (*domain.SessionCredential, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(user, lifetime)
	}
	m.issued++
	if lifetime <= 0 {
		lifetime = 7 * 24 * time.Hour
	}
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.SessionCredential{
		Token:     fmt.Sprintf("session_%d_%s_%d", user.ID, user.Role, m.issued),
		TokenID:   fmt.Sprintf("jti_%d", m.issued),
		IssuedAt:  now,
		ExpiresAt: now.Add(lifetime),
	}, nil
}

// Parse decodes a credential minted by Issue
func (m *MockTokenService) Parse(token string) (*domain.TokenClaims, error) {
	if m.ParseFunc != nil {
		return m.ParseFunc(token)
	}
	// Default behavior: accept tokens produced by Issue
	parts := strings.Split(token, "_")
	if len(parts) != 4 || parts[0] != "session" {
		return nil, domain.ErrCredentialInvalid
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, domain.ErrCredentialInvalid
	}
	now := time.Now().UTC()
	return &domain.TokenClaims{
		UserID:    uint(id),
		Role:      domain.Role(parts[2]),
		TokenID:   "jti_" + parts[3],
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(time.Hour).Unix(),
	}, nil
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
