package mocks

import (
	"context"

	"github.com/you/coursegate/domain"
)

// MockCredentialVerifier implements domain.CredentialVerifier interface for testing.
// By default the header "Bearer <key>" resolves to Identities[key].
type MockCredentialVerifier struct {
	VerifyFunc func(ctx context.Context, authorization string) (*domain.Identity, error)
	Identities map[string]*domain.Identity
}

// NewMockCredentialVerifier creates a new MockCredentialVerifier with default behaviors
func NewMockCredentialVerifier() *MockCredentialVerifier {
	return &MockCredentialVerifier{Identities: make(map[string]*domain.Identity)}
}

// Verify resolves the bearer header to an identity
func (m *MockCredentialVerifier) Verify(ctx context.Context, authorization string) (*domain.Identity, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, authorization)
	}
	if authorization == "" {
		return nil, domain.ErrCredentialMissing
	}
	const prefix = "Bearer "
	if len(authorization) <= len(prefix) || authorization[:len(prefix)] != prefix {
		return nil, domain.ErrCredentialMissing
	}
	identity, ok := m.Identities[authorization[len(prefix):]]
	if !ok {
		return nil, domain.ErrCredentialInvalid
	}
	return identity, nil
}

// VerifyOptional returns nil instead of failing
func (m *MockCredentialVerifier) VerifyOptional(ctx context.Context, authorization string) *domain.Identity {
	identity, err := m.Verify(ctx, authorization)
	if err != nil {
		return nil
	}
	return identity
}

// Compile-time interface compliance verification
var _ domain.CredentialVerifier = (*MockCredentialVerifier)(nil)
