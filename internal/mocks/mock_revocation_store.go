package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/you/coursegate/domain"
)

// MockRevocationStore implements domain.RevocationStore with an in-memory set
type MockRevocationStore struct {
	RevokeFunc    func(ctx context.Context, tokenID string, until time.Time) error
	IsRevokedFunc func(ctx context.Context, tokenID string) (bool, error)

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewMockRevocationStore creates a new MockRevocationStore with default behaviors
func NewMockRevocationStore() *MockRevocationStore {
	return &MockRevocationStore{revoked: make(map[string]time.Time)}
}

// Revoke denylists tokenID
func (m *MockRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, tokenID, until)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = until
	return nil
}

// IsRevoked reports whether tokenID is denylisted
func (m *MockRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if m.IsRevokedFunc != nil {
		return m.IsRevokedFunc(ctx, tokenID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

// Compile-time interface compliance verification
var _ domain.RevocationStore = (*MockRevocationStore)(nil)
