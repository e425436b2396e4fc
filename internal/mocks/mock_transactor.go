package mocks

import (
	"context"

	"github.com/you/coursegate/domain"
)

// MockTransactor implements domain.Transactor by running fn directly against Stores
type MockTransactor struct {
	Stores                domain.Stores
	WithinTransactionFunc func(ctx context.Context, fn func(ctx context.Context, s domain.Stores) error) error
	Calls                 int
}

// NewMockTransactor creates a transactor that hands stores to every unit of work
func NewMockTransactor(stores domain.Stores) *MockTransactor {
	return &MockTransactor{Stores: stores}
}

// WithinTransaction runs fn; there is no rollback
func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, s domain.Stores) error) error {
	m.Calls++
	if m.WithinTransactionFunc != nil {
		return m.WithinTransactionFunc(ctx, fn)
	}
	return fn(ctx, m.Stores)
}

// Compile-time interface compliance verification
var _ domain.Transactor = (*MockTransactor)(nil)
