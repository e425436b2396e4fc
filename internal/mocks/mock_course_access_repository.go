package mocks

import (
	"context"
	"time"

	"github.com/you/coursegate/domain"
)

// MockCourseAccessRepository implements domain.CourseAccessRepository interface for testing
type MockCourseAccessRepository struct {
	CreateFunc             func(ctx context.Context, a *domain.CourseAccess) error
	FindByTokenFunc        func(ctx context.Context, token string) (*domain.CourseAccess, error)
	FindByEnrollmentIDFunc func(ctx context.Context, enrollmentID uint) (*domain.CourseAccess, error)
	MarkFirstAccessFunc    func(ctx context.Context, id uint, at time.Time) error
	TouchLastAccessFunc    func(ctx context.Context, id uint, at time.Time) error
	RevokeFunc             func(ctx context.Context, enrollmentID uint, reason *string, at time.Time) error
}

// NewMockCourseAccessRepository creates a new MockCourseAccessRepository with default behaviors
func NewMockCourseAccessRepository() *MockCourseAccessRepository {
	return &MockCourseAccessRepository{}
}

// Create stores a new access token
func (m *MockCourseAccessRepository) Create(ctx context.Context, a *domain.CourseAccess) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, a)
	}
	return nil
}

// FindByToken finds an access token by its value
func (m *MockCourseAccessRepository) FindByToken(ctx context.Context, token string) (*domain.CourseAccess, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(ctx, token)
	}
	return nil, domain.ErrTokenNotFound
}

// FindByEnrollmentID finds the access token of an enrollment
func (m *MockCourseAccessRepository) FindByEnrollmentID(ctx context.Context, enrollmentID uint) (*domain.CourseAccess, error) {
	if m.FindByEnrollmentIDFunc != nil {
		return m.FindByEnrollmentIDFunc(ctx, enrollmentID)
	}
	return nil, domain.ErrTokenNotFound
}

// MarkFirstAccess stamps the first access
func (m *MockCourseAccessRepository) MarkFirstAccess(ctx context.Context, id uint, at time.Time) error {
	if m.MarkFirstAccessFunc != nil {
		return m.MarkFirstAccessFunc(ctx, id, at)
	}
	return nil
}

// TouchLastAccess stamps the last access
func (m *MockCourseAccessRepository) TouchLastAccess(ctx context.Context, id uint, at time.Time) error {
	if m.TouchLastAccessFunc != nil {
		return m.TouchLastAccessFunc(ctx, id, at)
	}
	return nil
}

// Revoke revokes the token of an enrollment
func (m *MockCourseAccessRepository) Revoke(ctx context.Context, enrollmentID uint, reason *string, at time.Time) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, enrollmentID, reason, at)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.CourseAccessRepository = (*MockCourseAccessRepository)(nil)
