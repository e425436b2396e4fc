package mocks

import (
	"context"
	"time"

	"github.com/you/coursegate/domain"
)

// MockEnrollmentRepository implements domain.EnrollmentRepository interface for testing
type MockEnrollmentRepository struct {
	CreateFunc        func(ctx context.Context, e *domain.Enrollment) error
	FindByIDFunc      func(ctx context.Context, id uint) (*domain.Enrollment, error)
	FindGrantingFunc  func(ctx context.Context, userID, courseID uint, now time.Time) (*domain.Enrollment, error)
	FindLatestFunc    func(ctx context.Context, userID, courseID uint) (*domain.Enrollment, error)
	ListFunc          func(ctx context.Context, filter domain.EnrollmentFilter) ([]*domain.Enrollment, error)
	AssignCourseFunc  func(ctx context.Context, id, courseID uint, at time.Time) error
	MarkApprovedFunc  func(ctx context.Context, id uint, a domain.Approval) error
	MarkRejectedFunc  func(ctx context.Context, id uint, r domain.Rejection) error
	UpdateBillingFunc func(ctx context.Context, id uint, b domain.BillingUpdate) error
}

// NewMockEnrollmentRepository creates a new MockEnrollmentRepository with default behaviors
func NewMockEnrollmentRepository() *MockEnrollmentRepository {
	return &MockEnrollmentRepository{}
}

// Create stores a new enrollment
func (m *MockEnrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, e)
	}
	return nil
}

// FindByID finds an enrollment by ID
func (m *MockEnrollmentRepository) FindByID(ctx context.Context, id uint) (*domain.Enrollment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrNotFound
}

// FindGranting finds the access-granting enrollment of a pair
func (m *MockEnrollmentRepository) FindGranting(ctx context.Context, userID, courseID uint, now time.Time) (*domain.Enrollment, error) {
	if m.FindGrantingFunc != nil {
		return m.FindGrantingFunc(ctx, userID, courseID, now)
	}
	return nil, domain.ErrNotFound
}

// FindLatest finds the newest enrollment of a pair
func (m *MockEnrollmentRepository) FindLatest(ctx context.Context, userID, courseID uint) (*domain.Enrollment, error) {
	if m.FindLatestFunc != nil {
		return m.FindLatestFunc(ctx, userID, courseID)
	}
	return nil, domain.ErrNotFound
}

// List lists enrollments matching filter
func (m *MockEnrollmentRepository) List(ctx context.Context, filter domain.EnrollmentFilter) ([]*domain.Enrollment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*domain.Enrollment{}, nil
}

// AssignCourse sets the course of a pending enrollment
func (m *MockEnrollmentRepository) AssignCourse(ctx context.Context, id, courseID uint, at time.Time) error {
	if m.AssignCourseFunc != nil {
		return m.AssignCourseFunc(ctx, id, courseID, at)
	}
	return nil
}

// MarkApproved approves a pending enrollment
func (m *MockEnrollmentRepository) MarkApproved(ctx context.Context, id uint, a domain.Approval) error {
	if m.MarkApprovedFunc != nil {
		return m.MarkApprovedFunc(ctx, id, a)
	}
	return nil
}

// MarkRejected rejects a pending enrollment
func (m *MockEnrollmentRepository) MarkRejected(ctx context.Context, id uint, r domain.Rejection) error {
	if m.MarkRejectedFunc != nil {
		return m.MarkRejectedFunc(ctx, id, r)
	}
	return nil
}

// UpdateBilling writes billing columns
func (m *MockEnrollmentRepository) UpdateBilling(ctx context.Context, id uint, b domain.BillingUpdate) error {
	if m.UpdateBillingFunc != nil {
		return m.UpdateBillingFunc(ctx, id, b)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.EnrollmentRepository = (*MockEnrollmentRepository)(nil)
