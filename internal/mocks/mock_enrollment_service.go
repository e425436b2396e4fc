package mocks

import (
	"context"

	"github.com/you/coursegate/domain"
)

// MockEnrollmentService implements domain.EnrollmentService interface for testing
type MockEnrollmentService struct {
	SubmitFunc           func(ctx context.Context, req domain.SubmitRequest) (*domain.Enrollment, error)
	AssignCourseFunc     func(ctx context.Context, enrollmentID, courseID uint) (*domain.Enrollment, error)
	ApproveFunc          func(ctx context.Context, enrollmentID, adminID uint, expiresInDays int) (*domain.ApprovalResult, error)
	RejectFunc           func(ctx context.Context, enrollmentID, adminID uint, reason *string) (*domain.Enrollment, error)
	CheckEligibilityFunc func(ctx context.Context, userID, courseID uint) domain.Eligibility
	MarkPaidFunc         func(ctx context.Context, enrollmentID uint, amount *float64) (*domain.Enrollment, error)
	MarkUnpaidFunc       func(ctx context.Context, enrollmentID uint) (*domain.Enrollment, error)
	GetFunc              func(ctx context.Context, enrollmentID uint) (*domain.Enrollment, error)
	ListFunc             func(ctx context.Context, filter domain.EnrollmentFilter) ([]*domain.Enrollment, error)
	ListForUserFunc      func(ctx context.Context, userID uint) ([]*domain.Enrollment, error)
}

// NewMockEnrollmentService creates a new MockEnrollmentService with default behaviors
func NewMockEnrollmentService() *MockEnrollmentService {
	return &MockEnrollmentService{}
}

// Submit creates a pending enrollment
func (m *MockEnrollmentService) Submit(ctx context.Context, req domain.SubmitRequest) (*domain.Enrollment, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, req)
	}
	return &domain.Enrollment{ID: 1, UserID: req.UserID, Name: req.Name, Email: req.Email, Phone: req.Phone, Status: domain.EnrollmentPending}, nil
}

// AssignCourse sets the course of an enrollment
func (m *MockEnrollmentService) AssignCourse(ctx context.Context, enrollmentID, courseID uint) (*domain.Enrollment, error) {
	if m.AssignCourseFunc != nil {
		return m.AssignCourseFunc(ctx, enrollmentID, courseID)
	}
	return &domain.Enrollment{ID: enrollmentID, CourseID: &courseID, Status: domain.EnrollmentPending}, nil
}

// Approve approves an enrollment
func (m *MockEnrollmentService) Approve(ctx context.Context, enrollmentID, adminID uint, expiresInDays int) (*domain.ApprovalResult, error) {
	if m.ApproveFunc != nil {
		return m.ApproveFunc(ctx, enrollmentID, adminID, expiresInDays)
	}
	return nil, domain.ErrNotFound
}

// Reject rejects an enrollment
func (m *MockEnrollmentService) Reject(ctx context.Context, enrollmentID, adminID uint, reason *string) (*domain.Enrollment, error) {
	if m.RejectFunc != nil {
		return m.RejectFunc(ctx, enrollmentID, adminID, reason)
	}
	return nil, domain.ErrNotFound
}

// IsEligible reports CheckEligibility().Enrolled
func (m *MockEnrollmentService) IsEligible(ctx context.Context, userID, courseID uint) bool {
	return m.CheckEligibility(ctx, userID, courseID).Enrolled
}

// CheckEligibility answers the content gate
func (m *MockEnrollmentService) CheckEligibility(ctx context.Context, userID, courseID uint) domain.Eligibility {
	if m.CheckEligibilityFunc != nil {
		return m.CheckEligibilityFunc(ctx, userID, courseID)
	}
	// Default behavior: deny
	return domain.Eligibility{}
}

// MarkPaid marks the current month paid
func (m *MockEnrollmentService) MarkPaid(ctx context.Context, enrollmentID uint, amount *float64) (*domain.Enrollment, error) {
	if m.MarkPaidFunc != nil {
		return m.MarkPaidFunc(ctx, enrollmentID, amount)
	}
	return nil, domain.ErrNotFound
}

// MarkUnpaid clears the current payment
func (m *MockEnrollmentService) MarkUnpaid(ctx context.Context, enrollmentID uint) (*domain.Enrollment, error) {
	if m.MarkUnpaidFunc != nil {
		return m.MarkUnpaidFunc(ctx, enrollmentID)
	}
	return nil, domain.ErrNotFound
}

// Get loads an enrollment
func (m *MockEnrollmentService) Get(ctx context.Context, enrollmentID uint) (*domain.Enrollment, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, enrollmentID)
	}
	return nil, domain.ErrNotFound
}

// List lists enrollments
func (m *MockEnrollmentService) List(ctx context.Context, filter domain.EnrollmentFilter) ([]*domain.Enrollment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*domain.Enrollment{}, nil
}

// ListForUser lists the enrollments of a user
func (m *MockEnrollmentService) ListForUser(ctx context.Context, userID uint) ([]*domain.Enrollment, error) {
	if m.ListForUserFunc != nil {
		return m.ListForUserFunc(ctx, userID)
	}
	return []*domain.Enrollment{}, nil
}

// Compile-time interface compliance verification
var _ domain.EnrollmentService = (*MockEnrollmentService)(nil)
