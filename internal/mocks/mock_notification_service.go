package mocks

import (
	"context"
	"sync"

	"github.com/you/coursegate/domain"
)

// MockNotificationService implements domain.NotificationService interface for testing
type MockNotificationService struct {
	EnrollmentSubmittedFunc func(ctx context.Context, e *domain.Enrollment) error
	AccessGrantedFunc       func(ctx context.Context, e *domain.Enrollment, access *domain.CourseAccess) error
	EnrollmentRejectedFunc  func(ctx context.Context, e *domain.Enrollment) error

	mu        sync.Mutex
	Submitted []*domain.Enrollment
	Granted   []*domain.CourseAccess
	Rejected  []*domain.Enrollment
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// EnrollmentSubmitted records the admin alert
func (m *MockNotificationService) EnrollmentSubmitted(ctx context.Context, e *domain.Enrollment) error {
	m.mu.Lock()
	m.Submitted = append(m.Submitted, e)
	m.mu.Unlock()
	if m.EnrollmentSubmittedFunc != nil {
		return m.EnrollmentSubmittedFunc(ctx, e)
	}
	return nil
}

// AccessGranted records the access link delivery
func (m *MockNotificationService) AccessGranted(ctx context.Context, e *domain.Enrollment, access *domain.CourseAccess) error {
	m.mu.Lock()
	m.Granted = append(m.Granted, access)
	m.mu.Unlock()
	if m.AccessGrantedFunc != nil {
		return m.AccessGrantedFunc(ctx, e, access)
	}
	return nil
}

// EnrollmentRejected records the rejection notice
func (m *MockNotificationService) EnrollmentRejected(ctx context.Context, e *domain.Enrollment) error {
	m.mu.Lock()
	m.Rejected = append(m.Rejected, e)
	m.mu.Unlock()
	if m.EnrollmentRejectedFunc != nil {
		return m.EnrollmentRejectedFunc(ctx, e)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.NotificationService = (*MockNotificationService)(nil)
