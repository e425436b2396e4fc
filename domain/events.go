package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Enrollment lifecycle events
	EnrollmentSubmittedEvent AuditEventType = "ENROLLMENT_SUBMITTED"
	CourseAssignedEvent      AuditEventType = "ENROLLMENT_COURSE_ASSIGNED"
	EnrollmentApprovedEvent  AuditEventType = "ENROLLMENT_APPROVED"
	EnrollmentRejectedEvent  AuditEventType = "ENROLLMENT_REJECTED"
	PaymentMarkedPaidEvent   AuditEventType = "PAYMENT_MARKED_PAID"
	PaymentMarkedUnpaidEvent AuditEventType = "PAYMENT_MARKED_UNPAID"

	// Course access token events
	AccessTokenIssuedEvent  AuditEventType = "ACCESS_TOKEN_ISSUED"
	AccessTokenRevokedEvent AuditEventType = "ACCESS_TOKEN_REVOKED"
	PasswordBootstrapEvent  AuditEventType = "ACCESS_PASSWORD_BOOTSTRAPPED"

	// Authentication events
	UserLoginEvent        AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent AuditEventType = "USER_LOGIN_FAILED"
	UserSignupEvent       AuditEventType = "USER_SIGNUP"
	UserLogoutEvent       AuditEventType = "USER_LOGOUT"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType    AuditEventType         `json:"event_type"`
	ActorID      uint                   `json:"actor_id,omitempty"`
	UserID       uint                   `json:"user_id,omitempty"`
	EnrollmentID uint                   `json:"enrollment_id,omitempty"`
	Email        string                 `json:"email,omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	ErrorMsg     string                 `json:"error_msg,omitempty"`
	Success      bool                   `json:"success"`
}

// AuditLogger records audit events
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent)
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithActor sets the acting user (usually an admin)
func (e *AuditEvent) WithActor(id uint) *AuditEvent {
	e.ActorID = id
	return e
}

// WithUser sets the subject user
func (e *AuditEvent) WithUser(id uint) *AuditEvent {
	e.UserID = id
	return e
}

// WithEnrollment sets the enrollment id
func (e *AuditEvent) WithEnrollment(id uint) *AuditEvent {
	e.EnrollmentID = id
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
