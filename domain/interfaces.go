package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}

// Approval carries the columns stamped by an approval
type Approval struct {
	UserID         uint
	ApprovedBy     uint
	ApprovedAt     time.Time
	NextPaymentDue time.Time
	PaymentStatus  PaymentStatus
	LastPayment    time.Time
	ExpiresAt      *time.Time
}

// Rejection carries the columns stamped by a rejection
type Rejection struct {
	RejectedBy uint
	RejectedAt time.Time
	Reason     *string
}

// BillingUpdate carries the billing columns written by mark paid/unpaid.
// A nil LastPaymentDate clears the column.
type BillingUpdate struct {
	Status          PaymentStatus
	LastPaymentDate *time.Time
	NextPaymentDue  *time.Time
	Amount          *float64
}

// EnrollmentRepository defines enrollment data access operations.
// Every mutation is conditional on the current status; a write that matches
// no row returns ErrInvalidState and the caller re-reads to refine it.
type EnrollmentRepository interface {
	Create(ctx context.Context, e *Enrollment) error
	FindByID(ctx context.Context, id uint) (*Enrollment, error)
	FindGranting(ctx context.Context, userID, courseID uint, now time.Time) (*Enrollment, error)
	FindLatest(ctx context.Context, userID, courseID uint) (*Enrollment, error)
	List(ctx context.Context, filter EnrollmentFilter) ([]*Enrollment, error)
	AssignCourse(ctx context.Context, id, courseID uint, at time.Time) error
	MarkApproved(ctx context.Context, id uint, a Approval) error
	MarkRejected(ctx context.Context, id uint, r Rejection) error
	UpdateBilling(ctx context.Context, id uint, b BillingUpdate) error
}

// CourseAccessRepository defines course access token data access operations
type CourseAccessRepository interface {
	Create(ctx context.Context, a *CourseAccess) error
	FindByToken(ctx context.Context, token string) (*CourseAccess, error)
	FindByEnrollmentID(ctx context.Context, enrollmentID uint) (*CourseAccess, error)
	// MarkFirstAccess stamps first_accessed_at only while it is null; otherwise ErrAlreadyInitialized
	MarkFirstAccess(ctx context.Context, id uint, at time.Time) error
	TouchLastAccess(ctx context.Context, id uint, at time.Time) error
	// Revoke revokes the active token of an enrollment. Already revoked is not an error.
	Revoke(ctx context.Context, enrollmentID uint, reason *string, at time.Time) error
}

// Stores groups the repositories bound to one unit of work
type Stores struct {
	Users       UserRepository
	Enrollments EnrollmentRepository
	Access      CourseAccessRepository
}

// Transactor runs fn in a single atomic unit of work
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

// RevocationStore is the credential denylist keyed by jti
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	TokenID   string `json:"jti"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// TokenService issues and parses session credentials
type TokenService interface {
	Issue(user *User, lifetime time.Duration) (*SessionCredential, error)
	Parse(token string) (*TokenClaims, error)
}

// CredentialVerifier authenticates a bearer credential against live user state
type CredentialVerifier interface {
	Verify(ctx context.Context, authorization string) (*Identity, error)
	VerifyOptional(ctx context.Context, authorization string) *Identity
}

// NotificationService delivers enrollment notifications. Implementations compose the messages.
type NotificationService interface {
	EnrollmentSubmitted(ctx context.Context, e *Enrollment) error
	AccessGranted(ctx context.Context, e *Enrollment, access *CourseAccess) error
	EnrollmentRejected(ctx context.Context, e *Enrollment) error
}

// AuthService defines authentication business logic
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, identity *Identity) error
	GetUserProfile(ctx context.Context, userID uint) (*User, error)
}

// SubmitRequest is the interest submission
type SubmitRequest struct {
	Name   string
	Email  string
	Phone  string
	UserID *uint
}

// EnrollmentService owns the enrollment lifecycle and the eligibility predicate
type EnrollmentService interface {
	Submit(ctx context.Context, req SubmitRequest) (*Enrollment, error)
	AssignCourse(ctx context.Context, enrollmentID, courseID uint) (*Enrollment, error)
	Approve(ctx context.Context, enrollmentID, adminID uint, expiresInDays int) (*ApprovalResult, error)
	Reject(ctx context.Context, enrollmentID, adminID uint, reason *string) (*Enrollment, error)
	IsEligible(ctx context.Context, userID, courseID uint) bool
	CheckEligibility(ctx context.Context, userID, courseID uint) Eligibility
	MarkPaid(ctx context.Context, enrollmentID uint, amount *float64) (*Enrollment, error)
	MarkUnpaid(ctx context.Context, enrollmentID uint) (*Enrollment, error)
	Get(ctx context.Context, enrollmentID uint) (*Enrollment, error)
	List(ctx context.Context, filter EnrollmentFilter) ([]*Enrollment, error)
	ListForUser(ctx context.Context, userID uint) ([]*Enrollment, error)
}

// AccessTokenManager owns the course access tokens
type AccessTokenManager interface {
	Issue(ctx context.Context, repo CourseAccessRepository, enrollmentID uint, lifetime time.Duration) (*CourseAccess, error)
	Verify(ctx context.Context, token string) (*AccessVerification, error)
	ConsumeForPasswordSetup(ctx context.Context, token, password string) (*AuthResult, error)
	Revoke(ctx context.Context, enrollmentID uint, reason *string) error
	StatusFor(ctx context.Context, enrollmentID uint) (*CourseAccess, error)
}

// PolicyRule grants a role the methods (regex, e.g. "(GET|POST)") on a keyMatch2 path pattern
type PolicyRule struct {
	Role    Role
	Path    string
	Methods string
}

// CasbinEnforcer is the subset of the casbin enforcer used by the policy service
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
}

// PolicyService answers and seeds role permissions on routes
type PolicyService interface {
	CheckPermission(role Role, path, method string) (bool, error)
	EnsurePolicies(rules []PolicyRule) error
	GetPolicies() ([][]string, error)
}

// Clock returns the current time
type Clock func() time.Time
