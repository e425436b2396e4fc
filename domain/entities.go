package domain

import "time"

// Role is a user's platform role
type Role string

const (
	RoleStudent    Role = "student"
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin, RoleInstructor:
		return true
	}
	return false
}

// User represents a platform account
type User struct {
	ID           uint
	Code         string // public-facing, e.g. USR-4F9K2Q
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// EnrollmentStatus is the stored lifecycle state of an enrollment
type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentApproved EnrollmentStatus = "approved"
	EnrollmentRejected EnrollmentStatus = "rejected"
	// EnrollmentActive is the legacy auto-activated state. It grants access exactly like approved.
	EnrollmentActive EnrollmentStatus = "active"
)

// GrantingStatuses are the statuses that grant course access when not expired.
var GrantingStatuses = []EnrollmentStatus{EnrollmentActive, EnrollmentApproved}

// Grants reports whether s is one of the access-granting statuses
func (s EnrollmentStatus) Grants() bool {
	return s == EnrollmentActive || s == EnrollmentApproved
}

// PaymentStatus is the monthly billing state
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentOverdue PaymentStatus = "overdue"
)

// Valid reports whether p is a known payment status
func (p PaymentStatus) Valid() bool {
	return p == PaymentPaid || p == PaymentPending || p == PaymentOverdue
}

// Enrollment is a (possible) access grant of a user to a course.
// Nullable columns are pointers; rows written before billing existed leave them nil.
type Enrollment struct {
	ID       uint
	UserID   *uint
	CourseID *uint

	// Contact snapshot at submission time
	Name  string
	Email string
	Phone string

	Status          EnrollmentStatus
	CreatedAt       time.Time
	UnlockedAt      *time.Time
	ApprovedAt      *time.Time
	ApprovedBy      *uint
	RejectedAt      *time.Time
	RejectedBy      *uint
	RejectionReason *string
	ExpiresAt       *time.Time

	MonthlyPaymentAmount *float64
	LastPaymentDate      *time.Time
	NextPaymentDue       *time.Time
	MonthlyPaymentStatus *PaymentStatus
}

// Expired reports whether the enrollment has an expiry at or before now
func (e *Enrollment) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !e.ExpiresAt.After(now)
}

// GrantsAccess is the eligibility predicate for a single row
func (e *Enrollment) GrantsAccess(now time.Time) bool {
	return e.Status.Grants() && !e.Expired(now)
}

// LifecyclePhase is the derived phase of an enrollment, combining status and expiry
type LifecyclePhase string

const (
	PhasePending  LifecyclePhase = "pending"
	PhaseApproved LifecyclePhase = "approved"
	PhaseActive   LifecyclePhase = "active"
	PhaseRejected LifecyclePhase = "rejected"
	PhaseExpired  LifecyclePhase = "expired"
)

// Phase derives the lifecycle phase at now
func (e *Enrollment) Phase(now time.Time) LifecyclePhase {
	if e.Status.Grants() && e.Expired(now) {
		return PhaseExpired
	}
	return LifecyclePhase(e.Status)
}

// AccessStatus is the state of a course access token
type AccessStatus string

const (
	AccessActive  AccessStatus = "active"
	AccessRevoked AccessStatus = "revoked"
)

// CourseAccess is the one-time-link token bound 1:1 to an approved enrollment
type CourseAccess struct {
	ID              uint
	EnrollmentID    uint
	Token           string
	ExpiresAt       time.Time
	Status          AccessStatus
	FirstAccessedAt *time.Time
	LastAccessedAt  *time.Time
	RevokedAt       *time.Time
	RevokedReason   *string
	CreatedAt       time.Time
}

// Usable reports whether the token may be used at now
func (a *CourseAccess) Usable(now time.Time) bool {
	return a.Status == AccessActive && a.ExpiresAt.After(now)
}

// NeedsPasswordSetup reports whether the password bootstrap has not happened yet
func (a *CourseAccess) NeedsPasswordSetup() bool {
	return a.FirstAccessedAt == nil
}

// Identity is the verified caller attached to a request
type Identity struct {
	UserID    uint
	Email     string
	Role      Role
	TokenID   string // jti of the presented credential
	ExpiresAt time.Time
}

// IsAdmin reports whether the identity has the admin role
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// SessionCredential is a freshly minted signed credential
type SessionCredential struct {
	Token     string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User       *User
	Credential *SessionCredential
}

// Eligibility is the answer of the content gate
type Eligibility struct {
	Enrolled   bool
	Reason     string // "expired" | "inactive" | ""
	Enrollment *Enrollment
}

const (
	ReasonExpired  = "expired"
	ReasonInactive = "inactive"
)

// BillingStatus is the derived monthly payment state of an enrollment
type BillingStatus struct {
	AnchorDate      time.Time
	NextDueDate     time.Time
	DaysRemaining   int
	IsOverdue       bool
	EffectiveStatus PaymentStatus
	Derived         bool // true when EffectiveStatus was not stored
}

// ApprovalResult is returned by a successful approval
type ApprovalResult struct {
	Enrollment *Enrollment
	User       *User
	Access     *CourseAccess
	NewUser    bool
}

// AccessVerification is the outcome of verifying a course access token
type AccessVerification struct {
	Access             *CourseAccess
	Enrollment         *Enrollment
	NeedsPasswordSetup bool
}

// EnrollmentFilter selects enrollments for admin listings. Zero values mean "any".
type EnrollmentFilter struct {
	Statuses       []EnrollmentStatus
	CourseID       *uint
	UserID         *uint
	Email          string
	SubmittedFrom  *time.Time
	SubmittedTo    *time.Time
	PaymentStatus  PaymentStatus // matched against the derived effective status
	OnlyUnassigned bool
	Limit          int
	Offset         int
}
