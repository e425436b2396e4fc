package handlers

import (
	"time"

	"github.com/you/coursegate/domain"
	"github.com/you/coursegate/internal/services"
)

type userResponse struct {
	ID        uint       `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

func presentUser(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Code:      u.Code,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

type sessionResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

func presentSession(res *domain.AuthResult) sessionResponse {
	return sessionResponse{
		Token:     res.Credential.Token,
		TokenType: "Bearer",
		ExpiresAt: res.Credential.ExpiresAt,
		User:      presentUser(res.User),
	}
}

type billingResponse struct {
	AnchorDate    time.Time `json:"anchorDate"`
	NextDueDate   time.Time `json:"nextDueDate"`
	DaysRemaining int       `json:"daysRemaining"`
	IsOverdue     bool      `json:"isOverdue"`
	Status        string    `json:"status"`
	Derived       bool      `json:"derived"`
}

type enrollmentResponse struct {
	ID                   uint             `json:"id"`
	UserID               *uint            `json:"userId"`
	CourseID             *uint            `json:"courseId"`
	Name                 string           `json:"name"`
	Email                string           `json:"email"`
	Phone                string           `json:"phone"`
	Status               string           `json:"status"`
	Phase                string           `json:"phase"`
	CreatedAt            time.Time        `json:"createdAt"`
	UnlockedAt           *time.Time       `json:"unlockedAt,omitempty"`
	ApprovedAt           *time.Time       `json:"approvedAt,omitempty"`
	ApprovedBy           *uint            `json:"approvedBy,omitempty"`
	RejectedAt           *time.Time       `json:"rejectedAt,omitempty"`
	RejectedBy           *uint            `json:"rejectedBy,omitempty"`
	RejectionReason      *string          `json:"rejectionReason,omitempty"`
	ExpiresAt            *time.Time       `json:"expiresAt,omitempty"`
	MonthlyPaymentAmount *float64         `json:"monthlyPaymentAmount,omitempty"`
	LastPaymentDate      *time.Time       `json:"lastPaymentDate,omitempty"`
	Billing              *billingResponse `json:"billing,omitempty"`
}

// presentEnrollment renders e at now; billing is only shown for access-granting rows
func presentEnrollment(e *domain.Enrollment, now time.Time) enrollmentResponse {
	out := enrollmentResponse{
		ID:                   e.ID,
		UserID:               e.UserID,
		CourseID:             e.CourseID,
		Name:                 e.Name,
		Email:                e.Email,
		Phone:                e.Phone,
		Status:               string(e.Status),
		Phase:                string(e.Phase(now)),
		CreatedAt:            e.CreatedAt,
		UnlockedAt:           e.UnlockedAt,
		ApprovedAt:           e.ApprovedAt,
		ApprovedBy:           e.ApprovedBy,
		RejectedAt:           e.RejectedAt,
		RejectedBy:           e.RejectedBy,
		RejectionReason:      e.RejectionReason,
		ExpiresAt:            e.ExpiresAt,
		MonthlyPaymentAmount: e.MonthlyPaymentAmount,
		LastPaymentDate:      e.LastPaymentDate,
	}
	if e.Status.Grants() {
		b := services.DeriveBilling(e, now)
		out.Billing = &billingResponse{
			AnchorDate:    b.AnchorDate,
			NextDueDate:   b.NextDueDate,
			DaysRemaining: b.DaysRemaining,
			IsOverdue:     b.IsOverdue,
			Status:        string(b.EffectiveStatus),
			Derived:       b.Derived,
		}
	}
	return out
}

func presentEnrollments(list []*domain.Enrollment, now time.Time) []enrollmentResponse {
	out := make([]enrollmentResponse, 0, len(list))
	for _, e := range list {
		out = append(out, presentEnrollment(e, now))
	}
	return out
}

type accessResponse struct {
	EnrollmentID    uint       `json:"enrollmentId"`
	Status          string     `json:"status"`
	ExpiresAt       time.Time  `json:"expiresAt"`
	FirstAccessedAt *time.Time `json:"firstAccessedAt,omitempty"`
	LastAccessedAt  *time.Time `json:"lastAccessedAt,omitempty"`
	RevokedAt       *time.Time `json:"revokedAt,omitempty"`
	RevokedReason   *string    `json:"revokedReason,omitempty"`
}

// presentAccess omits the token itself; only the approval response carries it
func presentAccess(a *domain.CourseAccess) *accessResponse {
	if a == nil {
		return nil
	}
	return &accessResponse{
		EnrollmentID:    a.EnrollmentID,
		Status:          string(a.Status),
		ExpiresAt:       a.ExpiresAt,
		FirstAccessedAt: a.FirstAccessedAt,
		LastAccessedAt:  a.LastAccessedAt,
		RevokedAt:       a.RevokedAt,
		RevokedReason:   a.RevokedReason,
	}
}
