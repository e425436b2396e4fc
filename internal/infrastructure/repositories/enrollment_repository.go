package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/coursegate/domain"
	"gorm.io/gorm"
)

// EnrollmentRepositoryImpl implements domain.EnrollmentRepository using GORM
type EnrollmentRepositoryImpl struct {
	db *gorm.DB
}

// DBEnrollment is the enrollments row. Billing columns are nullable because
// rows created before monthly billing existed never had them.
type DBEnrollment struct {
	ID                   uint      `gorm:"primaryKey"`
	UserID               *uint     `gorm:"index:idx_enrollment_user_course"`
	CourseID             *uint     `gorm:"index:idx_enrollment_user_course"`
	Name                 string    `gorm:"size:255;not null"`
	Email                string    `gorm:"index;size:255;not null"`
	Phone                string    `gorm:"size:32;not null"`
	Status               string    `gorm:"index;size:16;not null"`
	CreatedAt            time.Time `gorm:"index"`
	UnlockedAt           *time.Time
	ApprovedAt           *time.Time
	ApprovedBy           *uint
	RejectedAt           *time.Time
	RejectedBy           *uint
	RejectionReason      *string
	ExpiresAt            *time.Time `gorm:"index"`
	MonthlyPaymentAmount *float64
	LastPaymentDate      *time.Time
	NextPaymentDue       *time.Time
	MonthlyPaymentStatus *string `gorm:"size:16"`
}

// TableName returns the table name for GORM
func (DBEnrollment) TableName() string {
	return "enrollments"
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *gorm.DB) domain.EnrollmentRepository {
	return &EnrollmentRepositoryImpl{db: db}
}

// Create implements domain.EnrollmentRepository
func (r *EnrollmentRepositoryImpl) Create(ctx context.Context, e *domain.Enrollment) error {
	row := enrollmentToDB(e)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return domain.Upstream("create enrollment", err)
	}
	e.ID = row.ID
	e.CreatedAt = row.CreatedAt
	return nil
}

// FindByID implements domain.EnrollmentRepository
func (r *EnrollmentRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Enrollment, error) {
	var row DBEnrollment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, notFoundOr(err, "find enrollment")
	}
	return enrollmentToDomain(&row), nil
}

// FindGranting returns the newest row for the pair whose status grants access and is not expired
func (r *EnrollmentRepositoryImpl) FindGranting(ctx context.Context, userID, courseID uint, now time.Time) (*domain.Enrollment, error) {
	var row DBEnrollment
	err := r.db.WithContext(ctx).
		Scopes(forPair(userID, courseID), withStatuses(domain.GrantingStatuses)).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("id DESC").
		First(&row).Error
	if err != nil {
		return nil, notFoundOr(err, "find granting enrollment")
	}
	return enrollmentToDomain(&row), nil
}

// FindLatest returns the newest row for the pair regardless of status
func (r *EnrollmentRepositoryImpl) FindLatest(ctx context.Context, userID, courseID uint) (*domain.Enrollment, error) {
	var row DBEnrollment
	err := r.db.WithContext(ctx).
		Scopes(forPair(userID, courseID)).
		Order("id DESC").
		First(&row).Error
	if err != nil {
		return nil, notFoundOr(err, "find latest enrollment")
	}
	return enrollmentToDomain(&row), nil
}

// List implements domain.EnrollmentRepository. PaymentStatus is not applied here,
// it is matched against the derived status by the caller.
func (r *EnrollmentRepositoryImpl) List(ctx context.Context, filter domain.EnrollmentFilter) ([]*domain.Enrollment, error) {
	var rows []DBEnrollment
	err := r.db.WithContext(ctx).
		Scopes(filterScopes(filter)...).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, domain.Upstream("list enrollments", err)
	}

	out := make([]*domain.Enrollment, 0, len(rows))
	for i := range rows {
		out = append(out, enrollmentToDomain(&rows[i]))
	}
	return out, nil
}

// AssignCourse implements domain.EnrollmentRepository
func (r *EnrollmentRepositoryImpl) AssignCourse(ctx context.Context, id, courseID uint, at time.Time) error {
	return r.transition(ctx, id, []domain.EnrollmentStatus{domain.EnrollmentPending}, map[string]interface{}{
		"course_id":   courseID,
		"unlocked_at": at,
	})
}

// MarkApproved implements domain.EnrollmentRepository
func (r *EnrollmentRepositoryImpl) MarkApproved(ctx context.Context, id uint, a domain.Approval) error {
	cols := map[string]interface{}{
		"status":                 string(domain.EnrollmentApproved),
		"user_id":                a.UserID,
		"approved_at":            a.ApprovedAt,
		"approved_by":            a.ApprovedBy,
		"next_payment_due":       a.NextPaymentDue,
		"monthly_payment_status": string(a.PaymentStatus),
		"last_payment_date":      a.LastPayment,
	}
	if a.ExpiresAt != nil {
		cols["expires_at"] = *a.ExpiresAt
	}
	return r.transition(ctx, id, []domain.EnrollmentStatus{domain.EnrollmentPending}, cols)
}

// MarkRejected implements domain.EnrollmentRepository
func (r *EnrollmentRepositoryImpl) MarkRejected(ctx context.Context, id uint, rej domain.Rejection) error {
	return r.transition(ctx, id, []domain.EnrollmentStatus{domain.EnrollmentPending}, map[string]interface{}{
		"status":           string(domain.EnrollmentRejected),
		"rejected_at":      rej.RejectedAt,
		"rejected_by":      rej.RejectedBy,
		"rejection_reason": rej.Reason,
	})
}

// UpdateBilling implements domain.EnrollmentRepository
func (r *EnrollmentRepositoryImpl) UpdateBilling(ctx context.Context, id uint, b domain.BillingUpdate) error {
	cols := map[string]interface{}{
		"monthly_payment_status": string(b.Status),
		"last_payment_date":      b.LastPaymentDate,
	}
	if b.NextPaymentDue != nil {
		cols["next_payment_due"] = *b.NextPaymentDue
	}
	if b.Amount != nil {
		cols["monthly_payment_amount"] = *b.Amount
	}
	return r.transition(ctx, id, domain.GrantingStatuses, cols)
}

// transition is a compare-and-set on status: the row is only written while its
// status is one of from. No match yields ErrInvalidState.
func (r *EnrollmentRepositoryImpl) transition(ctx context.Context, id uint, from []domain.EnrollmentStatus, cols map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&DBEnrollment{}).
		Where("id = ?", id).
		Scopes(withStatuses(from)).
		Updates(cols)
	if res.Error != nil {
		return domain.Upstream("update enrollment", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return domain.Upstream(op, err)
}

func enrollmentToDB(e *domain.Enrollment) *DBEnrollment {
	row := &DBEnrollment{
		ID:                   e.ID,
		UserID:               e.UserID,
		CourseID:             e.CourseID,
		Name:                 e.Name,
		Email:                e.Email,
		Phone:                e.Phone,
		Status:               string(e.Status),
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
		NextPaymentDue:       e.NextPaymentDue,
	}
	if e.MonthlyPaymentStatus != nil {
		s := string(*e.MonthlyPaymentStatus)
		row.MonthlyPaymentStatus = &s
	}
	return row
}

func enrollmentToDomain(row *DBEnrollment) *domain.Enrollment {
	e := &domain.Enrollment{
		ID:                   row.ID,
		UserID:               row.UserID,
		CourseID:             row.CourseID,
		Name:                 row.Name,
		Email:                row.Email,
		Phone:                row.Phone,
		Status:               domain.EnrollmentStatus(row.Status),
		CreatedAt:            row.CreatedAt,
		UnlockedAt:           row.UnlockedAt,
		ApprovedAt:           row.ApprovedAt,
		ApprovedBy:           row.ApprovedBy,
		RejectedAt:           row.RejectedAt,
		RejectedBy:           row.RejectedBy,
		RejectionReason:      row.RejectionReason,
		ExpiresAt:            row.ExpiresAt,
		MonthlyPaymentAmount: row.MonthlyPaymentAmount,
		LastPaymentDate:      row.LastPaymentDate,
		NextPaymentDue:       row.NextPaymentDue,
	}
	// an empty string is how some older rows spell "no status"
	if row.MonthlyPaymentStatus != nil && *row.MonthlyPaymentStatus != "" {
		s := domain.PaymentStatus(*row.MonthlyPaymentStatus)
		e.MonthlyPaymentStatus = &s
	}
	return e
}
