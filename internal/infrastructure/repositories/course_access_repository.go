package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/coursegate/domain"
	"gorm.io/gorm"
)

// CourseAccessRepositoryImpl implements domain.CourseAccessRepository using GORM
type CourseAccessRepositoryImpl struct {
	db *gorm.DB
}

// DBCourseAccess is the course_access row, one per approved enrollment
type DBCourseAccess struct {
	ID              uint      `gorm:"primaryKey"`
	EnrollmentID    uint      `gorm:"uniqueIndex;not null"`
	Token           string    `gorm:"uniqueIndex;size:128;not null"`
	ExpiresAt       time.Time `gorm:"index;not null"`
	Status          string    `gorm:"index;size:16;not null"`
	FirstAccessedAt *time.Time
	LastAccessedAt  *time.Time
	RevokedAt       *time.Time
	RevokedReason   *string
	CreatedAt       time.Time
}

// TableName returns the table name for GORM
func (DBCourseAccess) TableName() string {
	return "course_access"
}

// NewCourseAccessRepository creates a new course access repository
func NewCourseAccessRepository(db *gorm.DB) domain.CourseAccessRepository {
	return &CourseAccessRepositoryImpl{db: db}
}

// Create implements domain.CourseAccessRepository
func (r *CourseAccessRepositoryImpl) Create(ctx context.Context, a *domain.CourseAccess) error {
	row := accessToDB(a)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return domain.Upstream("create course access", err)
	}
	a.ID = row.ID
	a.CreatedAt = row.CreatedAt
	return nil
}

// FindByToken implements domain.CourseAccessRepository
func (r *CourseAccessRepositoryImpl) FindByToken(ctx context.Context, token string) (*domain.CourseAccess, error) {
	return r.findOne(ctx, "token = ?", token)
}

// FindByEnrollmentID implements domain.CourseAccessRepository
func (r *CourseAccessRepositoryImpl) FindByEnrollmentID(ctx context.Context, enrollmentID uint) (*domain.CourseAccess, error) {
	return r.findOne(ctx, "enrollment_id = ?", enrollmentID)
}

func (r *CourseAccessRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*domain.CourseAccess, error) {
	var row DBCourseAccess
	if err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, domain.Upstream("find course access", err)
	}
	return accessToDomain(&row), nil
}

// MarkFirstAccess implements domain.CourseAccessRepository
func (r *CourseAccessRepositoryImpl) MarkFirstAccess(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&DBCourseAccess{}).
		Where("id = ? AND first_accessed_at IS NULL", id).
		Updates(map[string]interface{}{
			"first_accessed_at": at,
			"last_accessed_at":  at,
		})
	if res.Error != nil {
		return domain.Upstream("mark first access", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAlreadyInitialized
	}
	return nil
}

// TouchLastAccess implements domain.CourseAccessRepository
func (r *CourseAccessRepositoryImpl) TouchLastAccess(ctx context.Context, id uint, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&DBCourseAccess{}).Where("id = ?", id).Update("last_accessed_at", at).Error
	if err != nil {
		return domain.Upstream("touch last access", err)
	}
	return nil
}

// Revoke implements domain.CourseAccessRepository
func (r *CourseAccessRepositoryImpl) Revoke(ctx context.Context, enrollmentID uint, reason *string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&DBCourseAccess{}).
		Where("enrollment_id = ? AND status = ?", enrollmentID, string(domain.AccessActive)).
		Updates(map[string]interface{}{
			"status":         string(domain.AccessRevoked),
			"revoked_at":     at,
			"revoked_reason": reason,
		})
	if res.Error != nil {
		return domain.Upstream("revoke course access", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// nothing active: either there is no token at all, or it is already revoked
	_, err := r.FindByEnrollmentID(ctx, enrollmentID)
	return err
}

func accessToDB(a *domain.CourseAccess) *DBCourseAccess {
	return &DBCourseAccess{
		ID:              a.ID,
		EnrollmentID:    a.EnrollmentID,
		Token:           a.Token,
		ExpiresAt:       a.ExpiresAt,
		Status:          string(a.Status),
		FirstAccessedAt: a.FirstAccessedAt,
		LastAccessedAt:  a.LastAccessedAt,
		RevokedAt:       a.RevokedAt,
		RevokedReason:   a.RevokedReason,
		CreatedAt:       a.CreatedAt,
	}
}

func accessToDomain(row *DBCourseAccess) *domain.CourseAccess {
	return &domain.CourseAccess{
		ID:              row.ID,
		EnrollmentID:    row.EnrollmentID,
		Token:           row.Token,
		ExpiresAt:       row.ExpiresAt,
		Status:          domain.AccessStatus(row.Status),
		FirstAccessedAt: row.FirstAccessedAt,
		LastAccessedAt:  row.LastAccessedAt,
		RevokedAt:       row.RevokedAt,
		RevokedReason:   row.RevokedReason,
		CreatedAt:       row.CreatedAt,
	}
}
