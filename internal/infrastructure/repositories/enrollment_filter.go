package repositories

import (
	"strings"

	"github.com/you/coursegate/domain"
	"gorm.io/gorm"
)

type scope = func(*gorm.DB) *gorm.DB

// filterScopes turns a typed filter into gorm scopes, one per present field
func filterScopes(f domain.EnrollmentFilter) []scope {
	scopes := []scope{withStatuses(f.Statuses)}

	if f.CourseID != nil {
		courseID := *f.CourseID
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("course_id = ?", courseID) })
	}
	if f.OnlyUnassigned {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("course_id IS NULL") })
	}
	if f.UserID != nil {
		userID := *f.UserID
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("user_id = ?", userID) })
	}
	if email := strings.TrimSpace(strings.ToLower(f.Email)); email != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("email = ?", email) })
	}
	if f.SubmittedFrom != nil {
		from := *f.SubmittedFrom
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("created_at >= ?", from) })
	}
	if f.SubmittedTo != nil {
		to := *f.SubmittedTo
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("created_at < ?", to) })
	}
	if f.Limit > 0 {
		limit := f.Limit
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Limit(limit) })
	}
	if f.Offset > 0 {
		offset := f.Offset
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Offset(offset) })
	}
	return scopes
}

// withStatuses restricts to the given statuses; empty means no restriction
func withStatuses(statuses []domain.EnrollmentStatus) scope {
	return func(db *gorm.DB) *gorm.DB {
		if len(statuses) == 0 {
			return db
		}
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		return db.Where("status IN ?", values)
	}
}

func forPair(userID, courseID uint) scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND course_id = ?", userID, courseID)
	}
}
