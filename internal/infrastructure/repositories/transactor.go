package repositories

import (
	"context"

	"github.com/you/coursegate/domain"
	"gorm.io/gorm"
)

// Models lists the tables owned by this package, in migration order
func Models() []interface{} {
	return []interface{}{&DBUser{}, &DBEnrollment{}, &DBCourseAccess{}}
}

// StoresFor binds all repositories to db, which may be a transaction handle
func StoresFor(db *gorm.DB) domain.Stores {
	return domain.Stores{
		Users:       NewUserRepository(db),
		Enrollments: NewEnrollmentRepository(db),
		Access:      NewCourseAccessRepository(db),
	}
}

// GormTransactor implements domain.Transactor with a database transaction
type GormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a new transactor
func NewTransactor(db *gorm.DB) domain.Transactor {
	return &GormTransactor{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise,
// including when ctx is cancelled mid-way.
func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, s domain.Stores) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, StoresFor(tx))
	})
}
