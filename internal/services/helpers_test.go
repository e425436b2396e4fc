package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/you/coursegate/domain"
	"github.com/you/coursegate/internal/infrastructure/repositories"
	"github.com/you/coursegate/internal/mocks"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// T is the reference instant of the billing and lifecycle tests; April has 30 days.
var T = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

func ptrTime(t time.Time) *time.Time { return &t }

func ptrUint(v uint) *uint { return &v }

func ptrString(s string) *string { return &s }

// testClock is a settable clock shared by the services of a fixture
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// setupTestDB creates an in-memory SQLite database with the full schema.
// A single connection keeps transactions on the same in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(repositories.Models()...))
	return db
}

// fixture wires the real repositories behind the enrollment and access services
type fixture struct {
	db          *gorm.DB
	stores      domain.Stores
	clock       *testClock
	passwords   *mocks.MockPasswordService
	tokens      *mocks.MockTokenService
	notify      *mocks.MockNotificationService
	audit       *mocks.MockAuditLogger
	access      *AccessTokenServiceImpl
	enrollments *EnrollmentServiceImpl
	auth        *AuthServiceImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupTestDB(t)
	f := &fixture{
		db:        db,
		stores:    repositories.StoresFor(db),
		clock:     &testClock{now: T},
		passwords: mocks.NewMockPasswordService(),
		tokens:    mocks.NewMockTokenService(),
		notify:    mocks.NewMockNotificationService(),
		audit:     mocks.NewMockAuditLogger(),
	}
	tx := repositories.NewTransactor(db)
	log := zap.NewNop()

	f.access = NewAccessTokenService(f.stores, tx, f.passwords, f.tokens, f.audit, log, AuthConfig{}).(*AccessTokenServiceImpl)
	f.access.now = f.clock.Now

	f.enrollments = NewEnrollmentService(f.stores.Enrollments, tx, f.access, f.notify, f.audit, log, EnrollmentConfig{}).(*EnrollmentServiceImpl)
	f.enrollments.now = f.clock.Now

	f.auth = NewAuthService(f.stores.Users, f.passwords, f.tokens, mocks.NewMockRevocationStore(), f.audit, log, AuthConfig{}).(*AuthServiceImpl)
	f.auth.now = f.clock.Now
	return f
}

// submitAssigned submits an enrollment for Ana and assigns courseID to it
func (f *fixture) submitAssigned(t *testing.T, courseID uint) *domain.Enrollment {
	t.Helper()
	ctx := context.Background()

	e, err := f.enrollments.Submit(ctx, domain.SubmitRequest{Name: "Ana", Email: "ana@x.com", Phone: "+15550100"})
	require.NoError(t, err)
	e, err = f.enrollments.AssignCourse(ctx, e.ID, courseID)
	require.NoError(t, err)
	return e
}

// approved submits, assigns and approves an enrollment
func (f *fixture) approved(t *testing.T, courseID uint, days int) *domain.ApprovalResult {
	t.Helper()
	e := f.submitAssigned(t, courseID)
	res, err := f.enrollments.Approve(context.Background(), e.ID, 1, days)
	require.NoError(t, err)
	return res
}

func (f *fixture) countAccessRows(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&repositories.DBCourseAccess{}).Count(&n).Error)
	return n
}

func (f *fixture) countUsers(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&repositories.DBUser{}).Count(&n).Error)
	return n
}
