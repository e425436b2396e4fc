package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/coursegate/domain"
	"gorm.io/gorm"
)

func uintPtr(v uint) *uint { return &v }

func timePtr(t time.Time) *time.Time { return &t }

var baseTime = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

func seedEnrollment(t *testing.T, db *gorm.DB, row DBEnrollment) *DBEnrollment {
	t.Helper()
	if row.Name == "" {
		row.Name = "Ana"
	}
	if row.Email == "" {
		row.Email = "ana@x.com"
	}
	if row.Phone == "" {
		row.Phone = "+1555"
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = baseTime
	}
	require.NoError(t, db.Create(&row).Error)
	return &row
}

func TestEnrollmentRepositoryImpl_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	e := &domain.Enrollment{Name: "Ana", Email: "ana@x.com", Phone: "+1555", Status: domain.EnrollmentPending}
	require.NoError(t, repo.Create(ctx, e))
	require.NotZero(t, e.ID)

	got, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EnrollmentPending, got.Status)
	assert.Nil(t, got.UserID)
	assert.Nil(t, got.CourseID)
	assert.Nil(t, got.MonthlyPaymentStatus)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEnrollmentRepositoryImpl_LegacyRowWithoutBilling(t *testing.T) {
	db := setupTestDB(t)
	empty := ""
	row := seedEnrollment(t, db, DBEnrollment{
		Status:               string(domain.EnrollmentActive),
		UserID:               uintPtr(1),
		CourseID:             uintPtr(2),
		MonthlyPaymentStatus: &empty,
	})

	got, err := NewEnrollmentRepository(db).FindByID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Nil(t, got.MonthlyPaymentStatus, "empty stored status reads as absent")
	assert.Nil(t, got.NextPaymentDue)
}

func TestEnrollmentRepositoryImpl_FindGranting(t *testing.T) {
	now := baseTime.Add(24 * time.Hour)

	tests := []struct {
		name      string
		rows      []DBEnrollment
		wantFound bool
	}{
		{
			name:      "approved without expiry",
			rows:      []DBEnrollment{{Status: "approved"}},
			wantFound: true,
		},
		{
			name:      "active with future expiry",
			rows:      []DBEnrollment{{Status: "active", ExpiresAt: timePtr(now.Add(time.Hour))}},
			wantFound: true,
		},
		{
			name: "approved but expired",
			rows: []DBEnrollment{{Status: "approved", ExpiresAt: timePtr(now.Add(-time.Hour))}},
		},
		{
			name: "pending",
			rows: []DBEnrollment{{Status: "pending"}},
		},
		{
			name: "rejected",
			rows: []DBEnrollment{{Status: "rejected"}},
		},
		{
			name: "expired row next to a valid one",
			rows: []DBEnrollment{
				{Status: "active", ExpiresAt: timePtr(now.Add(-time.Hour))},
				{Status: "approved"},
			},
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			for _, r := range tt.rows {
				r.UserID = uintPtr(10)
				r.CourseID = uintPtr(20)
				seedEnrollment(t, db, r)
			}
			// a granting row for another course must never leak into the pair
			seedEnrollment(t, db, DBEnrollment{Status: "approved", UserID: uintPtr(10), CourseID: uintPtr(99)})

			got, err := NewEnrollmentRepository(db).FindGranting(context.Background(), 10, 20, now)
			if !tt.wantFound {
				assert.ErrorIs(t, err, domain.ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(20), *got.CourseID)
			assert.True(t, got.GrantsAccess(now))
		})
	}
}

func TestEnrollmentRepositoryImpl_FindLatest(t *testing.T) {
	db := setupTestDB(t)
	seedEnrollment(t, db, DBEnrollment{Status: "rejected", UserID: uintPtr(1), CourseID: uintPtr(2)})
	last := seedEnrollment(t, db, DBEnrollment{Status: "pending", UserID: uintPtr(1), CourseID: uintPtr(2)})

	got, err := NewEnrollmentRepository(db).FindLatest(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, last.ID, got.ID)

	_, err = NewEnrollmentRepository(db).FindLatest(context.Background(), 1, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEnrollmentRepositoryImpl_Transitions(t *testing.T) {
	ctx := context.Background()
	at := baseTime.Add(time.Hour)

	t.Run("approve only once", func(t *testing.T) {
		db := setupTestDB(t)
		row := seedEnrollment(t, db, DBEnrollment{Status: "pending", CourseID: uintPtr(3)})
		repo := NewEnrollmentRepository(db)

		approval := domain.Approval{
			UserID:         7,
			ApprovedBy:     1,
			ApprovedAt:     at,
			NextPaymentDue: at.AddDate(0, 1, 0),
			PaymentStatus:  domain.PaymentPending,
			LastPayment:    at,
		}
		require.NoError(t, repo.MarkApproved(ctx, row.ID, approval))
		assert.ErrorIs(t, repo.MarkApproved(ctx, row.ID, approval), domain.ErrInvalidState)

		got, err := repo.FindByID(ctx, row.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.EnrollmentApproved, got.Status)
		assert.Equal(t, uint(7), *got.UserID)
		assert.Equal(t, uint(1), *got.ApprovedBy)
		assert.True(t, got.NextPaymentDue.Equal(at.AddDate(0, 1, 0)))
		assert.Equal(t, domain.PaymentPending, *got.MonthlyPaymentStatus)
		assert.Nil(t, got.RejectedAt)
	})

	t.Run("reject only while pending", func(t *testing.T) {
		db := setupTestDB(t)
		pending := seedEnrollment(t, db, DBEnrollment{Status: "pending"})
		approved := seedEnrollment(t, db, DBEnrollment{Status: "approved"})
		repo := NewEnrollmentRepository(db)
		reason := "duplicate"

		require.NoError(t, repo.MarkRejected(ctx, pending.ID, domain.Rejection{RejectedBy: 1, RejectedAt: at, Reason: &reason}))
		assert.ErrorIs(t, repo.MarkRejected(ctx, approved.ID, domain.Rejection{RejectedBy: 1, RejectedAt: at}), domain.ErrInvalidState)

		got, err := repo.FindByID(ctx, pending.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.EnrollmentRejected, got.Status)
		assert.Equal(t, "duplicate", *got.RejectionReason)
		assert.Nil(t, got.ApprovedAt)
	})

	t.Run("assign course while pending", func(t *testing.T) {
		db := setupTestDB(t)
		row := seedEnrollment(t, db, DBEnrollment{Status: "pending"})
		repo := NewEnrollmentRepository(db)

		require.NoError(t, repo.AssignCourse(ctx, row.ID, 42, at))
		got, err := repo.FindByID(ctx, row.ID)
		require.NoError(t, err)
		assert.Equal(t, uint(42), *got.CourseID)
		assert.True(t, got.UnlockedAt.Equal(at))

		assert.ErrorIs(t, repo.AssignCourse(ctx, 999, 42, at), domain.ErrInvalidState)
	})

	t.Run("billing requires a granting status", func(t *testing.T) {
		db := setupTestDB(t)
		active := seedEnrollment(t, db, DBEnrollment{Status: "active", LastPaymentDate: timePtr(at)})
		pending := seedEnrollment(t, db, DBEnrollment{Status: "pending"})
		repo := NewEnrollmentRepository(db)
		amount := 49.9

		due := at.AddDate(0, 1, 0)
		require.NoError(t, repo.UpdateBilling(ctx, active.ID, domain.BillingUpdate{
			Status:         domain.PaymentPaid,
			NextPaymentDue: &due,
			Amount:         &amount,
		}))
		got, err := repo.FindByID(ctx, active.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentPaid, *got.MonthlyPaymentStatus)
		assert.Nil(t, got.LastPaymentDate, "nil last payment clears the column")
		assert.InDelta(t, 49.9, *got.MonthlyPaymentAmount, 0.001)

		assert.ErrorIs(t, repo.UpdateBilling(ctx, pending.ID, domain.BillingUpdate{Status: domain.PaymentPaid}), domain.ErrInvalidState)
	})
}

func TestEnrollmentRepositoryImpl_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	seedEnrollment(t, db, DBEnrollment{Status: "pending", Email: "a@x.com", CreatedAt: baseTime})
	seedEnrollment(t, db, DBEnrollment{Status: "approved", Email: "b@x.com", CourseID: uintPtr(1), UserID: uintPtr(5), CreatedAt: baseTime.Add(time.Hour)})
	seedEnrollment(t, db, DBEnrollment{Status: "active", Email: "c@x.com", CourseID: uintPtr(2), CreatedAt: baseTime.Add(2 * time.Hour)})
	seedEnrollment(t, db, DBEnrollment{Status: "rejected", Email: "a@x.com", CourseID: uintPtr(1), CreatedAt: baseTime.Add(3 * time.Hour)})

	tests := []struct {
		name   string
		filter domain.EnrollmentFilter
		emails []string
	}{
		{"no filter newest first", domain.EnrollmentFilter{}, []string{"a@x.com", "c@x.com", "b@x.com", "a@x.com"}},
		{"granting statuses", domain.EnrollmentFilter{Statuses: domain.GrantingStatuses}, []string{"c@x.com", "b@x.com"}},
		{"by course", domain.EnrollmentFilter{CourseID: uintPtr(1)}, []string{"a@x.com", "b@x.com"}},
		{"unassigned", domain.EnrollmentFilter{OnlyUnassigned: true}, []string{"a@x.com"}},
		{"by user", domain.EnrollmentFilter{UserID: uintPtr(5)}, []string{"b@x.com"}},
		{"by email is case-insensitive", domain.EnrollmentFilter{Email: " A@X.com "}, []string{"a@x.com", "a@x.com"}},
		{"submitted window", domain.EnrollmentFilter{SubmittedFrom: timePtr(baseTime.Add(time.Hour)), SubmittedTo: timePtr(baseTime.Add(3 * time.Hour))}, []string{"c@x.com", "b@x.com"}},
		{"paged", domain.EnrollmentFilter{Limit: 2, Offset: 1}, []string{"c@x.com", "b@x.com"}},
		{"offset without limit", domain.EnrollmentFilter{Offset: 2}, []string{"b@x.com", "a@x.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)

			emails := make([]string, len(got))
			for i, e := range got {
				emails[i] = e.Email
			}
			assert.Equal(t, tt.emails, emails)
		})
	}
}
