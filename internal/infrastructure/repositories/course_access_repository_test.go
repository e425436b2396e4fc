package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/coursegate/domain"
)

func newAccess(enrollmentID uint, token string) *domain.CourseAccess {
	return &domain.CourseAccess{
		EnrollmentID: enrollmentID,
		Token:        token,
		ExpiresAt:    baseTime.AddDate(1, 0, 0),
		Status:       domain.AccessActive,
	}
}

func TestCourseAccessRepositoryImpl_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseAccessRepository(db)
	ctx := context.Background()

	a := newAccess(1, "tok-1")
	require.NoError(t, repo.Create(ctx, a))
	require.NotZero(t, a.ID)

	byToken, err := repo.FindByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), byToken.EnrollmentID)
	assert.True(t, byToken.NeedsPasswordSetup())

	byEnrollment, err := repo.FindByEnrollmentID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, byToken.ID, byEnrollment.ID)

	_, err = repo.FindByToken(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)

	err = repo.Create(ctx, newAccess(1, "tok-2"))
	assert.ErrorIs(t, err, domain.ErrUpstream, "one token per enrollment")
}

func TestCourseAccessRepositoryImpl_MarkFirstAccess(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseAccessRepository(db)
	ctx := context.Background()

	a := newAccess(1, "tok-1")
	require.NoError(t, repo.Create(ctx, a))

	at := baseTime.Add(time.Hour)
	require.NoError(t, repo.MarkFirstAccess(ctx, a.ID, at))
	assert.ErrorIs(t, repo.MarkFirstAccess(ctx, a.ID, at.Add(time.Minute)), domain.ErrAlreadyInitialized)

	got, err := repo.FindByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, got.FirstAccessedAt.Equal(at), "first access is stamped once")
	assert.True(t, got.LastAccessedAt.Equal(at))
	assert.False(t, got.NeedsPasswordSetup())
}

func TestCourseAccessRepositoryImpl_TouchLastAccess(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseAccessRepository(db)
	ctx := context.Background()

	a := newAccess(1, "tok-1")
	require.NoError(t, repo.Create(ctx, a))

	at := baseTime.Add(2 * time.Hour)
	require.NoError(t, repo.TouchLastAccess(ctx, a.ID, at))

	got, err := repo.FindByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, got.LastAccessedAt.Equal(at))
	assert.Nil(t, got.FirstAccessedAt)
}

func TestCourseAccessRepositoryImpl_Revoke(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseAccessRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newAccess(1, "tok-1")))

	reason := "chargeback"
	at := baseTime.Add(time.Hour)
	require.NoError(t, repo.Revoke(ctx, 1, &reason, at))

	got, err := repo.FindByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, domain.AccessRevoked, got.Status)
	assert.Equal(t, "chargeback", *got.RevokedReason)
	assert.True(t, got.RevokedAt.Equal(at))

	// second revoke keeps the original stamp
	require.NoError(t, repo.Revoke(ctx, 1, nil, at.Add(time.Hour)))
	got, err = repo.FindByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, got.RevokedAt.Equal(at))

	assert.ErrorIs(t, repo.Revoke(ctx, 2, nil, at), domain.ErrTokenNotFound)
}
