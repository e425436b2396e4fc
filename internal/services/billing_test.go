package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/you/coursegate/domain"
)

func paymentStatus(p domain.PaymentStatus) *domain.PaymentStatus { return &p }

func TestDeriveBilling(t *testing.T) {
	// April has 30 days, so T + 1 month = T + 30d
	T := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	// January has 31 days
	jan := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name        string
		enrollment  domain.Enrollment
		now         time.Time
		wantDays    int
		wantOverdue bool
		wantStatus  domain.PaymentStatus
		wantDerived bool
		wantDue     time.Time
	}{
		{
			name:        "no billing fields, 40 days after approval",
			enrollment:  domain.Enrollment{ApprovedAt: ptrTime(T), CreatedAt: T.Add(-day)},
			now:         T.Add(40 * day),
			wantDays:    -10,
			wantOverdue: true,
			wantStatus:  domain.PaymentOverdue,
			wantDerived: true,
			wantDue:     T.Add(30 * day),
		},
		{
			name:        "no billing fields, due date follows the calendar month",
			enrollment:  domain.Enrollment{ApprovedAt: ptrTime(jan), CreatedAt: jan.Add(-day)},
			now:         jan.Add(40 * day),
			wantDays:    -9,
			wantOverdue: true,
			wantStatus:  domain.PaymentOverdue,
			wantDerived: true,
			wantDue:     time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "explicit paid overrides overdue logic",
			enrollment: domain.Enrollment{
				ApprovedAt:           ptrTime(T),
				NextPaymentDue:       ptrTime(T.Add(30 * day)),
				MonthlyPaymentStatus: paymentStatus(domain.PaymentPaid),
			},
			now:        T.Add(5 * day),
			wantDays:   25,
			wantStatus: domain.PaymentPaid,
			wantDue:    T.Add(30 * day),
		},
		{
			name: "explicit paid stays paid even past due",
			enrollment: domain.Enrollment{
				ApprovedAt:           ptrTime(T),
				NextPaymentDue:       ptrTime(T.Add(30 * day)),
				MonthlyPaymentStatus: paymentStatus(domain.PaymentPaid),
			},
			now:         T.Add(31 * day),
			wantDays:    -1,
			wantOverdue: true,
			wantStatus:  domain.PaymentPaid,
			wantDue:     T.Add(30 * day),
		},
		{
			name:        "derived pending before due",
			enrollment:  domain.Enrollment{ApprovedAt: ptrTime(T)},
			now:         T.Add(10 * day),
			wantDays:    20,
			wantStatus:  domain.PaymentPending,
			wantDerived: true,
			wantDue:     T.Add(30 * day),
		},
		{
			name:        "partial day rounds up",
			enrollment:  domain.Enrollment{ApprovedAt: ptrTime(T)},
			now:         T.Add(29*day + time.Hour),
			wantDays:    1,
			wantStatus:  domain.PaymentPending,
			wantDerived: true,
			wantDue:     T.Add(30 * day),
		},
		{
			name:        "due exactly now is not overdue",
			enrollment:  domain.Enrollment{ApprovedAt: ptrTime(T)},
			now:         T.Add(30 * day),
			wantDays:    0,
			wantStatus:  domain.PaymentPending,
			wantDerived: true,
			wantDue:     T.Add(30 * day),
		},
		{
			name:        "anchor falls back to unlocked_at",
			enrollment:  domain.Enrollment{UnlockedAt: ptrTime(T), CreatedAt: T.Add(-10 * day)},
			now:         T,
			wantDays:    30,
			wantStatus:  domain.PaymentPending,
			wantDerived: true,
			wantDue:     T.Add(30 * day),
		},
		{
			name:        "anchor falls back to created_at",
			enrollment:  domain.Enrollment{CreatedAt: T},
			now:         T.Add(35 * day),
			wantDays:    -5,
			wantOverdue: true,
			wantStatus:  domain.PaymentOverdue,
			wantDerived: true,
			wantDue:     T.Add(30 * day),
		},
		{
			name: "unknown stored status is ignored",
			enrollment: domain.Enrollment{
				ApprovedAt:           ptrTime(T),
				MonthlyPaymentStatus: paymentStatus("legacy"),
			},
			now:         T.Add(40 * day),
			wantDays:    -10,
			wantOverdue: true,
			wantStatus:  domain.PaymentOverdue,
			wantDerived: true,
			wantDue:     T.Add(30 * day),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveBilling(&tt.enrollment, tt.now)

			assert.Equal(t, tt.wantDays, got.DaysRemaining)
			assert.Equal(t, tt.wantOverdue, got.IsOverdue)
			assert.Equal(t, tt.wantStatus, got.EffectiveStatus)
			assert.Equal(t, tt.wantDerived, got.Derived)
			assert.True(t, tt.wantDue.Equal(got.NextDueDate), "due %v, got %v", tt.wantDue, got.NextDueDate)
		})
	}
}

func TestAddMonth(t *testing.T) {
	tests := []struct {
		in, want time.Time
	}{
		{time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AddMonth(tt.in))
	}
}
