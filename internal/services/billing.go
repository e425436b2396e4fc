package services

import (
	"math"
	"time"

	"github.com/you/coursegate/domain"
)

// AddMonth advances t by one calendar month, normalizing overflow the way time.AddDate does (Jan 31 -> Mar 2/3).
func AddMonth(t time.Time) time.Time {
	return t.AddDate(0, 1, 0)
}

// BillingAnchor is the first non-null of approved_at, unlocked_at and created_at
func BillingAnchor(e *domain.Enrollment) time.Time {
	switch {
	case e.ApprovedAt != nil:
		return *e.ApprovedAt
	case e.UnlockedAt != nil:
		return *e.UnlockedAt
	default:
		return e.CreatedAt
	}
}

// DeriveBilling computes the monthly payment state of e at now. An explicit stored
// status always wins; otherwise the status follows the overdue flag. Rows without
// next_payment_due fall back to anchor + 1 month.
func DeriveBilling(e *domain.Enrollment, now time.Time) domain.BillingStatus {
	anchor := BillingAnchor(e)
	due := AddMonth(anchor)
	if e.NextPaymentDue != nil {
		due = *e.NextPaymentDue
	}

	days := daysUntil(now, due)
	status := domain.BillingStatus{
		AnchorDate:    anchor,
		NextDueDate:   due,
		DaysRemaining: days,
		IsOverdue:     days < 0,
	}

	switch {
	case e.MonthlyPaymentStatus != nil && e.MonthlyPaymentStatus.Valid():
		status.EffectiveStatus = *e.MonthlyPaymentStatus
	case status.IsOverdue:
		status.EffectiveStatus, status.Derived = domain.PaymentOverdue, true
	default:
		status.EffectiveStatus, status.Derived = domain.PaymentPending, true
	}
	return status
}

// daysUntil is ceil((due-now) / 24h)
func daysUntil(now, due time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}
