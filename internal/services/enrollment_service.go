package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/you/coursegate/domain"
	"go.uber.org/zap"
)

const (
	defaultExpiryDays         = 365
	maxExpiryDays             = 3650
	defaultEligibilityTimeout = 3 * time.Second
)

// EnrollmentConfig holds the tunables of the enrollment lifecycle
type EnrollmentConfig struct {
	DefaultExpiryDays  int
	EligibilityTimeout time.Duration
}

// EnrollmentServiceImpl implements domain.EnrollmentService
type EnrollmentServiceImpl struct {
	enrollments domain.EnrollmentRepository
	tx          domain.Transactor
	access      domain.AccessTokenManager
	notify      domain.NotificationService
	audit       domain.AuditLogger
	log         *zap.Logger
	now         domain.Clock

	defaultExpiryDays  int
	eligibilityTimeout time.Duration
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	enrollments domain.EnrollmentRepository,
	tx domain.Transactor,
	access domain.AccessTokenManager,
	notify domain.NotificationService,
	audit domain.AuditLogger,
	log *zap.Logger,
	cfg EnrollmentConfig,
) domain.EnrollmentService {
	s := &EnrollmentServiceImpl{
		enrollments:        enrollments,
		tx:                 tx,
		access:             access,
		notify:             notify,
		audit:              audit,
		log:                log.Named("enrollment"),
		now:                time.Now,
		defaultExpiryDays:  cfg.DefaultExpiryDays,
		eligibilityTimeout: cfg.EligibilityTimeout,
	}
	if s.defaultExpiryDays <= 0 || s.defaultExpiryDays > maxExpiryDays {
		s.defaultExpiryDays = defaultExpiryDays
	}
	if s.eligibilityTimeout <= 0 {
		s.eligibilityTimeout = defaultEligibilityTimeout
	}
	return s
}

type submitInput struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone" validate:"required,max=32"`
}

// Submit implements domain.EnrollmentService
func (s *EnrollmentServiceImpl) Submit(ctx context.Context, req domain.SubmitRequest) (*domain.Enrollment, error) {
	in := submitInput{
		Name:  strings.TrimSpace(req.Name),
		Email: normalizeEmail(req.Email),
		Phone: strings.TrimSpace(req.Phone),
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	e := &domain.Enrollment{
		UserID: req.UserID,
		Name:   in.Name,
		Email:  in.Email,
		Phone:  in.Phone,
		Status: domain.EnrollmentPending,
	}
	if err := s.enrollments.Create(ctx, e); err != nil {
		return nil, err
	}

	if err := s.notify.EnrollmentSubmitted(ctx, e); err != nil {
		s.log.Warn("failed to notify admins of enrollment", zap.Uint("enrollment_id", e.ID), zap.Error(err))
	}

	event := domain.NewAuditEvent(domain.EnrollmentSubmittedEvent).WithEnrollment(e.ID).WithEmail(e.Email)
	if e.UserID != nil {
		event.WithUser(*e.UserID)
	}
	s.audit.LogEvent(ctx, event)
	return e, nil
}

// AssignCourse implements domain.EnrollmentService. Only pending enrollments can be (re)assigned.
func (s *EnrollmentServiceImpl) AssignCourse(ctx context.Context, enrollmentID, courseID uint) (*domain.Enrollment, error) {
	if courseID == 0 {
		return nil, domain.NewValidationError("courseId", "is required")
	}
	if err := s.enrollments.AssignCourse(ctx, enrollmentID, courseID, s.now().UTC()); err != nil {
		return nil, s.refine(ctx, enrollmentID, err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.CourseAssignedEvent).
		WithEnrollment(enrollmentID).WithMetadata("course_id", courseID))
	return s.enrollments.FindByID(ctx, enrollmentID)
}

// Approve implements domain.EnrollmentService. The account, the enrollment update and the
// access token are written in one transaction; the student is notified after commit.
func (s *EnrollmentServiceImpl) Approve(ctx context.Context, enrollmentID, adminID uint, expiresInDays int) (*domain.ApprovalResult, error) {
	if expiresInDays <= 0 {
		expiresInDays = s.defaultExpiryDays
	}
	if expiresInDays > maxExpiryDays {
		return nil, domain.NewValidationError("expiresInDays", fmt.Sprintf("must be at most %d", maxExpiryDays))
	}

	now := s.now().UTC()
	window := time.Duration(expiresInDays) * 24 * time.Hour
	expiresAt := now.Add(window)

	var result *domain.ApprovalResult
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, st domain.Stores) error {
		e, err := st.Enrollments.FindByID(ctx, enrollmentID)
		if err != nil {
			return err
		}
		if err := approvable(e); err != nil {
			return err
		}

		user, created, err := resolveUser(ctx, st.Users, e)
		if err != nil {
			return err
		}

		err = st.Enrollments.MarkApproved(ctx, enrollmentID, domain.Approval{
			UserID:         user.ID,
			ApprovedBy:     adminID,
			ApprovedAt:     now,
			NextPaymentDue: AddMonth(now),
			PaymentStatus:  domain.PaymentPending,
			LastPayment:    now,
			ExpiresAt:      &expiresAt,
		})
		if err != nil {
			if errors.Is(err, domain.ErrInvalidState) {
				// lost a race with another admin action, report what won
				if current, findErr := st.Enrollments.FindByID(ctx, enrollmentID); findErr == nil {
					if stateErr := approvable(current); stateErr != nil {
						return stateErr
					}
				}
			}
			return err
		}

		access, err := s.access.Issue(ctx, st.Access, enrollmentID, window)
		if err != nil {
			return err
		}
		if !created && !isPlaceholderHash(user.PasswordHash) {
			// the account already signs in with its own password, the link only grants access
			if err := st.Access.MarkFirstAccess(ctx, access.ID, now); err != nil {
				return err
			}
			access.FirstAccessedAt = &now
		}

		approved, err := st.Enrollments.FindByID(ctx, enrollmentID)
		if err != nil {
			return err
		}
		result = &domain.ApprovalResult{Enrollment: approved, User: user, Access: access, NewUser: created}
		return nil
	})
	if err != nil {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.EnrollmentApprovedEvent).
			WithActor(adminID).WithEnrollment(enrollmentID).WithError(err))
		return nil, err
	}

	if err := s.notify.AccessGranted(ctx, result.Enrollment, result.Access); err != nil {
		s.log.Warn("failed to deliver access link", zap.Uint("enrollment_id", enrollmentID), zap.Error(err))
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.EnrollmentApprovedEvent).
		WithActor(adminID).WithUser(result.User.ID).WithEnrollment(enrollmentID).
		WithMetadata("expires_in_days", expiresInDays).
		WithMetadata("new_user", result.NewUser))
	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.AccessTokenIssuedEvent).
		WithUser(result.User.ID).WithEnrollment(enrollmentID))
	return result, nil
}

// approvable checks the states approve refuses, in the order callers see them
func approvable(e *domain.Enrollment) error {
	switch {
	case e.Status.Grants():
		return domain.ErrAlreadyApproved
	case e.Status != domain.EnrollmentPending:
		return domain.ErrInvalidState
	case e.CourseID == nil:
		return domain.ErrCourseNotAssigned
	}
	return nil
}

// resolveUser finds the enrollment's account by id, then by email, and creates a
// student with an unusable credential when neither exists.
func resolveUser(ctx context.Context, users domain.UserRepository, e *domain.Enrollment) (*domain.User, bool, error) {
	if e.UserID != nil {
		user, err := users.FindByID(ctx, *e.UserID)
		if err == nil {
			return user, false, nil
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, false, err
		}
	}

	user, err := users.FindByEmail(ctx, e.Email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}

	code, err := newUserCode()
	if err != nil {
		return nil, false, err
	}
	hash, err := placeholderHash()
	if err != nil {
		return nil, false, err
	}
	user = &domain.User{
		Code:         code,
		Name:         e.Name,
		Email:        e.Email,
		PasswordHash: hash,
		Role:         domain.RoleStudent,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// Reject implements domain.EnrollmentService
func (s *EnrollmentServiceImpl) Reject(ctx context.Context, enrollmentID, adminID uint, reason *string) (*domain.Enrollment, error) {
	reason = trimOptional(reason)
	err := s.enrollments.MarkRejected(ctx, enrollmentID, domain.Rejection{
		RejectedBy: adminID,
		RejectedAt: s.now().UTC(),
		Reason:     reason,
	})
	if err != nil {
		return nil, s.refine(ctx, enrollmentID, err)
	}

	e, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if err := s.notify.EnrollmentRejected(ctx, e); err != nil {
		s.log.Warn("failed to notify rejection", zap.Uint("enrollment_id", enrollmentID), zap.Error(err))
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.EnrollmentRejectedEvent).
		WithActor(adminID).WithEnrollment(enrollmentID))
	return e, nil
}

// IsEligible implements domain.EnrollmentService
func (s *EnrollmentServiceImpl) IsEligible(ctx context.Context, userID, courseID uint) bool {
	return s.CheckEligibility(ctx, userID, courseID).Enrolled
}

// CheckEligibility implements domain.EnrollmentService. It never errors: a missing row,
// an expired row, a store failure and a timeout all deny.
func (s *EnrollmentServiceImpl) CheckEligibility(ctx context.Context, userID, courseID uint) domain.Eligibility {
	ctx, cancel := context.WithTimeout(ctx, s.eligibilityTimeout)
	defer cancel()

	now := s.now().UTC()
	e, err := s.enrollments.FindGranting(ctx, userID, courseID, now)
	if err == nil && e.GrantsAccess(now) {
		return domain.Eligibility{Enrolled: true, Enrollment: e}
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.log.Warn("eligibility check failed, denying",
			zap.Uint("user_id", userID), zap.Uint("course_id", courseID), zap.Error(err))
		return domain.Eligibility{}
	}

	// not eligible; the newest row explains why
	latest, err := s.enrollments.FindLatest(ctx, userID, courseID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("eligibility reason lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		}
		return domain.Eligibility{}
	}

	reason := domain.ReasonInactive
	if latest.Status.Grants() {
		reason = domain.ReasonExpired
	}
	return domain.Eligibility{Reason: reason, Enrollment: latest}
}

// MarkPaid implements domain.EnrollmentService. The next due date moves to one month from now.
func (s *EnrollmentServiceImpl) MarkPaid(ctx context.Context, enrollmentID uint, amount *float64) (*domain.Enrollment, error) {
	if amount != nil && *amount < 0 {
		return nil, domain.NewValidationError("amount", "must not be negative")
	}

	now := s.now().UTC()
	due := AddMonth(now)
	err := s.enrollments.UpdateBilling(ctx, enrollmentID, domain.BillingUpdate{
		Status:          domain.PaymentPaid,
		LastPaymentDate: &now,
		NextPaymentDue:  &due,
		Amount:          amount,
	})
	if err != nil {
		return nil, s.refine(ctx, enrollmentID, err)
	}

	event := domain.NewAuditEvent(domain.PaymentMarkedPaidEvent).WithEnrollment(enrollmentID)
	if amount != nil {
		event.WithMetadata("amount", *amount)
	}
	s.audit.LogEvent(ctx, event)
	return s.enrollments.FindByID(ctx, enrollmentID)
}

// MarkUnpaid implements domain.EnrollmentService. The last payment is cleared and the
// stored status becomes whatever the deriver computes without it.
func (s *EnrollmentServiceImpl) MarkUnpaid(ctx context.Context, enrollmentID uint) (*domain.Enrollment, error) {
	e, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if !e.Status.Grants() {
		return nil, domain.ErrInvalidState
	}

	unpaid := *e
	unpaid.MonthlyPaymentStatus = nil
	unpaid.LastPaymentDate = nil
	derived := DeriveBilling(&unpaid, s.now().UTC())

	err = s.enrollments.UpdateBilling(ctx, enrollmentID, domain.BillingUpdate{Status: derived.EffectiveStatus})
	if err != nil {
		return nil, s.refine(ctx, enrollmentID, err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.PaymentMarkedUnpaidEvent).
		WithEnrollment(enrollmentID).WithMetadata("status", string(derived.EffectiveStatus)))
	return s.enrollments.FindByID(ctx, enrollmentID)
}

// Get implements domain.EnrollmentService
func (s *EnrollmentServiceImpl) Get(ctx context.Context, enrollmentID uint) (*domain.Enrollment, error) {
	return s.enrollments.FindByID(ctx, enrollmentID)
}

// List implements domain.EnrollmentService. A payment status filter is matched against
// the derived effective status, so paging is applied after that match.
func (s *EnrollmentServiceImpl) List(ctx context.Context, filter domain.EnrollmentFilter) ([]*domain.Enrollment, error) {
	if filter.PaymentStatus != "" && !filter.PaymentStatus.Valid() {
		return nil, domain.NewValidationError("paymentStatus", "must be one of paid, pending, overdue")
	}
	if filter.PaymentStatus == "" {
		return s.enrollments.List(ctx, filter)
	}

	limit, offset := filter.Limit, filter.Offset
	filter.Limit, filter.Offset = 0, 0
	all, err := s.enrollments.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	matched := make([]*domain.Enrollment, 0, len(all))
	for _, e := range all {
		if DeriveBilling(e, now).EffectiveStatus == filter.PaymentStatus {
			matched = append(matched, e)
		}
	}
	return page(matched, limit, offset), nil
}

// ListForUser implements domain.EnrollmentService
func (s *EnrollmentServiceImpl) ListForUser(ctx context.Context, userID uint) ([]*domain.Enrollment, error) {
	return s.enrollments.List(ctx, domain.EnrollmentFilter{UserID: &userID})
}

// refine turns a failed conditional write into the precise error for the row's current state
func (s *EnrollmentServiceImpl) refine(ctx context.Context, enrollmentID uint, err error) error {
	if !errors.Is(err, domain.ErrInvalidState) {
		return err
	}
	if _, findErr := s.enrollments.FindByID(ctx, enrollmentID); findErr != nil {
		return findErr
	}
	return err
}

func page(items []*domain.Enrollment, limit, offset int) []*domain.Enrollment {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []*domain.Enrollment{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
