package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/coursegate/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// AdminHandlers serves the admin side of the enrollment lifecycle
type AdminHandlers struct {
	enrollments domain.EnrollmentService
	access      domain.AccessTokenManager
	baseURL     string
	now         domain.Clock
}

// NewAdminHandlers creates new admin handlers. baseURL prefixes the access links it returns.
func NewAdminHandlers(enrollments domain.EnrollmentService, access domain.AccessTokenManager, baseURL string) *AdminHandlers {
	return &AdminHandlers{
		enrollments: enrollments,
		access:      access,
		baseURL:     strings.TrimRight(baseURL, "/"),
		now:         time.Now,
	}
}

type AssignCourseRequest struct {
	CourseID uint `json:"courseId"`
}

type ApproveRequest struct {
	ExpiresInDays int `json:"expiresInDays"`
}

type ReasonRequest struct {
	Reason *string `json:"reason"`
}

type MarkPaidRequest struct {
	Amount *float64 `json:"amount"`
}

// List returns enrollments matching the query filters
func (h *AdminHandlers) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	list, err := h.enrollments.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   presentEnrollments(list, h.now()),
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// Get returns one enrollment with the state of its access token
func (h *AdminHandlers) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	e, err := h.enrollments.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	access, err := h.access.StatusFor(c.Request.Context(), id)
	if err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"enrollment": presentEnrollment(e, h.now()),
		"access":     presentAccess(access),
	}})
}

func (h *AdminHandlers) AssignCourse(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req AssignCourseRequest
	if err := bindJSON(c, &req, false); err != nil {
		respondError(c, err)
		return
	}

	e, err := h.enrollments.AssignCourse(c.Request.Context(), id, req.CourseID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": presentEnrollment(e, h.now())})
}

// Approve grants access and returns the one-time link for the student
func (h *AdminHandlers) Approve(c *gin.Context) {
	admin, err := identity(c)
	if err != nil {
		respondError(c, err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req ApproveRequest
	if err := bindJSON(c, &req, true); err != nil {
		respondError(c, err)
		return
	}

	res, err := h.enrollments.Approve(c.Request.Context(), id, admin.UserID, req.ExpiresInDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"enrollment": presentEnrollment(res.Enrollment, h.now()),
		"user":       presentUser(res.User),
		"newUser":    res.NewUser,
		"access": gin.H{
			"token":     res.Access.Token,
			"link":      h.baseURL + "/access/" + res.Access.Token,
			"expiresAt": res.Access.ExpiresAt,
		},
	}})
}

func (h *AdminHandlers) Reject(c *gin.Context) {
	admin, err := identity(c)
	if err != nil {
		respondError(c, err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req ReasonRequest
	if err := bindJSON(c, &req, true); err != nil {
		respondError(c, err)
		return
	}

	e, err := h.enrollments.Reject(c.Request.Context(), id, admin.UserID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": presentEnrollment(e, h.now())})
}

func (h *AdminHandlers) MarkPaid(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req MarkPaidRequest
	if err := bindJSON(c, &req, true); err != nil {
		respondError(c, err)
		return
	}

	e, err := h.enrollments.MarkPaid(c.Request.Context(), id, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": presentEnrollment(e, h.now())})
}

func (h *AdminHandlers) MarkUnpaid(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	e, err := h.enrollments.MarkUnpaid(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": presentEnrollment(e, h.now())})
}

// RevokeAccess disables the enrollment's access link; the enrollment itself is untouched
func (h *AdminHandlers) RevokeAccess(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req ReasonRequest
	if err := bindJSON(c, &req, true); err != nil {
		respondError(c, err)
		return
	}

	if err := h.access.Revoke(c.Request.Context(), id, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	access, err := h.access.StatusFor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": presentAccess(access)})
}

// parseFilter reads the listing query. Dates accept RFC3339 or YYYY-MM-DD; a bare
// submittedTo date includes that whole day.
func parseFilter(c *gin.Context) (domain.EnrollmentFilter, error) {
	f := domain.EnrollmentFilter{Limit: defaultListLimit}

	if v := c.Query("status"); v != "" {
		for _, s := range strings.Split(v, ",") {
			st := domain.EnrollmentStatus(strings.TrimSpace(s))
			switch st {
			case domain.EnrollmentPending, domain.EnrollmentApproved, domain.EnrollmentRejected, domain.EnrollmentActive:
				f.Statuses = append(f.Statuses, st)
			default:
				return f, domain.NewValidationError("status", "unknown status "+string(st))
			}
		}
	}

	var err error
	if f.CourseID, err = queryUint(c, "courseId"); err != nil {
		return f, err
	}
	if f.UserID, err = queryUint(c, "userId"); err != nil {
		return f, err
	}
	f.Email = c.Query("email")

	if f.SubmittedFrom, err = queryTime(c, "submittedFrom", false); err != nil {
		return f, err
	}
	if f.SubmittedTo, err = queryTime(c, "submittedTo", true); err != nil {
		return f, err
	}

	if v := c.Query("paymentStatus"); v != "" {
		f.PaymentStatus = domain.PaymentStatus(v)
		if !f.PaymentStatus.Valid() {
			return f, domain.NewValidationError("paymentStatus", "unknown payment status")
		}
	}

	if v := c.Query("unassigned"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, domain.NewValidationError("unassigned", "must be a boolean")
		}
		f.OnlyUnassigned = b
	}

	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxListLimit {
			return f, domain.NewValidationError("limit", "must be between 1 and "+strconv.Itoa(maxListLimit))
		}
		f.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, domain.NewValidationError("offset", "must be a non-negative integer")
		}
		f.Offset = n
	}

	return f, nil
}

func queryUint(c *gin.Context, name string) (*uint, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil || n == 0 {
		return nil, domain.NewValidationError(name, "must be a positive integer")
	}
	id := uint(n)
	return &id, nil
}

func queryTime(c *gin.Context, name string, endOfDay bool) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be RFC3339 or YYYY-MM-DD")
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}
