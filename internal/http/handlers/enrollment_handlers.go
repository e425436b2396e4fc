package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/coursegate/domain"
	"github.com/you/coursegate/internal/http/middleware"
)

// EnrollmentHandlers serves the student side of the enrollment lifecycle
type EnrollmentHandlers struct {
	enrollments domain.EnrollmentService
	now         domain.Clock
}

// NewEnrollmentHandlers creates new enrollment handlers
func NewEnrollmentHandlers(enrollments domain.EnrollmentService) *EnrollmentHandlers {
	return &EnrollmentHandlers{enrollments: enrollments, now: time.Now}
}

// SubmitRequest is the public interest form
type SubmitRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Submit records an interest submission. A signed-in caller is linked to it.
func (h *EnrollmentHandlers) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := bindJSON(c, &req, false); err != nil {
		respondError(c, err)
		return
	}

	in := domain.SubmitRequest{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if id, ok := middleware.IdentityFrom(c); ok {
		userID := id.UserID
		in.UserID = &userID
	}

	e, err := h.enrollments.Submit(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": presentEnrollment(e, h.now())})
}

// Mine lists the caller's enrollments with their billing state
func (h *EnrollmentHandlers) Mine(c *gin.Context) {
	id, err := identity(c)
	if err != nil {
		respondError(c, err)
		return
	}

	list, err := h.enrollments.ListForUser(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": presentEnrollments(list, h.now())})
}

type courseEnrollmentResponse struct {
	Enrolled   bool                `json:"enrolled"`
	Reason     string              `json:"reason,omitempty"`
	Enrollment *enrollmentResponse `json:"enrollment,omitempty"`
}

// CourseEnrollment answers whether the caller may open the course content
func (h *EnrollmentHandlers) CourseEnrollment(c *gin.Context) {
	courseID, err := parseID(c, "courseId")
	if err != nil {
		respondError(c, err)
		return
	}

	id, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"data": courseEnrollmentResponse{Enrolled: false}})
		return
	}

	elig := h.enrollments.CheckEligibility(c.Request.Context(), id.UserID, courseID)
	out := courseEnrollmentResponse{Enrolled: elig.Enrolled, Reason: elig.Reason}
	if elig.Enrollment != nil {
		e := presentEnrollment(elig.Enrollment, h.now())
		out.Enrollment = &e
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}
