package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/coursegate/domain"
)

// AccessHandlers serves the one-time course access links
type AccessHandlers struct {
	access domain.AccessTokenManager
}

// NewAccessHandlers creates new access link handlers
func NewAccessHandlers(access domain.AccessTokenManager) *AccessHandlers {
	return &AccessHandlers{access: access}
}

// SetPasswordRequest carries the first password of an approved student
type SetPasswordRequest struct {
	Password string `json:"password"`
}

type accessEnrollment struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	CourseID *uint  `json:"courseId"`
}

// Verify resolves an access link without consuming it
func (h *AccessHandlers) Verify(c *gin.Context) {
	v, err := h.access.Verify(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"valid":              true,
		"needsPasswordSetup": v.NeedsPasswordSetup,
		"expiresAt":          v.Access.ExpiresAt,
		"enrollment": accessEnrollment{
			ID:       v.Enrollment.ID,
			Name:     v.Enrollment.Name,
			Email:    v.Enrollment.Email,
			CourseID: v.Enrollment.CourseID,
		},
	}})
}

// SetPassword consumes the link, sets the first password and opens a session
func (h *AccessHandlers) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := bindJSON(c, &req, false); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.access.ConsumeForPasswordSetup(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": presentSession(result)})
}
