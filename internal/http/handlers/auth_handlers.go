package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/coursegate/domain"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// SignupRequest represents signup request
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles student self-registration
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := bindJSON(c, &req, false); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.authSvc.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": presentSession(result)})
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req, false); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": presentSession(result)})
}

// Logout revokes the presented credential
func (h *AuthHandlers) Logout(c *gin.Context) {
	id, err := identity(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Logged out successfully"}})
}

// Me returns the caller's live profile
func (h *AuthHandlers) Me(c *gin.Context) {
	id, err := identity(c)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": presentUser(user)})
}
