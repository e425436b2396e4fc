package handlers

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/you/coursegate/domain"
	"github.com/you/coursegate/internal/http/middleware"
)

func respondError(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}

// bindJSON decodes the request body into dst; an empty body is only accepted when optional
func bindJSON(c *gin.Context, dst interface{}, optional bool) error {
	if optional && (c.Request.Body == nil || c.Request.ContentLength == 0) {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return domain.NewValidationError("", "invalid request body")
	}
	return nil
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return uint(id), nil
}

// identity returns the caller attached by RequireAuth
func identity(c *gin.Context) (*domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, domain.ErrCredentialMissing
	}
	return id, nil
}
