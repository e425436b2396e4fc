package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/coursegate/domain"
)

// StatusFor maps an error to its HTTP status through the domain taxonomy
func StatusFor(err error) int {
	switch domain.Kind(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuthentication:
		return http.StatusUnauthorized
	case domain.KindAuthorization:
		return http.StatusForbidden
	case domain.KindStateConflict:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUpstream:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody renders err as {"error": {"code", "message"[, "field"]}}.
// Upstream and internal details never reach the client.
func ErrorBody(err error) gin.H {
	body := gin.H{"code": domain.Code(err)}

	switch domain.Kind(err) {
	case domain.KindUpstream:
		body["message"] = "A dependency is unavailable, try again later"
	case domain.KindInternal:
		body["message"] = "Internal server error"
	default:
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			body["message"] = vErr.Message
			if vErr.Field != "" {
				body["field"] = vErr.Field
			}
		} else {
			body["message"] = err.Error()
		}
	}
	return gin.H{"error": body}
}

// AbortWithError records err on the context for the request logger and writes the error response
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(StatusFor(err), ErrorBody(err))
}
