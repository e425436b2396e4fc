package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/you/coursegate/domain"
)

// CasbinMW gates routes by the caller's role through the policy service
type CasbinMW struct {
	policies domain.PolicyService
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(policies domain.PolicyService) *CasbinMW {
	return &CasbinMW{policies: policies}
}

// Enforce returns the casbin authorization middleware. It must run after RequireAuth.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			AbortWithError(c, domain.ErrCredentialMissing)
			return
		}

		// match the route pattern (e.g. /admin/enrollments/:id) so policies stay stable
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		allowed, err := mw.policies.CheckPermission(identity.Role, path, c.Request.Method)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !allowed {
			AbortWithError(c, domain.ErrForbidden)
			return
		}

		c.Next()
	})
}
