package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/you/coursegate/domain"
)

// AuthMiddleware creates authentication middleware. With required set, a failed
// verification aborts the request; otherwise the caller continues as a guest.
func AuthMiddleware(verifier domain.CredentialVerifier, required bool) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		header := c.GetHeader("Authorization")

		if !required {
			if identity := verifier.VerifyOptional(c.Request.Context(), header); identity != nil {
				SetIdentity(c, identity)
			}
			c.Next()
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), header)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		SetIdentity(c, identity)
		c.Next()
	})
}
