package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/you/coursegate/domain"
)

const identityKey = "identity"

// AuthMW wraps the credential verifier for middleware
type AuthMW struct {
	verifier domain.CredentialVerifier
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(verifier domain.CredentialVerifier) *AuthMW {
	return &AuthMW{verifier: verifier}
}

// RequireAuth rejects requests without a valid bearer credential
func (mw *AuthMW) RequireAuth() gin.HandlerFunc {
	return AuthMiddleware(mw.verifier, true)
}

// OptionalAuth attaches an identity when one is presented and lets guests through
func (mw *AuthMW) OptionalAuth() gin.HandlerFunc {
	return AuthMiddleware(mw.verifier, false)
}

// SetIdentity stores the verified caller on the request context
func SetIdentity(c *gin.Context, identity *domain.Identity) {
	c.Set(identityKey, identity)
}

// IdentityFrom returns the caller attached by the auth middleware, if any
func IdentityFrom(c *gin.Context) (*domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*domain.Identity)
	return identity, ok && identity != nil
}
