package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sgvr/sgvr/internal/auth"
	"github.com/sgvr/sgvr/internal/models"
	log "github.com/sirupsen/logrus"
)

// principalKey is the gin context key holding the authenticated user.
const principalKey = "principal"

// SecurityHeadersMiddleware applies the default response hardening headers.
// The document delivery path removes the framing restriction again for its
// one intentionally embeddable response.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

// AuthMiddleware authenticates the request and injects the principal.
func AuthMiddleware(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, errAuth := authenticator.Authenticate(c.Request.Context(), c.Request.Header)
		if errAuth == nil {
			c.Set(principalKey, user)
			c.Next()
			return
		}

		switch {
		case errors.Is(errAuth, auth.ErrNoCredentials):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing credentials"})
		case errors.Is(errAuth, auth.ErrInvalidCredential):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid credentials"})
		default:
			log.WithError(errAuth).Error("auth middleware error")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "authentication service error"})
		}
	}
}

// RequirePermission enforces a permission on the authenticated principal.
func RequirePermission(resolver *auth.Resolver, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := PrincipalFromContext(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing credentials"})
			return
		}
		if !resolver.Authorize(c.Request.Context(), user, permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "permission denied"})
			return
		}
		c.Next()
	}
}

// PrincipalFromContext extracts the authenticated user from gin context.
func PrincipalFromContext(c *gin.Context) *models.User {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// SetPrincipal stores the authenticated user on the context. Exposed for
// handlers that perform their own authentication (document delivery).
func SetPrincipal(c *gin.Context, user *models.User) {
	c.Set(principalKey, user)
}
