// Package middleware holds the gin middleware shared by protected routes.
package middleware

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/social-feed/backend/internal/apperr"
	"github.com/emilythestrangee/social-feed/backend/internal/auth"
)

const principalKey = "principal"

// AuthMiddleware rejects requests without a valid bearer token and stores the
// principal on the context for handlers.
func AuthMiddleware(guard *auth.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := guard.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			log.Printf("[Auth] %s %s rejected: %v", c.Request.Method, c.FullPath(), err)
			kind := apperr.KindOf(err)
			c.AbortWithStatusJSON(kind.Status(), gin.H{
				"error": apperr.Message(err),
				"code":  kind.String(),
			})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by AuthMiddleware.
func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}
