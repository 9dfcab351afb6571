package handlers

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/social-feed/backend/internal/apperr"
	"github.com/emilythestrangee/social-feed/backend/internal/auth"
	"github.com/emilythestrangee/social-feed/backend/internal/middleware"
)

// respondError writes err as {"error", "code"} with the status of its kind.
// Internal causes are logged, never sent.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(kind.Status(), gin.H{
		"error": apperr.Message(err),
		"code":  kind.String(),
	})
}

func badRequest(c *gin.Context, msg string) {
	respondError(c, apperr.New(apperr.InvalidArgument, msg))
}

// principal returns the authenticated caller, writing a 401 when the route
// was mounted without the auth middleware.
func principal(c *gin.Context) (auth.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, apperr.New(apperr.Unauthenticated, "User not authenticated"))
	}
	return p, ok
}
