// Package middleware provides gin middleware for the capture API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexuslab/capture/internal/domain"
	"github.com/nexuslab/capture/internal/session"
)

// userContextKey is where the resolved user is stored on the gin context.
const userContextKey = "capture.user"

// RequireSession resolves the acting user from the session marker cookie and
// aborts with 401 when no known identity can be resolved.
func RequireSession(resolver *session.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		marker, err := c.Cookie(session.CookieName)
		if err != nil || marker == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthenticated.Error()})
			return
		}

		user, ok := resolver.Resolve(marker)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthenticated.Error()})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by RequireSession.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return domain.User{}, false
	}
	user, ok := v.(domain.User)
	return user, ok
}
