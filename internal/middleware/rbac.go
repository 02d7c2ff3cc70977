package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/bookly-api/internal/auth"
	"github.com/noah-isme/bookly-api/internal/models"
	appErrors "github.com/noah-isme/bookly-api/pkg/errors"
	"github.com/noah-isme/bookly-api/pkg/response"
)

// RequireRoles reloads the token's user and admits it only with one of roles.
// It must run after RequireAccess.
func RequireRoles(gate *auth.Gate, roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Abort(c, appErrors.ErrUnauthenticated)
			return
		}
		user, err := gate.Authorize(c.Request.Context(), claims, roles...)
		if err != nil {
			response.Abort(c, err)
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}
