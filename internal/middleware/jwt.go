package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/bookly-api/internal/auth"
	"github.com/noah-isme/bookly-api/internal/models"
	"github.com/noah-isme/bookly-api/pkg/response"
)

const (
	// ContextClaimsKey stores the verified token claims.
	ContextClaimsKey = "currentClaims"
	// ContextUserKey stores the user loaded by role-gated routes.
	ContextUserKey = "currentUser"
)

// RequireAccess admits requests carrying a live access token.
func RequireAccess(gate *auth.Gate) gin.HandlerFunc {
	return requireToken(gate, auth.Access)
}

// RequireRefresh admits requests carrying a live refresh token.
func RequireRefresh(gate *auth.Gate) gin.HandlerFunc {
	return requireToken(gate, auth.Refresh)
}

func requireToken(gate *auth.Gate, kind auth.TokenKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := gate.Authenticate(c.Request.Context(), c.GetHeader("Authorization"), kind)
		if err != nil {
			response.Abort(c, err)
			return
		}
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// CurrentClaims returns the claims stored by RequireAccess or RequireRefresh.
func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ContextClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// CurrentUser returns the user loaded by RequireRoles.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
