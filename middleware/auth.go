package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"feedboard/apperr"
	"feedboard/services"
)

const (
	CtxUserID = "userId"
	CtxEmail  = "email"
)

// RequireAuth rejects any request without a valid bearer token and puts the
// resolved identity on the gin context.
func RequireAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		identity, err := auth.Verify(bearerToken(c))
		if err != nil {
			c.JSON(apperr.StatusOf(err), gin.H{"message": apperr.Message(err)})
			c.Abort()
			return
		}

		c.Set(CtxUserID, identity.UserID.Hex())
		c.Set(CtxEmail, identity.Email)
		c.Next()
	}
}

// OptionalAuth resolves the identity when a valid token is present but lets
// the request through either way. The GraphQL surface uses it: signup and
// login run unauthenticated, every other resolver checks for the identity
// itself.
func OptionalAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, err := auth.Verify(bearerToken(c)); err == nil {
			c.Set(CtxUserID, identity.UserID.Hex())
			c.Set(CtxEmail, identity.Email)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return c.Query("token")
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
