package middleware

import (
	"net/http"
	"strings"

	"tenanthub/internal/auth"

	"github.com/gin-gonic/gin"
)

// ActingUserKey is the context key under which the authenticated
// account id is stored for downstream handlers.
const ActingUserKey = "acting_user_id"

// RequireAuth validates the bearer token and stores the acting account
// id in the request context. Role checks stay in the services; this
// middleware only establishes who is calling.
func RequireAuth(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token malformed"})
			c.Abort()
			return
		}

		userID, err := tokens.Parse(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ActingUserKey, userID)
		c.Next()
	}
}

// ActingUser returns the authenticated account id, or "" when the
// request carried no valid token.
func ActingUser(c *gin.Context) string {
	return c.GetString(ActingUserKey)
}
