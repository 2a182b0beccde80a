package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"findoc-backend/internal/shared/auth"
	"findoc-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"

	// TokenCookie is the cookie the login endpoint sets.
	TokenCookie = "token"
)

// Auth resolves the bearer credential to a user identity and stores it in the
// request context. The cookie is checked before the Authorization header.
// There is no anonymous path: every failure ends the request with 401.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		token, _ := c.Cookie(TokenCookie)
		if token == "" {
			header := strings.TrimSpace(c.GetHeader("Authorization"))
			if strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
			}
		}
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "Unauthorized: No token provided", nil)
			return
		}

		claims, err := auth.ParseToken(token, secret)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "Unauthorized: Invalid token", err)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userEmailKey, claims.Email)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}
