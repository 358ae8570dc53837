package middleware

import (
	"net/http"
	"strings"

	"todo-api/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireAuth and read by RequireSelf and handlers.
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
)

// RequireAuth verifies the bearer token and attaches the caller identity
// to the request context. It never touches the store.
func RequireAuth(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Missing Authorization header")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "Invalid Authorization header format. Expected: Bearer <token>")
			return
		}

		claims, err := verifier.VerifyToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// RequireSelf enforces that the authenticated identity equals the user_id
// path parameter. It runs before any store access, so a caller can never
// learn whether another identity's tasks exist: a mismatch is always 403,
// never 404.
func RequireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID := c.GetString(ContextUserID)
		pathID := c.Param("user_id")

		if callerID == "" || callerID != pathID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"data":    nil,
				"error":   gin.H{"detail": forbiddenDetail(c.Request.Method)},
			})
			return
		}

		c.Next()
	}
}

func forbiddenDetail(method string) string {
	switch method {
	case http.MethodPost:
		return "Cannot create tasks for other users"
	case http.MethodPut, http.MethodPatch:
		return "Cannot update other users' tasks"
	case http.MethodDelete:
		return "Cannot delete other users' tasks"
	default:
		return "Cannot access other users' tasks"
	}
}

func abortUnauthorized(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"data":    nil,
		"error":   gin.H{"detail": detail},
	})
}
