package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// contextUserID is the gin context key carrying the authenticated user's ID.
	contextUserID = "userID"
	// tokenCookie mirrors the bearer token for browser clients.
	tokenCookie = "token"
)

func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requireAuth is the gate in front of every protected route. The contract:
// a bearer token in the Authorization header ("Bearer <token>", scheme
// case-insensitive), falling back to the token cookie set at sign-in. A
// missing, malformed, expired, or tampered token, or a token for a user that
// no longer exists, ends the request with 401 before any handler runs.
func (h *Handler) requireAuth(c *gin.Context) {
	token := extractToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	userID, err := h.tokens.Verify(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	if _, err := h.users.GetByID(c.Request.Context(), userID); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	c.Set(contextUserID, userID)
	c.Next()
}

func extractToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" {
		parts := strings.Fields(header)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}

	if cookie, err := c.Cookie(tokenCookie); err == nil {
		return cookie
	}
	return ""
}

func currentUserID(c *gin.Context) string {
	return c.GetString(contextUserID)
}
