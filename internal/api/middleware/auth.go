package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ledgerbooks/backend/internal/auth"
	"github.com/ledgerbooks/backend/internal/domain/user"
)

const (
	// CurrentUserKey is the key used to store the authenticated user in the context
	CurrentUserKey = "current_user"
)

// UserLoader resolves the authenticated user id to a full user record
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// Auth middleware verifies the bearer token and loads the authenticated user
// into the request context. Inactive users are rejected even with a valid token.
func Auth(tokens *auth.TokenManager, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "Authorization header required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		u, err := users.GetByID(c.Request.Context(), userID)
		if err != nil || !u.IsActive {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(CurrentUserKey, u)
		c.Next()
	}
}

// CurrentUser retrieves the authenticated user from the gin context.
// It is only meaningful on routes behind the Auth middleware.
func CurrentUser(c *gin.Context) (*user.User, bool) {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	u, ok := value.(*user.User)
	return u, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, response)
}
