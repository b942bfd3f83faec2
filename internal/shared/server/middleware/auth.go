package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ecotrack-backend/internal/shared/auth"
	"ecotrack-backend/internal/shared/server/respond"
)

const (
	userIDKey      = "userId"
	userEmailKey   = "userEmail"
	userNameKey    = "userName"
	userPictureKey = "userPicture"
	userRoleKey    = "userRole"
)

var (
	publicPrefixes = []string{"/api/v1/auth/google/"}
	publicPaths    = map[string]bool{
		"/api/v1/health": true,
		"/metrics":       true,
	}
)

func isPublicPath(path string) bool {
	if publicPaths[path] {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Auth validates bearer JWTs and stores identity in context.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		if isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := auth.VerifyJWT(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(userIDKey, claims.Sub)
		c.Set(userRoleKey, claims.Role)
		if claims.Email != "" {
			c.Set(userEmailKey, claims.Email)
		}
		if claims.Name != "" {
			c.Set(userNameKey, claims.Name)
		}
		if claims.Picture != "" {
			c.Set(userPictureKey, claims.Picture)
		}
		c.Next()
	}
}

// RequireRole rejects requests whose role is not one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if UserIDFromContext(c) == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		if _, ok := allowed[UserRoleFromContext(c)]; !ok {
			respond.Error(c, http.StatusForbidden, "forbidden", "insufficient role", nil)
			return
		}
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return contextString(c, userIDKey)
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	return contextString(c, userEmailKey)
}

// UserNameFromContext fetches the user name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	return contextString(c, userNameKey)
}

// UserPictureFromContext fetches the user picture set by the auth middleware.
func UserPictureFromContext(c *gin.Context) string {
	return contextString(c, userPictureKey)
}

// UserRoleFromContext fetches the role claim; authenticated requests without one are users.
func UserRoleFromContext(c *gin.Context) string {
	role := contextString(c, userRoleKey)
	if role == "" && UserIDFromContext(c) != "" {
		return auth.RoleUser
	}
	return role
}

func contextString(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
