package api

import (
	"github.com/gin-gonic/gin"

	"jobTrack/internal/api/middleware"
	"jobTrack/internal/auth"
)

func userIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case uint64:
		return uint(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	default:
		return 0, false
	}
}

func roleFromContext(c *gin.Context) (auth.Role, bool) {
	value, exists := c.Get(middleware.ContextRoleKey)
	if !exists {
		return "", false
	}
	role, ok := value.(auth.Role)
	if !ok || !role.Valid() {
		return "", false
	}
	return role, true
}
