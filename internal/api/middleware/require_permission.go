package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobTrack/internal/auth"
)

// requirePermission 在 AuthMiddleware 之后使用，权限不足时返回 403。
// 判定逻辑集中在 auth.Role 的权限方法上，这里只做取值与拒绝。
func requirePermission(allowed func(auth.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextRoleKey)
		if !exists {
			abortUnauthorized(c)
			return
		}
		role, ok := value.(auth.Role)
		if !ok || !role.Valid() {
			abortUnauthorized(c)
			return
		}
		if !allowed(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequireJobManager 守卫岗位的写操作。
func RequireJobManager() gin.HandlerFunc {
	return requirePermission(auth.Role.CanManageJobs)
}

// RequireApplicationReviewer 守卫申请审阅操作（状态、面试、管理员备注、全量读取）。
func RequireApplicationReviewer() gin.HandlerFunc {
	return requirePermission(auth.Role.CanReviewApplications)
}
