package middleware

import (
	"net/http"
	"strings"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/pkg/casbin"
	"github.com/gin-gonic/gin"
)

// PermissionMiddleware Casbin权限中间件
// 先检查用户直接策略，再检查角色策略（sub 为 "role:"+角色名）。
// 用户与角色都未配置任何策略时放行（渐进式启用）；Superuser/Admin 默认放行。
func PermissionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 权限系统未初始化时降级放行，仅靠角色校验
		if casbin.GetEnforcer() == nil {
			c.Next()
			return
		}

		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, model.Error(401, "未找到用户信息"))
			c.Abort()
			return
		}
		userIDStr, ok := userID.(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, model.Error(401, "用户ID格式错误"))
			c.Abort()
			return
		}

		path := strings.TrimPrefix(c.Request.URL.Path, "/api")
		method := c.Request.Method

		// 用户直接权限
		if hasPermission, err := casbin.Enforce(userIDStr, path, method); err == nil && hasPermission {
			c.Next()
			return
		}

		// 角色权限
		role, _ := c.Get("role")
		roleStr, _ := role.(string)
		roleSubject := "role:" + roleStr
		if roleStr != "" {
			if hasPermission, err := casbin.Enforce(roleSubject, path, method); err == nil && hasPermission {
				c.Next()
				return
			}
			// 管理角色默认拥有全部权限
			if model.RoleName(roleStr).CanManageMaster() {
				c.Next()
				return
			}
		}

		// 该用户与角色都没有配置过任何策略时放行，配置过则按策略拒绝
		if !subjectConfigured(userIDStr) && !subjectConfigured(roleSubject) {
			c.Next()
			return
		}

		c.JSON(http.StatusForbidden, model.Error(403, "权限不足"))
		c.Abort()
	}
}

func subjectConfigured(sub string) bool {
	policies, err := casbin.GetFilteredPolicy(0, sub)
	return err == nil && len(policies) > 0
}
