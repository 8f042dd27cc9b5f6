package system

import (
	"net/http"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/pkg/casbin"
	"github.com/gin-gonic/gin"
)

// PermissionHandler API权限策略维护（Casbin）
// sub 为用户ID或 "role:"+角色名，obj 为去掉 /api 前缀的路径，act 为HTTP方法或 "*"
type PermissionHandler struct{}

func NewPermissionHandler() *PermissionHandler {
	return &PermissionHandler{}
}

type policyRequest struct {
	Subject string `json:"subject" binding:"required"`
	Path    string `json:"path" binding:"required"`
	Method  string `json:"method" binding:"required"`
}

// ListPolicies 查询策略，subject 参数为空时返回全部
func (h *PermissionHandler) ListPolicies(c *gin.Context) {
	var policies [][]string
	var err error
	if subject := c.Query("subject"); subject != "" {
		policies, err = casbin.GetFilteredPolicy(0, subject)
	} else {
		policies, err = casbin.GetFilteredPolicy(-1)
	}
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询权限策略失败")
		return
	}

	result := make([]gin.H, 0, len(policies))
	for _, policy := range policies {
		if len(policy) >= 3 {
			result = append(result, gin.H{
				"subject": policy[0],
				"path":    policy[1],
				"method":  policy[2],
			})
		}
	}
	c.JSON(http.StatusOK, model.Success(result))
}

// AddPolicy 新增权限策略
func (h *PermissionHandler) AddPolicy(c *gin.Context) {
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	added, err := casbin.AddPolicy(req.Subject, req.Path, req.Method)
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "新增权限策略失败")
		return
	}
	if !added {
		c.JSON(http.StatusBadRequest, model.Error(400, "策略已存在"))
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// RemovePolicy 删除权限策略
func (h *PermissionHandler) RemovePolicy(c *gin.Context) {
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	removed, err := casbin.RemovePolicy(req.Subject, req.Path, req.Method)
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "删除权限策略失败")
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, model.Error(404, "策略不存在"))
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// AddRoleForUser 给用户绑定策略角色（g规则）
func (h *PermissionHandler) AddRoleForUser(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err, "请求参数错误")
		return
	}

	if _, err := casbin.AddRoleForUser(req.UserID, "role:"+req.Role); err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "绑定角色失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// ReloadPolicy 重新加载策略并清除缓存
func (h *PermissionHandler) ReloadPolicy(c *gin.Context) {
	if err := casbin.ReloadPolicy(); err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "重新加载策略失败")
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}
