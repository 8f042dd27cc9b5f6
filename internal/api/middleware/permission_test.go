package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/pkg/casbin"
	"github.com/Lidan4315/Ideku-sub000/pkg/database"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newPermissionRouter 构造带登录上下文和权限中间件的测试路由
func newPermissionRouter(userID string, roleName model.RoleName) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("username", userID)
		c.Set("role", string(roleName))
	})
	r.Use(PermissionMiddleware())
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, model.Success(nil)) }
	r.GET("/api/ideas", ok)
	r.POST("/api/ideas", ok)
	r.GET("/api/dashboard/stats", ok)
	return r
}

func doRequest(r *gin.Engine, method, path string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w.Code
}

// TestPermissionMiddleware 验证Casbin策略对路由的放行与拒绝
func TestPermissionMiddleware(t *testing.T) {
	employee := newPermissionRouter("user-zhang", model.RoleEmployee)

	t.Run("权限系统未初始化时放行", func(t *testing.T) {
		if got := doRequest(employee, http.MethodGet, "/api/ideas"); got != http.StatusOK {
			t.Fatalf("期望 200，得到 %d", got)
		}
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("打开sqlite失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取sql.DB失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	database.DB = db
	if err := casbin.Init(); err != nil {
		t.Fatalf("初始化Casbin失败: %v", err)
	}

	t.Run("未配置任何策略时放行", func(t *testing.T) {
		if got := doRequest(employee, http.MethodGet, "/api/ideas"); got != http.StatusOK {
			t.Fatalf("期望 200，得到 %d", got)
		}
	})

	if _, err := casbin.AddPolicy("role:"+string(model.RoleEmployee), "/ideas", http.MethodGet); err != nil {
		t.Fatalf("新增角色策略失败: %v", err)
	}
	if err := casbin.ReloadPolicy(); err != nil {
		t.Fatalf("重新加载策略失败: %v", err)
	}

	t.Run("角色策略放行匹配的路由", func(t *testing.T) {
		if got := doRequest(employee, http.MethodGet, "/api/ideas"); got != http.StatusOK {
			t.Fatalf("期望 200，得到 %d", got)
		}
	})

	t.Run("角色已配置策略时未授权路由拒绝", func(t *testing.T) {
		if got := doRequest(employee, http.MethodPost, "/api/ideas"); got != http.StatusForbidden {
			t.Fatalf("期望 403，得到 %d", got)
		}
	})

	t.Run("用户直接策略优先于角色策略", func(t *testing.T) {
		if _, err := casbin.AddPolicy("user-zhang", "/dashboard/stats", http.MethodGet); err != nil {
			t.Fatalf("新增用户策略失败: %v", err)
		}
		if err := casbin.ReloadPolicy(); err != nil {
			t.Fatalf("重新加载策略失败: %v", err)
		}
		if got := doRequest(employee, http.MethodGet, "/api/dashboard/stats"); got != http.StatusOK {
			t.Fatalf("期望 200，得到 %d", got)
		}
	})

	t.Run("删除策略后拒绝", func(t *testing.T) {
		if _, err := casbin.RemovePolicy("user-zhang", "/dashboard/stats", http.MethodGet); err != nil {
			t.Fatalf("删除用户策略失败: %v", err)
		}
		if err := casbin.ReloadPolicy(); err != nil {
			t.Fatalf("重新加载策略失败: %v", err)
		}
		if got := doRequest(employee, http.MethodGet, "/api/dashboard/stats"); got != http.StatusForbidden {
			t.Fatalf("期望 403，得到 %d", got)
		}
	})

	t.Run("管理角色默认放行", func(t *testing.T) {
		admin := newPermissionRouter("user-admin", model.RoleAdmin)
		if got := doRequest(admin, http.MethodPost, "/api/ideas"); got != http.StatusOK {
			t.Fatalf("期望 200，得到 %d", got)
		}
	})
}
