package router

import (
	"net/http"

	"github.com/Lidan4315/Ideku-sub000/internal/api/handler"
	"github.com/Lidan4315/Ideku-sub000/internal/api/middleware"
	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/service"
	"github.com/Lidan4315/Ideku-sub000/pkg/static"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	authHandler *handler.AuthHandler,
	ideaHandler *handler.IdeaHandler,
	approvalHandler *handler.ApprovalHandler,
	monitoringHandler *handler.MonitoringHandler,
	workflowHandler *handler.WorkflowHandler,
	masterHandler *handler.MasterHandler,
	approverHandler *handler.ApproverHandler,
	userHandler *handler.UserHandler,
	permissionHandler *handler.PermissionHandler,
	dashboardHandler *handler.DashboardHandler,
	authService *service.AuthService,
	mode string,
) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	r := gin.New()

	r.Use(middleware.RecoveryMiddleware())
	r.Use(gin.Logger())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.MetricsMiddleware())

	// 健康检查与指标
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, model.Success(gin.H{"status": "ok"}))
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// 认证接口不需要登录
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// 其余接口需要JWT认证和Casbin策略校验，写操作记入操作日志
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(authService))
	authed.Use(middleware.PermissionMiddleware())
	authed.Use(middleware.OperationLogMiddleware())

	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/auth/2fa/setup", authHandler.SetupTwoFactor)
	authed.POST("/auth/2fa/enable", authHandler.EnableTwoFactor)
	authed.POST("/auth/2fa/disable", authHandler.DisableTwoFactor)

	// 提案
	ideas := authed.Group("/ideas")
	{
		ideas.POST("", ideaHandler.Create)
		ideas.GET("", ideaHandler.List)
		ideas.GET("/:code", ideaHandler.Detail)
		ideas.PUT("/:code", ideaHandler.Update)
		ideas.DELETE("/:code", ideaHandler.Delete)
		ideas.POST("/:code/implementors", ideaHandler.AddImplementor)
		ideas.POST("/:code/milestones", ideaHandler.AddMilestone)

		// 审批
		ideas.GET("/:code/history", approvalHandler.History)
		ideas.POST("/:code/approve", approvalHandler.Approve)
		ideas.POST("/:code/reject", approvalHandler.Reject)
		ideas.POST("/:code/bypass", approvalHandler.Bypass)
		ideas.POST("/:code/reactivate", approvalHandler.Reactivate)
		ideas.POST("/:code/change-workflow", approvalHandler.ChangeWorkflow)

		// 成本跟踪（按提案）
		ideas.GET("/:code/monitoring", monitoringHandler.ListByIdea)
	}

	authed.GET("/approvals/pending", approvalHandler.Pending)

	// 成本跟踪
	monitoring := authed.Group("/monitoring")
	{
		monitoring.POST("", monitoringHandler.Create)
		monitoring.POST("/extend", monitoringHandler.Extend)
		monitoring.PUT("/:id/savings", monitoringHandler.UpdateSavings)
		monitoring.PUT("/:id/validated", monitoringHandler.UpdateValidated)
		monitoring.DELETE("/:id", monitoringHandler.Delete)
	}

	// 仪表盘
	authed.GET("/dashboard/stats", dashboardHandler.Stats)
	authed.GET("/dashboard/charts", dashboardHandler.Charts)

	// 主数据维护，仅 Superuser/Admin
	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(model.RoleSuperuser, model.RoleAdmin))
	{
		workflows := admin.Group("/workflows")
		{
			workflows.POST("", workflowHandler.Create)
			workflows.GET("", workflowHandler.List)
			workflows.GET("/:id", workflowHandler.Get)
			workflows.PUT("/:id", workflowHandler.Update)
			workflows.DELETE("/:id", workflowHandler.Delete)
			workflows.POST("/:id/stages", workflowHandler.AddStage)
			workflows.PUT("/:id/stages/:stageId", workflowHandler.UpdateStage)
			workflows.DELETE("/:id/stages/:stageId", workflowHandler.DeleteStage)
			workflows.POST("/:id/conditions", workflowHandler.AddCondition)
			workflows.PUT("/:id/conditions/:condId", workflowHandler.UpdateCondition)
			workflows.DELETE("/:id/conditions/:condId", workflowHandler.DeleteCondition)
		}

		divisions := admin.Group("/divisions")
		{
			divisions.POST("", masterHandler.CreateDivision)
			divisions.PUT("/:id", masterHandler.UpdateDivision)
			divisions.DELETE("/:id", masterHandler.DeleteDivision)
		}
		departments := admin.Group("/departments")
		{
			departments.POST("", masterHandler.CreateDepartment)
			departments.PUT("/:id", masterHandler.UpdateDepartment)
			departments.DELETE("/:id", masterHandler.DeleteDepartment)
		}
		categories := admin.Group("/categories")
		{
			categories.POST("", masterHandler.CreateCategory)
			categories.PUT("/:id", masterHandler.UpdateCategory)
			categories.DELETE("/:id", masterHandler.DeleteCategory)
		}
		events := admin.Group("/events")
		{
			events.POST("", masterHandler.CreateEvent)
			events.PUT("/:id", masterHandler.UpdateEvent)
			events.DELETE("/:id", masterHandler.DeleteEvent)
		}

		approvers := admin.Group("/approvers")
		{
			approvers.POST("", approverHandler.CreateApprover)
			approvers.GET("", approverHandler.ListApprovers)
			approvers.PUT("/:id", approverHandler.UpdateApprover)
			approvers.DELETE("/:id", approverHandler.DeleteApprover)
			approvers.POST("/:id/roles", approverHandler.AddApproverRole)
			approvers.DELETE("/:id/roles/:roleName", approverHandler.RemoveApproverRole)
		}
		levels := admin.Group("/levels")
		{
			levels.POST("", approverHandler.CreateLevel)
			levels.GET("", approverHandler.ListLevels)
			levels.PUT("/:id", approverHandler.UpdateLevel)
			levels.DELETE("/:id", approverHandler.DeleteLevel)
			levels.POST("/:id/approvers", approverHandler.AssignLevelApprover)
			levels.GET("/:id/approvers", approverHandler.ListLevelApprovers)
			levels.DELETE("/:id/approvers/:approverId", approverHandler.UnassignLevelApprover)
		}

		users := admin.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}
		admin.GET("/roles", userHandler.ListRoles)

		permissions := admin.Group("/permissions")
		{
			permissions.GET("", permissionHandler.ListPolicies)
			permissions.POST("", permissionHandler.AddPolicy)
			permissions.DELETE("", permissionHandler.RemovePolicy)
			permissions.POST("/roles", permissionHandler.AddRoleForUser)
			permissions.POST("/reload", permissionHandler.ReloadPolicy)
		}
	}

	// 主数据只读接口对所有登录用户开放
	authed.GET("/divisions", masterHandler.ListDivisions)
	authed.GET("/departments", masterHandler.ListDepartments)
	authed.GET("/categories", masterHandler.ListCategories)
	authed.GET("/events", masterHandler.ListEvents)

	// 其余路径交给仪表盘前端
	r.NoRoute(static.Serve())

	return r
}
