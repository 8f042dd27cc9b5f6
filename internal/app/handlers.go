package app

import (
	"github.com/Lidan4315/Ideku-sub000/internal/api/handler"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	Auth       *handler.AuthHandler
	Idea       *handler.IdeaHandler
	Approval   *handler.ApprovalHandler
	Monitoring *handler.MonitoringHandler
	Workflow   *handler.WorkflowHandler
	Master     *handler.MasterHandler
	Approver   *handler.ApproverHandler
	User       *handler.UserHandler
	Permission *handler.PermissionHandler
	Dashboard  *handler.DashboardHandler
}

// InitializeHandlers 初始化HTTP处理器
func InitializeHandlers(repos *Repositories, services *Services) *Handlers {
	return &Handlers{
		Auth:       handler.NewAuthHandler(services.Auth, repos.User),
		Idea:       handler.NewIdeaHandler(services.Idea),
		Approval:   handler.NewApprovalHandler(services.Approval),
		Monitoring: handler.NewMonitoringHandler(services.Monitoring),
		Workflow:   handler.NewWorkflowHandler(services.Workflow),
		Master:     handler.NewMasterHandler(repos.Master),
		Approver:   handler.NewApproverHandler(repos.Approver, repos.Level),
		User:       handler.NewUserHandler(repos.User, repos.Role),
		Permission: handler.NewPermissionHandler(),
		Dashboard:  handler.NewDashboardHandler(services.Dashboard),
	}
}
