// Package handler 提供统一的 handler 导出
// 所有 handler 按功能模块分类到子目录中
package handler

import (
	approvalHandler "github.com/Lidan4315/Ideku-sub000/internal/api/handler/approval"
	authHandler "github.com/Lidan4315/Ideku-sub000/internal/api/handler/auth"
	dashboardHandler "github.com/Lidan4315/Ideku-sub000/internal/api/handler/dashboard"
	ideaHandler "github.com/Lidan4315/Ideku-sub000/internal/api/handler/idea"
	masterHandler "github.com/Lidan4315/Ideku-sub000/internal/api/handler/master"
	monitoringHandler "github.com/Lidan4315/Ideku-sub000/internal/api/handler/monitoring"
	systemHandler "github.com/Lidan4315/Ideku-sub000/internal/api/handler/system"
	workflowHandler "github.com/Lidan4315/Ideku-sub000/internal/api/handler/workflow"
)

type AuthHandler = authHandler.AuthHandler
type IdeaHandler = ideaHandler.IdeaHandler
type ApprovalHandler = approvalHandler.ApprovalHandler
type MonitoringHandler = monitoringHandler.MonitoringHandler
type WorkflowHandler = workflowHandler.WorkflowHandler
type MasterHandler = masterHandler.MasterHandler
type ApproverHandler = masterHandler.ApproverHandler
type UserHandler = systemHandler.UserHandler
type PermissionHandler = systemHandler.PermissionHandler
type DashboardHandler = dashboardHandler.DashboardHandler

var NewAuthHandler = authHandler.NewAuthHandler
var NewIdeaHandler = ideaHandler.NewIdeaHandler
var NewApprovalHandler = approvalHandler.NewApprovalHandler
var NewMonitoringHandler = monitoringHandler.NewMonitoringHandler
var NewWorkflowHandler = workflowHandler.NewWorkflowHandler
var NewMasterHandler = masterHandler.NewMasterHandler
var NewApproverHandler = masterHandler.NewApproverHandler
var NewUserHandler = systemHandler.NewUserHandler
var NewPermissionHandler = systemHandler.NewPermissionHandler
var NewDashboardHandler = dashboardHandler.NewDashboardHandler
