package app

import (
	"time"

	"github.com/Lidan4315/Ideku-sub000/internal/notification"
	"github.com/Lidan4315/Ideku-sub000/internal/scheduler"
	"github.com/Lidan4315/Ideku-sub000/internal/service"
	"github.com/Lidan4315/Ideku-sub000/internal/workflow"
	"github.com/Lidan4315/Ideku-sub000/pkg/config"
	"github.com/Lidan4315/Ideku-sub000/pkg/database"
	"github.com/Lidan4315/Ideku-sub000/pkg/distributed"
	"github.com/Lidan4315/Ideku-sub000/pkg/redis"
)

// Services 全部业务服务
type Services struct {
	Auth       *service.AuthService
	Idea       *service.IdeaService
	Approval   *service.ApprovalService
	Monitoring *service.MonitoringService
	Workflow   *service.WorkflowService
	Dashboard  *service.DashboardService
	Inactivity *service.InactivityService
}

// BackgroundServices 后台任务
type BackgroundServices struct {
	InactivityScheduler *scheduler.InactivityScheduler
}

// InitializeServices 初始化业务服务
func InitializeServices(repos *Repositories, cfg *config.Config, notifier *notification.Manager) *Services {
	db := database.DB
	clock := workflow.SystemClock()

	return &Services{
		Auth: service.NewAuthService(repos.User, repos.Role, cfg.Security.JWTSecret, cfg.Security.SessionTimeout),
		Idea: service.NewIdeaService(db, repos.Idea, repos.Workflow, repos.History, repos.User, clock, notifier),
		Approval: service.NewApprovalService(
			db, repos.Idea, repos.Workflow, repos.Approver, repos.User, repos.History, clock, notifier),
		Monitoring: service.NewMonitoringService(repos.Monitoring, repos.Idea, repos.User, cfg.Workflow.MonitoringStageOffset),
		Workflow:   service.NewWorkflowService(repos.Workflow),
		Dashboard:  service.NewDashboardService(db),
		Inactivity: service.NewInactivityService(db, repos.Idea, cfg.Workflow.InactivityDays, clock, notifier),
	}
}

// InitializeBackgroundServices 初始化后台任务
// 多实例部署时通过 Redis 锁保证每轮超时扫描只有一个实例执行
func InitializeBackgroundServices(services *Services, cfg *config.Config) *BackgroundServices {
	interval := time.Duration(cfg.Workflow.InactivityScanInterval) * time.Hour
	inactivityScheduler := scheduler.NewInactivityScheduler(services.Inactivity, interval)
	if redis.IsEnabled() {
		inactivityScheduler.WithLock(func() scheduler.ScanLock {
			return distributed.NewRedisLock(redis.GetClient(), "ideku:lock:inactivity-scan", 5*time.Minute)
		})
	}
	return &BackgroundServices{
		InactivityScheduler: inactivityScheduler,
	}
}
