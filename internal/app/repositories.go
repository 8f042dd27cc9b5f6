package app

import (
	"github.com/Lidan4315/Ideku-sub000/internal/repository"
	"github.com/Lidan4315/Ideku-sub000/pkg/database"
)

// Repositories 全部仓储
type Repositories struct {
	User       *repository.UserRepository
	Role       *repository.RoleRepository
	Idea       *repository.IdeaRepository
	Workflow   *repository.WorkflowRepository
	History    *repository.HistoryRepository
	Approver   *repository.ApproverRepository
	Level      *repository.LevelRepository
	Monitoring *repository.MonitoringRepository
	Master     *repository.MasterRepository
}

// InitializeRepositories 初始化全部仓储
func InitializeRepositories() *Repositories {
	db := database.DB
	return &Repositories{
		User:       repository.NewUserRepository(db),
		Role:       repository.NewRoleRepository(db),
		Idea:       repository.NewIdeaRepository(db),
		Workflow:   repository.NewWorkflowRepository(db),
		History:    repository.NewHistoryRepository(db),
		Approver:   repository.NewApproverRepository(db),
		Level:      repository.NewLevelRepository(db),
		Monitoring: repository.NewMonitoringRepository(db),
		Master:     repository.NewMasterRepository(db),
	}
}
