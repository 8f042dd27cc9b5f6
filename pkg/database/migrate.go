package database

import (
	"time"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AutoMigrateAll 自动迁移所有表
func AutoMigrateAll() error {
	return DB.AutoMigrate(
		// 身份
		&model.User{},
		&model.Role{},
		&model.Employee{},

		// 主数据
		&model.Division{},
		&model.Department{},
		&model.Category{},
		&model.Event{},

		// 审批人体系
		&model.Approver{},
		&model.ApproverRole{},
		&model.Level{},
		&model.LevelApprover{},

		// 工作流
		&model.Workflow{},
		&model.WorkflowStage{},
		&model.WorkflowCondition{},

		// 提案
		&model.Idea{},
		&model.WorkflowHistory{},
		&model.IdeaImplementor{},
		&model.IdeaMilestone{},
		&model.IdeaMonitoring{},

		// 系统
		&model.OperationLog{},
		&model.NotificationChannel{},
	)
}

// SeedDefaults 写入内置角色与超级用户，幂等
func SeedDefaults() error {
	for _, name := range model.AllRoleNames() {
		var count int64
		if err := DB.Model(&model.Role{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			role := model.Role{
				ID:       uuid.New().String(),
				Name:     name,
				IsActive: true,
			}
			if err := DB.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	// 默认超级用户（首次启动后应立即修改密码）
	var count int64
	if err := DB.Model(&model.User{}).Where("username = ?", "superuser").Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		var superRole model.Role
		if err := DB.Where("name = ?", model.RoleSuperuser).First(&superRole).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte("superuser"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := model.User{
			ID:        uuid.New().String(),
			Username:  "superuser",
			Password:  string(hashed),
			FullName:  "Super User",
			Email:     "superuser@ideku.local",
			RoleID:    superRole.ID,
			Status:    "active",
			CreatedAt: time.Now(),
		}
		if err := DB.Create(&user).Error; err != nil {
			return err
		}
		logger.Warnf("Default superuser account created, change the password immediately")
	}

	return nil
}
