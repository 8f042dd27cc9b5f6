package service

import (
	"testing"
	"time"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/repository"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 创建内存SQLite并迁移全部表
// 限制为单连接，避免每个连接各见一个空的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Employee{},
		&model.Approver{},
		&model.ApproverRole{},
		&model.Level{},
		&model.LevelApprover{},
		&model.Workflow{},
		&model.WorkflowStage{},
		&model.WorkflowCondition{},
		&model.Idea{},
		&model.IdeaImplementor{},
		&model.IdeaMilestone{},
		&model.IdeaMonitoring{},
		&model.WorkflowHistory{},
	)
	if err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}
	return db
}

// testEnv 服务层测试共用的仓储集合
type testEnv struct {
	db             *gorm.DB
	ideaRepo       *repository.IdeaRepository
	workflowRepo   *repository.WorkflowRepository
	approverRepo   *repository.ApproverRepository
	userRepo       *repository.UserRepository
	historyRepo    *repository.HistoryRepository
	monitoringRepo *repository.MonitoringRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	return &testEnv{
		db:             db,
		ideaRepo:       repository.NewIdeaRepository(db),
		workflowRepo:   repository.NewWorkflowRepository(db),
		approverRepo:   repository.NewApproverRepository(db),
		userRepo:       repository.NewUserRepository(db),
		historyRepo:    repository.NewHistoryRepository(db),
		monitoringRepo: repository.NewMonitoringRepository(db),
	}
}

// seedUser 创建用户及其角色（角色已存在时复用）
func seedUser(t *testing.T, db *gorm.DB, username string, roleName model.RoleName) *model.User {
	t.Helper()

	var role model.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		role = model.Role{ID: uuid.NewString(), Name: roleName, IsActive: true}
		if err := db.Create(&role).Error; err != nil {
			t.Fatalf("创建角色 %s 失败: %v", roleName, err)
		}
	}

	user := &model.User{
		ID:       uuid.NewString(),
		Username: username,
		Password: "hashed",
		Email:    username + "@example.com",
		RoleID:   role.ID,
		Status:   "active",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建用户 %s 失败: %v", username, err)
	}
	return user
}

// seedApprover 创建审批人并绑定审批角色
func seedApprover(t *testing.T, db *gorm.DB, username string, roleNames ...string) *model.Approver {
	t.Helper()

	approver := &model.Approver{
		ID:       uuid.NewString(),
		Username: username,
		FullName: username,
		IsActive: true,
	}
	if err := db.Create(approver).Error; err != nil {
		t.Fatalf("创建审批人 %s 失败: %v", username, err)
	}
	for _, roleName := range roleNames {
		ar := &model.ApproverRole{ID: uuid.NewString(), ApproverID: approver.ID, RoleName: roleName}
		if err := db.Create(ar).Error; err != nil {
			t.Fatalf("绑定审批角色 %s 失败: %v", roleName, err)
		}
	}
	return approver
}

// seedPrimaryAssignment 把审批人登记为某角色下的主审批人
func seedPrimaryAssignment(t *testing.T, db *gorm.DB, levelID string, approver *model.Approver, roleName string) {
	t.Helper()
	la := &model.LevelApprover{
		ID:         uuid.NewString(),
		LevelID:    levelID,
		ApproverID: approver.ID,
		RoleName:   roleName,
		IsPrimary:  true,
	}
	if err := db.Create(la).Error; err != nil {
		t.Fatalf("登记主审批人 %s 失败: %v", approver.Username, err)
	}
}

// seedLevel 创建审批级别
func seedLevel(t *testing.T, db *gorm.DB, name string, ordering int) *model.Level {
	t.Helper()
	level := &model.Level{ID: uuid.NewString(), Name: name, Ordering: ordering, IsActive: true}
	if err := db.Create(level).Error; err != nil {
		t.Fatalf("创建级别 %s 失败: %v", name, err)
	}
	return level
}

// seedWorkflow 创建带阶段的工作流
func seedWorkflow(t *testing.T, db *gorm.DB, name string, priority int, stages []model.WorkflowStage) *model.Workflow {
	t.Helper()
	wf := &model.Workflow{Name: name, Priority: priority, IsActive: true, Stages: stages}
	if err := db.Create(wf).Error; err != nil {
		t.Fatalf("创建工作流 %s 失败: %v", name, err)
	}
	return wf
}

// seedIdea 创建处于指定阶段的提案，编号按ID回填
func seedIdea(t *testing.T, db *gorm.DB, wf *model.Workflow, currentStage int, status string) *model.Idea {
	t.Helper()
	idea := &model.Idea{
		Title:             "降低包装损耗",
		Background:        "包装环节损耗偏高",
		Solution:          "更换自动封箱设备",
		InitiatorUsername: "initiator",
		Category:          "Cost",
		CurrentStage:      currentStage,
		MaxStage:          wf.MaxStage(),
		CurrentStatus:     status,
		WorkflowID:        wf.ID,
		SubmittedDate:     time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC),
	}
	if status == model.StatusRejected || status == model.StatusInactive {
		idea.IsRejected = true
	}
	if err := db.Create(idea).Error; err != nil {
		t.Fatalf("创建提案失败: %v", err)
	}
	idea.Code = model.GenerateCode(idea.ID)
	if err := db.Model(&model.Idea{}).Where("id = ?", idea.ID).Update("code", idea.Code).Error; err != nil {
		t.Fatalf("回填提案编号失败: %v", err)
	}
	return idea
}

// historyCount 统计提案的历史条数
func historyCount(t *testing.T, db *gorm.DB, ideaID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&model.WorkflowHistory{}).Where("idea_id = ?", ideaID).Count(&count).Error; err != nil {
		t.Fatalf("统计历史失败: %v", err)
	}
	return count
}

// reloadIdea 从数据库重读提案
func reloadIdea(t *testing.T, db *gorm.DB, id uint) *model.Idea {
	t.Helper()
	var idea model.Idea
	if err := db.First(&idea, id).Error; err != nil {
		t.Fatalf("重读提案失败: %v", err)
	}
	return &idea
}
