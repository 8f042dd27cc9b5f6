package service

import (
	"testing"
	"time"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/workflow"
	"github.com/shopspring/decimal"
)

func newMonitoringFixture(t *testing.T) (*testEnv, *MonitoringService) {
	t.Helper()
	env := newTestEnv(t)
	svc := NewMonitoringService(env.monitoringRepo, env.ideaRepo, env.userRepo, 1)
	return env, svc
}

// seedMonitorableIdea 三级工作流、已到可跟踪阶段(MaxStage-1=2)、带一个里程碑
func seedMonitorableIdea(t *testing.T, env *testEnv) *model.Idea {
	t.Helper()
	wf := seedWorkflow(t, env.db, "三级审批", 1, []model.WorkflowStage{
		{Stage: 1, RoleName: string(model.RoleApprover)},
		{Stage: 2, RoleName: string(model.RoleWorkstreamLeader)},
		{Stage: 3, RoleName: string(model.RoleSCFO)},
	})
	idea := seedIdea(t, env.db, wf, 2, model.WaitingStatus(3))
	milestone := &model.IdeaMilestone{IdeaID: idea.ID, Description: "设备投产"}
	if err := env.db.Create(milestone).Error; err != nil {
		t.Fatalf("创建里程碑失败: %v", err)
	}
	return idea
}

// TestCreateMonitoring 测试按月批量生成跟踪记录
func TestCreateMonitoring(t *testing.T) {
	env, svc := newMonitoringFixture(t)
	idea := seedMonitorableIdea(t, env)

	rows, err := svc.CreateMonitoring(&model.CreateMonitoringRequest{
		IdeaCode:       idea.Code,
		MonthFrom:      "2026-04",
		DurationMonths: 6,
	})
	if err != nil {
		t.Fatalf("CreateMonitoring() unexpected error: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("rows = %d, expected 6", len(rows))
	}

	wantFirst := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	if !rows[0].MonthFrom.Equal(wantFirst) {
		t.Errorf("first MonthFrom = %v, expected %v", rows[0].MonthFrom, wantFirst)
	}
	wantLastTo := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	if !rows[5].MonthTo.Equal(wantLastTo) {
		t.Errorf("last MonthTo = %v, expected %v", rows[5].MonthTo, wantLastTo)
	}

	count, err := env.monitoringRepo.CountByIdea(idea.ID)
	if err != nil || count != 6 {
		t.Errorf("CountByIdea() = %d (err %v), expected 6", count, err)
	}
}

// TestCreateMonitoringCrossYear 测试跨年月份推算
func TestCreateMonitoringCrossYear(t *testing.T) {
	env, svc := newMonitoringFixture(t)
	idea := seedMonitorableIdea(t, env)

	rows, err := svc.CreateMonitoring(&model.CreateMonitoringRequest{
		IdeaCode:       idea.Code,
		MonthFrom:      "2026-11",
		DurationMonths: 4,
	})
	if err != nil {
		t.Fatalf("CreateMonitoring() unexpected error: %v", err)
	}
	wantLastFrom := time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC)
	if !rows[3].MonthFrom.Equal(wantLastFrom) {
		t.Errorf("last MonthFrom = %v, expected %v", rows[3].MonthFrom, wantLastFrom)
	}
	wantLastTo := time.Date(2027, 2, 28, 0, 0, 0, 0, time.UTC)
	if !rows[3].MonthTo.Equal(wantLastTo) {
		t.Errorf("last MonthTo = %v, expected %v", rows[3].MonthTo, wantLastTo)
	}
}

// TestCreateMonitoringPreconditions 测试创建跟踪的各前置条件
func TestCreateMonitoringPreconditions(t *testing.T) {
	t.Run("周期越界", func(t *testing.T) {
		env, svc := newMonitoringFixture(t)
		idea := seedMonitorableIdea(t, env)
		for _, months := range []int{0, 25, -1} {
			if _, err := svc.CreateMonitoring(&model.CreateMonitoringRequest{IdeaCode: idea.Code, MonthFrom: "2026-04", DurationMonths: months}); err == nil {
				t.Errorf("CreateMonitoring(months=%d) expected error", months)
			}
		}
	})

	t.Run("起始月份格式错误", func(t *testing.T) {
		env, svc := newMonitoringFixture(t)
		idea := seedMonitorableIdea(t, env)
		if _, err := svc.CreateMonitoring(&model.CreateMonitoringRequest{IdeaCode: idea.Code, MonthFrom: "04/2026", DurationMonths: 3}); err == nil {
			t.Error("CreateMonitoring() expected error for malformed month")
		}
	})

	t.Run("提案未到可跟踪阶段", func(t *testing.T) {
		env, svc := newMonitoringFixture(t)
		wf := seedWorkflow(t, env.db, "三级审批", 1, []model.WorkflowStage{
			{Stage: 1, RoleName: string(model.RoleApprover)},
			{Stage: 2, RoleName: string(model.RoleWorkstreamLeader)},
			{Stage: 3, RoleName: string(model.RoleSCFO)},
		})
		idea := seedIdea(t, env.db, wf, 1, model.WaitingStatus(2))
		if _, err := svc.CreateMonitoring(&model.CreateMonitoringRequest{IdeaCode: idea.Code, MonthFrom: "2026-04", DurationMonths: 3}); err == nil {
			t.Error("CreateMonitoring() expected error before eligible stage")
		}
	})

	t.Run("缺少里程碑", func(t *testing.T) {
		env, svc := newMonitoringFixture(t)
		wf := seedWorkflow(t, env.db, "单级", 1, []model.WorkflowStage{{Stage: 1, RoleName: string(model.RoleApprover)}})
		idea := seedIdea(t, env.db, wf, 1, model.StatusApproved)
		if _, err := svc.CreateMonitoring(&model.CreateMonitoringRequest{IdeaCode: idea.Code, MonthFrom: "2026-04", DurationMonths: 3}); err == nil {
			t.Error("CreateMonitoring() expected error without milestone")
		}
	})

	t.Run("重复创建", func(t *testing.T) {
		env, svc := newMonitoringFixture(t)
		idea := seedMonitorableIdea(t, env)
		if _, err := svc.CreateMonitoring(&model.CreateMonitoringRequest{IdeaCode: idea.Code, MonthFrom: "2026-04", DurationMonths: 3}); err != nil {
			t.Fatalf("first CreateMonitoring() unexpected error: %v", err)
		}
		if _, err := svc.CreateMonitoring(&model.CreateMonitoringRequest{IdeaCode: idea.Code, MonthFrom: "2026-08", DurationMonths: 3}); err == nil {
			t.Error("second CreateMonitoring() expected error")
		}
	})
}

// TestExtendDuration 测试延长跟踪周期从最后一行的次月接续
func TestExtendDuration(t *testing.T) {
	env, svc := newMonitoringFixture(t)
	idea := seedMonitorableIdea(t, env)

	if _, err := svc.CreateMonitoring(&model.CreateMonitoringRequest{IdeaCode: idea.Code, MonthFrom: "2026-04", DurationMonths: 3}); err != nil {
		t.Fatalf("CreateMonitoring() unexpected error: %v", err)
	}

	rows, err := svc.ExtendDuration(&model.ExtendMonitoringRequest{IdeaCode: idea.Code, AdditionalMonths: 2})
	if err != nil {
		t.Fatalf("ExtendDuration() unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("extended rows = %d, expected 2", len(rows))
	}
	// 原周期到 2026-06-30，延长从 2026-07-01 接续
	wantFrom := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	if !rows[0].MonthFrom.Equal(wantFrom) {
		t.Errorf("extension MonthFrom = %v, expected %v", rows[0].MonthFrom, wantFrom)
	}

	count, _ := env.monitoringRepo.CountByIdea(idea.ID)
	if count != 5 {
		t.Errorf("total rows = %d, expected 5", count)
	}

	t.Run("延长月数越界", func(t *testing.T) {
		if _, err := svc.ExtendDuration(&model.ExtendMonitoringRequest{IdeaCode: idea.Code, AdditionalMonths: 13}); err == nil {
			t.Error("ExtendDuration(13) expected error")
		}
	})
}

// TestExtendDurationWithoutRecords 测试无跟踪记录时不可延长
func TestExtendDurationWithoutRecords(t *testing.T) {
	env, svc := newMonitoringFixture(t)
	idea := seedMonitorableIdea(t, env)
	if _, err := svc.ExtendDuration(&model.ExtendMonitoringRequest{IdeaCode: idea.Code, AdditionalMonths: 2}); err == nil {
		t.Error("ExtendDuration() expected error without existing records")
	}
}

// TestUpdateCostSavings 测试金额编辑权限与负数拒绝
func TestUpdateCostSavings(t *testing.T) {
	env, svc := newMonitoringFixture(t)
	idea := seedMonitorableIdea(t, env)
	rows, err := svc.CreateMonitoring(&model.CreateMonitoringRequest{IdeaCode: idea.Code, MonthFrom: "2026-04", DurationMonths: 3})
	if err != nil {
		t.Fatalf("CreateMonitoring() unexpected error: %v", err)
	}
	recordID := rows[0].ID

	seedUser(t, env.db, "ws.leader", model.RoleWorkstreamLeader)
	seedUser(t, env.db, "team.member", model.RoleEmployee)
	seedUser(t, env.db, "outsider", model.RoleEmployee)
	seedUser(t, env.db, "scfo", model.RoleSCFO)
	impl := &model.IdeaImplementor{IdeaID: idea.ID, Username: "team.member", Role: "Member"}
	if err := env.db.Create(impl).Error; err != nil {
		t.Fatalf("创建执行团队成员失败: %v", err)
	}

	t.Run("Workstream Leader可以编辑", func(t *testing.T) {
		updated, err := svc.UpdateCostSavings(recordID, &model.UpdateCostSavingsRequest{
			CostSavePlan:   decimal.NewFromInt(3000),
			CostSaveActual: decimal.NewFromInt(2800),
		}, "ws.leader")
		if err != nil {
			t.Fatalf("UpdateCostSavings() unexpected error: %v", err)
		}
		if !updated.CostSaveActual.Equal(decimal.NewFromInt(2800)) {
			t.Errorf("CostSaveActual = %s, expected 2800", updated.CostSaveActual)
		}
	})

	t.Run("执行团队成员可以编辑", func(t *testing.T) {
		if _, err := svc.UpdateCostSavings(recordID, &model.UpdateCostSavingsRequest{
			CostSavePlan: decimal.NewFromInt(3000),
		}, "team.member"); err != nil {
			t.Errorf("UpdateCostSavings() unexpected error: %v", err)
		}
	})

	t.Run("无关员工无权编辑", func(t *testing.T) {
		if _, err := svc.UpdateCostSavings(recordID, &model.UpdateCostSavingsRequest{}, "outsider"); err != workflow.ErrPermissionDenied {
			t.Errorf("UpdateCostSavings() error = %v, expected ErrPermissionDenied", err)
		}
	})

	t.Run("负数金额拒绝", func(t *testing.T) {
		if _, err := svc.UpdateCostSavings(recordID, &model.UpdateCostSavingsRequest{
			CostSavePlan: decimal.NewFromInt(-1),
		}, "ws.leader"); err == nil {
			t.Error("UpdateCostSavings() expected error for negative amount")
		}
	})

	t.Run("SCFO核定金额", func(t *testing.T) {
		updated, err := svc.UpdateCostSaveValidated(recordID, decimal.NewFromInt(2500), "scfo")
		if err != nil {
			t.Fatalf("UpdateCostSaveValidated() unexpected error: %v", err)
		}
		if !updated.CostSaveValidated.Equal(decimal.NewFromInt(2500)) {
			t.Errorf("CostSaveValidated = %s, expected 2500", updated.CostSaveValidated)
		}
	})

	t.Run("非SCFO无权核定", func(t *testing.T) {
		if _, err := svc.UpdateCostSaveValidated(recordID, decimal.NewFromInt(100), "ws.leader"); err != workflow.ErrPermissionDenied {
			t.Errorf("UpdateCostSaveValidated() error = %v, expected ErrPermissionDenied", err)
		}
	})

	t.Run("删除跟踪记录权限与编辑一致", func(t *testing.T) {
		if err := svc.DeleteMonitoring(recordID, "outsider"); err != workflow.ErrPermissionDenied {
			t.Errorf("DeleteMonitoring() error = %v, expected ErrPermissionDenied", err)
		}
		if err := svc.DeleteMonitoring(recordID, "team.member"); err != nil {
			t.Errorf("DeleteMonitoring() unexpected error: %v", err)
		}
	})
}
