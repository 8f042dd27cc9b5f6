package service

import (
	"context"
	"testing"
	"time"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/shopspring/decimal"
)

// TestDashboardStats 测试仪表盘汇总指标
func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDashboardService(env.db)

	wf := seedWorkflow(t, env.db, "两级审批", 1, []model.WorkflowStage{
		{Stage: 1, RoleName: string(model.RoleApprover)},
		{Stage: 2, RoleName: string(model.RoleSCFO)},
	})

	waiting := seedIdea(t, env.db, wf, 0, model.WaitingStatus(1))
	approved := seedIdea(t, env.db, wf, 2, model.StatusApproved)
	seedIdea(t, env.db, wf, 1, model.StatusRejected)
	seedIdea(t, env.db, wf, 0, model.StatusInactive)

	if err := env.db.Model(&model.Idea{}).Where("id = ?", waiting.ID).Update("saving_cost", decimal.NewFromInt(5000)).Error; err != nil {
		t.Fatalf("更新节约金额失败: %v", err)
	}
	if err := env.db.Model(&model.Idea{}).Where("id = ?", approved.ID).Update("saving_cost", decimal.NewFromInt(20000)).Error; err != nil {
		t.Fatalf("更新节约金额失败: %v", err)
	}

	// 通过的提案带两条跟踪记录，只应计为一个被跟踪提案
	rows := buildMonthRows(approved.ID, mustMonth(t, "2026-04"), 2)
	rows[0].CostSaveActual = decimal.NewFromInt(1500)
	rows[1].CostSaveActual = decimal.NewFromInt(500)
	if err := env.monitoringRepo.CreateBatch(rows); err != nil {
		t.Fatalf("创建跟踪记录失败: %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() unexpected error: %v", err)
	}

	if stats.TotalIdeas != 4 {
		t.Errorf("TotalIdeas = %d, expected 4", stats.TotalIdeas)
	}
	if stats.WaitingApproval != 1 {
		t.Errorf("WaitingApproval = %d, expected 1", stats.WaitingApproval)
	}
	if stats.Approved != 1 || stats.Rejected != 1 || stats.Inactive != 1 {
		t.Errorf("status counts = (%d, %d, %d), expected (1, 1, 1)", stats.Approved, stats.Rejected, stats.Inactive)
	}
	if !stats.TotalSavingCost.Equal(decimal.NewFromInt(25000)) {
		t.Errorf("TotalSavingCost = %s, expected 25000", stats.TotalSavingCost)
	}
	if stats.MonitoredIdeas != 1 {
		t.Errorf("MonitoredIdeas = %d, expected 1", stats.MonitoredIdeas)
	}
	if !stats.TotalCostSaveActual.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("TotalCostSaveActual = %s, expected 2000", stats.TotalCostSaveActual)
	}
}

// TestDashboardCharts 测试分布统计
func TestDashboardCharts(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDashboardService(env.db)

	wf := seedWorkflow(t, env.db, "单级", 1, []model.WorkflowStage{{Stage: 1, RoleName: string(model.RoleApprover)}})
	seedIdea(t, env.db, wf, 0, model.WaitingStatus(1))
	seedIdea(t, env.db, wf, 0, model.WaitingStatus(1))
	seedIdea(t, env.db, wf, 1, model.StatusApproved)

	charts, err := svc.Charts(context.Background())
	if err != nil {
		t.Fatalf("Charts() unexpected error: %v", err)
	}

	byStatus := make(map[string]int64)
	for _, p := range charts.ByStatus {
		byStatus[p.Label] = p.Count
	}
	if byStatus[model.WaitingStatus(1)] != 2 {
		t.Errorf("ByStatus[%q] = %d, expected 2", model.WaitingStatus(1), byStatus[model.WaitingStatus(1)])
	}
	if byStatus[model.StatusApproved] != 1 {
		t.Errorf("ByStatus[Approved] = %d, expected 1", byStatus[model.StatusApproved])
	}

	byCategory := make(map[string]int64)
	for _, p := range charts.ByCategory {
		byCategory[p.Label] = p.Count
	}
	// seedIdea 的类别固定为 Cost
	if byCategory["Cost"] != 3 {
		t.Errorf("ByCategory[Cost] = %d, expected 3", byCategory["Cost"])
	}
}

func mustMonth(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse("2006-01", s)
	if err != nil {
		t.Fatalf("解析月份 %s 失败: %v", s, err)
	}
	return v
}
