package service

import (
	"testing"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
)

func newWorkflowFixture(t *testing.T) (*testEnv, *WorkflowService) {
	t.Helper()
	env := newTestEnv(t)
	return env, NewWorkflowService(env.workflowRepo)
}

// TestAddStageSequencing 测试阶段号必须从1开始连续编号
func TestAddStageSequencing(t *testing.T) {
	env, svc := newWorkflowFixture(t)
	wf := seedWorkflow(t, env.db, "新流程", 1, nil)

	if err := svc.AddStage(&model.WorkflowStage{WorkflowID: wf.ID, Stage: 2, RoleName: string(model.RoleApprover)}); err == nil {
		t.Error("AddStage(stage=2) expected error on empty workflow")
	}
	if err := svc.AddStage(&model.WorkflowStage{WorkflowID: wf.ID, Stage: 1, RoleName: string(model.RoleApprover)}); err != nil {
		t.Fatalf("AddStage(stage=1) unexpected error: %v", err)
	}
	if err := svc.AddStage(&model.WorkflowStage{WorkflowID: wf.ID, Stage: 3, RoleName: string(model.RoleSCFO)}); err == nil {
		t.Error("AddStage(stage=3) expected error, next should be 2")
	}
	if err := svc.AddStage(&model.WorkflowStage{WorkflowID: wf.ID, Stage: 2, RoleName: "不存在的角色"}); err == nil {
		t.Error("AddStage() expected error for unknown role")
	}
	if err := svc.AddStage(&model.WorkflowStage{WorkflowID: wf.ID, Stage: 2, RoleName: string(model.RoleSCFO)}); err != nil {
		t.Fatalf("AddStage(stage=2) unexpected error: %v", err)
	}
}

// TestDeleteStageLastOnly 测试只能删除最后一个阶段
func TestDeleteStageLastOnly(t *testing.T) {
	env, svc := newWorkflowFixture(t)
	wf := seedWorkflow(t, env.db, "两级", 1, []model.WorkflowStage{
		{Stage: 1, RoleName: string(model.RoleApprover)},
		{Stage: 2, RoleName: string(model.RoleSCFO)},
	})

	loaded, err := svc.GetWorkflow(wf.ID)
	if err != nil {
		t.Fatalf("GetWorkflow() unexpected error: %v", err)
	}
	if len(loaded.Stages) != 2 {
		t.Fatalf("stage count = %d, expected 2", len(loaded.Stages))
	}

	if err := svc.DeleteStage(wf.ID, loaded.Stages[0].ID); err == nil {
		t.Error("DeleteStage(first) expected error")
	}
	if err := svc.DeleteStage(wf.ID, loaded.Stages[1].ID); err != nil {
		t.Errorf("DeleteStage(last) unexpected error: %v", err)
	}
}

// TestConditionValidation 测试条件类型与运算符组合校验
func TestConditionValidation(t *testing.T) {
	env, svc := newWorkflowFixture(t)
	wf := seedWorkflow(t, env.db, "条件流程", 1, []model.WorkflowStage{
		{Stage: 1, RoleName: string(model.RoleApprover)},
	})

	tests := []struct {
		name    string
		cond    model.WorkflowCondition
		wantErr bool
	}{
		{"类别eq合法", model.WorkflowCondition{WorkflowID: wf.ID, Type: model.ConditionTypeCategory, Operator: model.OperatorEq, Value: "Safety", IsActive: true}, false},
		{"类别in合法", model.WorkflowCondition{WorkflowID: wf.ID, Type: model.ConditionTypeCategory, Operator: model.OperatorIn, Value: "Safety,Quality", IsActive: true}, false},
		{"类别gt非法", model.WorkflowCondition{WorkflowID: wf.ID, Type: model.ConditionTypeCategory, Operator: model.OperatorGt, Value: "Safety", IsActive: true}, true},
		{"金额gte合法", model.WorkflowCondition{WorkflowID: wf.ID, Type: model.ConditionTypeSavingCost, Operator: model.OperatorGte, Value: "20000", IsActive: true}, false},
		{"金额in非法", model.WorkflowCondition{WorkflowID: wf.ID, Type: model.ConditionTypeSavingCost, Operator: model.OperatorIn, Value: "1,2", IsActive: true}, true},
		{"空值非法", model.WorkflowCondition{WorkflowID: wf.ID, Type: model.ConditionTypeDivision, Operator: model.OperatorEq, Value: "  ", IsActive: true}, true},
		{"未知类型非法", model.WorkflowCondition{WorkflowID: wf.ID, Type: "initiator", Operator: model.OperatorEq, Value: "x", IsActive: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.AddCondition(&tt.cond)
			if (err != nil) != tt.wantErr {
				t.Errorf("AddCondition() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
