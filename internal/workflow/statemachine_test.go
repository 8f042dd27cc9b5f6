package workflow

import (
	"testing"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
)

// TestStatusForStage 测试阶段到状态串的映射
func TestStatusForStage(t *testing.T) {
	tests := []struct {
		name     string
		stage    int
		maxStage int
		expected string
	}{
		{"初始阶段等待S1", 0, 3, "Waiting Approval S1"},
		{"中间阶段等待S2", 1, 3, "Waiting Approval S2"},
		{"倒数第二阶段等待S3", 2, 3, "Waiting Approval S3"},
		{"到达最大阶段即通过", 3, 3, model.StatusApproved},
		{"单阶段工作流到达即通过", 1, 1, model.StatusApproved},
		{"单阶段工作流初始等待S1", 0, 1, "Waiting Approval S1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StatusForStage(tt.stage, tt.maxStage)
			if result != tt.expected {
				t.Errorf("StatusForStage(%d, %d) = %q, expected %q", tt.stage, tt.maxStage, result, tt.expected)
			}
		})
	}
}

// TestValidateStage 测试阶段范围校验
func TestValidateStage(t *testing.T) {
	tests := []struct {
		name     string
		stage    int
		maxStage int
		wantErr  bool
	}{
		{"最小合法阶段0", 0, 3, false},
		{"中间合法阶段", 2, 3, false},
		{"最大合法阶段", 3, 3, false},
		{"负数阶段非法", -1, 3, true},
		{"超出最大阶段非法", 4, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStage(tt.stage, tt.maxStage)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStage(%d, %d) error = %v, wantErr %v", tt.stage, tt.maxStage, err, tt.wantErr)
			}
			if err != nil && err != ErrStageOutOfRange {
				t.Errorf("ValidateStage(%d, %d) = %v, expected ErrStageOutOfRange", tt.stage, tt.maxStage, err)
			}
		})
	}
}

// TestEnsureActionable 测试终止/冻结状态拦截
func TestEnsureActionable(t *testing.T) {
	tests := []struct {
		name    string
		idea    model.Idea
		wantErr bool
	}{
		{"审批中的提案可操作", model.Idea{CurrentStage: 1, MaxStage: 3, CurrentStatus: model.WaitingStatus(2)}, false},
		{"刚提交的提案可操作", model.Idea{CurrentStage: 0, MaxStage: 3, CurrentStatus: model.WaitingStatus(1)}, false},
		{"已驳回不可操作", model.Idea{CurrentStage: 1, MaxStage: 3, CurrentStatus: model.StatusRejected, IsRejected: true}, true},
		{"已失活不可操作", model.Idea{CurrentStage: 1, MaxStage: 3, CurrentStatus: model.StatusInactive}, true},
		{"已完成不可操作", model.Idea{CurrentStage: 3, MaxStage: 3, CurrentStatus: model.StatusCompleted}, true},
		{"已通过不可操作", model.Idea{CurrentStage: 3, MaxStage: 3, CurrentStatus: model.StatusApproved}, true},
		{"逻辑删除不可操作", model.Idea{CurrentStage: 1, MaxStage: 3, CurrentStatus: model.WaitingStatus(2), IsDeleted: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EnsureActionable(&tt.idea)
			if (err != nil) != tt.wantErr {
				t.Errorf("EnsureActionable() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestStageFor 测试阶段定义查找
func TestStageFor(t *testing.T) {
	wf := &model.Workflow{
		Name: "标准流程",
		Stages: []model.WorkflowStage{
			{Stage: 1, RoleName: string(model.RoleApprover)},
			{Stage: 2, RoleName: string(model.RoleWorkstreamLeader)},
			{Stage: 3, RoleName: string(model.RoleSCFO), IsParallel: true},
		},
	}

	stageDef, err := StageFor(wf, 2)
	if err != nil {
		t.Fatalf("StageFor(wf, 2) unexpected error: %v", err)
	}
	if stageDef.RoleName != string(model.RoleWorkstreamLeader) {
		t.Errorf("StageFor(wf, 2).RoleName = %q, expected %q", stageDef.RoleName, model.RoleWorkstreamLeader)
	}

	if _, err := StageFor(wf, 4); err != ErrStageNotConfigured {
		t.Errorf("StageFor(wf, 4) error = %v, expected ErrStageNotConfigured", err)
	}
}

// TestNextOnApprove 测试审批通过后的阶段推进
func TestNextOnApprove(t *testing.T) {
	tests := []struct {
		name           string
		idea           model.Idea
		stageDef       model.WorkflowStage
		allApproved    bool
		expectedStage  int
		expectedStatus string
		expectAdvanced bool
	}{
		{
			name:           "普通阶段直接推进",
			idea:           model.Idea{CurrentStage: 0, MaxStage: 3, CurrentStatus: model.WaitingStatus(1)},
			stageDef:       model.WorkflowStage{Stage: 1, IsParallel: false},
			allApproved:    true,
			expectedStage:  1,
			expectedStatus: model.WaitingStatus(2),
			expectAdvanced: true,
		},
		{
			name:           "最后阶段推进为Approved",
			idea:           model.Idea{CurrentStage: 2, MaxStage: 3, CurrentStatus: model.WaitingStatus(3)},
			stageDef:       model.WorkflowStage{Stage: 3, IsParallel: false},
			allApproved:    true,
			expectedStage:  3,
			expectedStatus: model.StatusApproved,
			expectAdvanced: true,
		},
		{
			name:           "并行阶段未到齐不推进",
			idea:           model.Idea{CurrentStage: 1, MaxStage: 3, CurrentStatus: model.WaitingStatus(2)},
			stageDef:       model.WorkflowStage{Stage: 2, IsParallel: true},
			allApproved:    false,
			expectedStage:  1,
			expectedStatus: model.WaitingStatus(2),
			expectAdvanced: false,
		},
		{
			name:           "并行阶段到齐后推进",
			idea:           model.Idea{CurrentStage: 1, MaxStage: 3, CurrentStatus: model.WaitingStatus(2)},
			stageDef:       model.WorkflowStage{Stage: 2, IsParallel: true},
			allApproved:    true,
			expectedStage:  2,
			expectedStatus: model.WaitingStatus(3),
			expectAdvanced: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextStage, nextStatus, advanced := NextOnApprove(&tt.idea, &tt.stageDef, tt.allApproved)
			if nextStage != tt.expectedStage || nextStatus != tt.expectedStatus || advanced != tt.expectAdvanced {
				t.Errorf("NextOnApprove() = (%d, %q, %v), expected (%d, %q, %v)",
					nextStage, nextStatus, advanced, tt.expectedStage, tt.expectedStatus, tt.expectAdvanced)
			}
		})
	}
}
