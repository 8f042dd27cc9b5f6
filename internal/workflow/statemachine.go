package workflow

import (
	"github.com/Lidan4315/Ideku-sub000/internal/model"
)

// StatusForStage 根据阶段计算状态串
// stage == maxStage 时为 Approved，否则为等待下一阶段审批
func StatusForStage(stage, maxStage int) string {
	if stage >= maxStage {
		return model.StatusApproved
	}
	return model.WaitingStatus(stage + 1)
}

// ValidateStage 检查阶段是否落在 [0, maxStage] 内
func ValidateStage(stage, maxStage int) error {
	if stage < 0 || stage > maxStage {
		return ErrStageOutOfRange
	}
	return nil
}

// EnsureActionable 转换前置检查：被逻辑删除或处于终止/冻结状态的提案不可再操作
func EnsureActionable(idea *model.Idea) error {
	if idea.IsDeleted || idea.IsTerminal() {
		return ErrIdeaTerminal
	}
	return nil
}

// StageFor 在工作流定义中查找指定阶段，未配置时返回 ErrStageNotConfigured
func StageFor(wf *model.Workflow, stage int) (*model.WorkflowStage, error) {
	for i := range wf.Stages {
		if wf.Stages[i].Stage == stage {
			return &wf.Stages[i], nil
		}
	}
	return nil, ErrStageNotConfigured
}

// NextOnApprove 计算通过一次审批后的阶段与状态
// 并行阶段在所有主审批人到齐之前不推进（allApproved=false 时原地记录历史）
func NextOnApprove(idea *model.Idea, stageDef *model.WorkflowStage, allApproved bool) (nextStage int, nextStatus string, advanced bool) {
	if stageDef.IsParallel && !allApproved {
		return idea.CurrentStage, idea.CurrentStatus, false
	}
	nextStage = idea.CurrentStage + 1
	return nextStage, StatusForStage(nextStage, idea.MaxStage), true
}
