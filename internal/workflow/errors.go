package workflow

import "errors"

var (
	// ErrNoWorkflowMatched 没有任何工作流的条件组匹配该提案，创建中止
	ErrNoWorkflowMatched = errors.New("no applicable workflow matched")

	// ErrIdeaTerminal 提案已处于终止/冻结状态，只能显式重新激活
	ErrIdeaTerminal = errors.New("idea is in a terminal status")

	// ErrIdeaNotTerminal 提案未被拒绝或置为Inactive，无需重新激活
	ErrIdeaNotTerminal = errors.New("idea is not rejected or inactive")

	// ErrStageOutOfRange 目标阶段越界
	ErrStageOutOfRange = errors.New("target stage out of range")

	// ErrRoleMismatch 调用者的审批角色与当前阶段配置不符
	ErrRoleMismatch = errors.New("caller role does not match stage approver role")

	// ErrPermissionDenied 调用者无权执行该操作
	ErrPermissionDenied = errors.New("permission denied")

	// ErrStageNotConfigured 工作流缺少对应阶段的配置
	ErrStageNotConfigured = errors.New("workflow stage not configured")

	// ErrWorkflowStageConflict 新工作流的阶段数小于提案当前阶段，不允许重新指派
	ErrWorkflowStageConflict = errors.New("idea current stage exceeds new workflow max stage")
)
