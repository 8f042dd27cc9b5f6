package model

import "time"

// 审批动作，写入 WorkflowHistory.Action
const (
	ActionSubmit         = "submit"
	ActionApprove        = "approve"
	ActionReject         = "reject"
	ActionBypass         = "bypass"
	ActionReactivate     = "reactivate"
	ActionAutoReject     = "auto_reject"
	ActionChangeWorkflow = "change_workflow"
)

// SystemActor 后台任务写入历史时使用的操作者
const SystemActor = "system"

// WorkflowHistory 审批历史，只追加，写入后不允许修改或删除
type WorkflowHistory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	IdeaID    uint      `json:"idea_id" gorm:"not null;index"`
	Actor     string    `json:"actor" gorm:"type:varchar(50);not null"`
	FromStage int       `json:"from_stage" gorm:"not null"`
	ToStage   int       `json:"to_stage" gorm:"not null"`
	Action    string    `json:"action" gorm:"type:varchar(20);not null;index"`
	Comments  string    `json:"comments" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (WorkflowHistory) TableName() string {
	return "workflow_histories"
}
