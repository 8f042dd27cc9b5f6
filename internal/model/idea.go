package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// 提案状态，阶段推进中的状态由 workflow.StatusForStage 统一生成
const (
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusInactive  = "Inactive"
	StatusCompleted = "Completed"
)

// WaitingStatus 生成 "Waiting Approval S{n}" 状态串
func WaitingStatus(stage int) string {
	return fmt.Sprintf("Waiting Approval S%d", stage)
}

// Idea 改善提案
type Idea struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Code string `json:"code" gorm:"type:varchar(20);uniqueIndex"` // 由ID生成，格式 IDEA-00001

	Title      string `json:"title" gorm:"type:varchar(200);not null"`
	Background string `json:"background" gorm:"type:text"`
	Solution   string `json:"solution" gorm:"type:text"`

	InitiatorUsername string `json:"initiator_username" gorm:"type:varchar(50);not null;index"`
	DivisionID        string `json:"division_id" gorm:"type:varchar(36);index"`
	DepartmentID      string `json:"department_id" gorm:"type:varchar(36);index"`
	Category          string `json:"category" gorm:"type:varchar(100);index"`
	EventID           string `json:"event_id" gorm:"type:varchar(36);index"`

	SavingCost          decimal.Decimal `json:"saving_cost" gorm:"type:decimal(20,2)"`
	SavingCostValidated decimal.Decimal `json:"saving_cost_validated" gorm:"type:decimal(20,2)"`

	// 不变式: 0 <= CurrentStage <= MaxStage，CurrentStatus 与 CurrentStage 保持一致
	CurrentStage  int    `json:"current_stage" gorm:"not null;default:0"`
	MaxStage      int    `json:"max_stage" gorm:"not null"` // 创建时由所选工作流的阶段数固定
	CurrentStatus string `json:"current_status" gorm:"type:varchar(50);not null;index"`

	IsDeleted  bool `json:"is_deleted" gorm:"default:false;index"`
	IsRejected bool `json:"is_rejected" gorm:"default:false;index"`

	WorkflowID uint `json:"workflow_id" gorm:"not null;index"`

	SubmittedDate time.Time  `json:"submitted_date" gorm:"not null"`
	UpdatedDate   *time.Time `json:"updated_date,omitempty"`

	Workflow *Workflow `json:"workflow,omitempty" gorm:"foreignKey:WorkflowID"`
}

func (Idea) TableName() string {
	return "ideas"
}

// GenerateCode 根据自增ID生成提案编号
func GenerateCode(id uint) string {
	return fmt.Sprintf("IDEA-%05d", id)
}

// AttachmentName 附件的确定性命名 {IdeaCode}_S{stage}_{sequence}.{ext}
// 上传存储不在本服务范围内，命名规则保留给上传面使用
func (i *Idea) AttachmentName(stage, sequence int, ext string) string {
	return fmt.Sprintf("%s_S%d_%d.%s", i.Code, stage, sequence, ext)
}

// IsTerminal 提案是否处于终止/冻结状态，冻结提案只能通过显式重新激活恢复
func (i *Idea) IsTerminal() bool {
	switch i.CurrentStatus {
	case StatusRejected, StatusInactive, StatusCompleted:
		return true
	}
	return i.IsRejected || (i.CurrentStage >= i.MaxStage && i.CurrentStatus == StatusApproved)
}

// LastActivity 最近一次活动时间（UpdatedDate 为空时取 SubmittedDate）
func (i *Idea) LastActivity() time.Time {
	if i.UpdatedDate != nil {
		return *i.UpdatedDate
	}
	return i.SubmittedDate
}

// LastUpdatedDays 距最近一次活动的天数，用于列表展示与超时判定
func (i *Idea) LastUpdatedDays(now time.Time) int {
	return int(now.Sub(i.LastActivity()).Hours() / 24)
}

// IdeaImplementor 提案执行团队成员
type IdeaImplementor struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	IdeaID   uint   `json:"idea_id" gorm:"not null;index:idx_idea_implementor,unique"`
	Username string `json:"username" gorm:"type:varchar(50);not null;index:idx_idea_implementor,unique"`
	Role     string `json:"role" gorm:"type:varchar(20);not null"` // Leader / Member

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (IdeaImplementor) TableName() string {
	return "idea_implementors"
}

// IdeaMilestone 提案里程碑，成本跟踪创建的前置条件
type IdeaMilestone struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	IdeaID      uint       `json:"idea_id" gorm:"not null;index"`
	Description string     `json:"description" gorm:"type:varchar(255);not null"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsDone      bool       `json:"is_done" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (IdeaMilestone) TableName() string {
	return "idea_milestones"
}

// IdeaListItem 提案列表项，附带停滞天数
type IdeaListItem struct {
	Idea
	LastUpdatedDaysCount int `json:"last_updated_days" gorm:"-"`
}

// CreateIdeaRequest 提交提案请求
type CreateIdeaRequest struct {
	Title        string          `json:"title" binding:"required,max=200"`
	Background   string          `json:"background" binding:"required"`
	Solution     string          `json:"solution" binding:"required"`
	DivisionID   string          `json:"division_id" binding:"required"`
	DepartmentID string          `json:"department_id" binding:"required"`
	Category     string          `json:"category" binding:"required"`
	EventID      string          `json:"event_id"`
	SavingCost   decimal.Decimal `json:"saving_cost"`
}

// UpdateIdeaRequest 编辑提案内容请求，不触碰阶段与状态
type UpdateIdeaRequest struct {
	Title      string `json:"title" binding:"max=200"`
	Background string `json:"background"`
	Solution   string `json:"solution"`
}

// IdeaDetail 提案详情，聚合历史、执行团队与里程碑
type IdeaDetail struct {
	Idea                 Idea              `json:"idea"`
	LastUpdatedDaysCount int               `json:"last_updated_days"`
	History              []WorkflowHistory `json:"history"`
	Implementors         []IdeaImplementor `json:"implementors"`
	Milestones           []IdeaMilestone   `json:"milestones"`
}
