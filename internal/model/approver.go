package model

import "time"

// Approver 审批人，对应一名可以参与审批的员工
type Approver struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	FullName  string    `json:"full_name" gorm:"type:varchar(100)"`
	Email     string    `json:"email" gorm:"type:varchar(100)"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Roles []ApproverRole `json:"roles,omitempty" gorm:"foreignKey:ApproverID"`
}

func (Approver) TableName() string {
	return "approvers"
}

// ApproverRole 审批人与审批角色的绑定
// RoleName 对应 WorkflowStage.RoleName，决定该审批人可以处理哪些阶段
type ApproverRole struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ApproverID string    `json:"approver_id" gorm:"type:varchar(36);not null;index:idx_approver_role,unique"`
	RoleName   string    `json:"role_name" gorm:"type:varchar(50);not null;index:idx_approver_role,unique"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ApproverRole) TableName() string {
	return "approver_roles"
}

// Level 审批级别，定义审批顺序
type Level struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Ordering  int       `json:"ordering" gorm:"not null;index"` // 数值越小级别越靠前
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Level) TableName() string {
	return "levels"
}

// LevelApprover 级别下的审批人分配，IsPrimary 区分主审批人与备份审批人
// 并行阶段推进时只要求全部主审批人通过
type LevelApprover struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	LevelID    string    `json:"level_id" gorm:"type:varchar(36);not null;index:idx_level_approver,unique"`
	ApproverID string    `json:"approver_id" gorm:"type:varchar(36);not null;index:idx_level_approver,unique"`
	RoleName   string    `json:"role_name" gorm:"type:varchar(50);not null;index"`
	IsPrimary  bool      `json:"is_primary" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`

	Approver *Approver `json:"approver,omitempty" gorm:"foreignKey:ApproverID"`
}

func (LevelApprover) TableName() string {
	return "level_approvers"
}
