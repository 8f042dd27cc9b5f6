package model

import "time"

// RoleName 系统内置角色，封闭枚举
// 工作流动作的权限判断一律通过下面的能力函数，禁止散落的字符串比较
type RoleName string

const (
	RoleSuperuser        RoleName = "Superuser"
	RoleAdmin            RoleName = "Admin"
	RoleWorkstreamLeader RoleName = "Workstream Leader"
	RoleSCFO             RoleName = "SCFO"
	RoleApprover         RoleName = "Approver"
	RoleEmployee         RoleName = "Employee"
)

// AllRoleNames 返回全部内置角色，用于初始化
func AllRoleNames() []RoleName {
	return []RoleName{
		RoleSuperuser,
		RoleAdmin,
		RoleWorkstreamLeader,
		RoleSCFO,
		RoleApprover,
		RoleEmployee,
	}
}

// Valid 检查角色是否属于封闭枚举
func (r RoleName) Valid() bool {
	switch r {
	case RoleSuperuser, RoleAdmin, RoleWorkstreamLeader, RoleSCFO, RoleApprover, RoleEmployee:
		return true
	}
	return false
}

// CanBypass 是否允许越级调整提案阶段
func (r RoleName) CanBypass() bool {
	return r == RoleSuperuser || r == RoleAdmin
}

// CanValidateSavings 是否允许核定实际节约金额
func (r RoleName) CanValidateSavings() bool {
	return r == RoleSuperuser || r == RoleSCFO
}

// CanEditSavings 是否允许编辑计划/实际节约金额
// 提案执行团队成员（Leader/Member）的判断在 service 层结合 IdeaImplementor 完成
func (r RoleName) CanEditSavings() bool {
	return r == RoleSuperuser || r == RoleWorkstreamLeader
}

// CanManageMaster 是否允许维护主数据（工作流、角色、级别、审批人、用户）
func (r RoleName) CanManageMaster() bool {
	return r == RoleSuperuser || r == RoleAdmin
}

// Role 角色表
type Role struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        RoleName  `json:"name" gorm:"type:varchar(50);uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:varchar(255)"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Role) TableName() string {
	return "roles"
}
