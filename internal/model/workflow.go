package model

import "time"

// 条件类型，对应提案的五个可匹配属性
const (
	ConditionTypeCategory   = "category"
	ConditionTypeDivision   = "division"
	ConditionTypeDepartment = "department"
	ConditionTypeSavingCost = "saving_cost"
	ConditionTypeEvent      = "event"
)

// 条件运算符
const (
	OperatorEq  = "eq"
	OperatorNeq = "neq"
	OperatorGt  = "gt"
	OperatorGte = "gte"
	OperatorLt  = "lt"
	OperatorLte = "lte"
	OperatorIn  = "in" // value 为逗号分隔列表
)

// Workflow 审批工作流定义
type Workflow struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Priority int    `json:"priority" gorm:"not null;index"` // 数值越小优先级越高
	IsActive bool   `json:"is_active" gorm:"default:true;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Stages     []WorkflowStage     `json:"stages,omitempty" gorm:"foreignKey:WorkflowID"`
	Conditions []WorkflowCondition `json:"conditions,omitempty" gorm:"foreignKey:WorkflowID"`
}

func (Workflow) TableName() string {
	return "workflows"
}

// MaxStage 工作流的最大阶段数（阶段号从1开始连续编号，0为隐含的"已提交"）
func (w *Workflow) MaxStage() int {
	return len(w.Stages)
}

// WorkflowStage 工作流阶段定义
type WorkflowStage struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	WorkflowID uint   `json:"workflow_id" gorm:"not null;index:idx_workflow_stage,unique"`
	Stage      int    `json:"stage" gorm:"not null;index:idx_workflow_stage,unique"` // 从1开始连续
	RoleName   string `json:"role_name" gorm:"type:varchar(50);not null"`            // 该阶段的审批角色
	IsMandatory bool  `json:"is_mandatory" gorm:"default:true"`
	IsParallel  bool  `json:"is_parallel" gorm:"default:false"` // 并行阶段需要该角色全部主审批人通过

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (WorkflowStage) TableName() string {
	return "workflow_stages"
}

// WorkflowCondition 工作流适用条件，同一工作流的活跃条件按合取评估
type WorkflowCondition struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	WorkflowID uint   `json:"workflow_id" gorm:"not null;index"`
	Type       string `json:"type" gorm:"type:varchar(20);not null"`     // category/division/department/saving_cost/event
	Operator   string `json:"operator" gorm:"type:varchar(10);not null"` // eq/neq/gt/gte/lt/lte/in
	Value      string `json:"value" gorm:"type:varchar(255);not null"`
	IsActive   bool   `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (WorkflowCondition) TableName() string {
	return "workflow_conditions"
}
