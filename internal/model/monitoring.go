package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// IdeaMonitoring 成本节约跟踪记录，每个覆盖月份一条
type IdeaMonitoring struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	IdeaID uint `json:"idea_id" gorm:"not null;index"`

	MonthFrom time.Time `json:"month_from" gorm:"not null"` // 当月第一天
	MonthTo   time.Time `json:"month_to" gorm:"not null"`   // 当月最后一天

	CostSavePlan      decimal.Decimal `json:"cost_save_plan" gorm:"type:decimal(20,2)"`
	CostSaveActual    decimal.Decimal `json:"cost_save_actual" gorm:"type:decimal(20,2)"`
	CostSaveValidated decimal.Decimal `json:"cost_save_validated" gorm:"type:decimal(20,2)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (IdeaMonitoring) TableName() string {
	return "idea_monitorings"
}

// CreateMonitoringRequest 创建成本跟踪请求
type CreateMonitoringRequest struct {
	IdeaCode       string `json:"idea_code" binding:"required"`
	MonthFrom      string `json:"month_from" binding:"required"` // 格式 2026-01
	DurationMonths int    `json:"duration_months" binding:"required"`
}

// ExtendMonitoringRequest 延长跟踪周期请求
type ExtendMonitoringRequest struct {
	IdeaCode         string `json:"idea_code" binding:"required"`
	AdditionalMonths int    `json:"additional_months" binding:"required"`
}

// UpdateCostSavingsRequest 更新计划/实际节约金额请求
type UpdateCostSavingsRequest struct {
	CostSavePlan   decimal.Decimal `json:"cost_save_plan"`
	CostSaveActual decimal.Decimal `json:"cost_save_actual"`
}

// UpdateCostSaveValidatedRequest 核定实际节约金额请求
type UpdateCostSaveValidatedRequest struct {
	CostSaveValidated decimal.Decimal `json:"cost_save_validated"`
}
