package repository

import (
	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"gorm.io/gorm"
)

// HistoryRepository 审批历史，只追加，没有更新和删除方法
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Append 追加一条历史记录
func (r *HistoryRepository) Append(h *model.WorkflowHistory) error {
	return r.db.Create(h).Error
}

// GetByIdeaID 按时间升序返回提案的全部历史
func (r *HistoryRepository) GetByIdeaID(ideaID uint) ([]model.WorkflowHistory, error) {
	var histories []model.WorkflowHistory
	err := r.db.Where("idea_id = ?", ideaID).Order("created_at ASC, id ASC").Find(&histories).Error
	return histories, err
}

// DistinctApproversAtStage 某一阶段上已经通过审批的去重操作者列表
// 并行阶段靠它判断主审批人是否到齐
func (r *HistoryRepository) DistinctApproversAtStage(ideaID uint, stage int) ([]string, error) {
	var actors []string
	err := r.db.Model(&model.WorkflowHistory{}).
		Where("idea_id = ? AND from_stage = ? AND action = ?", ideaID, stage, model.ActionApprove).
		Distinct("actor").
		Pluck("actor", &actors).Error
	return actors, err
}
