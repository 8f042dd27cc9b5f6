package repository

import (
	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"gorm.io/gorm"
)

type MonitoringRepository struct {
	db *gorm.DB
}

func NewMonitoringRepository(db *gorm.DB) *MonitoringRepository {
	return &MonitoringRepository{db: db}
}

// CreateBatch 批量创建月度跟踪记录
func (r *MonitoringRepository) CreateBatch(records []model.IdeaMonitoring) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.Create(&records).Error
}

// CountByIdea 提案已有的跟踪记录数
func (r *MonitoringRepository) CountByIdea(ideaID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.IdeaMonitoring{}).Where("idea_id = ?", ideaID).Count(&count).Error
	return count, err
}

// FindByIdea 按月份升序返回提案的跟踪记录
func (r *MonitoringRepository) FindByIdea(ideaID uint) ([]model.IdeaMonitoring, error) {
	var records []model.IdeaMonitoring
	err := r.db.Where("idea_id = ?", ideaID).Order("month_from ASC").Find(&records).Error
	return records, err
}

// LastByIdea 提案最后一条跟踪记录，延长周期时从它的月末续接
func (r *MonitoringRepository) LastByIdea(ideaID uint) (*model.IdeaMonitoring, error) {
	var record model.IdeaMonitoring
	err := r.db.Where("idea_id = ?", ideaID).Order("month_from DESC").First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByID 根据ID查找跟踪记录
func (r *MonitoringRepository) FindByID(id uint) (*model.IdeaMonitoring, error) {
	var record model.IdeaMonitoring
	err := r.db.First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateCostSavings 更新计划与实际节约金额
func (r *MonitoringRepository) UpdateCostSavings(id uint, record *model.IdeaMonitoring) error {
	return r.db.Model(&model.IdeaMonitoring{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"cost_save_plan":   record.CostSavePlan,
			"cost_save_actual": record.CostSaveActual,
		}).Error
}

// UpdateCostSaveValidated 更新核定节约金额
func (r *MonitoringRepository) UpdateCostSaveValidated(id uint, record *model.IdeaMonitoring) error {
	return r.db.Model(&model.IdeaMonitoring{}).
		Where("id = ?", id).
		Update("cost_save_validated", record.CostSaveValidated).Error
}

// Delete 删除跟踪记录
func (r *MonitoringRepository) Delete(id uint) error {
	return r.db.Delete(&model.IdeaMonitoring{}, "id = ?", id).Error
}
