package repository

import (
	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"gorm.io/gorm"
)

type WorkflowRepository struct {
	db *gorm.DB
}

func NewWorkflowRepository(db *gorm.DB) *WorkflowRepository {
	return &WorkflowRepository{db: db}
}

// Create 创建工作流及其阶段和条件
func (r *WorkflowRepository) Create(wf *model.Workflow) error {
	return r.db.Create(wf).Error
}

// Update 更新工作流基础字段（阶段和条件单独维护）
func (r *WorkflowRepository) Update(wf *model.Workflow) error {
	return r.db.Model(&model.Workflow{}).
		Where("id = ?", wf.ID).
		Omit("created_at").
		Updates(map[string]interface{}{
			"name":      wf.Name,
			"priority":  wf.Priority,
			"is_active": wf.IsActive,
		}).Error
}

// Delete 删除工作流及其阶段和条件
func (r *WorkflowRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.WorkflowStage{}, "workflow_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.WorkflowCondition{}, "workflow_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Workflow{}, "id = ?", id).Error
	})
}

// FindByID 根据ID查找工作流，带阶段和条件
func (r *WorkflowRepository) FindByID(id uint) (*model.Workflow, error) {
	var wf model.Workflow
	err := r.db.
		Preload("Stages", func(db *gorm.DB) *gorm.DB { return db.Order("stage ASC") }).
		Preload("Conditions").
		First(&wf, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &wf, nil
}

// FindAll 查找所有工作流
func (r *WorkflowRepository) FindAll() ([]model.Workflow, error) {
	var wfs []model.Workflow
	err := r.db.
		Preload("Stages", func(db *gorm.DB) *gorm.DB { return db.Order("stage ASC") }).
		Preload("Conditions").
		Order("priority ASC").
		Find(&wfs).Error
	return wfs, err
}

// FindActiveOrdered 查找活跃工作流，按优先级升序，供选择器使用
func (r *WorkflowRepository) FindActiveOrdered() ([]model.Workflow, error) {
	var wfs []model.Workflow
	err := r.db.
		Preload("Stages", func(db *gorm.DB) *gorm.DB { return db.Order("stage ASC") }).
		Preload("Conditions", "is_active = ?", true).
		Where("is_active = ?", true).
		Order("priority ASC").
		Find(&wfs).Error
	return wfs, err
}

// AddStage 添加工作流阶段
func (r *WorkflowRepository) AddStage(stage *model.WorkflowStage) error {
	return r.db.Create(stage).Error
}

// UpdateStage 更新工作流阶段
func (r *WorkflowRepository) UpdateStage(stage *model.WorkflowStage) error {
	return r.db.Model(&model.WorkflowStage{}).
		Where("id = ?", stage.ID).
		Omit("created_at").
		Updates(map[string]interface{}{
			"stage":        stage.Stage,
			"role_name":    stage.RoleName,
			"is_mandatory": stage.IsMandatory,
			"is_parallel":  stage.IsParallel,
		}).Error
}

// DeleteStage 删除工作流阶段
func (r *WorkflowRepository) DeleteStage(id uint) error {
	return r.db.Delete(&model.WorkflowStage{}, "id = ?", id).Error
}

// AddCondition 添加工作流条件
func (r *WorkflowRepository) AddCondition(cond *model.WorkflowCondition) error {
	return r.db.Create(cond).Error
}

// UpdateCondition 更新工作流条件
func (r *WorkflowRepository) UpdateCondition(cond *model.WorkflowCondition) error {
	return r.db.Model(&model.WorkflowCondition{}).
		Where("id = ?", cond.ID).
		Omit("created_at").
		Updates(map[string]interface{}{
			"type":      cond.Type,
			"operator":  cond.Operator,
			"value":     cond.Value,
			"is_active": cond.IsActive,
		}).Error
}

// DeleteCondition 删除工作流条件
func (r *WorkflowRepository) DeleteCondition(id uint) error {
	return r.db.Delete(&model.WorkflowCondition{}, "id = ?", id).Error
}

// CountStages 工作流的阶段数，用于计算提案的 MaxStage
func (r *WorkflowRepository) CountStages(workflowID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.WorkflowStage{}).Where("workflow_id = ?", workflowID).Count(&count).Error
	return count, err
}
