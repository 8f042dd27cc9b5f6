package repository

import (
	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"gorm.io/gorm"
)

type LevelRepository struct {
	db *gorm.DB
}

func NewLevelRepository(db *gorm.DB) *LevelRepository {
	return &LevelRepository{db: db}
}

// Create 创建级别
func (r *LevelRepository) Create(level *model.Level) error {
	return r.db.Create(level).Error
}

// Update 更新级别
func (r *LevelRepository) Update(level *model.Level) error {
	return r.db.Model(&model.Level{}).
		Where("id = ?", level.ID).
		Omit("created_at").
		Updates(map[string]interface{}{
			"name":      level.Name,
			"ordering":  level.Ordering,
			"is_active": level.IsActive,
		}).Error
}

// Delete 删除级别及其审批人分配
func (r *LevelRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.LevelApprover{}, "level_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Level{}, "id = ?", id).Error
	})
}

// FindByID 根据ID查找级别
func (r *LevelRepository) FindByID(id string) (*model.Level, error) {
	var level model.Level
	err := r.db.First(&level, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// FindAll 查找所有级别，按审批顺序排列
func (r *LevelRepository) FindAll() ([]model.Level, error) {
	var levels []model.Level
	err := r.db.Order("ordering ASC").Find(&levels).Error
	return levels, err
}

// AssignApprover 在级别下分配审批人
func (r *LevelRepository) AssignApprover(la *model.LevelApprover) error {
	return r.db.Create(la).Error
}

// UnassignApprover 解除级别下的审批人分配
func (r *LevelRepository) UnassignApprover(levelID, approverID string) error {
	return r.db.Delete(&model.LevelApprover{}, "level_id = ? AND approver_id = ?", levelID, approverID).Error
}

// ListApprovers 查询级别下的全部审批人分配
func (r *LevelRepository) ListApprovers(levelID string) ([]model.LevelApprover, error) {
	var las []model.LevelApprover
	err := r.db.Preload("Approver").Where("level_id = ?", levelID).Find(&las).Error
	return las, err
}
