package repository

import (
	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"gorm.io/gorm"
)

type ApproverRepository struct {
	db *gorm.DB
}

func NewApproverRepository(db *gorm.DB) *ApproverRepository {
	return &ApproverRepository{db: db}
}

// Create 创建审批人
func (r *ApproverRepository) Create(approver *model.Approver) error {
	return r.db.Create(approver).Error
}

// Update 更新审批人
func (r *ApproverRepository) Update(approver *model.Approver) error {
	return r.db.Model(&model.Approver{}).
		Where("id = ?", approver.ID).
		Omit("created_at").
		Updates(map[string]interface{}{
			"username":  approver.Username,
			"full_name": approver.FullName,
			"email":     approver.Email,
			"is_active": approver.IsActive,
		}).Error
}

// Delete 删除审批人及其角色绑定
func (r *ApproverRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ApproverRole{}, "approver_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.LevelApprover{}, "approver_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Approver{}, "id = ?", id).Error
	})
}

// FindByID 根据ID查找审批人
func (r *ApproverRepository) FindByID(id string) (*model.Approver, error) {
	var approver model.Approver
	err := r.db.Preload("Roles").First(&approver, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &approver, nil
}

// FindByUsername 根据用户名查找审批人
func (r *ApproverRepository) FindByUsername(username string) (*model.Approver, error) {
	var approver model.Approver
	err := r.db.Preload("Roles").Where("username = ?", username).First(&approver).Error
	if err != nil {
		return nil, err
	}
	return &approver, nil
}

// FindAll 查找所有审批人
func (r *ApproverRepository) FindAll() ([]model.Approver, error) {
	var approvers []model.Approver
	err := r.db.Preload("Roles").Order("username ASC").Find(&approvers).Error
	return approvers, err
}

// GetRoleNamesByUsername 查询某用户持有的全部审批角色名
func (r *ApproverRepository) GetRoleNamesByUsername(username string) ([]string, error) {
	var names []string
	err := r.db.Model(&model.ApproverRole{}).
		Joins("JOIN approvers ON approvers.id = approver_roles.approver_id").
		Where("approvers.username = ? AND approvers.is_active = ?", username, true).
		Pluck("approver_roles.role_name", &names).Error
	return names, err
}

// HasRole 检查用户是否持有指定审批角色
func (r *ApproverRepository) HasRole(username, roleName string) (bool, error) {
	var count int64
	err := r.db.Model(&model.ApproverRole{}).
		Joins("JOIN approvers ON approvers.id = approver_roles.approver_id").
		Where("approvers.username = ? AND approvers.is_active = ? AND approver_roles.role_name = ?",
			username, true, roleName).
		Count(&count).Error
	return count > 0, err
}

// AddRole 绑定审批角色
func (r *ApproverRepository) AddRole(role *model.ApproverRole) error {
	return r.db.Create(role).Error
}

// RemoveRole 解绑审批角色
func (r *ApproverRepository) RemoveRole(approverID, roleName string) error {
	return r.db.Delete(&model.ApproverRole{}, "approver_id = ? AND role_name = ?", approverID, roleName).Error
}

// PrimaryUsernamesByRole 某审批角色下全部活跃主审批人的用户名
// 并行阶段需要这份名单全部通过才推进
func (r *ApproverRepository) PrimaryUsernamesByRole(roleName string) ([]string, error) {
	var usernames []string
	err := r.db.Model(&model.LevelApprover{}).
		Joins("JOIN approvers ON approvers.id = level_approvers.approver_id").
		Where("level_approvers.role_name = ? AND level_approvers.is_primary = ? AND approvers.is_active = ?",
			roleName, true, true).
		Distinct("approvers.username").
		Pluck("approvers.username", &usernames).Error
	return usernames, err
}
