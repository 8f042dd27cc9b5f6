package repository

import (
	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create 创建角色
func (r *RoleRepository) Create(role *model.Role) error {
	return r.db.Create(role).Error
}

// Update 更新角色
func (r *RoleRepository) Update(role *model.Role) error {
	// 使用 Updates 并排除 created_at，避免零值覆盖
	return r.db.Model(&model.Role{}).
		Where("id = ?", role.ID).
		Omit("created_at").
		Updates(map[string]interface{}{
			"description": role.Description,
			"is_active":   role.IsActive,
		}).Error
}

// FindByID 根据ID查找角色
func (r *RoleRepository) FindByID(id string) (*model.Role, error) {
	var role model.Role
	err := r.db.Where("id = ?", id).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByName 根据名称查找角色
func (r *RoleRepository) FindByName(name model.RoleName) (*model.Role, error) {
	var role model.Role
	err := r.db.Where("name = ?", name).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// FindAll 查找所有角色
func (r *RoleRepository) FindAll() ([]model.Role, error) {
	var roles []model.Role
	err := r.db.Order("name ASC").Find(&roles).Error
	return roles, err
}
