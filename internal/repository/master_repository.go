package repository

import (
	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"gorm.io/gorm"
)

// MasterRepository 主数据访问：事业部、部门、分类、活动
type MasterRepository struct {
	db *gorm.DB
}

func NewMasterRepository(db *gorm.DB) *MasterRepository {
	return &MasterRepository{db: db}
}

// ===== Division =====

func (r *MasterRepository) CreateDivision(d *model.Division) error {
	return r.db.Create(d).Error
}

func (r *MasterRepository) UpdateDivision(d *model.Division) error {
	return r.db.Model(&model.Division{}).Where("id = ?", d.ID).Omit("created_at").
		Updates(map[string]interface{}{"code": d.Code, "name": d.Name, "is_active": d.IsActive}).Error
}

func (r *MasterRepository) DeleteDivision(id string) error {
	return r.db.Delete(&model.Division{}, "id = ?", id).Error
}

func (r *MasterRepository) FindDivisionByID(id string) (*model.Division, error) {
	var d model.Division
	if err := r.db.First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *MasterRepository) ListDivisions() ([]model.Division, error) {
	var ds []model.Division
	err := r.db.Order("code ASC").Find(&ds).Error
	return ds, err
}

// ===== Department =====

func (r *MasterRepository) CreateDepartment(d *model.Department) error {
	return r.db.Create(d).Error
}

func (r *MasterRepository) UpdateDepartment(d *model.Department) error {
	return r.db.Model(&model.Department{}).Where("id = ?", d.ID).Omit("created_at").
		Updates(map[string]interface{}{"division_id": d.DivisionID, "code": d.Code, "name": d.Name, "is_active": d.IsActive}).Error
}

func (r *MasterRepository) DeleteDepartment(id string) error {
	return r.db.Delete(&model.Department{}, "id = ?", id).Error
}

func (r *MasterRepository) ListDepartments(divisionID string) ([]model.Department, error) {
	query := r.db.Preload("Division")
	if divisionID != "" {
		query = query.Where("division_id = ?", divisionID)
	}
	var ds []model.Department
	err := query.Order("code ASC").Find(&ds).Error
	return ds, err
}

// ===== Category =====

func (r *MasterRepository) CreateCategory(c *model.Category) error {
	return r.db.Create(c).Error
}

func (r *MasterRepository) UpdateCategory(c *model.Category) error {
	return r.db.Model(&model.Category{}).Where("id = ?", c.ID).Omit("created_at").
		Updates(map[string]interface{}{"name": c.Name, "is_active": c.IsActive}).Error
}

func (r *MasterRepository) DeleteCategory(id string) error {
	return r.db.Delete(&model.Category{}, "id = ?", id).Error
}

func (r *MasterRepository) ListCategories() ([]model.Category, error) {
	var cs []model.Category
	err := r.db.Order("name ASC").Find(&cs).Error
	return cs, err
}

// ===== Event =====

func (r *MasterRepository) CreateEvent(e *model.Event) error {
	return r.db.Create(e).Error
}

func (r *MasterRepository) UpdateEvent(e *model.Event) error {
	return r.db.Model(&model.Event{}).Where("id = ?", e.ID).Omit("created_at").
		Updates(map[string]interface{}{"name": e.Name, "start_date": e.StartDate, "end_date": e.EndDate, "is_active": e.IsActive}).Error
}

func (r *MasterRepository) DeleteEvent(id string) error {
	return r.db.Delete(&model.Event{}, "id = ?", id).Error
}

func (r *MasterRepository) ListEvents() ([]model.Event, error) {
	var es []model.Event
	err := r.db.Order("start_date DESC").Find(&es).Error
	return es, err
}
