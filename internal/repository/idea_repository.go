package repository

import (
	"time"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"gorm.io/gorm"
)

type IdeaRepository struct {
	db *gorm.DB
}

func NewIdeaRepository(db *gorm.DB) *IdeaRepository {
	return &IdeaRepository{db: db}
}

// FindByID 根据ID查找提案（不含已删除）
func (r *IdeaRepository) FindByID(id uint) (*model.Idea, error) {
	var idea model.Idea
	err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&idea).Error
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

// FindByCode 根据编号查找提案（不含已删除）
func (r *IdeaRepository) FindByCode(code string) (*model.Idea, error) {
	var idea model.Idea
	err := r.db.Where("code = ? AND is_deleted = ?", code, false).First(&idea).Error
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

// IdeaFilter 提案列表过滤条件
type IdeaFilter struct {
	Status     string
	Category   string
	DivisionID string
	Initiator  string
	Page       int
	PageSize   int
}

// List 分页查询提案列表
func (r *IdeaRepository) List(filter IdeaFilter) ([]model.Idea, int64, error) {
	query := r.db.Model(&model.Idea{}).Where("is_deleted = ?", false)

	if filter.Status != "" {
		query = query.Where("current_status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.DivisionID != "" {
		query = query.Where("division_id = ?", filter.DivisionID)
	}
	if filter.Initiator != "" {
		query = query.Where("initiator_username = ?", filter.Initiator)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 200 {
		filter.PageSize = 20
	}

	var ideas []model.Idea
	err := query.Order("submitted_date DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&ideas).Error
	return ideas, total, err
}

// ListWaitingForRole 查询等待指定审批角色处理的提案
// 提案等待的阶段为 CurrentStage+1，对应的阶段角色在 workflow_stages 中
func (r *IdeaRepository) ListWaitingForRole(roleName string) ([]model.Idea, error) {
	var ideas []model.Idea
	err := r.db.
		Joins("JOIN workflow_stages ON workflow_stages.workflow_id = ideas.workflow_id AND workflow_stages.stage = ideas.current_stage + 1").
		Where("ideas.is_deleted = ? AND ideas.is_rejected = ? AND ideas.current_stage < ideas.max_stage", false, false).
		Where("workflow_stages.role_name = ?", roleName).
		Order("ideas.submitted_date ASC").
		Find(&ideas).Error
	return ideas, err
}

// FindStale 查找最近活动早于 cutoff 且仍在流转中的提案，用于超时自动拒绝
func (r *IdeaRepository) FindStale(cutoff time.Time) ([]model.Idea, error) {
	var ideas []model.Idea
	err := r.db.
		Where("is_deleted = ? AND is_rejected = ?", false, false).
		Where("current_stage < max_stage").
		Where("current_status NOT IN ?", []string{model.StatusApproved, model.StatusRejected, model.StatusInactive, model.StatusCompleted}).
		Where("COALESCE(updated_date, submitted_date) < ?", cutoff).
		Find(&ideas).Error
	return ideas, err
}

// SoftDelete 逻辑删除，提案永不物理删除
func (r *IdeaRepository) SoftDelete(id uint) error {
	return r.db.Model(&model.Idea{}).Where("id = ?", id).Update("is_deleted", true).Error
}

// ===== 执行团队 =====

// FindImplementor 查找提案执行团队中的指定成员
func (r *IdeaRepository) FindImplementor(ideaID uint, username string) (*model.IdeaImplementor, error) {
	var impl model.IdeaImplementor
	err := r.db.Where("idea_id = ? AND username = ?", ideaID, username).First(&impl).Error
	if err != nil {
		return nil, err
	}
	return &impl, nil
}

// AddImplementor 添加执行团队成员
func (r *IdeaRepository) AddImplementor(impl *model.IdeaImplementor) error {
	return r.db.Create(impl).Error
}

// ListImplementors 查询提案执行团队
func (r *IdeaRepository) ListImplementors(ideaID uint) ([]model.IdeaImplementor, error) {
	var impls []model.IdeaImplementor
	err := r.db.Where("idea_id = ?", ideaID).Find(&impls).Error
	return impls, err
}

// ===== 里程碑 =====

// CountMilestones 提案的里程碑数量，成本跟踪创建前要求至少一个
func (r *IdeaRepository) CountMilestones(ideaID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.IdeaMilestone{}).Where("idea_id = ?", ideaID).Count(&count).Error
	return count, err
}

// AddMilestone 添加里程碑
func (r *IdeaRepository) AddMilestone(m *model.IdeaMilestone) error {
	return r.db.Create(m).Error
}

// ListMilestones 查询提案里程碑
func (r *IdeaRepository) ListMilestones(ideaID uint) ([]model.IdeaMilestone, error) {
	var ms []model.IdeaMilestone
	err := r.db.Where("idea_id = ?", ideaID).Order("due_date ASC").Find(&ms).Error
	return ms, err
}
