package service

import (
	"errors"
	"fmt"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/repository"
	"github.com/Lidan4315/Ideku-sub000/internal/workflow"
	"github.com/Lidan4315/Ideku-sub000/pkg/logger"
	"github.com/Lidan4315/Ideku-sub000/pkg/metrics"
	"gorm.io/gorm"
)

// IdeaService 提案生命周期：提交、列表、详情、编辑、逻辑删除
type IdeaService struct {
	db           *gorm.DB
	ideaRepo     *repository.IdeaRepository
	workflowRepo *repository.WorkflowRepository
	historyRepo  *repository.HistoryRepository
	userRepo     *repository.UserRepository
	selector     *workflow.Selector
	clock        workflow.Clock
	notifier     Notifier
}

func NewIdeaService(
	db *gorm.DB,
	ideaRepo *repository.IdeaRepository,
	workflowRepo *repository.WorkflowRepository,
	historyRepo *repository.HistoryRepository,
	userRepo *repository.UserRepository,
	clock workflow.Clock,
	notifier Notifier,
) *IdeaService {
	if clock == nil {
		clock = workflow.SystemClock()
	}
	return &IdeaService{
		db:           db,
		ideaRepo:     ideaRepo,
		workflowRepo: workflowRepo,
		historyRepo:  historyRepo,
		userRepo:     userRepo,
		selector:     workflow.NewSelector(),
		clock:        clock,
		notifier:     notifier,
	}
}

// CreateIdea 提交提案
// 根据提案属性选择工作流，无匹配时中止；编号、初始历史与提案在同一事务内写入
func (s *IdeaService) CreateIdea(req *model.CreateIdeaRequest, initiatorUsername string) (*model.Idea, error) {
	workflows, err := s.workflowRepo.FindActiveOrdered()
	if err != nil {
		return nil, fmt.Errorf("加载工作流失败: %w", err)
	}

	wf, err := s.selector.Select(workflows, workflow.Attributes{
		Category:     req.Category,
		DivisionID:   req.DivisionID,
		DepartmentID: req.DepartmentID,
		SavingCost:   req.SavingCost,
		EventID:      req.EventID,
	})
	if err != nil {
		return nil, err
	}

	maxStage := wf.MaxStage()
	if maxStage < 1 {
		return nil, errors.New("所选工作流未配置任何阶段")
	}

	now := s.clock.Now()
	idea := &model.Idea{
		Title:             req.Title,
		Background:        req.Background,
		Solution:          req.Solution,
		InitiatorUsername: initiatorUsername,
		DivisionID:        req.DivisionID,
		DepartmentID:      req.DepartmentID,
		Category:          req.Category,
		EventID:           req.EventID,
		SavingCost:        req.SavingCost,
		CurrentStage:      0,
		MaxStage:          maxStage,
		CurrentStatus:     model.WaitingStatus(1),
		WorkflowID:        wf.ID,
		SubmittedDate:     now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(idea).Error; err != nil {
			return err
		}
		// 编号依赖自增ID，创建后回填
		idea.Code = model.GenerateCode(idea.ID)
		if err := tx.Model(&model.Idea{}).Where("id = ?", idea.ID).Update("code", idea.Code).Error; err != nil {
			return err
		}
		return repository.NewHistoryRepository(tx).Append(&model.WorkflowHistory{
			IdeaID:    idea.ID,
			Actor:     initiatorUsername,
			FromStage: 0,
			ToStage:   0,
			Action:    model.ActionSubmit,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("创建提案失败: %w", err)
	}

	metrics.IdeasSubmittedTotal.Inc()
	logger.Infof("提案 %s 已提交（发起人 %s，工作流 %s，最大阶段 %d）", idea.Code, initiatorUsername, wf.Name, maxStage)
	if s.notifier != nil {
		snapshot := *idea
		go s.notifier.IdeaStatusChanged(&snapshot, model.ActionSubmit, initiatorUsername, "")
	}
	return idea, nil
}

// List 分页查询提案列表，附带停滞天数
func (s *IdeaService) List(filter repository.IdeaFilter) ([]model.IdeaListItem, int64, error) {
	ideas, total, err := s.ideaRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	now := s.clock.Now()
	items := make([]model.IdeaListItem, 0, len(ideas))
	for _, idea := range ideas {
		items = append(items, model.IdeaListItem{
			Idea:                 idea,
			LastUpdatedDaysCount: idea.LastUpdatedDays(now),
		})
	}
	return items, total, nil
}

// Detail 提案详情，聚合审批历史、执行团队与里程碑
func (s *IdeaService) Detail(ideaCode string) (*model.IdeaDetail, error) {
	idea, err := s.ideaRepo.FindByCode(ideaCode)
	if err != nil {
		return nil, err
	}

	history, err := s.historyRepo.GetByIdeaID(idea.ID)
	if err != nil {
		return nil, err
	}
	implementors, err := s.ideaRepo.ListImplementors(idea.ID)
	if err != nil {
		return nil, err
	}
	milestones, err := s.ideaRepo.ListMilestones(idea.ID)
	if err != nil {
		return nil, err
	}

	return &model.IdeaDetail{
		Idea:                 *idea,
		LastUpdatedDaysCount: idea.LastUpdatedDays(s.clock.Now()),
		History:              history,
		Implementors:         implementors,
		Milestones:           milestones,
	}, nil
}

// Update 编辑提案内容，仅发起人或 Superuser/Admin，不改变阶段状态
func (s *IdeaService) Update(ideaCode string, req *model.UpdateIdeaRequest, actingUser string) (*model.Idea, error) {
	idea, err := s.ideaRepo.FindByCode(ideaCode)
	if err != nil {
		return nil, err
	}

	if idea.InitiatorUsername != actingUser {
		roleName, err := s.userRepo.RoleNameOfUser(actingUser)
		if err != nil {
			return nil, fmt.Errorf("查询用户角色失败: %w", err)
		}
		if !roleName.CanManageMaster() {
			return nil, workflow.ErrPermissionDenied
		}
	}

	now := s.clock.Now()
	updates := map[string]interface{}{"updated_date": now}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Background != "" {
		updates["background"] = req.Background
	}
	if req.Solution != "" {
		updates["solution"] = req.Solution
	}
	if err := s.db.Model(&model.Idea{}).Where("id = ?", idea.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.ideaRepo.FindByID(idea.ID)
}

// Delete 逻辑删除，仅发起人或 Superuser/Admin，提案永不物理删除
func (s *IdeaService) Delete(ideaCode, actingUser string) error {
	idea, err := s.ideaRepo.FindByCode(ideaCode)
	if err != nil {
		return err
	}

	if idea.InitiatorUsername != actingUser {
		roleName, err := s.userRepo.RoleNameOfUser(actingUser)
		if err != nil {
			return fmt.Errorf("查询用户角色失败: %w", err)
		}
		if !roleName.CanManageMaster() {
			return workflow.ErrPermissionDenied
		}
	}

	if err := s.ideaRepo.SoftDelete(idea.ID); err != nil {
		return err
	}
	logger.Infof("提案 %s 被 %s 逻辑删除", idea.Code, actingUser)
	return nil
}

// AddImplementor 添加执行团队成员，角色为 Leader 或 Member
func (s *IdeaService) AddImplementor(ideaCode, username, role, actingUser string) (*model.IdeaImplementor, error) {
	if role != "Leader" && role != "Member" {
		return nil, errors.New("执行团队角色必须为 Leader 或 Member")
	}

	idea, err := s.ideaRepo.FindByCode(ideaCode)
	if err != nil {
		return nil, err
	}

	roleName, err := s.userRepo.RoleNameOfUser(actingUser)
	if err != nil {
		return nil, fmt.Errorf("查询用户角色失败: %w", err)
	}
	if idea.InitiatorUsername != actingUser && !roleName.CanManageMaster() && roleName != model.RoleWorkstreamLeader {
		return nil, workflow.ErrPermissionDenied
	}

	impl := &model.IdeaImplementor{
		IdeaID:   idea.ID,
		Username: username,
		Role:     role,
	}
	if err := s.ideaRepo.AddImplementor(impl); err != nil {
		return nil, fmt.Errorf("添加执行团队成员失败: %w", err)
	}
	return impl, nil
}

// AddMilestone 添加里程碑，成本跟踪创建的前置条件
func (s *IdeaService) AddMilestone(ideaCode string, m *model.IdeaMilestone, actingUser string) (*model.IdeaMilestone, error) {
	idea, err := s.ideaRepo.FindByCode(ideaCode)
	if err != nil {
		return nil, err
	}

	if idea.InitiatorUsername != actingUser {
		if _, err := s.ideaRepo.FindImplementor(idea.ID, actingUser); err != nil {
			roleName, roleErr := s.userRepo.RoleNameOfUser(actingUser)
			if roleErr != nil {
				return nil, fmt.Errorf("查询用户角色失败: %w", roleErr)
			}
			if !roleName.CanManageMaster() && roleName != model.RoleWorkstreamLeader {
				return nil, workflow.ErrPermissionDenied
			}
		}
	}

	m.IdeaID = idea.ID
	if err := s.ideaRepo.AddMilestone(m); err != nil {
		return nil, fmt.Errorf("添加里程碑失败: %w", err)
	}
	return m, nil
}
