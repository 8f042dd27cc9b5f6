package service

import (
	"errors"
	"fmt"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/repository"
	"github.com/Lidan4315/Ideku-sub000/internal/workflow"
	"github.com/Lidan4315/Ideku-sub000/pkg/logger"
	"github.com/Lidan4315/Ideku-sub000/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Notifier 状态变更通知，失败不影响主流程
type Notifier interface {
	IdeaStatusChanged(idea *model.Idea, action, actor, comments string)
}

// ApprovalService 审批状态机执行器
// 所有状态转换（提案更新+历史追加）在同一个数据库事务内完成
type ApprovalService struct {
	db           *gorm.DB
	ideaRepo     *repository.IdeaRepository
	workflowRepo *repository.WorkflowRepository
	approverRepo *repository.ApproverRepository
	userRepo     *repository.UserRepository
	historyRepo  *repository.HistoryRepository
	clock        workflow.Clock
	notifier     Notifier
}

func NewApprovalService(
	db *gorm.DB,
	ideaRepo *repository.IdeaRepository,
	workflowRepo *repository.WorkflowRepository,
	approverRepo *repository.ApproverRepository,
	userRepo *repository.UserRepository,
	historyRepo *repository.HistoryRepository,
	clock workflow.Clock,
	notifier Notifier,
) *ApprovalService {
	if clock == nil {
		clock = workflow.SystemClock()
	}
	return &ApprovalService{
		db:           db,
		ideaRepo:     ideaRepo,
		workflowRepo: workflowRepo,
		approverRepo: approverRepo,
		userRepo:     userRepo,
		historyRepo:  historyRepo,
		clock:        clock,
		notifier:     notifier,
	}
}

// notify 异步发送通知，notifier 未配置时跳过
func (s *ApprovalService) notify(idea *model.Idea, action, actor, comments string) {
	if s.notifier == nil {
		return
	}
	snapshot := *idea
	go s.notifier.IdeaStatusChanged(&snapshot, action, actor, comments)
}

// Approve 通过当前等待阶段的审批
// 审批人的审批角色必须与 CurrentStage+1 阶段配置的角色一致
// 并行阶段要求该角色的全部主审批人都通过后才推进
func (s *ApprovalService) Approve(ideaCode, approverUsername, comments string, validatedSavingCost *decimal.Decimal) (*model.Idea, error) {
	idea, err := s.ideaRepo.FindByCode(ideaCode)
	if err != nil {
		return nil, err
	}
	if err := workflow.EnsureActionable(idea); err != nil {
		return nil, err
	}

	wf, err := s.workflowRepo.FindByID(idea.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("加载工作流失败: %w", err)
	}

	pendingStage := idea.CurrentStage + 1
	stageDef, err := workflow.StageFor(wf, pendingStage)
	if err != nil {
		return nil, err
	}

	hasRole, err := s.approverRepo.HasRole(approverUsername, stageDef.RoleName)
	if err != nil {
		return nil, fmt.Errorf("检查审批角色失败: %w", err)
	}
	if !hasRole {
		return nil, workflow.ErrRoleMismatch
	}

	// 并行阶段：统计当前阶段已通过的不同审批人，与主审批人名单比对
	allApproved := true
	if stageDef.IsParallel {
		allApproved, err = s.parallelStageComplete(idea, stageDef, approverUsername)
		if err != nil {
			return nil, err
		}
	}

	nextStage, nextStatus, advanced := workflow.NextOnApprove(idea, stageDef, allApproved)

	now := s.clock.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"current_stage":  nextStage,
			"current_status": nextStatus,
			"updated_date":   now,
		}
		if validatedSavingCost != nil {
			if validatedSavingCost.IsNegative() {
				return errors.New("核定节约金额不能为负数")
			}
			updates["saving_cost_validated"] = *validatedSavingCost
		}
		if err := tx.Model(&model.Idea{}).Where("id = ?", idea.ID).Updates(updates).Error; err != nil {
			return err
		}
		return repository.NewHistoryRepository(tx).Append(&model.WorkflowHistory{
			IdeaID:    idea.ID,
			Actor:     approverUsername,
			FromStage: idea.CurrentStage,
			ToStage:   nextStage,
			Action:    model.ActionApprove,
			Comments:  comments,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	idea.CurrentStage = nextStage
	idea.CurrentStatus = nextStatus
	idea.UpdatedDate = &now
	if validatedSavingCost != nil {
		idea.SavingCostValidated = *validatedSavingCost
	}

	metrics.ApprovalActionsTotal.WithLabelValues(model.ActionApprove).Inc()
	if advanced {
		logger.Infof("提案 %s 审批通过，进入阶段 %d 状态 %s（审批人 %s）", idea.Code, nextStage, nextStatus, approverUsername)
	} else {
		logger.Infof("提案 %s 并行阶段 %d 记录审批（审批人 %s），等待其余主审批人", idea.Code, pendingStage, approverUsername)
	}
	s.notify(idea, model.ActionApprove, approverUsername, comments)
	return idea, nil
}

// parallelStageComplete 判断并行阶段在本次审批计入后是否全员通过
func (s *ApprovalService) parallelStageComplete(idea *model.Idea, stageDef *model.WorkflowStage, approverUsername string) (bool, error) {
	required, err := s.approverRepo.PrimaryUsernamesByRole(stageDef.RoleName)
	if err != nil {
		return false, fmt.Errorf("查询主审批人失败: %w", err)
	}
	if len(required) == 0 {
		// 无主审批人配置时退化为单人通过
		return true, nil
	}

	approved, err := s.historyRepo.DistinctApproversAtStage(idea.ID, idea.CurrentStage)
	if err != nil {
		return false, fmt.Errorf("查询阶段审批记录失败: %w", err)
	}
	seen := make(map[string]bool, len(approved)+1)
	for _, u := range approved {
		seen[u] = true
	}
	seen[approverUsername] = true

	for _, u := range required {
		if !seen[u] {
			return false, nil
		}
	}
	return true, nil
}

// Reject 拒绝提案，阶段保持不变
func (s *ApprovalService) Reject(ideaCode, approverUsername, reason string) (*model.Idea, error) {
	idea, err := s.ideaRepo.FindByCode(ideaCode)
	if err != nil {
		return nil, err
	}
	if err := workflow.EnsureActionable(idea); err != nil {
		return nil, err
	}

	wf, err := s.workflowRepo.FindByID(idea.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("加载工作流失败: %w", err)
	}
	stageDef, err := workflow.StageFor(wf, idea.CurrentStage+1)
	if err != nil {
		return nil, err
	}
	hasRole, err := s.approverRepo.HasRole(approverUsername, stageDef.RoleName)
	if err != nil {
		return nil, fmt.Errorf("检查审批角色失败: %w", err)
	}
	if !hasRole {
		return nil, workflow.ErrRoleMismatch
	}

	now := s.clock.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"current_status": model.StatusRejected,
			"is_rejected":    true,
			"updated_date":   now,
		}
		if err := tx.Model(&model.Idea{}).Where("id = ?", idea.ID).Updates(updates).Error; err != nil {
			return err
		}
		return repository.NewHistoryRepository(tx).Append(&model.WorkflowHistory{
			IdeaID:    idea.ID,
			Actor:     approverUsername,
			FromStage: idea.CurrentStage,
			ToStage:   idea.CurrentStage,
			Action:    model.ActionReject,
			Comments:  reason,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	idea.CurrentStatus = model.StatusRejected
	idea.IsRejected = true
	idea.UpdatedDate = &now

	metrics.ApprovalActionsTotal.WithLabelValues(model.ActionReject).Inc()
	logger.Infof("提案 %s 在阶段 %d 被拒绝（审批人 %s）: %s", idea.Code, idea.CurrentStage, approverUsername, reason)
	s.notify(idea, model.ActionReject, approverUsername, reason)
	return idea, nil
}

// BypassStage 越级调整提案阶段，仅 Superuser/Admin
// targetStage 可前进或回退，落在 [0, MaxStage] 内，跳过阶段角色校验
func (s *ApprovalService) BypassStage(ideaCode string, targetStage int, reason, actingUser string) (*model.Idea, error) {
	roleName, err := s.userRepo.RoleNameOfUser(actingUser)
	if err != nil {
		return nil, fmt.Errorf("查询用户角色失败: %w", err)
	}
	if !roleName.CanBypass() {
		return nil, workflow.ErrPermissionDenied
	}

	idea, err := s.ideaRepo.FindByCode(ideaCode)
	if err != nil {
		return nil, err
	}
	if idea.IsDeleted {
		return nil, workflow.ErrIdeaTerminal
	}
	if err := workflow.ValidateStage(targetStage, idea.MaxStage); err != nil {
		return nil, err
	}

	nextStatus := workflow.StatusForStage(targetStage, idea.MaxStage)
	now := s.clock.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"current_stage":  targetStage,
			"current_status": nextStatus,
			"is_rejected":    false,
			"updated_date":   now,
		}
		if err := tx.Model(&model.Idea{}).Where("id = ?", idea.ID).Updates(updates).Error; err != nil {
			return err
		}
		return repository.NewHistoryRepository(tx).Append(&model.WorkflowHistory{
			IdeaID:    idea.ID,
			Actor:     actingUser,
			FromStage: idea.CurrentStage,
			ToStage:   targetStage,
			Action:    model.ActionBypass,
			Comments:  reason,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	idea.CurrentStage = targetStage
	idea.CurrentStatus = nextStatus
	idea.IsRejected = false
	idea.UpdatedDate = &now

	metrics.ApprovalActionsTotal.WithLabelValues(model.ActionBypass).Inc()
	logger.Warnf("提案 %s 被 %s 越级调整到阶段 %d: %s", idea.Code, actingUser, targetStage, reason)
	s.notify(idea, model.ActionBypass, actingUser, reason)
	return idea, nil
}

// Reactivate 重新激活被拒绝或超时失活的提案
// 恢复为当前阶段对应的等待状态，仅 Superuser/Admin
func (s *ApprovalService) Reactivate(ideaCode, actingUser string) (*model.Idea, error) {
	roleName, err := s.userRepo.RoleNameOfUser(actingUser)
	if err != nil {
		return nil, fmt.Errorf("查询用户角色失败: %w", err)
	}
	if !roleName.CanBypass() {
		return nil, workflow.ErrPermissionDenied
	}

	idea, err := s.ideaRepo.FindByCode(ideaCode)
	if err != nil {
		return nil, err
	}
	if idea.CurrentStatus != model.StatusRejected && idea.CurrentStatus != model.StatusInactive {
		return nil, workflow.ErrIdeaNotTerminal
	}

	nextStatus := workflow.StatusForStage(idea.CurrentStage, idea.MaxStage)
	now := s.clock.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"current_status": nextStatus,
			"is_rejected":    false,
			"updated_date":   now,
		}
		if err := tx.Model(&model.Idea{}).Where("id = ?", idea.ID).Updates(updates).Error; err != nil {
			return err
		}
		return repository.NewHistoryRepository(tx).Append(&model.WorkflowHistory{
			IdeaID:    idea.ID,
			Actor:     actingUser,
			FromStage: idea.CurrentStage,
			ToStage:   idea.CurrentStage,
			Action:    model.ActionReactivate,
			Comments:  "重新激活",
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	idea.CurrentStatus = nextStatus
	idea.IsRejected = false
	idea.UpdatedDate = &now

	metrics.ApprovalActionsTotal.WithLabelValues(model.ActionReactivate).Inc()
	logger.Infof("提案 %s 被 %s 重新激活，状态 %s", idea.Code, actingUser, nextStatus)
	s.notify(idea, model.ActionReactivate, actingUser, "")
	return idea, nil
}

// ChangeWorkflow 切换提案的工作流并重新计算 MaxStage
// 当前阶段超过新工作流最大阶段时拒绝切换，避免提案被静默标记为已通过
func (s *ApprovalService) ChangeWorkflow(ideaCode string, newWorkflowID uint, actingUser string) (*model.Idea, error) {
	roleName, err := s.userRepo.RoleNameOfUser(actingUser)
	if err != nil {
		return nil, fmt.Errorf("查询用户角色失败: %w", err)
	}
	if !roleName.CanBypass() {
		return nil, workflow.ErrPermissionDenied
	}

	idea, err := s.ideaRepo.FindByCode(ideaCode)
	if err != nil {
		return nil, err
	}
	if err := workflow.EnsureActionable(idea); err != nil {
		return nil, err
	}

	newWf, err := s.workflowRepo.FindByID(newWorkflowID)
	if err != nil {
		return nil, fmt.Errorf("加载目标工作流失败: %w", err)
	}
	newMax := newWf.MaxStage()
	if idea.CurrentStage > newMax {
		return nil, workflow.ErrWorkflowStageConflict
	}

	nextStatus := workflow.StatusForStage(idea.CurrentStage, newMax)
	now := s.clock.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"workflow_id":    newWf.ID,
			"max_stage":      newMax,
			"current_status": nextStatus,
			"updated_date":   now,
		}
		if err := tx.Model(&model.Idea{}).Where("id = ?", idea.ID).Updates(updates).Error; err != nil {
			return err
		}
		return repository.NewHistoryRepository(tx).Append(&model.WorkflowHistory{
			IdeaID:    idea.ID,
			Actor:     actingUser,
			FromStage: idea.CurrentStage,
			ToStage:   idea.CurrentStage,
			Action:    model.ActionChangeWorkflow,
			Comments:  fmt.Sprintf("切换到工作流 %s", newWf.Name),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	idea.WorkflowID = newWf.ID
	idea.MaxStage = newMax
	idea.CurrentStatus = nextStatus
	idea.UpdatedDate = &now

	metrics.ApprovalActionsTotal.WithLabelValues(model.ActionChangeWorkflow).Inc()
	logger.Infof("提案 %s 被 %s 切换到工作流 %d，新最大阶段 %d", idea.Code, actingUser, newWorkflowID, newMax)
	return idea, nil
}

// History 查询提案审批历史，按时间升序
func (s *ApprovalService) History(ideaCode string) ([]model.WorkflowHistory, error) {
	idea, err := s.ideaRepo.FindByCode(ideaCode)
	if err != nil {
		return nil, err
	}
	return s.historyRepo.GetByIdeaID(idea.ID)
}

// PendingForApprover 查询等待指定审批人处理的提案列表
func (s *ApprovalService) PendingForApprover(approverUsername string) ([]model.Idea, error) {
	roleNames, err := s.approverRepo.GetRoleNamesByUsername(approverUsername)
	if err != nil {
		return nil, fmt.Errorf("查询审批角色失败: %w", err)
	}

	seen := make(map[uint]bool)
	var result []model.Idea
	for _, roleName := range roleNames {
		ideas, err := s.ideaRepo.ListWaitingForRole(roleName)
		if err != nil {
			return nil, err
		}
		for _, idea := range ideas {
			if !seen[idea.ID] {
				seen[idea.ID] = true
				result = append(result, idea)
			}
		}
	}
	return result, nil
}
