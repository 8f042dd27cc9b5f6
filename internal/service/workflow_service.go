package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/repository"
)

// WorkflowService 工作流定义维护，负责阶段编号与条件的校验
type WorkflowService struct {
	workflowRepo *repository.WorkflowRepository
}

func NewWorkflowService(workflowRepo *repository.WorkflowRepository) *WorkflowService {
	return &WorkflowService{workflowRepo: workflowRepo}
}

// CreateWorkflow 创建工作流（不含阶段与条件，另行添加）
func (s *WorkflowService) CreateWorkflow(wf *model.Workflow) error {
	if strings.TrimSpace(wf.Name) == "" {
		return errors.New("工作流名称不能为空")
	}
	return s.workflowRepo.Create(wf)
}

func (s *WorkflowService) UpdateWorkflow(wf *model.Workflow) error {
	return s.workflowRepo.Update(wf)
}

func (s *WorkflowService) DeleteWorkflow(id uint) error {
	return s.workflowRepo.Delete(id)
}

func (s *WorkflowService) GetWorkflow(id uint) (*model.Workflow, error) {
	return s.workflowRepo.FindByID(id)
}

func (s *WorkflowService) ListWorkflows() ([]model.Workflow, error) {
	return s.workflowRepo.FindAll()
}

// AddStage 添加阶段，阶段号必须从1开始连续编号
func (s *WorkflowService) AddStage(stage *model.WorkflowStage) error {
	if !model.RoleName(stage.RoleName).Valid() {
		return fmt.Errorf("非法的阶段审批角色: %s", stage.RoleName)
	}

	count, err := s.workflowRepo.CountStages(stage.WorkflowID)
	if err != nil {
		return err
	}
	if stage.Stage != int(count)+1 {
		return fmt.Errorf("阶段号必须连续，下一个应为 %d", count+1)
	}
	return s.workflowRepo.AddStage(stage)
}

func (s *WorkflowService) UpdateStage(stage *model.WorkflowStage) error {
	if stage.RoleName != "" && !model.RoleName(stage.RoleName).Valid() {
		return fmt.Errorf("非法的阶段审批角色: %s", stage.RoleName)
	}
	return s.workflowRepo.UpdateStage(stage)
}

// DeleteStage 删除阶段，仅允许删除最后一个以保持编号连续
func (s *WorkflowService) DeleteStage(workflowID, stageID uint) error {
	wf, err := s.workflowRepo.FindByID(workflowID)
	if err != nil {
		return err
	}
	if len(wf.Stages) == 0 {
		return errors.New("工作流没有可删除的阶段")
	}
	last := wf.Stages[len(wf.Stages)-1]
	if last.ID != stageID {
		return errors.New("只能删除最后一个阶段")
	}
	return s.workflowRepo.DeleteStage(stageID)
}

// AddCondition 添加适用条件，校验条件类型与运算符的组合
func (s *WorkflowService) AddCondition(cond *model.WorkflowCondition) error {
	if err := validateCondition(cond); err != nil {
		return err
	}
	return s.workflowRepo.AddCondition(cond)
}

func (s *WorkflowService) UpdateCondition(cond *model.WorkflowCondition) error {
	if err := validateCondition(cond); err != nil {
		return err
	}
	return s.workflowRepo.UpdateCondition(cond)
}

func (s *WorkflowService) DeleteCondition(id uint) error {
	return s.workflowRepo.DeleteCondition(id)
}

// validateCondition 大小比较仅适用于节约金额，in 仅适用于字符串属性
func validateCondition(cond *model.WorkflowCondition) error {
	switch cond.Type {
	case model.ConditionTypeCategory, model.ConditionTypeDivision, model.ConditionTypeDepartment, model.ConditionTypeEvent:
		switch cond.Operator {
		case model.OperatorEq, model.OperatorNeq, model.OperatorIn:
		default:
			return fmt.Errorf("条件类型 %s 不支持运算符 %s", cond.Type, cond.Operator)
		}
	case model.ConditionTypeSavingCost:
		switch cond.Operator {
		case model.OperatorEq, model.OperatorNeq, model.OperatorGt, model.OperatorGte, model.OperatorLt, model.OperatorLte:
		default:
			return fmt.Errorf("条件类型 %s 不支持运算符 %s", cond.Type, cond.Operator)
		}
	default:
		return fmt.Errorf("非法的条件类型: %s", cond.Type)
	}
	if strings.TrimSpace(cond.Value) == "" {
		return errors.New("条件值不能为空")
	}
	return nil
}
