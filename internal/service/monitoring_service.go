package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/repository"
	"github.com/Lidan4315/Ideku-sub000/internal/workflow"
	"github.com/Lidan4315/Ideku-sub000/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	minMonitoringMonths = 1
	maxMonitoringMonths = 24
	maxExtensionMonths  = 12
)

// MonitoringService 成本节约跟踪：按月批量建行、延长周期、金额维护
type MonitoringService struct {
	monitoringRepo *repository.MonitoringRepository
	ideaRepo       *repository.IdeaRepository
	userRepo       *repository.UserRepository
	// 提案进入 MaxStage-stageOffset 阶段后才允许创建跟踪
	stageOffset int
}

func NewMonitoringService(
	monitoringRepo *repository.MonitoringRepository,
	ideaRepo *repository.IdeaRepository,
	userRepo *repository.UserRepository,
	stageOffset int,
) *MonitoringService {
	if stageOffset < 0 {
		stageOffset = 1
	}
	return &MonitoringService{
		monitoringRepo: monitoringRepo,
		ideaRepo:       ideaRepo,
		userRepo:       userRepo,
		stageOffset:    stageOffset,
	}
}

// monthBounds 拆出某个月的第一天与最后一天
func monthBounds(year int, month time.Month) (from, to time.Time) {
	from = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to = from.AddDate(0, 1, -1)
	return from, to
}

// buildMonthRows 从 start 所在月起连续生成 months 条跟踪行
func buildMonthRows(ideaID uint, start time.Time, months int) []model.IdeaMonitoring {
	rows := make([]model.IdeaMonitoring, 0, months)
	year, month := start.Year(), start.Month()
	for i := 0; i < months; i++ {
		from, to := monthBounds(year, month)
		rows = append(rows, model.IdeaMonitoring{
			IdeaID:    ideaID,
			MonthFrom: from,
			MonthTo:   to,
		})
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	return rows
}

// CreateMonitoring 创建成本跟踪，每个覆盖月份一条记录
// 前置条件：尚无跟踪记录、提案已到达可跟踪阶段、至少存在一个里程碑
func (s *MonitoringService) CreateMonitoring(req *model.CreateMonitoringRequest) ([]model.IdeaMonitoring, error) {
	if req.DurationMonths < minMonitoringMonths || req.DurationMonths > maxMonitoringMonths {
		return nil, fmt.Errorf("跟踪周期必须在 %d 到 %d 个月之间", minMonitoringMonths, maxMonitoringMonths)
	}

	startMonth, err := time.Parse("2006-01", req.MonthFrom)
	if err != nil {
		return nil, errors.New("起始月份格式应为 YYYY-MM")
	}

	idea, err := s.ideaRepo.FindByCode(req.IdeaCode)
	if err != nil {
		return nil, err
	}

	count, err := s.monitoringRepo.CountByIdea(idea.ID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("该提案已存在成本跟踪记录")
	}

	eligibleStage := idea.MaxStage - s.stageOffset
	if eligibleStage < 0 {
		eligibleStage = 0
	}
	if idea.CurrentStage < eligibleStage {
		return nil, fmt.Errorf("提案需到达阶段 %d 后才能创建成本跟踪（当前阶段 %d）", eligibleStage, idea.CurrentStage)
	}

	milestones, err := s.ideaRepo.CountMilestones(idea.ID)
	if err != nil {
		return nil, err
	}
	if milestones == 0 {
		return nil, errors.New("创建成本跟踪前需至少添加一个里程碑")
	}

	rows := buildMonthRows(idea.ID, startMonth, req.DurationMonths)
	if err := s.monitoringRepo.CreateBatch(rows); err != nil {
		return nil, fmt.Errorf("创建成本跟踪失败: %w", err)
	}

	logger.Infof("提案 %s 创建成本跟踪 %d 个月（%s 起）", idea.Code, req.DurationMonths, req.MonthFrom)
	return rows, nil
}

// ExtendDuration 延长跟踪周期，从最后一行月末的次日（次月第一天）起追加
func (s *MonitoringService) ExtendDuration(req *model.ExtendMonitoringRequest) ([]model.IdeaMonitoring, error) {
	if req.AdditionalMonths < minMonitoringMonths || req.AdditionalMonths > maxExtensionMonths {
		return nil, fmt.Errorf("延长月数必须在 %d 到 %d 之间", minMonitoringMonths, maxExtensionMonths)
	}

	idea, err := s.ideaRepo.FindByCode(req.IdeaCode)
	if err != nil {
		return nil, err
	}

	last, err := s.monitoringRepo.LastByIdea(idea.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("该提案尚无成本跟踪记录，无法延长")
		}
		return nil, err
	}

	nextStart := last.MonthTo.AddDate(0, 0, 1)
	rows := buildMonthRows(idea.ID, nextStart, req.AdditionalMonths)
	if err := s.monitoringRepo.CreateBatch(rows); err != nil {
		return nil, fmt.Errorf("延长成本跟踪失败: %w", err)
	}

	logger.Infof("提案 %s 成本跟踪延长 %d 个月", idea.Code, req.AdditionalMonths)
	return rows, nil
}

// ListByIdea 查询提案的全部成本跟踪记录
func (s *MonitoringService) ListByIdea(ideaCode string) ([]model.IdeaMonitoring, error) {
	idea, err := s.ideaRepo.FindByCode(ideaCode)
	if err != nil {
		return nil, err
	}
	return s.monitoringRepo.FindByIdea(idea.ID)
}

// canEditSavings 编辑计划/实际金额的权限：
// Superuser、Workstream Leader，或该提案执行团队的 Leader/Member
func (s *MonitoringService) canEditSavings(ideaID uint, actingUser string) error {
	roleName, err := s.userRepo.RoleNameOfUser(actingUser)
	if err != nil {
		return fmt.Errorf("查询用户角色失败: %w", err)
	}
	if roleName.CanEditSavings() {
		return nil
	}
	if _, err := s.ideaRepo.FindImplementor(ideaID, actingUser); err == nil {
		return nil
	}
	return workflow.ErrPermissionDenied
}

// UpdateCostSavings 更新计划/实际节约金额，负数拒绝
func (s *MonitoringService) UpdateCostSavings(monitoringID uint, req *model.UpdateCostSavingsRequest, actingUser string) (*model.IdeaMonitoring, error) {
	if req.CostSavePlan.IsNegative() || req.CostSaveActual.IsNegative() {
		return nil, errors.New("节约金额不能为负数")
	}

	record, err := s.monitoringRepo.FindByID(monitoringID)
	if err != nil {
		return nil, err
	}
	if err := s.canEditSavings(record.IdeaID, actingUser); err != nil {
		return nil, err
	}

	record.CostSavePlan = req.CostSavePlan
	record.CostSaveActual = req.CostSaveActual
	if err := s.monitoringRepo.UpdateCostSavings(monitoringID, record); err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateCostSaveValidated 核定实际节约金额，仅 SCFO 或 Superuser
func (s *MonitoringService) UpdateCostSaveValidated(monitoringID uint, validated decimal.Decimal, actingUser string) (*model.IdeaMonitoring, error) {
	if validated.IsNegative() {
		return nil, errors.New("核定金额不能为负数")
	}

	roleName, err := s.userRepo.RoleNameOfUser(actingUser)
	if err != nil {
		return nil, fmt.Errorf("查询用户角色失败: %w", err)
	}
	if !roleName.CanValidateSavings() {
		return nil, workflow.ErrPermissionDenied
	}

	record, err := s.monitoringRepo.FindByID(monitoringID)
	if err != nil {
		return nil, err
	}
	record.CostSaveValidated = validated
	if err := s.monitoringRepo.UpdateCostSaveValidated(monitoringID, record); err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteMonitoring 删除单条跟踪记录，权限与金额编辑一致
func (s *MonitoringService) DeleteMonitoring(monitoringID uint, actingUser string) error {
	record, err := s.monitoringRepo.FindByID(monitoringID)
	if err != nil {
		return err
	}
	if err := s.canEditSavings(record.IdeaID, actingUser); err != nil {
		return err
	}
	return s.monitoringRepo.Delete(monitoringID)
}
