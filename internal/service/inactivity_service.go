package service

import (
	"time"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/internal/repository"
	"github.com/Lidan4315/Ideku-sub000/internal/workflow"
	"github.com/Lidan4315/Ideku-sub000/pkg/logger"
	"github.com/Lidan4315/Ideku-sub000/pkg/metrics"
	"gorm.io/gorm"
)

// InactivityService 超时自动失活
// 最近活动超过窗口期的流转中提案被标记为 Inactive 并隐式拒绝
type InactivityService struct {
	db             *gorm.DB
	ideaRepo       *repository.IdeaRepository
	inactivityDays int
	clock          workflow.Clock
	notifier       Notifier
}

func NewInactivityService(db *gorm.DB, ideaRepo *repository.IdeaRepository, inactivityDays int, clock workflow.Clock, notifier Notifier) *InactivityService {
	if inactivityDays <= 0 {
		inactivityDays = 60
	}
	if clock == nil {
		clock = workflow.SystemClock()
	}
	return &InactivityService{
		db:             db,
		ideaRepo:       ideaRepo,
		inactivityDays: inactivityDays,
		clock:          clock,
		notifier:       notifier,
	}
}

// ScanOnce 执行一轮超时扫描，返回本轮失活的提案数
// 每条失活提案写入一条 system 操作者的历史记录，与状态更新同事务
func (s *InactivityService) ScanOnce() (int, error) {
	now := s.clock.Now()
	cutoff := now.Add(-time.Duration(s.inactivityDays) * 24 * time.Hour)

	stale, err := s.ideaRepo.FindStale(cutoff)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	inactivated := 0
	for i := range stale {
		idea := &stale[i]
		err := s.db.Transaction(func(tx *gorm.DB) error {
			updates := map[string]interface{}{
				"current_status": model.StatusInactive,
				"is_rejected":    true,
				"updated_date":   now,
			}
			if err := tx.Model(&model.Idea{}).Where("id = ?", idea.ID).Updates(updates).Error; err != nil {
				return err
			}
			return repository.NewHistoryRepository(tx).Append(&model.WorkflowHistory{
				IdeaID:    idea.ID,
				Actor:     model.SystemActor,
				FromStage: idea.CurrentStage,
				ToStage:   idea.CurrentStage,
				Action:    model.ActionAutoReject,
				Comments:  "超过失活窗口期无任何活动，系统自动失活",
				CreatedAt: now,
			})
		})
		if err != nil {
			// 单条失败不中断整轮扫描
			logger.Errorf("提案 %s 自动失活失败: %v", idea.Code, err)
			continue
		}

		inactivated++
		metrics.IdeasAutoRejectedTotal.Inc()
		logger.Warnf("提案 %s 超过 %d 天无活动，已自动失活", idea.Code, s.inactivityDays)
		if s.notifier != nil {
			snapshot := *idea
			snapshot.CurrentStatus = model.StatusInactive
			snapshot.IsRejected = true
			go s.notifier.IdeaStatusChanged(&snapshot, model.ActionAutoReject, model.SystemActor, "")
		}
	}
	return inactivated, nil
}
