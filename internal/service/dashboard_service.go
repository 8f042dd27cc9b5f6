package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/Lidan4315/Ideku-sub000/pkg/redis"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	dashboardCacheTTL       = 60 * time.Second
	dashboardStatsCacheKey  = "ideku:dashboard:stats"
	dashboardChartsCacheKey = "ideku:dashboard:charts"
)

// DashboardStats 仪表盘汇总指标
type DashboardStats struct {
	TotalIdeas          int64           `json:"total_ideas"`
	WaitingApproval     int64           `json:"waiting_approval"`
	Approved            int64           `json:"approved"`
	Rejected            int64           `json:"rejected"`
	Inactive            int64           `json:"inactive"`
	TotalSavingCost     decimal.Decimal `json:"total_saving_cost"`
	TotalValidatedCost  decimal.Decimal `json:"total_validated_cost"`
	MonitoredIdeas      int64           `json:"monitored_ideas"`
	TotalCostSaveActual decimal.Decimal `json:"total_cost_save_actual"`
}

// ChartPoint 单个统计维度的计数
type ChartPoint struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// DashboardCharts 仪表盘图表数据
type DashboardCharts struct {
	ByStatus   []ChartPoint `json:"by_status"`
	ByCategory []ChartPoint `json:"by_category"`
	ByDivision []ChartPoint `json:"by_division"`
	ByMonth    []ChartPoint `json:"by_month"` // 近12个月提交量
}

// DashboardService 仪表盘聚合，结果进 redis 缓存60秒
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Stats 汇总指标
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	if cached := redis.CacheGet(ctx, dashboardStatsCacheKey); cached != "" {
		var stats DashboardStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	}

	stats := &DashboardStats{}
	base := s.db.Model(&model.Idea{}).Where("is_deleted = ?", false)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalIdeas).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("current_status LIKE ?", "Waiting Approval%").Count(&stats.WaitingApproval).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("current_status = ?", model.StatusApproved).Count(&stats.Approved).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("current_status = ?", model.StatusRejected).Count(&stats.Rejected).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("current_status = ?", model.StatusInactive).Count(&stats.Inactive).Error; err != nil {
		return nil, err
	}

	type sums struct {
		SavingCost          decimal.Decimal
		SavingCostValidated decimal.Decimal
	}
	var ideaSums sums
	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(saving_cost),0) AS saving_cost, COALESCE(SUM(saving_cost_validated),0) AS saving_cost_validated").
		Scan(&ideaSums).Error; err != nil {
		return nil, err
	}
	stats.TotalSavingCost = ideaSums.SavingCost
	stats.TotalValidatedCost = ideaSums.SavingCostValidated

	if err := s.db.Model(&model.IdeaMonitoring{}).Distinct("idea_id").Count(&stats.MonitoredIdeas).Error; err != nil {
		return nil, err
	}
	var actual struct{ Total decimal.Decimal }
	if err := s.db.Model(&model.IdeaMonitoring{}).
		Select("COALESCE(SUM(cost_save_actual),0) AS total").
		Scan(&actual).Error; err != nil {
		return nil, err
	}
	stats.TotalCostSaveActual = actual.Total

	if payload, err := json.Marshal(stats); err == nil {
		redis.CacheSet(ctx, dashboardStatsCacheKey, string(payload), dashboardCacheTTL)
	}
	return stats, nil
}

// Charts 图表聚合
func (s *DashboardService) Charts(ctx context.Context) (*DashboardCharts, error) {
	if cached := redis.CacheGet(ctx, dashboardChartsCacheKey); cached != "" {
		var charts DashboardCharts
		if err := json.Unmarshal([]byte(cached), &charts); err == nil {
			return &charts, nil
		}
	}

	charts := &DashboardCharts{}

	if err := s.groupCount("current_status", &charts.ByStatus); err != nil {
		return nil, err
	}
	if err := s.groupCount("category", &charts.ByCategory); err != nil {
		return nil, err
	}
	if err := s.groupCount("division_id", &charts.ByDivision); err != nil {
		return nil, err
	}

	// 近12个月提交量，按月分桶在内存中完成，避免各数据库日期函数的差异
	since := time.Now().AddDate(0, -12, 0)
	var dates []time.Time
	if err := s.db.Model(&model.Idea{}).
		Where("is_deleted = ? AND submitted_date >= ?", false, since).
		Pluck("submitted_date", &dates).Error; err != nil {
		return nil, err
	}
	byMonth := make(map[string]int64)
	for _, d := range dates {
		byMonth[d.Format("2006-01")]++
	}
	cursor := time.Date(since.Year(), since.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i <= 12; i++ {
		key := cursor.Format("2006-01")
		charts.ByMonth = append(charts.ByMonth, ChartPoint{Label: key, Count: byMonth[key]})
		cursor = cursor.AddDate(0, 1, 0)
	}

	if payload, err := json.Marshal(charts); err == nil {
		redis.CacheSet(ctx, dashboardChartsCacheKey, string(payload), dashboardCacheTTL)
	}
	return charts, nil
}

func (s *DashboardService) groupCount(column string, out *[]ChartPoint) error {
	rows := []struct {
		Label string
		Count int64
	}{}
	if err := s.db.Model(&model.Idea{}).
		Where("is_deleted = ?", false).
		Select(column+" AS label, COUNT(*) AS count").
		Group(column).
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return err
	}
	for _, r := range rows {
		*out = append(*out, ChartPoint{Label: r.Label, Count: r.Count})
	}
	return nil
}
