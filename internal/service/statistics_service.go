package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/model"
	"github.com/ecis/inspection-gin/internal/repository"
	"gorm.io/datatypes"
)

// StatisticsService 统计服务接口
type StatisticsService interface {
	GetSummary(ctx context.Context) (*Summary, error)
	GetInspectionsByEquipmentType(ctx context.Context) ([]*CountByKey, error)
	GetInspectionsByResult(ctx context.Context) ([]*CountByKey, error)
	GetInspectionsByMonth(ctx context.Context) ([]*CountByKey, error)
}

// Summary 总览统计
type Summary struct {
	InspectionsByState map[string]int64 `json:"inspections_by_state"`
	QuotesByState      map[string]int64 `json:"quotes_by_state"`
	OverdueInspections int64            `json:"overdue_inspections"` // 下次检验日期已过
}

// CountByKey 分组计数
type CountByKey struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// statisticsService 统计服务实现
type statisticsService struct {
	store *repository.Store
	now   func() time.Time
}

// NewStatisticsService 创建统计服务
func NewStatisticsService(store *repository.Store) StatisticsService {
	return &statisticsService{store: store, now: time.Now}
}

// GetSummary 按状态统计检验单和报价请求
func (s *statisticsService) GetSummary(ctx context.Context) (*Summary, error) {
	store := s.store.WithContext(ctx)

	inspections, err := store.Inspections.CountByState()
	if err != nil {
		return nil, fmt.Errorf("failed to count inspections by state: %w", err)
	}
	quotes, err := store.QuoteRequests.CountByState()
	if err != nil {
		return nil, fmt.Errorf("failed to count quote requests by state: %w", err)
	}

	var overdue int64
	err = store.DB().Model(&model.InspectionModel{}).
		Where("state IN ?", []string{string(lifecycle.StateCompleted), string(lifecycle.StateSent)}).
		Where("next_due_date < ?", datatypes.Date(lifecycle.DateOf(s.now()))).
		Count(&overdue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue inspections: %w", err)
	}

	return &Summary{
		InspectionsByState: inspections,
		QuotesByState:      quotes,
		OverdueInspections: overdue,
	}, nil
}

// GetInspectionsByEquipmentType 按设备类别统计检验单
func (s *statisticsService) GetInspectionsByEquipmentType(ctx context.Context) ([]*CountByKey, error) {
	var rows []*CountByKey
	err := s.store.WithContext(ctx).DB().Model(&model.InspectionModel{}).
		Select("equipment.category AS name, COUNT(*) AS count").
		Joins("JOIN equipment ON equipment.id = inspections.equipment_id").
		Group("equipment.category").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get inspection statistics by equipment type: %w", err)
	}
	return rows, nil
}

// GetInspectionsByResult 按结论统计已完成的检验单
func (s *statisticsService) GetInspectionsByResult(ctx context.Context) ([]*CountByKey, error) {
	var rows []*CountByKey
	err := s.store.WithContext(ctx).DB().Model(&model.InspectionModel{}).
		Select("overall_result AS name, COUNT(*) AS count").
		Where("state IN ?", []string{string(lifecycle.StateCompleted), string(lifecycle.StateSent)}).
		Group("overall_result").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get inspection statistics by result: %w", err)
	}
	return rows, nil
}

// GetInspectionsByMonth 按检验月份统计,最近的月份在前
func (s *statisticsService) GetInspectionsByMonth(ctx context.Context) ([]*CountByKey, error) {
	var dates []datatypes.Date
	err := s.store.WithContext(ctx).DB().Model(&model.InspectionModel{}).
		Where("state <> ?", string(lifecycle.StateCancelled)).
		Pluck("inspection_date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get inspection statistics by month: %w", err)
	}

	// 按月分组在内存中完成,兼容 postgres 和 sqlite 的日期函数差异
	counts := make(map[string]int64)
	var keys []string
	for _, d := range dates {
		key := time.Time(d).Format("2006-01")
		if _, ok := counts[key]; !ok {
			keys = append(keys, key)
		}
		counts[key]++
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	stats := make([]*CountByKey, 0, len(keys))
	for _, key := range keys {
		stats = append(stats, &CountByKey{Name: key, Count: counts[key]})
	}
	return stats, nil
}
