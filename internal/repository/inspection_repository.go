package repository

import (
	"time"

	"github.com/ecis/inspection-gin/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InspectionRepository 检验单仓储接口
type InspectionRepository interface {
	Save(inspection *model.InspectionModel) error
	FindByID(id string) (*model.InspectionModel, error)
	FindByFilter(filter *InspectionFilter) ([]*model.InspectionModel, error)
	Count(filter *InspectionFilter) (int64, error)
	CountByState() (map[string]int64, error)
}

// InspectionFilter 检验单查询过滤器
type InspectionFilter struct {
	State       *string
	EquipmentID *string
	ClientID    *string
	DateFrom    *time.Time
	DateTo      *time.Time
	Page
}

// inspectionRepository 检验单仓储实现
type inspectionRepository struct {
	db *gorm.DB
}

// NewInspectionRepository 创建检验单仓储
func NewInspectionRepository(db *gorm.DB) InspectionRepository {
	return &inspectionRepository{db: db}
}

// Save 保存检验单
func (r *inspectionRepository) Save(inspection *model.InspectionModel) error {
	return r.db.Save(inspection).Error
}

// FindByID 根据 ID 查找检验单
func (r *inspectionRepository) FindByID(id string) (*model.InspectionModel, error) {
	var inspection model.InspectionModel
	if err := r.db.Where("id = ?", id).First(&inspection).Error; err != nil {
		return nil, err
	}
	return &inspection, nil
}

func (r *inspectionRepository) filtered(filter *InspectionFilter) *gorm.DB {
	query := r.db.Model(&model.InspectionModel{})
	if filter == nil {
		return query
	}
	if filter.State != nil {
		query = query.Where("state = ?", *filter.State)
	}
	if filter.EquipmentID != nil {
		query = query.Where("equipment_id = ?", *filter.EquipmentID)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.DateFrom != nil {
		query = query.Where("inspection_date >= ?", datatypes.Date(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query = query.Where("inspection_date <= ?", datatypes.Date(*filter.DateTo))
	}
	return query
}

// FindByFilter 根据过滤器查找检验单,按检验日期倒序
func (r *inspectionRepository) FindByFilter(filter *InspectionFilter) ([]*model.InspectionModel, error) {
	var inspections []*model.InspectionModel
	page := Page{}
	if filter != nil {
		page = filter.Page
	}
	err := page.apply(r.filtered(filter).Order("inspection_date DESC, created_at DESC")).Find(&inspections).Error
	return inspections, err
}

// Count 统计符合条件的检验单数量
func (r *inspectionRepository) Count(filter *InspectionFilter) (int64, error) {
	var count int64
	err := r.filtered(filter).Count(&count).Error
	return count, err
}

// CountByState 按状态统计检验单数量
func (r *inspectionRepository) CountByState() (map[string]int64, error) {
	var rows []struct {
		State string
		Count int64
	}
	err := r.db.Model(&model.InspectionModel{}).
		Select("state, COUNT(*) AS count").
		Group("state").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.State] = row.Count
	}
	return counts, nil
}
