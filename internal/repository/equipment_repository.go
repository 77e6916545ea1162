package repository

import (
	"time"

	"github.com/ecis/inspection-gin/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EquipmentRepository 设备仓储接口
type EquipmentRepository interface {
	Save(equipment *model.EquipmentModel) error
	FindByID(id string) (*model.EquipmentModel, error)
	FindByFilter(filter *EquipmentFilter) ([]*model.EquipmentModel, error)
	UpdateLastInspection(id string, date time.Time) error
}

// EquipmentFilter 设备查询过滤器
type EquipmentFilter struct {
	Category *string
	ClientID *string
	Page
}

// equipmentRepository 设备仓储实现
type equipmentRepository struct {
	db *gorm.DB
}

// NewEquipmentRepository 创建设备仓储
func NewEquipmentRepository(db *gorm.DB) EquipmentRepository {
	return &equipmentRepository{db: db}
}

// Save 保存设备
func (r *equipmentRepository) Save(equipment *model.EquipmentModel) error {
	return r.db.Save(equipment).Error
}

// FindByID 根据 ID 查找设备
func (r *equipmentRepository) FindByID(id string) (*model.EquipmentModel, error) {
	var equipment model.EquipmentModel
	if err := r.db.Where("id = ?", id).First(&equipment).Error; err != nil {
		return nil, err
	}
	return &equipment, nil
}

// FindByFilter 根据过滤器查找设备
func (r *equipmentRepository) FindByFilter(filter *EquipmentFilter) ([]*model.EquipmentModel, error) {
	var equipment []*model.EquipmentModel
	query := r.db.Model(&model.EquipmentModel{}).Where("active = ?", true)

	page := Page{}
	if filter != nil {
		if filter.Category != nil {
			query = query.Where("category = ?", *filter.Category)
		}
		if filter.ClientID != nil {
			query = query.Where("client_id = ?", *filter.ClientID)
		}
		page = filter.Page
	}

	err := page.apply(query.Order("name ASC")).Find(&equipment).Error
	return equipment, err
}

// UpdateLastInspection 写入最近检验日期,设备不存在时返回 gorm.ErrRecordNotFound
func (r *equipmentRepository) UpdateLastInspection(id string, date time.Time) error {
	result := r.db.Model(&model.EquipmentModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_inspection_date": datatypes.Date(date),
			"updated_at":           time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
