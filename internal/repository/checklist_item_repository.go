package repository

import (
	"github.com/ecis/inspection-gin/internal/model"
	"gorm.io/gorm"
)

// ChecklistItemRepository 检查项仓储接口
type ChecklistItemRepository interface {
	Create(items []model.ChecklistItemModel) error
	Save(item *model.ChecklistItemModel) error
	FindByID(id uint) (*model.ChecklistItemModel, error)
	FindByInspectionID(inspectionID string) ([]model.ChecklistItemModel, error)
	Delete(id uint) error
}

// checklistItemRepository 检查项仓储实现
type checklistItemRepository struct {
	db *gorm.DB
}

// NewChecklistItemRepository 创建检查项仓储
func NewChecklistItemRepository(db *gorm.DB) ChecklistItemRepository {
	return &checklistItemRepository{db: db}
}

// Create 批量创建检查项,按切片顺序插入
func (r *checklistItemRepository) Create(items []model.ChecklistItemModel) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

// Save 保存检查项
func (r *checklistItemRepository) Save(item *model.ChecklistItemModel) error {
	return r.db.Save(item).Error
}

// FindByID 根据 ID 查找检查项
func (r *checklistItemRepository) FindByID(id uint) (*model.ChecklistItemModel, error) {
	var item model.ChecklistItemModel
	if err := r.db.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByInspectionID 查找检验单的检查项,按 (sequence, id) 排序
func (r *checklistItemRepository) FindByInspectionID(inspectionID string) ([]model.ChecklistItemModel, error) {
	var items []model.ChecklistItemModel
	err := r.db.Where("inspection_id = ?", inspectionID).
		Order("sequence ASC, id ASC").
		Find(&items).Error
	return items, err
}

// Delete 删除检查项
func (r *checklistItemRepository) Delete(id uint) error {
	result := r.db.Delete(&model.ChecklistItemModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
