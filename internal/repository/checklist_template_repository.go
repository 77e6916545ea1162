package repository

import (
	"github.com/ecis/inspection-gin/internal/model"
	"gorm.io/gorm"
)

// ChecklistTemplateRepository 检查项模板仓储接口
type ChecklistTemplateRepository interface {
	Save(template *model.ChecklistTemplateModel) error
	FindByID(id string) (*model.ChecklistTemplateModel, error)
	FindByCategory(category string, activeOnly bool) ([]*model.ChecklistTemplateModel, error)
	FindAll() ([]*model.ChecklistTemplateModel, error)
	Count() (int64, error)
}

// checklistTemplateRepository 检查项模板仓储实现
type checklistTemplateRepository struct {
	db *gorm.DB
}

// NewChecklistTemplateRepository 创建检查项模板仓储
func NewChecklistTemplateRepository(db *gorm.DB) ChecklistTemplateRepository {
	return &checklistTemplateRepository{db: db}
}

// Save 保存模板
func (r *checklistTemplateRepository) Save(template *model.ChecklistTemplateModel) error {
	return r.db.Save(template).Error
}

// FindByID 根据 ID 查找模板
func (r *checklistTemplateRepository) FindByID(id string) (*model.ChecklistTemplateModel, error) {
	var template model.ChecklistTemplateModel
	if err := r.db.Where("id = ?", id).First(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// FindByCategory 查找类别下的模板,按 sequence 升序
func (r *checklistTemplateRepository) FindByCategory(category string, activeOnly bool) ([]*model.ChecklistTemplateModel, error) {
	var templates []*model.ChecklistTemplateModel
	query := r.db.Where("category = ?", category)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("sequence ASC, created_at ASC").Find(&templates).Error
	return templates, err
}

// FindAll 查找全部模板
func (r *checklistTemplateRepository) FindAll() ([]*model.ChecklistTemplateModel, error) {
	var templates []*model.ChecklistTemplateModel
	err := r.db.Order("category ASC, sequence ASC, created_at ASC").Find(&templates).Error
	return templates, err
}

// Count 模板总数
func (r *checklistTemplateRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.ChecklistTemplateModel{}).Count(&count).Error
	return count, err
}
