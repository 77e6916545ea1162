package model

import (
	"errors"
	"time"

	"github.com/ecis/inspection-gin/internal/lifecycle"
)

// ChecklistTemplateModel 检查项模板数据模型
type ChecklistTemplateModel struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)"`
	Category    string    `gorm:"type:varchar(32);not null;index:idx_checklist_templates_category_sequence,priority:1"`
	Sequence    int       `gorm:"type:int;not null;default:10;index:idx_checklist_templates_category_sequence,priority:2"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Requirement string    `gorm:"type:varchar(255)"`
	Description string    `gorm:"type:text"`
	Active      bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName 指定表名
func (ChecklistTemplateModel) TableName() string {
	return "checklist_templates"
}

// Validate 验证模板模型
func (tm *ChecklistTemplateModel) Validate() error {
	if tm.ID == "" {
		return errors.New("template ID is required")
	}
	if tm.Name == "" {
		return errors.New("check item name is required")
	}
	if !lifecycle.EquipmentCategory(tm.Category).Valid() {
		return errors.New("equipment type is invalid")
	}
	return nil
}

// ToDomain 转换为领域对象
func (tm *ChecklistTemplateModel) ToDomain() lifecycle.ChecklistItemTemplate {
	return lifecycle.ChecklistItemTemplate{
		ID:          tm.ID,
		Category:    lifecycle.EquipmentCategory(tm.Category),
		Sequence:    tm.Sequence,
		Name:        tm.Name,
		Requirement: tm.Requirement,
		Description: tm.Description,
		Active:      tm.Active,
	}
}
