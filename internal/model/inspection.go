package model

import (
	"errors"
	"strconv"
	"time"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"gorm.io/datatypes"
)

// InspectionModel 检验单数据模型
type InspectionModel struct {
	ID                     string          `gorm:"primaryKey;type:varchar(64)"`
	Reference              string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	EquipmentID            string          `gorm:"type:varchar(64);not null;index"`
	ClientID               string          `gorm:"type:varchar(64);index"`
	CompanyID              string          `gorm:"type:varchar(64)"`
	InspectorID            string          `gorm:"type:varchar(64);index"`
	Type                   string          `gorm:"type:varchar(32);not null"`
	InspectionDate         datatypes.Date  `gorm:"not null;index"`
	DurationHours          float64         `gorm:"type:numeric(6,2)"`
	WeatherConditions      string          `gorm:"type:varchar(255)"`
	OverallResult          string          `gorm:"type:varchar(32)"`
	DefectsFound           string          `gorm:"type:text"`
	ImmediateActions       string          `gorm:"type:text"`
	Recommendations        string          `gorm:"type:text"`
	InspectorNotes         string          `gorm:"type:text"`
	InspectorSignature     []byte          // 签名图片
	ClientSignature        []byte
	ClientRepresentative   string          `gorm:"type:varchar(255)"`
	State                  string          `gorm:"type:varchar(32);not null;index"`
	NextDueDate            *datatypes.Date `gorm:"index"`
	NextDueFrequencyMonths int             `gorm:"type:int;not null"`
	CreatedBy              string          `gorm:"type:varchar(64)"`
	CreatedAt              time.Time       `gorm:"not null;index"`
	UpdatedAt              time.Time       `gorm:"not null"`
}

// TableName 指定表名
func (InspectionModel) TableName() string {
	return "inspections"
}

// Validate 验证检验单模型
func (im *InspectionModel) Validate() error {
	if im.ID == "" {
		return errors.New("inspection ID is required")
	}
	if im.Reference == "" {
		return errors.New("inspection reference is required")
	}
	if im.EquipmentID == "" {
		return errors.New("equipment ID is required")
	}
	if !lifecycle.InspectionState(im.State).Valid() {
		return errors.New("inspection state is invalid")
	}
	if !lifecycle.OverallResult(im.OverallResult).Valid() {
		return errors.New("overall result is invalid")
	}
	return nil
}

// ChecklistItemModel 检验单检查项数据模型
// 按 (sequence, id) 排序,自增 id 即插入顺序
type ChecklistItemModel struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	InspectionID string    `gorm:"type:varchar(64);not null;index"`
	Sequence     int       `gorm:"type:int;not null;default:10"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Requirement  string    `gorm:"type:varchar(255)"`
	Status       string    `gorm:"type:varchar(16);not null;default:'pass'"`
	Notes        string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName 指定表名
func (ChecklistItemModel) TableName() string {
	return "inspection_checklist_items"
}

// Validate 验证检查项模型
func (cm *ChecklistItemModel) Validate() error {
	if cm.InspectionID == "" {
		return errors.New("inspection ID is required")
	}
	if cm.Name == "" {
		return errors.New("check item name is required")
	}
	if !lifecycle.ChecklistStatus(cm.Status).Valid() {
		return errors.New("check item status is invalid")
	}
	return nil
}

// ToDomain 转换为领域对象
func (cm *ChecklistItemModel) ToDomain() lifecycle.ChecklistItem {
	return lifecycle.ChecklistItem{
		ID:          strconv.FormatUint(uint64(cm.ID), 10),
		Sequence:    cm.Sequence,
		Name:        cm.Name,
		Requirement: cm.Requirement,
		Status:      lifecycle.ChecklistStatus(cm.Status),
		Notes:       cm.Notes,
	}
}

// ToDomain 转换为领域对象
func (im *InspectionModel) ToDomain(items []ChecklistItemModel) *lifecycle.Inspection {
	rec := &lifecycle.Inspection{
		ID:                     im.ID,
		Reference:              im.Reference,
		EquipmentID:            im.EquipmentID,
		ClientID:               im.ClientID,
		CompanyID:              im.CompanyID,
		InspectorID:            im.InspectorID,
		Type:                   lifecycle.InspectionType(im.Type),
		InspectionDate:         lifecycle.DateOf(time.Time(im.InspectionDate)),
		DurationHours:          im.DurationHours,
		WeatherConditions:      im.WeatherConditions,
		Checklist:              make([]lifecycle.ChecklistItem, 0, len(items)),
		Result:                 lifecycle.OverallResult(im.OverallResult),
		DefectsFound:           im.DefectsFound,
		ImmediateActions:       im.ImmediateActions,
		Recommendations:        im.Recommendations,
		InspectorNotes:         im.InspectorNotes,
		InspectorSignature:     im.InspectorSignature,
		ClientSignature:        im.ClientSignature,
		ClientRepresentative:   im.ClientRepresentative,
		State:                  lifecycle.InspectionState(im.State),
		NextDueFrequencyMonths: im.NextDueFrequencyMonths,
		CreatedAt:              im.CreatedAt,
		UpdatedAt:              im.UpdatedAt,
	}
	if im.NextDueDate != nil {
		d := lifecycle.DateOf(time.Time(*im.NextDueDate))
		rec.NextDueDate = &d
	}
	for i := range items {
		rec.Checklist = append(rec.Checklist, items[i].ToDomain())
	}
	lifecycle.SortChecklist(rec.Checklist)
	return rec
}

// InspectionFromDomain 从领域对象构建数据模型（不含检查项）
func InspectionFromDomain(rec *lifecycle.Inspection, createdBy string) *InspectionModel {
	im := &InspectionModel{
		ID:                     rec.ID,
		Reference:              rec.Reference,
		EquipmentID:            rec.EquipmentID,
		ClientID:               rec.ClientID,
		CompanyID:              rec.CompanyID,
		InspectorID:            rec.InspectorID,
		Type:                   string(rec.Type),
		InspectionDate:         datatypes.Date(rec.InspectionDate),
		DurationHours:          rec.DurationHours,
		WeatherConditions:      rec.WeatherConditions,
		OverallResult:          string(rec.Result),
		DefectsFound:           rec.DefectsFound,
		ImmediateActions:       rec.ImmediateActions,
		Recommendations:        rec.Recommendations,
		InspectorNotes:         rec.InspectorNotes,
		InspectorSignature:     rec.InspectorSignature,
		ClientSignature:        rec.ClientSignature,
		ClientRepresentative:   rec.ClientRepresentative,
		State:                  string(rec.State),
		NextDueFrequencyMonths: rec.NextDueFrequencyMonths,
		CreatedBy:              createdBy,
		CreatedAt:              rec.CreatedAt,
		UpdatedAt:              rec.UpdatedAt,
	}
	if rec.NextDueDate != nil {
		d := datatypes.Date(*rec.NextDueDate)
		im.NextDueDate = &d
	}
	return im
}

// ChecklistItemsFromDomain 构建检查项数据模型
func ChecklistItemsFromDomain(inspectionID string, items []lifecycle.ChecklistItem) []ChecklistItemModel {
	models := make([]ChecklistItemModel, 0, len(items))
	for _, item := range items {
		models = append(models, ChecklistItemModel{
			InspectionID: inspectionID,
			Sequence:     item.Sequence,
			Name:         item.Name,
			Requirement:  item.Requirement,
			Status:       string(item.Status),
			Notes:        item.Notes,
		})
	}
	return models
}
