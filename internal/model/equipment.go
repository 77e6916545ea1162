package model

import (
	"errors"
	"time"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"gorm.io/datatypes"
)

// EquipmentModel 设备数据模型
type EquipmentModel struct {
	ID                 string          `gorm:"primaryKey;type:varchar(64)"`
	Name               string          `gorm:"type:varchar(255);not null"`
	Category           string          `gorm:"type:varchar(32);not null;index"`
	Brand              string          `gorm:"type:varchar(128)"`
	Model              string          `gorm:"type:varchar(128)"`
	SerialNumber       string          `gorm:"type:varchar(128);index"`
	ManufactureYear    int             `gorm:"type:int"`
	Capacity           string          `gorm:"type:varchar(64)"` // 额定载荷,如 "5T"
	Location           string          `gorm:"type:varchar(255)"`
	Notes              string          `gorm:"type:text"`
	ClientID           string          `gorm:"type:varchar(64);not null;index"`
	PeriodicityMonths  int             `gorm:"type:int;not null;default:12"`
	LastInspectionDate *datatypes.Date `gorm:"index"` // 只由检验完成写入
	Active             bool            `gorm:"not null"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
}

// TableName 指定表名
func (EquipmentModel) TableName() string {
	return "equipment"
}

// Validate 验证设备模型
func (em *EquipmentModel) Validate() error {
	if em.ID == "" {
		return errors.New("equipment ID is required")
	}
	if em.Name == "" {
		return errors.New("equipment name is required")
	}
	if !lifecycle.EquipmentCategory(em.Category).Valid() {
		return errors.New("equipment type is invalid")
	}
	if em.ClientID == "" {
		return errors.New("client ID is required")
	}
	return nil
}

// ToDomain 转换为领域对象
func (em *EquipmentModel) ToDomain() lifecycle.Equipment {
	eq := lifecycle.Equipment{
		ID:       em.ID,
		Name:     em.Name,
		Category: lifecycle.EquipmentCategory(em.Category),
		ClientID: em.ClientID,
	}
	if em.LastInspectionDate != nil {
		d := time.Time(*em.LastInspectionDate)
		eq.LastInspectionDate = &d
	}
	return eq
}
