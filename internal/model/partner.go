package model

import (
	"errors"
	"time"
)

// PartnerModel 客户数据模型
// 公司和联系人共用一张表,联系人通过 ParentID 挂在公司下
type PartnerModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)"`
	Name      string    `gorm:"type:varchar(255);not null;index"`
	Email     string    `gorm:"type:varchar(255);index"`
	Phone     string    `gorm:"type:varchar(64)"`
	IsCompany bool      `gorm:"not null;default:false"`
	ParentID  *string   `gorm:"type:varchar(64);index"`
	Street    string    `gorm:"type:varchar(255)"`
	City      string    `gorm:"type:varchar(128)"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName 指定表名
func (PartnerModel) TableName() string {
	return "partners"
}

// Validate 验证客户模型
func (pm *PartnerModel) Validate() error {
	if pm.ID == "" {
		return errors.New("partner ID is required")
	}
	if pm.Name == "" {
		return errors.New("partner name is required")
	}
	if pm.ParentID != nil && *pm.ParentID == pm.ID {
		return errors.New("partner cannot be its own parent")
	}
	return nil
}
