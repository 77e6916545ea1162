package model

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// 事件推送状态
const (
	EventStatusPending = "pending"
	EventStatusSuccess = "success"
	EventStatusFailed  = "failed"
)

// EventModel 通知事件数据模型
type EventModel struct {
	ID         string         `gorm:"primaryKey;type:varchar(64)"`
	Recipient  string         `gorm:"type:varchar(255);index"`
	Template   string         `gorm:"type:varchar(64);not null;index"` // 通知模板,如 inspection_sent
	Data       datatypes.JSON `gorm:"not null"`
	Status     string         `gorm:"type:varchar(32);not null;default:'pending';index"`
	RetryCount int            `gorm:"type:int;default:0"`
	LastError  string         `gorm:"type:text"`
	CreatedAt  time.Time      `gorm:"not null;index"`
	UpdatedAt  time.Time      `gorm:"not null"`
}

// TableName 指定表名
func (EventModel) TableName() string {
	return "events"
}

// Validate 验证事件模型
func (em *EventModel) Validate() error {
	if em.ID == "" {
		return errors.New("event ID is required")
	}
	if em.Template == "" {
		return errors.New("event template is required")
	}
	if len(em.Data) == 0 {
		return errors.New("event data is required")
	}
	if em.Status == "" {
		em.Status = EventStatusPending
	}
	return nil
}
