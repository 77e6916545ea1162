package model

import (
	"errors"
	"time"

	"github.com/ecis/inspection-gin/internal/lifecycle"
)

// QuoteRequestModel 报价请求数据模型
type QuoteRequestModel struct {
	ID             string    `gorm:"primaryKey;type:varchar(64)"`
	Reference      string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	ContactName    string    `gorm:"type:varchar(255);not null"`
	Email          string    `gorm:"type:varchar(255);not null;index"`
	Phone          string    `gorm:"type:varchar(64);not null"`
	CompanyName    string    `gorm:"type:varchar(255)"`
	EquipmentType  string    `gorm:"type:varchar(32);not null"`
	EquipmentCount int       `gorm:"type:int;not null;default:1"`
	Message        string    `gorm:"type:text"`
	Urgency        string    `gorm:"type:varchar(16);not null;default:'normal'"`
	Location       string    `gorm:"type:varchar(255)"`
	Source         string    `gorm:"type:varchar(16);not null;default:'website'"`
	State          string    `gorm:"type:varchar(16);not null;index"`
	AssignedTo     string    `gorm:"type:varchar(64);index"`
	PartnerID      string    `gorm:"type:varchar(64);index"`
	IPAddress      string    `gorm:"type:varchar(45)"` // IPv4 或 IPv6
	UserAgent      string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"not null;index"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName 指定表名
func (QuoteRequestModel) TableName() string {
	return "quote_requests"
}

// Validate 验证报价请求模型
func (qm *QuoteRequestModel) Validate() error {
	if qm.ID == "" {
		return errors.New("quote request ID is required")
	}
	if qm.Reference == "" {
		return errors.New("quote request reference is required")
	}
	if qm.ContactName == "" {
		return errors.New("contact name is required")
	}
	if !lifecycle.QuoteState(qm.State).Valid() {
		return errors.New("quote request state is invalid")
	}
	return nil
}

// ToDomain 转换为领域对象
func (qm *QuoteRequestModel) ToDomain() *lifecycle.QuoteRequest {
	return &lifecycle.QuoteRequest{
		ID:             qm.ID,
		Reference:      qm.Reference,
		ContactName:    qm.ContactName,
		Email:          qm.Email,
		Phone:          qm.Phone,
		CompanyName:    qm.CompanyName,
		Category:       lifecycle.EquipmentCategory(qm.EquipmentType),
		EquipmentCount: qm.EquipmentCount,
		Message:        qm.Message,
		Urgency:        lifecycle.Urgency(qm.Urgency),
		Location:       qm.Location,
		Source:         lifecycle.QuoteSource(qm.Source),
		State:          lifecycle.QuoteState(qm.State),
		AssignedTo:     qm.AssignedTo,
		ClientID:       qm.PartnerID,
		IPAddress:      qm.IPAddress,
		UserAgent:      qm.UserAgent,
		CreatedAt:      qm.CreatedAt,
		UpdatedAt:      qm.UpdatedAt,
	}
}

// QuoteRequestFromDomain 从领域对象构建数据模型
func QuoteRequestFromDomain(req *lifecycle.QuoteRequest) *QuoteRequestModel {
	return &QuoteRequestModel{
		ID:             req.ID,
		Reference:      req.Reference,
		ContactName:    req.ContactName,
		Email:          req.Email,
		Phone:          req.Phone,
		CompanyName:    req.CompanyName,
		EquipmentType:  string(req.Category),
		EquipmentCount: req.EquipmentCount,
		Message:        req.Message,
		Urgency:        string(req.Urgency),
		Location:       req.Location,
		Source:         string(req.Source),
		State:          string(req.State),
		AssignedTo:     req.AssignedTo,
		PartnerID:      req.ClientID,
		IPAddress:      req.IPAddress,
		UserAgent:      req.UserAgent,
		CreatedAt:      req.CreatedAt,
		UpdatedAt:      req.UpdatedAt,
	}
}
