package repository

import (
	"errors"
	"strings"

	"github.com/ecis/inspection-gin/internal/model"
	"gorm.io/gorm"
)

// PartnerRepository 客户仓储接口
type PartnerRepository interface {
	Save(partner *model.PartnerModel) error
	FindByID(id string) (*model.PartnerModel, error)
	FindByFilter(filter *PartnerFilter) ([]*model.PartnerModel, error)
	FindCompanyByEmail(email string) (*model.PartnerModel, error)
	FindCompanyByName(name string) (*model.PartnerModel, error)
	FindContact(parentID string, email string) (*model.PartnerModel, error)
}

// PartnerFilter 客户查询过滤器
type PartnerFilter struct {
	IsCompany *bool
	ParentID  *string
	Search    *string // 按名称或邮箱模糊匹配
	Page
}

// partnerRepository 客户仓储实现
type partnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository 创建客户仓储
func NewPartnerRepository(db *gorm.DB) PartnerRepository {
	return &partnerRepository{db: db}
}

// Save 保存客户
func (r *partnerRepository) Save(partner *model.PartnerModel) error {
	return r.db.Save(partner).Error
}

// FindByID 根据 ID 查找客户
func (r *partnerRepository) FindByID(id string) (*model.PartnerModel, error) {
	var partner model.PartnerModel
	if err := r.db.Where("id = ?", id).First(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

// FindByFilter 根据过滤器查找客户
func (r *partnerRepository) FindByFilter(filter *PartnerFilter) ([]*model.PartnerModel, error) {
	var partners []*model.PartnerModel
	query := r.db.Model(&model.PartnerModel{})

	page := Page{}
	if filter != nil {
		if filter.IsCompany != nil {
			query = query.Where("is_company = ?", *filter.IsCompany)
		}
		if filter.ParentID != nil {
			query = query.Where("parent_id = ?", *filter.ParentID)
		}
		if filter.Search != nil && *filter.Search != "" {
			pattern := "%" + strings.ToLower(*filter.Search) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
		}
		page = filter.Page
	}

	err := page.apply(query.Order("name ASC")).Find(&partners).Error
	return partners, err
}

// FindCompanyByEmail 按邮箱查找公司,不区分大小写
func (r *partnerRepository) FindCompanyByEmail(email string) (*model.PartnerModel, error) {
	return r.findOne(r.db.Where("is_company = ? AND LOWER(email) = ?", true, strings.ToLower(email)))
}

// FindCompanyByName 按名称查找公司,不区分大小写
func (r *partnerRepository) FindCompanyByName(name string) (*model.PartnerModel, error) {
	return r.findOne(r.db.Where("is_company = ? AND LOWER(name) = ?", true, strings.ToLower(name)))
}

// FindContact 查找公司下指定邮箱的联系人
func (r *partnerRepository) FindContact(parentID string, email string) (*model.PartnerModel, error) {
	return r.findOne(r.db.Where("parent_id = ? AND LOWER(email) = ?", parentID, strings.ToLower(email)))
}

// findOne 未找到时返回 nil, nil
func (r *partnerRepository) findOne(query *gorm.DB) (*model.PartnerModel, error) {
	var partner model.PartnerModel
	err := query.Order("created_at ASC").First(&partner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &partner, nil
}
