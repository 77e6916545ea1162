package repository

import (
	"github.com/ecis/inspection-gin/internal/model"
	"gorm.io/gorm"
)

// QuoteRequestRepository 报价请求仓储接口
type QuoteRequestRepository interface {
	Save(request *model.QuoteRequestModel) error
	FindByID(id string) (*model.QuoteRequestModel, error)
	FindByFilter(filter *QuoteRequestFilter) ([]*model.QuoteRequestModel, error)
	CountByState() (map[string]int64, error)
}

// QuoteRequestFilter 报价请求查询过滤器
type QuoteRequestFilter struct {
	State      *string
	AssignedTo *string
	Page
}

// quoteRequestRepository 报价请求仓储实现
type quoteRequestRepository struct {
	db *gorm.DB
}

// NewQuoteRequestRepository 创建报价请求仓储
func NewQuoteRequestRepository(db *gorm.DB) QuoteRequestRepository {
	return &quoteRequestRepository{db: db}
}

// Save 保存报价请求
func (r *quoteRequestRepository) Save(request *model.QuoteRequestModel) error {
	return r.db.Save(request).Error
}

// FindByID 根据 ID 查找报价请求
func (r *quoteRequestRepository) FindByID(id string) (*model.QuoteRequestModel, error) {
	var request model.QuoteRequestModel
	if err := r.db.Where("id = ?", id).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// FindByFilter 根据过滤器查找报价请求,最新的在前
func (r *quoteRequestRepository) FindByFilter(filter *QuoteRequestFilter) ([]*model.QuoteRequestModel, error) {
	var requests []*model.QuoteRequestModel
	query := r.db.Model(&model.QuoteRequestModel{})

	page := Page{}
	if filter != nil {
		if filter.State != nil {
			query = query.Where("state = ?", *filter.State)
		}
		if filter.AssignedTo != nil {
			query = query.Where("assigned_to = ?", *filter.AssignedTo)
		}
		page = filter.Page
	}

	err := page.apply(query.Order("created_at DESC")).Find(&requests).Error
	return requests, err
}

// CountByState 按状态统计报价请求数量
func (r *quoteRequestRepository) CountByState() (map[string]int64, error) {
	var rows []struct {
		State string
		Count int64
	}
	err := r.db.Model(&model.QuoteRequestModel{}).
		Select("state, COUNT(*) AS count").
		Group("state").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.State] = row.Count
	}
	return counts, nil
}
