package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/model"
	"github.com/ecis/inspection-gin/internal/repository"
	"github.com/google/uuid"
)

// ClientService 客户服务接口
type ClientService interface {
	Create(ctx context.Context, req *CreateClientRequest) (*model.PartnerModel, error)
	Get(ctx context.Context, id string) (*model.PartnerModel, error)
	List(ctx context.Context, query *ClientQuery) ([]*model.PartnerModel, error)
}

// CreateClientRequest 创建客户请求
// @Description 创建客户（公司或联系人）的请求参数
type CreateClientRequest struct {
	Name      string `json:"name" example:"Sonatrach Logistique" binding:"required"`
	Email     string `json:"email" example:"contact@example.dz"`
	Phone     string `json:"phone" example:"+213 21 12 34 56"`
	IsCompany bool   `json:"is_company" example:"true"`
	ParentID  string `json:"parent_id"` // 联系人所属公司
	Street    string `json:"street"`
	City      string `json:"city"`
	Comment   string `json:"comment"`
}

// ClientQuery 客户查询条件
type ClientQuery struct {
	IsCompany *bool  `form:"is_company"`
	ParentID  string `form:"parent_id"`
	Search    string `form:"search"`
	Limit     int    `form:"limit"`
	Offset    int    `form:"offset"`
}

type clientService struct {
	store *repository.Store
}

// NewClientService 创建客户服务
func NewClientService(store *repository.Store) ClientService {
	return &clientService{store: store}
}

// Create 创建客户
func (s *clientService) Create(ctx context.Context, req *CreateClientRequest) (*model.PartnerModel, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, lifecycle.Validationf("name is required")
	}
	if req.Email != "" {
		if err := lifecycle.ValidateEmail(strings.TrimSpace(req.Email)); err != nil {
			return nil, err
		}
	}

	actor := actorFromContext(ctx)
	var partner *model.PartnerModel
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if req.ParentID != "" {
			parent, err := tx.Partners.FindByID(req.ParentID)
			if err != nil {
				return notFound(err, "client %s not found", req.ParentID)
			}
			if !parent.IsCompany {
				return lifecycle.Validationf("parent %s is not a company", req.ParentID)
			}
		}

		var err error
		partner, err = savePartner(tx.Partners, lifecycle.ClientInfo{
			Name:      req.Name,
			Email:     req.Email,
			Phone:     req.Phone,
			IsCompany: req.IsCompany,
			Comment:   req.Comment,
		}, func(p *model.PartnerModel) {
			if req.ParentID != "" {
				parentID := req.ParentID
				p.ParentID = &parentID
			}
			p.Street = req.Street
			p.City = req.City
		})
		if err != nil {
			return err
		}
		return NewAuditLogService(tx.AuditLogs).RecordAction(ctx, actor, "create", ResourcePartner, partner.ID, req)
	})
	if err != nil {
		return nil, err
	}
	return partner, nil
}

// Get 获取客户
func (s *clientService) Get(ctx context.Context, id string) (*model.PartnerModel, error) {
	partner, err := s.store.WithContext(ctx).Partners.FindByID(id)
	if err != nil {
		return nil, notFound(err, "client %s not found", id)
	}
	return partner, nil
}

// List 查询客户
func (s *clientService) List(ctx context.Context, query *ClientQuery) ([]*model.PartnerModel, error) {
	filter := &repository.PartnerFilter{}
	if query != nil {
		filter.IsCompany = query.IsCompany
		if query.ParentID != "" {
			filter.ParentID = &query.ParentID
		}
		if query.Search != "" {
			filter.Search = &query.Search
		}
		filter.Page = repository.Page{Limit: query.Limit, Offset: query.Offset}
	}
	partners, err := s.store.WithContext(ctx).Partners.FindByFilter(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return partners, nil
}

// savePartner 创建客户记录
func savePartner(repo repository.PartnerRepository, info lifecycle.ClientInfo, customize func(*model.PartnerModel)) (*model.PartnerModel, error) {
	now := time.Now()
	partner := &model.PartnerModel{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(info.Name),
		Email:     strings.TrimSpace(info.Email),
		Phone:     strings.TrimSpace(info.Phone),
		IsCompany: info.IsCompany,
		Comment:   info.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if customize != nil {
		customize(partner)
	}
	if err := partner.Validate(); err != nil {
		return nil, lifecycle.Validationf("%s", err.Error())
	}
	if err := repo.Save(partner); err != nil {
		return nil, fmt.Errorf("failed to save client: %w", err)
	}
	return partner, nil
}

// partnerDirectory 客户目录
// 实现 lifecycle.ClientDirectory 接口
type partnerDirectory struct {
	repo repository.PartnerRepository
}

// CreateClient 创建客户并返回 ID
func (d *partnerDirectory) CreateClient(_ context.Context, info lifecycle.ClientInfo) (string, error) {
	partner, err := savePartner(d.repo, info, nil)
	if err != nil {
		return "", err
	}
	return partner.ID, nil
}
