package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/metrics"
	"github.com/ecis/inspection-gin/internal/model"
	"github.com/ecis/inspection-gin/internal/repository"
	"github.com/google/uuid"
)

// QuoteService 报价请求服务接口
type QuoteService interface {
	Submit(ctx context.Context, req *SubmitQuoteRequest) (*SubmitQuoteResult, error)
	Get(ctx context.Context, id string) (*lifecycle.QuoteRequest, error)
	List(ctx context.Context, query *QuoteQuery) ([]*lifecycle.QuoteRequest, error)
	Contact(ctx context.Context, id string) (*lifecycle.QuoteRequest, error)
	SendQuote(ctx context.Context, id string) (*lifecycle.QuoteRequest, error)
	ConvertToClient(ctx context.Context, id string) (*lifecycle.QuoteRequest, error)
	MarkLost(ctx context.Context, id string) (*lifecycle.QuoteRequest, error)
}

// SubmitQuoteRequest 网站报价请求
// @Description 公开的网站报价请求参数
type SubmitQuoteRequest struct {
	Name           string `json:"name" example:"Amina Benali"`                   // 联系人
	Email          string `json:"email" example:"amina@example.dz"`              // 邮箱
	Phone          string `json:"phone" example:"+213 21 12 34 56"`              // 电话
	CompanyName    string `json:"company_name" example:"Sonatrach Logistique"`   // 公司名称
	EquipmentType  string `json:"equipment_type" example:"crane"`                // 设备类别
	EquipmentCount int    `json:"equipment_count" example:"2"`                   // 设备数量
	Message        string `json:"message" example:"Two mobile cranes to check"`  // 留言
	Urgency        string `json:"urgency" example:"normal"`                      // normal, urgent, emergency
	Location       string `json:"location" example:"Hassi Messaoud"`             // 设备所在地
	IPAddress      string `json:"-"`
	UserAgent      string `json:"-"`
}

// SubmitQuoteResult 网站报价请求结果
type SubmitQuoteResult struct {
	Reference           string `json:"reference"`
	QuoteRequestID      string `json:"quote_request_id"`
	CompanyID           string `json:"company_id"`
	ContactID           string `json:"contact_id"`
	EquipmentID         string `json:"equipment_id"`
	InspectionID        string `json:"inspection_id"`
	InspectionReference string `json:"inspection_reference"`
}

// QuoteQuery 报价请求查询条件
type QuoteQuery struct {
	State      string `form:"state"`
	AssignedTo string `form:"assigned_to"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}

type quoteService struct {
	store           *repository.Store
	notifier        lifecycle.Notifier
	publisher       Publisher
	defaultAssignee string
	now             func() time.Time
}

// NewQuoteService 创建报价请求服务
func NewQuoteService(store *repository.Store, notifier lifecycle.Notifier, publisher Publisher, defaultAssignee string) QuoteService {
	return &quoteService{
		store:           store,
		notifier:        notifier,
		publisher:       publisher,
		defaultAssignee: defaultAssignee,
		now:             time.Now,
	}
}

func quoteManager(tx *repository.Store, action string, pending *pendingNotifications, now func() time.Time) *lifecycle.QuoteManager {
	return lifecycle.NewQuoteManager(
		&partnerDirectory{repo: tx.Partners},
		lifecycle.WithAuditLog(newAuditTrail(tx.AuditLogs, ResourceQuoteRequest, action)),
		lifecycle.WithNotifier(pending),
		lifecycle.WithClock(now),
	)
}

// Submit 处理网站报价请求
// 在一个事务中创建报价请求、公司、联系人、设备和初始检验单
func (s *quoteService) Submit(ctx context.Context, req *SubmitQuoteRequest) (*SubmitQuoteResult, error) {
	if req == nil {
		req = &SubmitQuoteRequest{}
	}
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", req.Name},
		{"email", req.Email},
		{"phone", req.Phone},
		{"equipment_type", req.EquipmentType},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, lifecycle.Validationf("Missing required fields: %s", strings.Join(missing, ", "))
	}

	actor := actorFromContext(ctx)
	pending := &pendingNotifications{}
	result := &SubmitQuoteResult{}
	var quote *lifecycle.QuoteRequest
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		reference, err := tx.Sequences.NextReference(repository.SeriesQuoteRequest, lifecycle.DateOf(s.now()).Year())
		if err != nil {
			return fmt.Errorf("failed to allocate quote reference: %w", err)
		}

		quote, err = quoteManager(tx, "submit", pending, s.now).Create(ctx, lifecycle.QuoteRequest{
			Reference:      reference,
			ContactName:    req.Name,
			Email:          req.Email,
			Phone:          req.Phone,
			CompanyName:    req.CompanyName,
			Category:       lifecycle.EquipmentCategory(req.EquipmentType),
			EquipmentCount: req.EquipmentCount,
			Message:        req.Message,
			Urgency:        lifecycle.Urgency(req.Urgency),
			Location:       req.Location,
			Source:         lifecycle.SourceWebsite,
			AssignedTo:     s.defaultAssignee,
			IPAddress:      req.IPAddress,
			UserAgent:      req.UserAgent,
		})
		if err != nil {
			return err
		}

		company, err := findOrCreateCompany(tx, quote)
		if err != nil {
			return err
		}
		contact, err := findOrCreateContact(tx, quote, company)
		if err != nil {
			return err
		}
		equipment, err := createQuotedEquipment(tx, quote, company)
		if err != nil {
			return err
		}

		inspection, err := createInspectionTx(ctx, tx, equipment, &CreateInspectionRequest{
			EquipmentID:    equipment.ID,
			InspectionType: string(lifecycle.TypeInitial),
			InspectorNotes: fmt.Sprintf("Created from quote request %s.\n%s", quote.Reference, quoteSummary(quote)),
		}, actor, pending, s.now)
		if err != nil {
			return err
		}

		quote.ClientID = company.ID
		qm := model.QuoteRequestFromDomain(quote)
		if err := qm.Validate(); err != nil {
			return lifecycle.Validationf("%s", err.Error())
		}
		if err := tx.QuoteRequests.Save(qm); err != nil {
			return fmt.Errorf("failed to save quote request: %w", err)
		}
		if err := recordHistory(tx, ResourceQuoteRequest, quote.ID, "", string(quote.State), actor, "submit"); err != nil {
			return err
		}

		*result = SubmitQuoteResult{
			Reference:           quote.Reference,
			QuoteRequestID:      quote.ID,
			CompanyID:           company.ID,
			ContactID:           contact.ID,
			EquipmentID:         equipment.ID,
			InspectionID:        inspection.ID,
			InspectionReference: inspection.Reference,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	pending.flush(ctx, s.notifier)
	metrics.RecordQuoteRequest(string(quote.Source), string(quote.Urgency))
	return result, nil
}

// findOrCreateCompany 先按邮箱再按名称查找公司,找不到则创建
func findOrCreateCompany(tx *repository.Store, quote *lifecycle.QuoteRequest) (*model.PartnerModel, error) {
	name := quote.CompanyName
	if name == "" {
		name = quote.ContactName
	}

	company, err := tx.Partners.FindCompanyByEmail(quote.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up company: %w", err)
	}
	if company == nil {
		if company, err = tx.Partners.FindCompanyByName(name); err != nil {
			return nil, fmt.Errorf("failed to look up company: %w", err)
		}
	}
	if company != nil {
		return company, nil
	}

	return savePartner(tx.Partners, lifecycle.ClientInfo{
		Name:      name,
		Email:     quote.Email,
		Phone:     quote.Phone,
		IsCompany: true,
		Comment:   "Created from website quote request.",
	}, nil)
}

// findOrCreateContact 查找公司下同邮箱的联系人,找不到则创建
func findOrCreateContact(tx *repository.Store, quote *lifecycle.QuoteRequest, company *model.PartnerModel) (*model.PartnerModel, error) {
	contact, err := tx.Partners.FindContact(company.ID, quote.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up contact: %w", err)
	}
	if contact != nil {
		return contact, nil
	}

	parentID := company.ID
	return savePartner(tx.Partners, lifecycle.ClientInfo{
		Name:  quote.ContactName,
		Email: quote.Email,
		Phone: quote.Phone,
	}, func(p *model.PartnerModel) {
		p.ParentID = &parentID
	})
}

// createQuotedEquipment 按报价请求登记设备,名称为 "<类别> - <公司>"
func createQuotedEquipment(tx *repository.Store, quote *lifecycle.QuoteRequest, company *model.PartnerModel) (*model.EquipmentModel, error) {
	now := time.Now()
	equipment := &model.EquipmentModel{
		ID:                uuid.New().String(),
		Name:              fmt.Sprintf("%s - %s", quote.Category.Label(), company.Name),
		Category:          string(quote.Category),
		Location:          quote.Location,
		Notes:             fmt.Sprintf("Quote request reference: %s\n%s", quote.Reference, quoteSummary(quote)),
		ClientID:          company.ID,
		PeriodicityMonths: DefaultFrequencyMonths,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := equipment.Validate(); err != nil {
		return nil, lifecycle.Validationf("%s", err.Error())
	}
	if err := tx.Equipment.Save(equipment); err != nil {
		return nil, fmt.Errorf("failed to save equipment: %w", err)
	}
	return equipment, nil
}

func quoteSummary(quote *lifecycle.QuoteRequest) string {
	return fmt.Sprintf("Equipment count: %d\nContact: %s\nPhone: %s\nEmail: %s\nMessage: %s",
		quote.EquipmentCount, quote.ContactName, quote.Phone, quote.Email, quote.Message)
}

// Get 获取报价请求
func (s *quoteService) Get(ctx context.Context, id string) (*lifecycle.QuoteRequest, error) {
	qm, err := s.store.WithContext(ctx).QuoteRequests.FindByID(id)
	if err != nil {
		return nil, notFound(err, "quote request %s not found", id)
	}
	return qm.ToDomain(), nil
}

// List 查询报价请求
func (s *quoteService) List(ctx context.Context, query *QuoteQuery) ([]*lifecycle.QuoteRequest, error) {
	filter := &repository.QuoteRequestFilter{}
	if query != nil {
		if query.State != "" {
			if !lifecycle.QuoteState(query.State).Valid() {
				return nil, lifecycle.Validationf("unknown state: %s", query.State)
			}
			filter.State = &query.State
		}
		if query.AssignedTo != "" {
			filter.AssignedTo = &query.AssignedTo
		}
		filter.Page = repository.Page{Limit: query.Limit, Offset: query.Offset}
	}

	models, err := s.store.WithContext(ctx).QuoteRequests.FindByFilter(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list quote requests: %w", err)
	}
	requests := make([]*lifecycle.QuoteRequest, 0, len(models))
	for _, qm := range models {
		requests = append(requests, qm.ToDomain())
	}
	return requests, nil
}

type quoteTransitionFunc func(ctx context.Context, qm *lifecycle.QuoteManager, req *lifecycle.QuoteRequest, actor string) error

// Contact 标记已联系
func (s *quoteService) Contact(ctx context.Context, id string) (*lifecycle.QuoteRequest, error) {
	return s.transition(ctx, id, "contact", func(ctx context.Context, qm *lifecycle.QuoteManager, req *lifecycle.QuoteRequest, actor string) error {
		return qm.Contact(ctx, req, actor)
	})
}

// SendQuote 标记已报价
func (s *quoteService) SendQuote(ctx context.Context, id string) (*lifecycle.QuoteRequest, error) {
	return s.transition(ctx, id, "send_quote", func(ctx context.Context, qm *lifecycle.QuoteManager, req *lifecycle.QuoteRequest, actor string) error {
		return qm.SendQuote(ctx, req, actor)
	})
}

// ConvertToClient 转换为客户
func (s *quoteService) ConvertToClient(ctx context.Context, id string) (*lifecycle.QuoteRequest, error) {
	return s.transition(ctx, id, "convert", func(ctx context.Context, qm *lifecycle.QuoteManager, req *lifecycle.QuoteRequest, actor string) error {
		return qm.ConvertToClient(ctx, req, actor)
	})
}

// MarkLost 标记丢单
func (s *quoteService) MarkLost(ctx context.Context, id string) (*lifecycle.QuoteRequest, error) {
	return s.transition(ctx, id, "lost", func(ctx context.Context, qm *lifecycle.QuoteManager, req *lifecycle.QuoteRequest, actor string) error {
		return qm.MarkLost(ctx, req, actor)
	})
}

func (s *quoteService) transition(ctx context.Context, id string, action string, apply quoteTransitionFunc) (*lifecycle.QuoteRequest, error) {
	actor := actorFromContext(ctx)
	pending := &pendingNotifications{}

	var req *lifecycle.QuoteRequest
	var from lifecycle.QuoteState
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		qm, err := tx.QuoteRequests.FindByID(id)
		if err != nil {
			return notFound(err, "quote request %s not found", id)
		}
		req = qm.ToDomain()
		from = req.State

		if err := apply(ctx, quoteManager(tx, action, pending, s.now), req, actor); err != nil {
			return err
		}
		if err := tx.QuoteRequests.Save(model.QuoteRequestFromDomain(req)); err != nil {
			return fmt.Errorf("failed to save quote request: %w", err)
		}
		return recordHistory(tx, ResourceQuoteRequest, req.ID, string(from), string(req.State), actor, action)
	})
	if err != nil {
		return nil, err
	}

	pending.flush(ctx, s.notifier)
	if from != req.State {
		metrics.RecordTransition(ResourceQuoteRequest, string(req.State))
		if s.publisher != nil {
			s.publisher.Publish(TransitionEvent{
				EntityType: ResourceQuoteRequest,
				EntityID:   req.ID,
				Reference:  req.Reference,
				From:       string(from),
				To:         string(req.State),
				Actor:      actor,
				At:         req.UpdatedAt,
			})
		}
	}
	return req, nil
}
