package lifecycle

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// QuoteState 报价请求状态
type QuoteState string

const (
	QuoteNew       QuoteState = "new"
	QuoteContacted QuoteState = "contacted"
	QuoteQuoted    QuoteState = "quoted"
	QuoteConverted QuoteState = "converted"
	QuoteLost      QuoteState = "lost"
)

// Valid 是否为已知状态
func (s QuoteState) Valid() bool {
	_, ok := quoteTransitions[s]
	return ok
}

// Urgency 紧急程度
type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

// Valid 是否为已知紧急程度
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyNormal, UrgencyUrgent, UrgencyEmergency:
		return true
	}
	return false
}

// QuoteSource 报价请求来源
type QuoteSource string

const (
	SourceWebsite  QuoteSource = "website"
	SourcePhone    QuoteSource = "phone"
	SourceEmail    QuoteSource = "email"
	SourceReferral QuoteSource = "referral"
	SourceOther    QuoteSource = "other"
)

// Valid 是否为已知来源
func (s QuoteSource) Valid() bool {
	switch s {
	case SourceWebsite, SourcePhone, SourceEmail, SourceReferral, SourceOther:
		return true
	}
	return false
}

// QuoteRequest 报价请求
type QuoteRequest struct {
	ID             string
	Reference      string
	ContactName    string
	Email          string
	Phone          string
	CompanyName    string
	Category       EquipmentCategory
	EquipmentCount int
	Message        string
	Urgency        Urgency
	Location       string
	Source         QuoteSource
	State          QuoteState
	AssignedTo     string
	ClientID       string
	IPAddress      string
	UserAgent      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ClientInfo 新建客户所需信息
type ClientInfo struct {
	Name      string
	Email     string
	Phone     string
	IsCompany bool
	Comment   string
}

// ClientDirectory 客户目录
type ClientDirectory interface {
	CreateClient(ctx context.Context, info ClientInfo) (string, error)
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var phoneSeparators = regexp.MustCompile(`[\s\-()]`)

const minPhoneLength = 8

// ValidateEmail 校验邮箱格式
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return newError(CodeInvalidContactInfo, "invalid email address: %s", email)
	}
	return nil
}

// ValidatePhone 去掉空白、横线和括号后至少包含 8 位数字
func ValidatePhone(phone string) error {
	cleaned := phoneSeparators.ReplaceAllString(phone, "")
	digits := 0
	for _, r := range cleaned {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < minPhoneLength {
		return newError(CodeInvalidContactInfo, "invalid phone number: %s", phone)
	}
	return nil
}

// QuoteManager 报价请求流程管理
type QuoteManager struct {
	clients ClientDirectory
	options
}

// NewQuoteManager 创建报价请求流程管理器
func NewQuoteManager(clients ClientDirectory, opts ...Option) *QuoteManager {
	return &QuoteManager{
		clients: clients,
		options: buildOptions(opts),
	}
}

// Create 校验并初始化报价请求
func (q *QuoteManager) Create(ctx context.Context, req QuoteRequest) (*QuoteRequest, error) {
	req.ContactName = strings.TrimSpace(req.ContactName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.CompanyName = strings.TrimSpace(req.CompanyName)

	if req.ContactName == "" {
		return nil, Validationf("contact name is required")
	}
	if err := ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := ValidatePhone(req.Phone); err != nil {
		return nil, err
	}
	if req.Category == "" {
		req.Category = CategoryOther
	}
	if !req.Category.Valid() {
		return nil, Validationf("unknown equipment type: %s", req.Category)
	}
	if req.EquipmentCount <= 0 {
		req.EquipmentCount = 1
	}
	if req.Urgency == "" {
		req.Urgency = UrgencyNormal
	}
	if !req.Urgency.Valid() {
		return nil, Validationf("unknown urgency: %s", req.Urgency)
	}
	if req.Source == "" {
		req.Source = SourceWebsite
	}
	if !req.Source.Valid() {
		return nil, Validationf("unknown source: %s", req.Source)
	}

	now := q.now()
	req.ID = q.newID()
	req.State = QuoteNew
	req.CreatedAt = now
	req.UpdatedAt = now

	if err := appendAudit(ctx, q.audit, req.ID, "", "Quote request received."); err != nil {
		return nil, err
	}

	if req.AssignedTo != "" {
		notify(ctx, q.notifier, q.logger, req.AssignedTo, TemplateQuoteRequestNew, map[string]interface{}{
			"quote_request_id": req.ID,
			"reference":        req.Reference,
			"contact_name":     req.ContactName,
			"company_name":     req.CompanyName,
			"equipment_type":   string(req.Category),
			"urgency":          string(req.Urgency),
		})
	}
	return &req, nil
}

// Contact 标记已联系
func (q *QuoteManager) Contact(ctx context.Context, req *QuoteRequest, actorID string) error {
	return q.transition(ctx, req, QuoteContacted, actorID, "Customer contacted.")
}

// SendQuote 标记已报价
func (q *QuoteManager) SendQuote(ctx context.Context, req *QuoteRequest, actorID string) error {
	return q.transition(ctx, req, QuoteQuoted, actorID, "Quote sent.")
}

// ConvertToClient 转换为客户
// 已关联客户时只更新状态;已转换的请求重复调用直接返回
func (q *QuoteManager) ConvertToClient(ctx context.Context, req *QuoteRequest, actorID string) error {
	if req.State == QuoteConverted {
		return nil
	}
	if !req.State.CanTransitionTo(QuoteConverted) {
		return invalidQuoteTransition(req.State, QuoteConverted)
	}

	if req.ClientID == "" {
		if q.clients == nil {
			return fmt.Errorf("no client directory configured")
		}
		name := req.CompanyName
		if name == "" {
			name = req.ContactName
		}
		comment := fmt.Sprintf("Created from quote request %s\nOriginal message: %s", req.Reference, req.Message)
		clientID, err := q.clients.CreateClient(ctx, ClientInfo{
			Name:      name,
			Email:     req.Email,
			Phone:     req.Phone,
			IsCompany: req.CompanyName != "",
			Comment:   comment,
		})
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		req.ClientID = clientID
	}

	return q.transition(ctx, req, QuoteConverted, actorID, "Converted to client.")
}

// MarkLost 标记丢单,任意状态均可,已丢单时不做处理
func (q *QuoteManager) MarkLost(ctx context.Context, req *QuoteRequest, actorID string) error {
	if req.State == QuoteLost {
		return nil
	}
	return q.transition(ctx, req, QuoteLost, actorID, "Marked as lost.")
}

func (q *QuoteManager) transition(ctx context.Context, req *QuoteRequest, to QuoteState, actorID string, message string) error {
	if !req.State.CanTransitionTo(to) {
		return invalidQuoteTransition(req.State, to)
	}
	if err := appendAudit(ctx, q.audit, req.ID, actorID, message); err != nil {
		return err
	}
	req.State = to
	req.UpdatedAt = q.now()
	return nil
}
