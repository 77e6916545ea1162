package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/ecis/inspection-gin/internal/logging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EquipmentRegistry 设备登记簿
// 检验完成时写入设备最近检验日期
type EquipmentRegistry interface {
	RecordInspection(ctx context.Context, equipmentID string, date time.Time) error
}

// AuditLog 审计日志
type AuditLog interface {
	Append(ctx context.Context, entityID string, actorID string, message string) error
}

// Notifier 通知服务,发送失败只记录日志
type Notifier interface {
	Notify(ctx context.Context, recipient string, template string, data map[string]interface{}) error
}

// 通知模板
const (
	TemplateInspectionSent  = "inspection_sent"
	TemplateQuoteRequestNew = "quote_request_new"
)

// Option 管理器选项
type Option func(*options)

type options struct {
	audit    AuditLog
	notifier Notifier
	logger   *logrus.Logger
	now      func() time.Time
	newID    func() string
}

// WithAuditLog 设置审计日志
func WithAuditLog(audit AuditLog) Option {
	return func(o *options) { o.audit = audit }
}

// WithNotifier 设置通知服务
func WithNotifier(notifier Notifier) Option {
	return func(o *options) { o.notifier = notifier }
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock 设置时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator 设置 ID 生成器
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func buildOptions(opts []Option) options {
	o := options{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.GetLogger()
	}
	return o
}

// Manager 检验单生命周期管理器
// 所有操作都是对已加载记录的同步内存变换,持久化由调用方负责
type Manager struct {
	catalog  TemplateCatalog
	registry EquipmentRegistry
	options
}

// NewManager 创建生命周期管理器
func NewManager(catalog TemplateCatalog, registry EquipmentRegistry, opts ...Option) *Manager {
	return &Manager{
		catalog:  catalog,
		registry: registry,
		options:  buildOptions(opts),
	}
}

// Today 当前日期
func (m *Manager) Today() time.Time {
	return DateOf(m.now())
}

// CheckDate 检验日期不能晚于今天
func (m *Manager) CheckDate(date time.Time) error {
	if DateOf(date).After(m.Today()) {
		return newError(CodeInvalidDate, "inspection date %s cannot be in the future", DateOf(date).Format("2006-01-02"))
	}
	return nil
}

// EnsureEditable 只有草稿和进行中的检验单可以修改
func (m *Manager) EnsureEditable(rec *Inspection) error {
	if !rec.State.Editable() {
		return newError(CodeInvalidTransition, "inspection %s is not editable in state %s", rec.Reference, rec.State)
	}
	return nil
}

// CreateParams 创建检验单参数
// Checklist 为 nil 表示未显式提供,将从模板目录生成
type CreateParams struct {
	Equipment   Equipment
	Type        InspectionType
	Date        time.Time
	InspectorID string
	CompanyID   string
	Reference   string
	Checklist   []ChecklistItem
	ActorID     string
}

// Create 创建草稿检验单
func (m *Manager) Create(ctx context.Context, params CreateParams) (*Inspection, error) {
	if params.Equipment.ID == "" {
		return nil, Validationf("equipment is required")
	}

	inspectionType := params.Type
	if inspectionType == "" {
		inspectionType = TypePeriodic
	}
	if !inspectionType.Valid() {
		return nil, Validationf("unknown inspection type: %s", inspectionType)
	}

	date := params.Date
	if date.IsZero() {
		date = m.Today()
	}
	if err := m.CheckDate(date); err != nil {
		return nil, err
	}

	var checklist []ChecklistItem
	if params.Checklist != nil {
		checklist = make([]ChecklistItem, len(params.Checklist))
		copy(checklist, params.Checklist)
		for i := range checklist {
			if checklist[i].Status == "" {
				checklist[i].Status = StatusPass
			}
			if !checklist[i].Status.Valid() {
				return nil, Validationf("unknown checklist status: %s", checklist[i].Status)
			}
		}
		SortChecklist(checklist)
	} else if m.catalog != nil {
		templates, err := m.catalog.TemplatesFor(ctx, params.Equipment.Category)
		if err != nil {
			return nil, fmt.Errorf("failed to load checklist templates: %w", err)
		}
		checklist = Snapshot(templates)
	}
	if checklist == nil {
		checklist = []ChecklistItem{}
	}

	now := m.now()
	rec := &Inspection{
		ID:             m.newID(),
		Reference:      params.Reference,
		EquipmentID:    params.Equipment.ID,
		ClientID:       params.Equipment.ClientID,
		CompanyID:      params.CompanyID,
		InspectorID:    params.InspectorID,
		Type:           inspectionType,
		InspectionDate: DateOf(date),
		Checklist:      checklist,
		State:          StateDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := m.appendAudit(ctx, rec.ID, params.ActorID, "Inspection created."); err != nil {
		return nil, err
	}
	return rec, nil
}

// Start 开始检验: draft -> in_progress
func (m *Manager) Start(ctx context.Context, rec *Inspection, actorID string) error {
	if rec.State != StateDraft {
		return invalidInspectionTransition(rec.State, StateInProgress)
	}
	return m.transition(ctx, rec, StateInProgress, actorID, "Inspection started.")
}

// Complete 完成检验
// 草稿可以直接完成,已完成/已发送/已取消的检验单不能再次完成
func (m *Manager) Complete(ctx context.Context, rec *Inspection, actorID string) error {
	if !rec.State.CanTransitionTo(StateCompleted) {
		return invalidInspectionTransition(rec.State, StateCompleted)
	}
	if rec.Result == ResultUnset {
		return ErrMissingResult
	}
	if !rec.HasSignature() {
		return ErrMissingSignature
	}

	if m.registry != nil {
		if err := m.registry.RecordInspection(ctx, rec.EquipmentID, rec.InspectionDate); err != nil {
			return fmt.Errorf("failed to update equipment: %w", err)
		}
	}

	return m.transition(ctx, rec, StateCompleted, actorID, fmt.Sprintf("Inspection completed with result %s.", rec.Result))
}

// SendToClient 发送给客户: completed -> sent
func (m *Manager) SendToClient(ctx context.Context, rec *Inspection, actorID string) error {
	if rec.State != StateCompleted {
		return invalidInspectionTransition(rec.State, StateSent)
	}
	if err := m.transition(ctx, rec, StateSent, actorID, "Inspection marked as sent to client."); err != nil {
		return err
	}

	m.notify(ctx, rec.ClientID, TemplateInspectionSent, map[string]interface{}{
		"inspection_id":   rec.ID,
		"reference":       rec.Reference,
		"equipment_id":    rec.EquipmentID,
		"inspection_date": rec.InspectionDate.Format("2006-01-02"),
		"overall_result":  string(rec.Result),
		"report_filename": ReportFilename(rec.Reference),
	})
	return nil
}

// Cancel 取消检验
func (m *Manager) Cancel(ctx context.Context, rec *Inspection, actorID string) error {
	if !rec.State.CanTransitionTo(StateCancelled) {
		return invalidInspectionTransition(rec.State, StateCancelled)
	}
	return m.transition(ctx, rec, StateCancelled, actorID, "Inspection cancelled.")
}

// ResetToDraft 重置为草稿,不清除任何数据
func (m *Manager) ResetToDraft(ctx context.Context, rec *Inspection, actorID string) error {
	return m.transition(ctx, rec, StateDraft, actorID, "Reset to draft.")
}

// transition 先写审计再修改状态,审计失败时记录保持原状
func (m *Manager) transition(ctx context.Context, rec *Inspection, to InspectionState, actorID string, message string) error {
	if err := m.appendAudit(ctx, rec.ID, actorID, message); err != nil {
		return err
	}
	rec.State = to
	rec.UpdatedAt = m.now()
	return nil
}

func (m *Manager) appendAudit(ctx context.Context, entityID string, actorID string, message string) error {
	return appendAudit(ctx, m.audit, entityID, actorID, message)
}

func (m *Manager) notify(ctx context.Context, recipient string, template string, data map[string]interface{}) {
	notify(ctx, m.notifier, m.logger, recipient, template, data)
}

func appendAudit(ctx context.Context, audit AuditLog, entityID string, actorID string, message string) error {
	if audit == nil {
		return nil
	}
	if err := audit.Append(ctx, entityID, actorID, message); err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}
	return nil
}

func notify(ctx context.Context, notifier Notifier, logger *logrus.Logger, recipient string, template string, data map[string]interface{}) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, recipient, template, data); err != nil {
		logger.WithFields(logrus.Fields{
			"recipient": recipient,
			"template":  template,
		}).WithError(err).Warn("notification failed")
	}
}
