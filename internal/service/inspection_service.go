package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ecis/inspection-gin/internal/integration"
	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/metrics"
	"github.com/ecis/inspection-gin/internal/model"
	"github.com/ecis/inspection-gin/internal/report"
	"github.com/ecis/inspection-gin/internal/repository"
)

// DefaultFrequencyMonths 设备未配置检验周期时的默认月数
const DefaultFrequencyMonths = 12

// InspectionService 检验单服务接口
type InspectionService interface {
	Create(ctx context.Context, req *CreateInspectionRequest) (*lifecycle.Inspection, error)
	Get(ctx context.Context, id string) (*lifecycle.Inspection, error)
	List(ctx context.Context, query *InspectionQuery) ([]*lifecycle.Inspection, error)
	Update(ctx context.Context, id string, req *UpdateInspectionRequest) (*lifecycle.Inspection, error)
	SetSignature(ctx context.Context, id string, req *SignatureRequest) (*lifecycle.Inspection, error)
	// 状态操作
	Start(ctx context.Context, id string) (*lifecycle.Inspection, error)
	Complete(ctx context.Context, id string) (*lifecycle.Inspection, error)
	SendToClient(ctx context.Context, id string) (*lifecycle.Inspection, error)
	Cancel(ctx context.Context, id string) (*lifecycle.Inspection, error)
	ResetToDraft(ctx context.Context, id string) (*lifecycle.Inspection, error)
	// 查询
	Stats(ctx context.Context, id string) (lifecycle.ChecklistStats, error)
	History(ctx context.Context, id string) (*InspectionHistory, error)
	Report(ctx context.Context, id string) (*report.Document, error)
	// 检查项
	Checklist(ctx context.Context, id string) ([]lifecycle.ChecklistItem, error)
	AddChecklistItem(ctx context.Context, id string, req *ChecklistItemInput) (*lifecycle.ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, itemID string, req *UpdateChecklistItemRequest) (*lifecycle.ChecklistItem, error)
	DeleteChecklistItem(ctx context.Context, itemID string) error
}

// CreateInspectionRequest 创建检验单请求
// @Description 创建检验单的请求参数,checklist 缺省时按设备类别从模板生成
type CreateInspectionRequest struct {
	EquipmentID             string               `json:"equipment_id" example:"eq-001" binding:"required"` // 设备 ID
	InspectionType          string               `json:"inspection_type" example:"periodic"`               // 检验类型
	InspectionDate          string               `json:"inspection_date" example:"2025-03-14"`             // 检验日期,缺省为今天
	InspectorID             string               `json:"inspector_id" example:"user-001"`                  // 检验员
	CompanyID               string               `json:"company_id"`
	DurationHours           float64              `json:"inspection_duration" example:"2.5"`
	WeatherConditions       string               `json:"weather_conditions"`
	OverallResult           string               `json:"overall_result" example:"approved"`
	DefectsFound            string               `json:"defects_found"`
	ImmediateActions        string               `json:"immediate_actions_required"`
	Recommendations         string               `json:"recommendations"`
	InspectorNotes          string               `json:"inspector_notes"`
	NextInspectionDue       string               `json:"next_inspection_due" example:"2026-03-09"`
	NextInspectionFrequency int                  `json:"next_inspection_frequency" example:"12"` // 月
	Checklist               []ChecklistItemInput `json:"checklist"`
}

// ChecklistItemInput 检查项参数
// @Description 检查项参数,status 缺省为 pass
type ChecklistItemInput struct {
	Sequence    int    `json:"sequence" example:"10"`
	Name        string `json:"name" example:"Hoist rope condition" binding:"required"`
	Requirement string `json:"requirement" example:"ISO 4309"`
	Status      string `json:"status" example:"pass"`
	Notes       string `json:"notes"`
}

// UpdateInspectionRequest 更新检验单请求
// @Description 只更新提供的字段,仅草稿和进行中的检验单可修改
type UpdateInspectionRequest struct {
	InspectionType          *string  `json:"inspection_type,omitempty"`
	InspectionDate          *string  `json:"inspection_date,omitempty"`
	InspectorID             *string  `json:"inspector_id,omitempty"`
	DurationHours           *float64 `json:"inspection_duration,omitempty"`
	WeatherConditions       *string  `json:"weather_conditions,omitempty"`
	OverallResult           *string  `json:"overall_result,omitempty"`
	DefectsFound            *string  `json:"defects_found,omitempty"`
	ImmediateActions        *string  `json:"immediate_actions_required,omitempty"`
	Recommendations         *string  `json:"recommendations,omitempty"`
	InspectorNotes          *string  `json:"inspector_notes,omitempty"`
	NextInspectionDue       *string  `json:"next_inspection_due,omitempty"`
	NextInspectionFrequency *int     `json:"next_inspection_frequency,omitempty"`
}

// SignatureRequest 签名请求
// @Description 签名为 base64 编码的图片,可带 data URL 前缀
type SignatureRequest struct {
	InspectorSignature   *string `json:"inspector_signature,omitempty"`
	ClientSignature      *string `json:"client_signature,omitempty"`
	ClientRepresentative *string `json:"client_representative,omitempty"`
}

// UpdateChecklistItemRequest 更新检查项请求
type UpdateChecklistItemRequest struct {
	Sequence    *int    `json:"sequence,omitempty"`
	Name        *string `json:"name,omitempty"`
	Requirement *string `json:"requirement,omitempty"`
	Status      *string `json:"status,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// InspectionQuery 检验单查询条件
type InspectionQuery struct {
	State       string `form:"state"`
	EquipmentID string `form:"equipment_id"`
	ClientID    string `form:"client_id"`
	DateFrom    string `form:"date_from"`
	DateTo      string `form:"date_to"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
}

// InspectionHistory 检验单历史
type InspectionHistory struct {
	Transitions []TransitionEntry `json:"transitions"`
	AuditLog    []AuditEntry      `json:"audit_log"`
}

// TransitionEntry 状态变更记录
type TransitionEntry struct {
	From   string    `json:"from"`
	To     string    `json:"to"`
	Actor  string    `json:"actor"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// AuditEntry 审计记录
type AuditEntry struct {
	Action  string    `json:"action"`
	Actor   string    `json:"actor"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type inspectionService struct {
	store     *repository.Store
	notifier  lifecycle.Notifier
	publisher Publisher
	renderer  report.Renderer
	now       func() time.Time
}

// NewInspectionService 创建检验单服务
// notifier、publisher 可为 nil
func NewInspectionService(store *repository.Store, notifier lifecycle.Notifier, publisher Publisher, renderer report.Renderer) InspectionService {
	if renderer == nil {
		renderer = report.NewPDFRenderer("")
	}
	return &inspectionService{
		store:     store,
		notifier:  notifier,
		publisher: publisher,
		renderer:  renderer,
		now:       time.Now,
	}
}

// inspectionManager 构建绑定到事务的生命周期管理器
func inspectionManager(tx *repository.Store, action string, pending *pendingNotifications, now func() time.Time) *lifecycle.Manager {
	return lifecycle.NewManager(
		integration.NewTemplateCatalog(tx.Templates),
		&equipmentRegistry{repo: tx.Equipment},
		lifecycle.WithAuditLog(newAuditTrail(tx.AuditLogs, ResourceInspection, action)),
		lifecycle.WithNotifier(pending),
		lifecycle.WithClock(now),
	)
}

// Create 创建检验单
func (s *inspectionService) Create(ctx context.Context, req *CreateInspectionRequest) (*lifecycle.Inspection, error) {
	if req == nil || req.EquipmentID == "" {
		return nil, lifecycle.Validationf("equipment_id is required")
	}

	actor := actorFromContext(ctx)
	pending := &pendingNotifications{}
	var rec *lifecycle.Inspection
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		eq, err := tx.Equipment.FindByID(req.EquipmentID)
		if err != nil {
			return notFound(err, "equipment %s not found", req.EquipmentID)
		}
		rec, err = createInspectionTx(ctx, tx, eq, req, actor, pending, s.now)
		return err
	})
	if err != nil {
		return nil, err
	}

	pending.flush(ctx, s.notifier)
	return rec, nil
}

// createInspectionTx 在事务中创建检验单、检查项和初始状态历史
func createInspectionTx(
	ctx context.Context,
	tx *repository.Store,
	eq *model.EquipmentModel,
	req *CreateInspectionRequest,
	actor string,
	pending *pendingNotifications,
	now func() time.Time,
) (*lifecycle.Inspection, error) {
	date, err := parseDate(req.InspectionDate)
	if err != nil {
		return nil, err
	}
	nextDue, err := parseDate(req.NextInspectionDue)
	if err != nil {
		return nil, err
	}
	result := lifecycle.OverallResult(req.OverallResult)
	if !result.Valid() {
		return nil, lifecycle.Validationf("unknown overall result: %s", req.OverallResult)
	}
	checklist, err := checklistFromInput(req.Checklist)
	if err != nil {
		return nil, err
	}

	reference, err := tx.Sequences.NextReference(repository.SeriesInspection, lifecycle.DateOf(now()).Year())
	if err != nil {
		return nil, fmt.Errorf("failed to allocate inspection reference: %w", err)
	}

	mgr := inspectionManager(tx, "create", pending, now)
	rec, err := mgr.Create(ctx, lifecycle.CreateParams{
		Equipment:   eq.ToDomain(),
		Type:        lifecycle.InspectionType(req.InspectionType),
		Date:        date,
		InspectorID: req.InspectorID,
		CompanyID:   req.CompanyID,
		Reference:   reference,
		Checklist:   checklist,
		ActorID:     actor,
	})
	if err != nil {
		return nil, err
	}

	rec.DurationHours = req.DurationHours
	rec.WeatherConditions = req.WeatherConditions
	rec.Result = result
	rec.DefectsFound = req.DefectsFound
	rec.ImmediateActions = req.ImmediateActions
	rec.Recommendations = req.Recommendations
	rec.InspectorNotes = req.InspectorNotes

	months := req.NextInspectionFrequency
	if months <= 0 {
		months = eq.PeriodicityMonths
	}
	if months <= 0 {
		months = DefaultFrequencyMonths
	}
	rec.NextDueFrequencyMonths = months
	if nextDue.IsZero() {
		rec.NextDueDate = lifecycle.NextDueDate(rec.InspectionDate, months)
	} else {
		d := lifecycle.DateOf(nextDue)
		rec.NextDueDate = &d
	}

	im := model.InspectionFromDomain(rec, actor)
	if err := im.Validate(); err != nil {
		return nil, lifecycle.Validationf("%s", err.Error())
	}
	if err := tx.Inspections.Save(im); err != nil {
		return nil, fmt.Errorf("failed to save inspection: %w", err)
	}

	items := model.ChecklistItemsFromDomain(rec.ID, rec.Checklist)
	if err := tx.ChecklistItems.Create(items); err != nil {
		return nil, fmt.Errorf("failed to save checklist: %w", err)
	}
	for i := range items {
		rec.Checklist[i] = items[i].ToDomain()
	}

	if err := recordHistory(tx, ResourceInspection, rec.ID, "", string(rec.State), actor, "create"); err != nil {
		return nil, err
	}

	metrics.RecordInspectionCreated(string(rec.Type))
	return rec, nil
}

// checklistFromInput 转换显式提供的检查项,nil 表示未提供
func checklistFromInput(inputs []ChecklistItemInput) ([]lifecycle.ChecklistItem, error) {
	if inputs == nil {
		return nil, nil
	}
	items := make([]lifecycle.ChecklistItem, 0, len(inputs))
	for _, input := range inputs {
		item, err := checklistItemFromInput(&input)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func checklistItemFromInput(input *ChecklistItemInput) (lifecycle.ChecklistItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return lifecycle.ChecklistItem{}, lifecycle.Validationf("checklist item name is required")
	}
	status := lifecycle.ChecklistStatus(input.Status)
	if status == "" {
		status = lifecycle.StatusPass
	}
	if !status.Valid() {
		return lifecycle.ChecklistItem{}, lifecycle.Validationf("unknown checklist status: %s", input.Status)
	}
	sequence := input.Sequence
	if sequence == 0 {
		sequence = lifecycle.DefaultSequence
	}
	return lifecycle.ChecklistItem{
		Sequence:    sequence,
		Name:        name,
		Requirement: input.Requirement,
		Status:      status,
		Notes:       input.Notes,
	}, nil
}

// loadInspection 加载检验单及其检查项
func loadInspection(tx *repository.Store, id string) (*model.InspectionModel, *lifecycle.Inspection, error) {
	im, err := tx.Inspections.FindByID(id)
	if err != nil {
		return nil, nil, notFound(err, "inspection %s not found", id)
	}
	items, err := tx.ChecklistItems.FindByInspectionID(id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load checklist: %w", err)
	}
	return im, im.ToDomain(items), nil
}

// saveInspection 保存检验单头,保留创建人
func saveInspection(tx *repository.Store, im *model.InspectionModel, rec *lifecycle.Inspection) error {
	updated := model.InspectionFromDomain(rec, im.CreatedBy)
	if err := updated.Validate(); err != nil {
		return lifecycle.Validationf("%s", err.Error())
	}
	if err := tx.Inspections.Save(updated); err != nil {
		return fmt.Errorf("failed to save inspection: %w", err)
	}
	return nil
}

// Get 获取检验单（含检查项）
func (s *inspectionService) Get(ctx context.Context, id string) (*lifecycle.Inspection, error) {
	_, rec, err := loadInspection(s.store.WithContext(ctx), id)
	return rec, err
}

// List 查询检验单（不含检查项）
func (s *inspectionService) List(ctx context.Context, query *InspectionQuery) ([]*lifecycle.Inspection, error) {
	filter := &repository.InspectionFilter{}
	if query != nil {
		if query.State != "" {
			if !lifecycle.InspectionState(query.State).Valid() {
				return nil, lifecycle.Validationf("unknown state: %s", query.State)
			}
			filter.State = &query.State
		}
		if query.EquipmentID != "" {
			filter.EquipmentID = &query.EquipmentID
		}
		if query.ClientID != "" {
			filter.ClientID = &query.ClientID
		}
		from, err := parseDate(query.DateFrom)
		if err != nil {
			return nil, err
		}
		if !from.IsZero() {
			filter.DateFrom = &from
		}
		to, err := parseDate(query.DateTo)
		if err != nil {
			return nil, err
		}
		if !to.IsZero() {
			filter.DateTo = &to
		}
		filter.Page = repository.Page{Limit: query.Limit, Offset: query.Offset}
	}

	models, err := s.store.WithContext(ctx).Inspections.FindByFilter(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}
	records := make([]*lifecycle.Inspection, 0, len(models))
	for _, im := range models {
		records = append(records, im.ToDomain(nil))
	}
	return records, nil
}

// Update 更新检验单字段
func (s *inspectionService) Update(ctx context.Context, id string, req *UpdateInspectionRequest) (*lifecycle.Inspection, error) {
	if req == nil {
		req = &UpdateInspectionRequest{}
	}
	actor := actorFromContext(ctx)

	var rec *lifecycle.Inspection
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		im, loaded, err := loadInspection(tx, id)
		if err != nil {
			return err
		}
		rec = loaded
		mgr := inspectionManager(tx, "update", &pendingNotifications{}, s.now)
		if err := mgr.EnsureEditable(rec); err != nil {
			return err
		}
		if err := s.applyUpdate(mgr, rec, req); err != nil {
			return err
		}
		rec.UpdatedAt = s.now()

		if err := saveInspection(tx, im, rec); err != nil {
			return err
		}
		return NewAuditLogService(tx.AuditLogs).RecordAction(ctx, actor, "update", ResourceInspection, rec.ID, req)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *inspectionService) applyUpdate(mgr *lifecycle.Manager, rec *lifecycle.Inspection, req *UpdateInspectionRequest) error {
	recompute := false

	if req.InspectionType != nil {
		t := lifecycle.InspectionType(*req.InspectionType)
		if !t.Valid() {
			return lifecycle.Validationf("unknown inspection type: %s", *req.InspectionType)
		}
		rec.Type = t
	}
	if req.InspectionDate != nil {
		date, err := parseDate(*req.InspectionDate)
		if err != nil {
			return err
		}
		if date.IsZero() {
			return lifecycle.Validationf("inspection_date cannot be empty")
		}
		if err := mgr.CheckDate(date); err != nil {
			return err
		}
		rec.InspectionDate = lifecycle.DateOf(date)
		recompute = true
	}
	if req.OverallResult != nil {
		result := lifecycle.OverallResult(*req.OverallResult)
		if !result.Valid() {
			return lifecycle.Validationf("unknown overall result: %s", *req.OverallResult)
		}
		rec.Result = result
	}
	if req.NextInspectionFrequency != nil {
		if *req.NextInspectionFrequency <= 0 {
			return lifecycle.Validationf("next_inspection_frequency must be positive")
		}
		rec.NextDueFrequencyMonths = *req.NextInspectionFrequency
		recompute = true
	}

	if req.InspectorID != nil {
		rec.InspectorID = *req.InspectorID
	}
	if req.DurationHours != nil {
		rec.DurationHours = *req.DurationHours
	}
	if req.WeatherConditions != nil {
		rec.WeatherConditions = *req.WeatherConditions
	}
	if req.DefectsFound != nil {
		rec.DefectsFound = *req.DefectsFound
	}
	if req.ImmediateActions != nil {
		rec.ImmediateActions = *req.ImmediateActions
	}
	if req.Recommendations != nil {
		rec.Recommendations = *req.Recommendations
	}
	if req.InspectorNotes != nil {
		rec.InspectorNotes = *req.InspectorNotes
	}

	// 显式指定的下次检验日期优先于按周期推算
	if req.NextInspectionDue != nil {
		due, err := parseDate(*req.NextInspectionDue)
		if err != nil {
			return err
		}
		if due.IsZero() {
			rec.NextDueDate = nil
		} else {
			d := lifecycle.DateOf(due)
			rec.NextDueDate = &d
		}
	} else if recompute {
		rec.NextDueDate = lifecycle.NextDueDate(rec.InspectionDate, rec.NextDueFrequencyMonths)
	}
	return nil
}

// SetSignature 设置签名
func (s *inspectionService) SetSignature(ctx context.Context, id string, req *SignatureRequest) (*lifecycle.Inspection, error) {
	if req == nil || (req.InspectorSignature == nil && req.ClientSignature == nil && req.ClientRepresentative == nil) {
		return nil, lifecycle.Validationf("no signature provided")
	}
	var inspectorSig, clientSig []byte
	var err error
	if req.InspectorSignature != nil {
		if inspectorSig, err = decodeSignature(*req.InspectorSignature); err != nil {
			return nil, err
		}
	}
	if req.ClientSignature != nil {
		if clientSig, err = decodeSignature(*req.ClientSignature); err != nil {
			return nil, err
		}
	}

	actor := actorFromContext(ctx)
	var rec *lifecycle.Inspection
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		im, loaded, err := loadInspection(tx, id)
		if err != nil {
			return err
		}
		rec = loaded
		if err := inspectionManager(tx, "sign", &pendingNotifications{}, s.now).EnsureEditable(rec); err != nil {
			return err
		}

		signed := make([]string, 0, 2)
		if req.InspectorSignature != nil {
			rec.InspectorSignature = inspectorSig
			signed = append(signed, "inspector")
		}
		if req.ClientSignature != nil {
			rec.ClientSignature = clientSig
			signed = append(signed, "client")
		}
		if req.ClientRepresentative != nil {
			rec.ClientRepresentative = *req.ClientRepresentative
		}
		rec.UpdatedAt = s.now()

		if err := saveInspection(tx, im, rec); err != nil {
			return err
		}
		return NewAuditLogService(tx.AuditLogs).RecordAction(ctx, actor, "sign", ResourceInspection, rec.ID, map[string]interface{}{
			"signed": signed,
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// decodeSignature 解码 base64 签名,空串表示清除签名
func decodeSignature(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if strings.HasPrefix(value, "data:") {
		if idx := strings.Index(value, ","); idx >= 0 {
			value = value[idx+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, lifecycle.Validationf("signature must be base64 encoded")
	}
	return data, nil
}

type transitionFunc func(ctx context.Context, mgr *lifecycle.Manager, rec *lifecycle.Inspection, actor string) error

// Start 开始检验
func (s *inspectionService) Start(ctx context.Context, id string) (*lifecycle.Inspection, error) {
	return s.transition(ctx, id, "start", func(ctx context.Context, mgr *lifecycle.Manager, rec *lifecycle.Inspection, actor string) error {
		return mgr.Start(ctx, rec, actor)
	})
}

// Complete 完成检验,同时写入设备最近检验日期
func (s *inspectionService) Complete(ctx context.Context, id string) (*lifecycle.Inspection, error) {
	return s.transition(ctx, id, "complete", func(ctx context.Context, mgr *lifecycle.Manager, rec *lifecycle.Inspection, actor string) error {
		return mgr.Complete(ctx, rec, actor)
	})
}

// SendToClient 发送给客户
func (s *inspectionService) SendToClient(ctx context.Context, id string) (*lifecycle.Inspection, error) {
	return s.transition(ctx, id, "send", func(ctx context.Context, mgr *lifecycle.Manager, rec *lifecycle.Inspection, actor string) error {
		return mgr.SendToClient(ctx, rec, actor)
	})
}

// Cancel 取消检验
func (s *inspectionService) Cancel(ctx context.Context, id string) (*lifecycle.Inspection, error) {
	return s.transition(ctx, id, "cancel", func(ctx context.Context, mgr *lifecycle.Manager, rec *lifecycle.Inspection, actor string) error {
		return mgr.Cancel(ctx, rec, actor)
	})
}

// ResetToDraft 重置为草稿
func (s *inspectionService) ResetToDraft(ctx context.Context, id string) (*lifecycle.Inspection, error) {
	return s.transition(ctx, id, "reset", func(ctx context.Context, mgr *lifecycle.Manager, rec *lifecycle.Inspection, actor string) error {
		return mgr.ResetToDraft(ctx, rec, actor)
	})
}

// transition 在一个事务中加载、流转、保存并记录历史
// 通知在提交后发送
func (s *inspectionService) transition(ctx context.Context, id string, action string, apply transitionFunc) (*lifecycle.Inspection, error) {
	actor := actorFromContext(ctx)
	pending := &pendingNotifications{}

	var rec *lifecycle.Inspection
	var from lifecycle.InspectionState
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		im, loaded, err := loadInspection(tx, id)
		if err != nil {
			return err
		}
		rec = loaded
		from = rec.State

		if err := apply(ctx, inspectionManager(tx, action, pending, s.now), rec, actor); err != nil {
			return err
		}
		if err := saveInspection(tx, im, rec); err != nil {
			return err
		}
		return recordHistory(tx, ResourceInspection, rec.ID, string(from), string(rec.State), actor, action)
	})
	if err != nil {
		return nil, err
	}

	pending.flush(ctx, s.notifier)
	if from != rec.State {
		metrics.RecordTransition(ResourceInspection, string(rec.State))
		if s.publisher != nil {
			s.publisher.Publish(TransitionEvent{
				EntityType: ResourceInspection,
				EntityID:   rec.ID,
				Reference:  rec.Reference,
				From:       string(from),
				To:         string(rec.State),
				Actor:      actor,
				At:         rec.UpdatedAt,
			})
		}
	}
	return rec, nil
}

// Stats 检查项统计
func (s *inspectionService) Stats(ctx context.Context, id string) (lifecycle.ChecklistStats, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return lifecycle.ChecklistStats{}, err
	}
	return rec.Stats(), nil
}

// History 状态历史和审计记录
func (s *inspectionService) History(ctx context.Context, id string) (*InspectionHistory, error) {
	store := s.store.WithContext(ctx)
	if _, err := store.Inspections.FindByID(id); err != nil {
		return nil, notFound(err, "inspection %s not found", id)
	}

	transitions, err := store.StateHistory.FindByEntity(ResourceInspection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load state history: %w", err)
	}
	logs, err := store.AuditLogs.FindByResource(ResourceInspection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit log: %w", err)
	}

	history := &InspectionHistory{
		Transitions: make([]TransitionEntry, 0, len(transitions)),
		AuditLog:    make([]AuditEntry, 0, len(logs)),
	}
	for _, h := range transitions {
		history.Transitions = append(history.Transitions, TransitionEntry{
			From:   h.FromState,
			To:     h.ToState,
			Actor:  h.Operator,
			Reason: h.Reason,
			At:     h.CreatedAt,
		})
	}
	for _, l := range logs {
		history.AuditLog = append(history.AuditLog, AuditEntry{
			Action:  l.Action,
			Actor:   l.UserID,
			Message: l.Message,
			At:      l.CreatedAt,
		})
	}
	return history, nil
}

// Report 生成检验报告 PDF
func (s *inspectionService) Report(ctx context.Context, id string) (*report.Document, error) {
	store := s.store.WithContext(ctx)
	_, rec, err := loadInspection(store, id)
	if err != nil {
		return nil, err
	}

	data := &report.Data{Inspection: rec, GeneratedAt: s.now()}
	if eq, err := store.Equipment.FindByID(rec.EquipmentID); err == nil {
		data.Equipment = report.EquipmentInfo{
			Name:            eq.Name,
			Category:        lifecycle.EquipmentCategory(eq.Category),
			Brand:           eq.Brand,
			Model:           eq.Model,
			SerialNumber:    eq.SerialNumber,
			ManufactureYear: eq.ManufactureYear,
			Capacity:        eq.Capacity,
			Location:        eq.Location,
		}
	}
	if rec.ClientID != "" {
		if client, err := store.Partners.FindByID(rec.ClientID); err == nil {
			data.ClientName = client.Name
		}
	}

	started := time.Now()
	content, err := s.renderer.Render(data)
	if err != nil {
		return nil, err
	}
	metrics.ObserveReportRender(time.Since(started).Seconds())

	return &report.Document{
		Filename: lifecycle.ReportFilename(rec.Reference),
		Content:  content,
	}, nil
}

// Checklist 检验单的检查项
func (s *inspectionService) Checklist(ctx context.Context, id string) ([]lifecycle.ChecklistItem, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.Checklist, nil
}

// AddChecklistItem 添加检查项
func (s *inspectionService) AddChecklistItem(ctx context.Context, id string, req *ChecklistItemInput) (*lifecycle.ChecklistItem, error) {
	if req == nil {
		return nil, lifecycle.Validationf("checklist item is required")
	}
	item, err := checklistItemFromInput(req)
	if err != nil {
		return nil, err
	}

	actor := actorFromContext(ctx)
	var created lifecycle.ChecklistItem
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		_, rec, err := loadInspection(tx, id)
		if err != nil {
			return err
		}
		if err := inspectionManager(tx, "checklist", &pendingNotifications{}, s.now).EnsureEditable(rec); err != nil {
			return err
		}

		models := model.ChecklistItemsFromDomain(rec.ID, []lifecycle.ChecklistItem{item})
		if err := tx.ChecklistItems.Create(models); err != nil {
			return fmt.Errorf("failed to save checklist item: %w", err)
		}
		created = models[0].ToDomain()
		return NewAuditLogService(tx.AuditLogs).RecordAction(ctx, actor, "checklist_add", ResourceInspection, rec.ID, map[string]interface{}{
			"item_id": created.ID,
			"name":    created.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateChecklistItem 更新检查项
func (s *inspectionService) UpdateChecklistItem(ctx context.Context, itemID string, req *UpdateChecklistItemRequest) (*lifecycle.ChecklistItem, error) {
	if req == nil {
		req = &UpdateChecklistItemRequest{}
	}
	actor := actorFromContext(ctx)

	var updated lifecycle.ChecklistItem
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		item, rec, err := loadChecklistItem(tx, itemID)
		if err != nil {
			return err
		}
		if err := inspectionManager(tx, "checklist", &pendingNotifications{}, s.now).EnsureEditable(rec); err != nil {
			return err
		}

		if req.Sequence != nil {
			item.Sequence = *req.Sequence
		}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return lifecycle.Validationf("checklist item name is required")
			}
			item.Name = name
		}
		if req.Requirement != nil {
			item.Requirement = *req.Requirement
		}
		if req.Status != nil {
			status := lifecycle.ChecklistStatus(*req.Status)
			if !status.Valid() {
				return lifecycle.Validationf("unknown checklist status: %s", *req.Status)
			}
			item.Status = string(status)
		}
		if req.Notes != nil {
			item.Notes = *req.Notes
		}

		if err := tx.ChecklistItems.Save(item); err != nil {
			return fmt.Errorf("failed to save checklist item: %w", err)
		}
		updated = item.ToDomain()
		return NewAuditLogService(tx.AuditLogs).RecordAction(ctx, actor, "checklist_update", ResourceInspection, rec.ID, req)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteChecklistItem 删除检查项
func (s *inspectionService) DeleteChecklistItem(ctx context.Context, itemID string) error {
	actor := actorFromContext(ctx)
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		item, rec, err := loadChecklistItem(tx, itemID)
		if err != nil {
			return err
		}
		if err := inspectionManager(tx, "checklist", &pendingNotifications{}, s.now).EnsureEditable(rec); err != nil {
			return err
		}
		if err := tx.ChecklistItems.Delete(item.ID); err != nil {
			return notFound(err, "checklist item %s not found", itemID)
		}
		return NewAuditLogService(tx.AuditLogs).RecordAction(ctx, actor, "checklist_delete", ResourceInspection, rec.ID, map[string]interface{}{
			"item_id": itemID,
			"name":    item.Name,
		})
	})
}

// loadChecklistItem 加载检查项及所属检验单
func loadChecklistItem(tx *repository.Store, itemID string) (*model.ChecklistItemModel, *lifecycle.Inspection, error) {
	id, err := strconv.ParseUint(itemID, 10, 64)
	if err != nil {
		return nil, nil, lifecycle.NotFoundf("checklist item %s not found", itemID)
	}
	item, err := tx.ChecklistItems.FindByID(uint(id))
	if err != nil {
		return nil, nil, notFound(err, "checklist item %s not found", itemID)
	}
	_, rec, err := loadInspection(tx, item.InspectionID)
	if err != nil {
		return nil, nil, err
	}
	return item, rec, nil
}
