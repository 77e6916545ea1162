package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecis/inspection-gin/internal/model"
	"github.com/ecis/inspection-gin/internal/repository"
	"github.com/google/uuid"
)

// 审计资源类型
const (
	ResourceInspection    = "inspection"
	ResourceQuoteRequest  = "quote_request"
	ResourceEquipment     = "equipment"
	ResourcePartner       = "partner"
	ResourceTemplate      = "checklist_template"
	ResourceChecklistItem = "checklist_item"
)

// SystemActor 没有认证用户时的操作人
const SystemActor = "system"

// AuditLogService 审计日志服务
type AuditLogService interface {
	RecordAction(ctx context.Context, userID string, action string, resourceType string, resourceID string, details interface{}) error
	RecordMessage(ctx context.Context, userID string, action string, resourceType string, resourceID string, message string) error
	FindByResource(resourceType string, resourceID string) ([]*model.AuditLogModel, error)
}

// auditLogService 审计日志服务实现
type auditLogService struct {
	auditRepo repository.AuditLogRepository
}

// NewAuditLogService 创建审计日志服务
func NewAuditLogService(auditRepo repository.AuditLogRepository) AuditLogService {
	return &auditLogService{
		auditRepo: auditRepo,
	}
}

// RecordAction 记录操作审计日志
func (s *auditLogService) RecordAction(
	ctx context.Context,
	userID string,
	action string,
	resourceType string,
	resourceID string,
	details interface{},
) error {
	return s.record(ctx, userID, action, resourceType, resourceID, "", details)
}

// RecordMessage 记录一条文字审计日志
func (s *auditLogService) RecordMessage(
	ctx context.Context,
	userID string,
	action string,
	resourceType string,
	resourceID string,
	message string,
) error {
	return s.record(ctx, userID, action, resourceType, resourceID, message, nil)
}

func (s *auditLogService) record(
	ctx context.Context,
	userID string,
	action string,
	resourceType string,
	resourceID string,
	message string,
	details interface{},
) error {
	var detailsJSON []byte
	if details != nil {
		var err error
		if detailsJSON, err = json.Marshal(details); err != nil {
			return fmt.Errorf("failed to marshal audit details: %w", err)
		}
	}
	if userID == "" {
		userID = SystemActor
	}

	auditLog := &model.AuditLogModel{
		ID:           uuid.New().String(),
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Message:      message,
		RequestID:    GetRequestID(ctx),
		IP:           GetClientIP(ctx),
		UserAgent:    GetUserAgent(ctx),
		Details:      detailsJSON,
		CreatedAt:    time.Now(),
	}
	if err := auditLog.Validate(); err != nil {
		return err
	}

	return s.auditRepo.Save(auditLog)
}

// FindByResource 查询资源的审计日志,按时间升序
func (s *auditLogService) FindByResource(resourceType string, resourceID string) ([]*model.AuditLogModel, error) {
	return s.auditRepo.FindByResource(resourceType, resourceID)
}

// auditTrail 把生命周期审计消息写入审计日志
// 实现 lifecycle.AuditLog 接口
type auditTrail struct {
	svc          AuditLogService
	action       string
	resourceType string
}

func newAuditTrail(repo repository.AuditLogRepository, resourceType string, action string) *auditTrail {
	return &auditTrail{
		svc:          NewAuditLogService(repo),
		action:       action,
		resourceType: resourceType,
	}
}

// Append 追加审计消息
func (a *auditTrail) Append(ctx context.Context, entityID string, actorID string, message string) error {
	return a.svc.RecordMessage(ctx, actorID, a.action, a.resourceType, entityID, message)
}

// GetRequestID 从 context 获取请求 ID
func GetRequestID(ctx context.Context) string {
	return stringFromContext(ctx, "request_id")
}

// GetClientIP 从 context 获取客户端 IP
func GetClientIP(ctx context.Context) string {
	return stringFromContext(ctx, "ip")
}

// GetUserAgent 从 context 获取 User Agent
func GetUserAgent(ctx context.Context) string {
	return stringFromContext(ctx, "user_agent")
}

// getUserIDFromContext 从 context 获取用户 ID（由认证中间件设置）
func getUserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, "user_id")
}

// actorFromContext 当前操作人,未认证时为 system
func actorFromContext(ctx context.Context) string {
	if userID := getUserIDFromContext(ctx); userID != "" {
		return userID
	}
	return SystemActor
}

func stringFromContext(ctx context.Context, key string) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(key).(string); ok {
		return value
	}
	return ""
}
