package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/logging"
	"github.com/ecis/inspection-gin/internal/model"
	"github.com/ecis/inspection-gin/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Publisher 状态变更事件发布（WebSocket 推送）
type Publisher interface {
	Publish(event interface{})
}

// TransitionEvent 状态变更事件
type TransitionEvent struct {
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Reference  string    `json:"reference"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Actor      string    `json:"actor"`
	At         time.Time `json:"at"`
}

// Topic 事件主题,即实体类型
func (e TransitionEvent) Topic() string {
	return e.EntityType
}

// notFound 把 gorm.ErrRecordNotFound 转换为领域 NotFound 错误
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return lifecycle.NotFoundf(format, args...)
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// pendingNotifications 事务内暂存通知,提交后再发送
// 事务回滚时丢弃,避免通知一个并不存在的变更
type pendingNotifications struct {
	mu    sync.Mutex
	items []pendingNotification
}

type pendingNotification struct {
	recipient string
	template  string
	data      map[string]interface{}
}

// Notify 暂存通知
func (p *pendingNotifications) Notify(_ context.Context, recipient string, template string, data map[string]interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, pendingNotification{recipient: recipient, template: template, data: data})
	return nil
}

// flush 发送暂存的通知,失败只记录日志
func (p *pendingNotifications) flush(ctx context.Context, notifier lifecycle.Notifier) {
	p.mu.Lock()
	items := p.items
	p.items = nil
	p.mu.Unlock()

	if notifier == nil {
		return
	}
	for _, item := range items {
		if err := notifier.Notify(ctx, item.recipient, item.template, item.data); err != nil {
			logging.GetLogger().WithError(err).
				WithField("template", item.template).
				Warn("Failed to send notification")
		}
	}
}

// equipmentRegistry 设备登记簿
// 实现 lifecycle.EquipmentRegistry 接口
type equipmentRegistry struct {
	repo repository.EquipmentRepository
}

// RecordInspection 写入设备最近检验日期
func (r *equipmentRegistry) RecordInspection(_ context.Context, equipmentID string, date time.Time) error {
	if err := r.repo.UpdateLastInspection(equipmentID, date); err != nil {
		return notFound(err, "equipment %s not found", equipmentID)
	}
	return nil
}

// recordHistory 写入状态变更历史,状态未变化时跳过
func recordHistory(tx *repository.Store, entityType string, entityID string, from string, to string, actor string, reason string) error {
	if from == to {
		return nil
	}
	history := &model.StateHistoryModel{
		ID:         uuid.New().String(),
		EntityType: entityType,
		EntityID:   entityID,
		FromState:  from,
		ToState:    to,
		Reason:     reason,
		Operator:   actor,
		CreatedAt:  time.Now(),
	}
	if err := history.Validate(); err != nil {
		return err
	}
	if err := tx.StateHistory.Save(history); err != nil {
		return fmt.Errorf("failed to save state history: %w", err)
	}
	return nil
}

// parseDate 解析 YYYY-MM-DD 日期,空串返回零值
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, lifecycle.Validationf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return date, nil
}
