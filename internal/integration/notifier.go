package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ecis/inspection-gin/internal/config"
	"github.com/ecis/inspection-gin/internal/logging"
	"github.com/ecis/inspection-gin/internal/metrics"
	"github.com/ecis/inspection-gin/internal/model"
	"github.com/ecis/inspection-gin/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Payload Webhook 推送内容
type Payload struct {
	ID        string                 `json:"id"`
	Recipient string                 `json:"recipient"`
	Template  string                 `json:"template"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt time.Time              `json:"created_at"`
}

// NotifierOption 通知器选项
type NotifierOption func(*WebhookNotifier)

// WithHTTPClient 设置 HTTP 客户端
func WithHTTPClient(client *http.Client) NotifierOption {
	return func(n *WebhookNotifier) { n.httpClient = client }
}

// WithBackoff 设置首次重试等待时间
func WithBackoff(backoff time.Duration) NotifierOption {
	return func(n *WebhookNotifier) { n.backoff = backoff }
}

// WebhookNotifier 基于数据库的通知器
// 实现 lifecycle.Notifier 接口: 事件先落库,再由 worker 异步推送到 Webhook
type WebhookNotifier struct {
	eventRepo  repository.EventRepository
	httpClient *http.Client
	queue      chan *model.EventModel
	workers    int
	maxRetries int
	backoff    time.Duration
	logger     *logrus.Logger

	mu       sync.RWMutex
	webhooks []string

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewNotifier 创建通知器并启动 worker
func NewNotifier(eventRepo repository.EventRepository, cfg config.NotificationConfig, opts ...NotifierOption) *WebhookNotifier {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	n := &WebhookNotifier{
		eventRepo:  eventRepo,
		httpClient: &http.Client{Timeout: timeout},
		queue:      make(chan *model.EventModel, queueSize),
		workers:    workers,
		maxRetries: maxRetries,
		backoff:    time.Second,
		logger:     logging.GetLogger(),
		webhooks:   append([]string(nil), cfg.Webhooks...),
		stop:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}

	for i := 0; i < n.workers; i++ {
		n.wg.Add(1)
		go n.worker()
	}
	return n
}

// SetWebhooks 替换 Webhook 地址（配置热更新）
func (n *WebhookNotifier) SetWebhooks(webhooks []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.webhooks = append([]string(nil), webhooks...)
}

func (n *WebhookNotifier) currentWebhooks() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.webhooks
}

// Notify 持久化通知事件并入队
func (n *WebhookNotifier) Notify(_ context.Context, recipient string, template string, data map[string]interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal notification data: %w", err)
	}

	now := time.Now()
	evt := &model.EventModel{
		ID:        uuid.New().String(),
		Recipient: recipient,
		Template:  template,
		Data:      payload,
		Status:    model.EventStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := n.eventRepo.Save(evt); err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}

	select {
	case n.queue <- evt:
	default:
		// 队列满时不阻塞调用方,事件保持 pending
		n.logger.WithFields(logrus.Fields{
			"event_id": evt.ID,
			"template": template,
		}).Warn("Notification queue full, event left pending")
	}
	return nil
}

// ResumePending 重新入队上次未推送完成的事件,返回入队条数
func (n *WebhookNotifier) ResumePending(limit int) (int, error) {
	events, err := n.eventRepo.FindPending(limit)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending events: %w", err)
	}
	queued := 0
	for _, evt := range events {
		select {
		case n.queue <- evt:
			queued++
		default:
			return queued, nil
		}
	}
	return queued, nil
}

// worker 事件推送 worker
func (n *WebhookNotifier) worker() {
	defer n.wg.Done()
	for {
		select {
		case evt := <-n.queue:
			n.deliver(evt)
		case <-n.stop:
			return
		}
	}
}

// deliver 推送到所有 Webhook,失败时指数退避重试
func (n *WebhookNotifier) deliver(evt *model.EventModel) {
	webhooks := n.currentWebhooks()
	if len(webhooks) == 0 {
		// 没有 Webhook 配置,无需推送
		n.finish(evt, model.EventStatusSuccess, "")
		return
	}

	body, err := n.payload(evt)
	if err != nil {
		n.finish(evt, model.EventStatusFailed, err.Error())
		return
	}

	// 只重试尚未成功的 Webhook
	pending := append([]string(nil), webhooks...)
	backoff := n.backoff
	var lastErr error
	for i := 0; i < n.maxRetries; i++ {
		lastErr = nil
		failed := pending[:0]
		for _, url := range pending {
			if err := n.send(url, body); err != nil {
				lastErr = err
				failed = append(failed, url)
				n.logger.WithFields(logrus.Fields{
					"event_id": evt.ID,
					"webhook":  url,
					"attempt":  i + 1,
				}).WithError(err).Warn("Webhook delivery failed")
			}
		}
		pending = failed
		if len(pending) == 0 {
			n.finish(evt, model.EventStatusSuccess, "")
			return
		}

		evt.RetryCount++
		if i < n.maxRetries-1 {
			select {
			case <-time.After(backoff):
			case <-n.stop:
				n.finish(evt, model.EventStatusPending, lastErr.Error())
				return
			}
			backoff *= 2
		}
	}

	n.finish(evt, model.EventStatusFailed, lastErr.Error())
}

func (n *WebhookNotifier) payload(evt *model.EventModel) ([]byte, error) {
	var data map[string]interface{}
	if err := json.Unmarshal(evt.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event data: %w", err)
	}
	return json.Marshal(Payload{
		ID:        evt.ID,
		Recipient: evt.Recipient,
		Template:  evt.Template,
		Data:      data,
		CreatedAt: evt.CreatedAt,
	})
}

// send 发送单个 Webhook 请求
func (n *WebhookNotifier) send(url string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status code: %d", resp.StatusCode)
	}
	return nil
}

func (n *WebhookNotifier) finish(evt *model.EventModel, status string, lastError string) {
	evt.Status = status
	evt.LastError = lastError
	evt.UpdatedAt = time.Now()
	if err := n.eventRepo.Save(evt); err != nil {
		n.logger.WithField("event_id", evt.ID).WithError(err).Error("Failed to update event status")
	}
	metrics.RecordNotification(evt.Template, status)
}

// Stop 停止 worker 并等待当前推送结束
func (n *WebhookNotifier) Stop() {
	n.stopOnce.Do(func() {
		close(n.stop)
	})
	n.wg.Wait()
}
