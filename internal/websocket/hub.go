package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ecis/inspection-gin/internal/logging"
	"github.com/sirupsen/logrus"
)

// Topic 事件主题,客户端可按主题订阅
type Topic interface {
	Topic() string
}

// Message 推送给客户端的消息
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	At   time.Time   `json:"at"`
}

type envelope struct {
	topic   string
	payload []byte
}

// Hub 管理所有 WebSocket 连接
type Hub struct {
	// 已注册的客户端
	clients map[*Client]bool

	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	stopOnce   sync.Once

	// 互斥锁，保护 clients map
	mu     sync.RWMutex
	logger *logrus.Logger
}

// NewHub 创建新的 Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		logger:     logging.GetLogger(),
	}
}

// Run 运行 Hub,直到 Stop 被调用
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if !client.Subscribed(msg.topic) {
					continue
				}
				select {
				case client.Send <- msg.payload:
				default:
					// 客户端消费过慢,断开
					h.remove(client)
				}
			}
			h.mu.Unlock()

		case <-h.stop:
			h.mu.Lock()
			for client := range h.clients {
				h.remove(client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// remove 调用方持有写锁
func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
}

// Register 注册客户端
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.stop:
		close(client.Send)
	}
}

// Subscribe 注册一个没有 WebSocket 连接的订阅者（SSE 使用）
// 调用方读取 Send 直到关闭,结束时调用 Unregister
func (h *Hub) Subscribe(id string, userID string, topics ...string) *Client {
	client := NewClient(id, userID, h, nil, topics...)
	h.Register(client)
	return client
}

// Unregister 注销客户端
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}

// Publish 广播事件,不阻塞调用方
func (h *Hub) Publish(event interface{}) {
	topic := ""
	if t, ok := event.(Topic); ok {
		topic = t.Topic()
	}

	payload, err := json.Marshal(Message{Type: "transition", Data: event, At: time.Now()})
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal websocket event")
		return
	}

	select {
	case h.broadcast <- envelope{topic: topic, payload: payload}:
	default:
		h.logger.WithField("topic", topic).Warn("Websocket broadcast queue full, event dropped")
	}
}

// Stop 停止 Hub 并断开所有客户端
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
}

// HasClient 检查客户端是否存在
func (h *Hub) HasClient(clientID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.ID == clientID {
			return true
		}
	}
	return false
}

// GetClientCount 获取客户端数量
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
