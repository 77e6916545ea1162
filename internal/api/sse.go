package api

import (
	"fmt"
	"io"
	"time"

	"github.com/ecis/inspection-gin/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sseHeartbeat = 30 * time.Second

// SSEHandler 以 Server-Sent Events 推送状态变更事件
// 供无法使用 WebSocket 的客户端使用,topic 参数与 WebSocket 一致
func SSEHandler(hub *websocket.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := hub.Subscribe(uuid.New().String(), c.GetString("user_id"), c.QueryArray("topic")...)
		defer hub.Unregister(client)

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no") // 禁用 Nginx 缓冲

		if err := writeSSE(c.Writer, "connected", []byte(fmt.Sprintf(`{"client_id":%q}`, client.ID))); err != nil {
			return
		}
		c.Writer.Flush()

		ticker := time.NewTicker(sseHeartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-c.Request.Context().Done():
				return
			case message, ok := <-client.Send:
				if !ok {
					return
				}
				if err := writeSSE(c.Writer, "transition", message); err != nil {
					return
				}
				c.Writer.Flush()
			case <-ticker.C:
				if _, err := io.WriteString(c.Writer, ": heartbeat\n\n"); err != nil {
					return
				}
				c.Writer.Flush()
			}
		}
	}
}

// writeSSE 写入一条 SSE 消息
func writeSSE(w io.Writer, event string, data []byte) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
