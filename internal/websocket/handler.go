package websocket

import (
	"net/http"
	"strings"

	"github.com/ecis/inspection-gin/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorillaWS "github.com/gorilla/websocket"
)

func newUpgrader(allowedOrigins []string) gorillaWS.Upgrader {
	return gorillaWS.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// Handler WebSocket 处理器
// 浏览器无法设置请求头,凭证也可以放在 token 查询参数中;topic 参数可重复,用于过滤事件
// authenticator 为 nil 时不认证
func Handler(hub *Hub, authenticator auth.Authenticator, allowedOrigins []string) gin.HandlerFunc {
	upgrader := newUpgrader(allowedOrigins)
	return func(c *gin.Context) {
		userID := "anonymous"
		if authenticator != nil {
			credential := c.Query("token")
			if credential == "" {
				credential = auth.ExtractCredential(c)
			}
			principal, err := authenticator.Authenticate(c.Request.Context(), credential)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
				return
			}
			userID = principal.UserID
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade 已经写入了错误响应
			return
		}

		client := NewClient(uuid.New().String(), userID, hub, conn, c.QueryArray("topic")...)
		hub.Register(client)

		go client.ReadPump()
		go client.WritePump()
	}
}
