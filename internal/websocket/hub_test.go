package websocket_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ecis/inspection-gin/internal/auth"
	ws "github.com/ecis/inspection-gin/internal/websocket"
	"github.com/gin-gonic/gin"
	gorillaWS "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transition struct {
	EntityType string `json:"entity_type"`
	To         string `json:"to"`
}

func (t transition) Topic() string { return t.EntityType }

func setupServer(t *testing.T) (*ws.Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	r := gin.New()
	r.GET("/ws/inspections", ws.Handler(hub, auth.NewAPIKeyAuthenticator("s3cret", ""), []string{"*"}))
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, query string) *gorillaWS.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/inspections?" + query
	conn, _, err := gorillaWS.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// TestHubPublish 测试事件推送到订阅的客户端
func TestHubPublish(t *testing.T) {
	hub, server := setupServer(t)

	all := dial(t, server, "token=s3cret")
	quotesOnly := dial(t, server, "token=s3cret&topic=quote_request")
	require.Eventually(t, func() bool { return hub.GetClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(transition{EntityType: "inspection", To: "completed"})
	hub.Publish(transition{EntityType: "quote_request", To: "contacted"})

	require.NoError(t, all.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type string     `json:"type"`
		Data transition `json:"data"`
	}
	_, data, err := all.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "transition", msg.Type)
	assert.Equal(t, "completed", msg.Data.To)

	// 只订阅报价请求的客户端收不到检验单事件
	require.NoError(t, quotesOnly.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err = quotesOnly.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "contacted", msg.Data.To)
}

// TestHubUnregister 测试客户端断开后注销
func TestHubUnregister(t *testing.T) {
	hub, server := setupServer(t)

	conn := dial(t, server, "api_key=s3cret")
	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.GetClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

// TestHandlerRejectsInvalidToken 测试凭证无效时拒绝升级
func TestHandlerRejectsInvalidToken(t *testing.T) {
	_, server := setupServer(t)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/inspections?token=wrong"
	_, resp, err := gorillaWS.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
