package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRateLimiter 测试按客户端限流
func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	// 不同客户端互不影响
	assert.True(t, limiter.Allow("10.0.0.2"))

	unlimited := NewRateLimiter(0, 0)
	for i := 0; i < 10; i++ {
		assert.True(t, unlimited.Allow("10.0.0.1"))
	}
}

// TestOperationFor 测试响应时间目标的操作归类
func TestOperationFor(t *testing.T) {
	assert.Equal(t, "quote_submission", operationFor(http.MethodPost, "/api/quote-request"))
	assert.Equal(t, "report", operationFor(http.MethodGet, "/api/inspections/:id/report"))
	assert.Equal(t, "transition", operationFor(http.MethodPost, "/api/inspections/:id/complete"))
	assert.Equal(t, "query", operationFor(http.MethodGet, "/api/inspections"))
	assert.Equal(t, "", operationFor(http.MethodPost, "/api/clients"))

	cfg := DefaultSLAConfig()
	assert.Equal(t, cfg.QueryMaxTime, cfg.expected("query"))
	assert.Zero(t, cfg.expected(""))
}

// TestNormalizeLanguage 测试语言代码规范化
func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "fr", normalizeLanguage("fr-FR"))
	assert.Equal(t, "en", normalizeLanguage(" EN-us "))
	assert.Equal(t, "fr", parseAcceptLanguage("fr-CA,fr;q=0.9,en;q=0.8"))
}
