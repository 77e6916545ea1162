package api

import (
	"net/http"
	"time"

	"github.com/ecis/inspection-gin/internal/logging"
	"github.com/ecis/inspection-gin/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SLAConfig 各类操作的响应时间目标
type SLAConfig struct {
	QuoteSubmissionMaxTime time.Duration // 网站报价提交
	TransitionMaxTime      time.Duration // 检验单和报价状态操作
	ReportMaxTime          time.Duration // 报告生成
	QueryMaxTime           time.Duration // 列表和详情查询
}

// DefaultSLAConfig 返回默认 SLA 配置
func DefaultSLAConfig() *SLAConfig {
	return &SLAConfig{
		QuoteSubmissionMaxTime: 2 * time.Second,
		TransitionMaxTime:      1 * time.Second,
		ReportMaxTime:          5 * time.Second,
		QueryMaxTime:           500 * time.Millisecond,
	}
}

var transitionRoutes = map[string]bool{
	"/api/inspections/:id/start":             true,
	"/api/inspections/:id/complete":          true,
	"/api/inspections/:id/send":              true,
	"/api/inspections/:id/cancel":            true,
	"/api/inspections/:id/reset":             true,
	"/api/quote-requests/:id/contact":        true,
	"/api/quote-requests/:id/send-quote":     true,
	"/api/quote-requests/:id/convert":        true,
	"/api/quote-requests/:id/lost":           true,
	"/api/equipment/:id/schedule-inspection": true,
}

// operationFor 根据路由模板判断操作类型,无法归类时返回空串
func operationFor(method string, route string) string {
	switch {
	case route == "/api/quote-request":
		return "quote_submission"
	case route == "/api/inspections/:id/report":
		return "report"
	case transitionRoutes[route]:
		return "transition"
	case method == http.MethodGet:
		return "query"
	}
	return ""
}

// expected 操作的响应时间目标,0 表示不检查
func (cfg *SLAConfig) expected(operation string) time.Duration {
	switch operation {
	case "quote_submission":
		return cfg.QuoteSubmissionMaxTime
	case "transition":
		return cfg.TransitionMaxTime
	case "report":
		return cfg.ReportMaxTime
	case "query":
		return cfg.QueryMaxTime
	}
	return 0
}

// SLAMonitorMiddleware 记录超出响应时间目标的请求
func SLAMonitorMiddleware(cfg *SLAConfig) gin.HandlerFunc {
	if cfg == nil {
		cfg = DefaultSLAConfig()
	}
	logger := logging.GetLogger()

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		operation := operationFor(c.Request.Method, c.FullPath())
		expected := cfg.expected(operation)
		duration := time.Since(start)
		if expected == 0 || duration <= expected {
			return
		}

		metrics.RecordSLAViolation(operation)
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"operation":  operation,
			"path":       c.Request.URL.Path,
			"duration":   duration.String(),
			"expected":   expected.String(),
		}).Warn("Request exceeded response time objective")
	}
}
