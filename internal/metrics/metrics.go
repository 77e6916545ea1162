package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	// API 请求计数器
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// API 请求响应时间
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 检验单创建数
	inspectionsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inspections_created_total",
			Help: "Total number of inspections created",
		},
		[]string{"type"},
	)

	// 状态流转数
	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifecycle_transitions_total",
			Help: "Total number of lifecycle state transitions",
		},
		[]string{"entity", "to"},
	)

	// 报价请求数
	quoteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_requests_total",
			Help: "Total number of quote requests received",
		},
		[]string{"source", "urgency"},
	)

	// 通知推送结果
	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of notification deliveries by outcome",
		},
		[]string{"template", "status"},
	)

	// 报告生成耗时
	reportRenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "report_render_duration_seconds",
			Help:    "Inspection report rendering duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// 超出响应时间目标的请求
	slaViolationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sla_violations_total",
			Help: "Total number of requests exceeding their response time objective",
		},
		[]string{"operation"},
	)

	// 数据库连接数
	databaseConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of active database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	databaseConnectionsMax = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_max",
			Help: "Maximum number of database connections",
		},
	)

	// 检验单状态分布
	inspectionsByState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "inspections_by_state",
			Help: "Number of inspections by state",
		},
		[]string{"state"},
	)
)

var (
	once sync.Once
)

func init() {
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(inspectionsCreatedTotal)
	prometheus.MustRegister(transitionsTotal)
	prometheus.MustRegister(quoteRequestsTotal)
	prometheus.MustRegister(notificationsTotal)
	prometheus.MustRegister(reportRenderDuration)
	prometheus.MustRegister(slaViolationsTotal)
	prometheus.MustRegister(databaseConnectionsActive)
	prometheus.MustRegister(databaseConnectionsIdle)
	prometheus.MustRegister(databaseConnectionsMax)
	prometheus.MustRegister(inspectionsByState)

	// Go 运行时指标只注册一次,已注册时忽略错误
	once.Do(func() {
		_ = prometheus.Register(prometheus.NewGoCollector())
		_ = prometheus.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	})
}

// Handler 返回 Prometheus 指标处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAPIRequest 记录 API 请求
func RecordAPIRequest(method, path string, status int, duration float64) {
	statusText := http.StatusText(status)
	if statusText == "" {
		statusText = fmt.Sprintf("%d", status)
	}
	apiRequestsTotal.WithLabelValues(method, path, statusText).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordInspectionCreated 记录检验单创建
func RecordInspectionCreated(inspectionType string) {
	inspectionsCreatedTotal.WithLabelValues(inspectionType).Inc()
}

// RecordTransition 记录状态流转
func RecordTransition(entity string, to string) {
	transitionsTotal.WithLabelValues(entity, to).Inc()
}

// RecordQuoteRequest 记录报价请求
func RecordQuoteRequest(source string, urgency string) {
	quoteRequestsTotal.WithLabelValues(source, urgency).Inc()
}

// RecordNotification 记录通知推送结果
func RecordNotification(template string, status string) {
	notificationsTotal.WithLabelValues(template, status).Inc()
}

// ObserveReportRender 记录报告生成耗时（秒）
func ObserveReportRender(seconds float64) {
	reportRenderDuration.Observe(seconds)
}

// RecordSLAViolation 记录超时请求
func RecordSLAViolation(operation string) {
	slaViolationsTotal.WithLabelValues(operation).Inc()
}

// UpdateDatabaseConnections 更新数据库连接数指标
func UpdateDatabaseConnections(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	stats := sqlDB.Stats()
	databaseConnectionsActive.Set(float64(stats.OpenConnections - stats.Idle))
	databaseConnectionsIdle.Set(float64(stats.Idle))
	databaseConnectionsMax.Set(float64(stats.MaxOpenConnections))

	return nil
}

// UpdateInspectionsByState 更新检验单状态分布指标
func UpdateInspectionsByState(state string, count float64) {
	inspectionsByState.WithLabelValues(state).Set(count)
}
