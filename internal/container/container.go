package container

import (
	"fmt"
	"time"

	"github.com/ecis/inspection-gin/internal/api"
	"github.com/ecis/inspection-gin/internal/auth"
	"github.com/ecis/inspection-gin/internal/config"
	"github.com/ecis/inspection-gin/internal/database"
	"github.com/ecis/inspection-gin/internal/integration"
	"github.com/ecis/inspection-gin/internal/logging"
	"github.com/ecis/inspection-gin/internal/metrics"
	"github.com/ecis/inspection-gin/internal/report"
	"github.com/ecis/inspection-gin/internal/repository"
	"github.com/ecis/inspection-gin/internal/service"
	"github.com/ecis/inspection-gin/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 认证结果缓存时间,bcrypt 比较较慢
const credentialCacheTTL = 5 * time.Minute

// Container 依赖注入容器
// 管理数据库、通知、实时推送、认证和各个服务
type Container struct {
	db       *gorm.DB
	store    *repository.Store
	notifier *integration.WebhookNotifier
	hub      *websocket.Hub

	apiKey        *auth.APIKeyAuthenticator
	keycloak      *auth.KeycloakTokenValidator
	cached        *auth.CachedAuthenticator
	authenticator auth.Authenticator

	inspections service.InspectionService
	equipment   service.EquipmentService
	clients     service.ClientService
	templates   service.ChecklistTemplateService
	quotes      service.QuoteService
	statistics  service.StatisticsService
}

// NewContainer 连接数据库并迁移,然后创建容器
func NewContainer(cfg *config.Config) (*Container, error) {
	// 默认重试 3 次，初始间隔 1 秒，指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return NewContainerWithDB(cfg, db), nil
}

// NewContainerWithDB 使用已迁移的数据库创建容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) *Container {
	store := repository.NewStore(db)
	notifier := integration.NewNotifier(store.Events, cfg.Notification)
	hub := websocket.NewHub()
	go hub.Run()

	c := &Container{
		db:       db,
		store:    store,
		notifier: notifier,
		hub:      hub,
		apiKey:   auth.NewAPIKeyAuthenticator(cfg.API.Key, cfg.API.KeyHash),
	}

	chain := auth.Chain{c.apiKey}
	if cfg.Keycloak.Issuer != "" {
		c.keycloak = auth.NewKeycloakTokenValidator(cfg.Keycloak.Issuer, cfg.Keycloak.JWKSURL)
		chain = append(auth.Chain{c.keycloak}, chain...)
	}
	c.cached = auth.NewCachedAuthenticator(chain, auth.NewCredentialCache(credentialCacheTTL))
	c.authenticator = c.cached
	if !c.authEnabled() {
		logging.GetLogger().Warn("No API key or Keycloak issuer configured, protected endpoints will reject every request")
	}

	renderer := report.NewPDFRenderer(cfg.Report.Issuer)
	c.inspections = service.NewInspectionService(store, notifier, hub, renderer)
	c.equipment = service.NewEquipmentService(store, c.inspections)
	c.clients = service.NewClientService(store)
	c.templates = service.NewChecklistTemplateService(store)
	c.quotes = service.NewQuoteService(store, notifier, hub, cfg.Quote.DefaultAssignee)
	c.statistics = service.NewStatisticsService(store)

	return c
}

// authEnabled 是否配置了任一种凭证
func (c *Container) authEnabled() bool {
	return c.apiKey.Enabled() || c.keycloak != nil
}

// Router 创建 HTTP 路由
func (c *Container) Router(cfg *config.Config) *gin.Engine {
	return api.SetupRoutes(&api.Dependencies{
		Config:        cfg,
		DB:            c.db,
		Hub:           c.hub,
		Authenticator: c.authenticator,
		Inspections:   c.inspections,
		Equipment:     c.equipment,
		Clients:       c.clients,
		Templates:     c.templates,
		Quotes:        c.quotes,
		Statistics:    c.statistics,
	})
}

// ApplyConfig 应用热更新的配置: API 密钥、Webhook 地址和日志级别
func (c *Container) ApplyConfig(cfg *config.Config) {
	c.apiKey.SetCredentials(cfg.API.Key, cfg.API.KeyHash)
	c.cached.Invalidate()
	c.notifier.SetWebhooks(cfg.Notification.Webhooks)

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logging.SetLoggerLevel(level)
	}

	logging.GetLogger().WithFields(logrus.Fields{
		"webhooks":  len(cfg.Notification.Webhooks),
		"log_level": cfg.Log.Level,
		"auth":      c.authEnabled(),
	}).Info("Configuration reloaded")
}

// NewMetricsCollector 创建定期采集数据库和检验单状态指标的收集器
func (c *Container) NewMetricsCollector(interval time.Duration) *metrics.Collector {
	return metrics.NewCollector(c.db, c.store.Inspections, interval)
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Notifier 获取通知器
func (c *Container) Notifier() *integration.WebhookNotifier {
	return c.notifier
}

// Hub 获取实时推送 Hub
func (c *Container) Hub() *websocket.Hub {
	return c.hub
}

// Authenticator 获取认证器
func (c *Container) Authenticator() auth.Authenticator {
	return c.authenticator
}

// Templates 获取检查项模板服务
func (c *Container) Templates() service.ChecklistTemplateService {
	return c.templates
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	c.hub.Stop()
	c.notifier.Stop()

	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
