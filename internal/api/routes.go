package api

import (
	_ "github.com/ecis/inspection-gin/docs"
	"github.com/ecis/inspection-gin/internal/auth"
	"github.com/ecis/inspection-gin/internal/config"
	"github.com/ecis/inspection-gin/internal/service"
	"github.com/ecis/inspection-gin/internal/websocket"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Dependencies 路由依赖
type Dependencies struct {
	Config        *config.Config
	DB            *gorm.DB
	Hub           *websocket.Hub // 可为 nil,此时不注册实时推送路由
	Authenticator auth.Authenticator

	Inspections service.InspectionService
	Equipment   service.EquipmentService
	Clients     service.ClientService
	Templates   service.ChecklistTemplateService
	Quotes      service.QuoteService
	Statistics  service.StatisticsService
}

// SetupRoutes 配置路由
func SetupRoutes(deps *Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	if cfg.Tracing.Enabled {
		router.Use(TracingMiddleware())
	}
	router.Use(RequestLogMiddleware())
	router.Use(SLAMonitorMiddleware(DefaultSLAConfig()))
	router.Use(SecurityHeadersMiddleware(config.IsProduction(cfg)))
	router.Use(CORSMiddleware(cfg.CORS))
	router.Use(VersionMiddleware())
	router.Use(I18nMiddleware())

	health := NewHealthController(deps.DB, deps.Hub)
	router.GET("/health", health.Check)
	router.GET("/version", GetVersion)
	router.GET("/metrics", MetricsHandler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	requireAuth := auth.Middleware(deps.Authenticator)

	if deps.Hub != nil {
		router.GET("/ws/inspections", websocket.Handler(deps.Hub, deps.Authenticator, cfg.CORS.AllowedOrigins))
		router.GET("/sse/inspections", requireAuth, SSEHandler(deps.Hub))
	}

	apiGroup := router.Group("/api")

	// 网站公开接口
	quotes := NewQuoteController(deps.Quotes)
	limiter := NewRateLimiter(cfg.API.QuoteRPS, cfg.API.QuoteBurst)
	apiGroup.POST("/quote-request", RateLimitMiddleware(limiter), quotes.Submit)

	protected := apiGroup.Group("", requireAuth)
	{
		inspections := NewInspectionController(deps.Inspections)
		protected.GET("/inspections", inspections.List)
		protected.POST("/inspections", inspections.Create)
		protected.GET("/inspections/:id", inspections.Get)
		protected.PATCH("/inspections/:id", inspections.Update)
		protected.PUT("/inspections/:id", inspections.Update)
		protected.PUT("/inspections/:id/signature", inspections.SetSignature)
		protected.POST("/inspections/:id/start", inspections.Start)
		protected.POST("/inspections/:id/complete", inspections.Complete)
		protected.POST("/inspections/:id/send", inspections.Send)
		protected.POST("/inspections/:id/cancel", inspections.Cancel)
		protected.POST("/inspections/:id/reset", inspections.Reset)
		protected.GET("/inspections/:id/report", inspections.Report)
		protected.GET("/inspections/:id/stats", inspections.Stats)
		protected.GET("/inspections/:id/history", inspections.History)
		protected.GET("/inspections/:id/checklist", inspections.Checklist)
		protected.POST("/inspections/:id/checklist", inspections.AddChecklistItem)
		protected.PATCH("/checklist/:item_id", inspections.UpdateChecklistItem)
		protected.PUT("/checklist/:item_id", inspections.UpdateChecklistItem)
		protected.DELETE("/checklist/:item_id", inspections.DeleteChecklistItem)

		equipment := NewEquipmentController(deps.Equipment)
		protected.GET("/equipment", equipment.List)
		protected.POST("/equipment", equipment.Create)
		protected.GET("/equipment/:id", equipment.Get)
		protected.POST("/equipment/:id/schedule-inspection", equipment.ScheduleInspection)

		templates := NewChecklistTemplateController(deps.Templates)
		protected.GET("/checklist-templates", templates.List)
		protected.POST("/checklist-templates", templates.Create)

		clients := NewClientController(deps.Clients)
		protected.GET("/clients", clients.List)
		protected.POST("/clients", clients.Create)
		protected.GET("/clients/:id", clients.Get)

		protected.GET("/quote-requests", quotes.List)
		protected.GET("/quote-requests/:id", quotes.Get)
		protected.POST("/quote-requests/:id/contact", quotes.Contact)
		protected.POST("/quote-requests/:id/send-quote", quotes.SendQuote)
		protected.POST("/quote-requests/:id/convert", quotes.Convert)
		protected.POST("/quote-requests/:id/lost", quotes.MarkLost)

		statistics := NewStatisticsController(deps.Statistics)
		protected.GET("/statistics/summary", statistics.Summary)
		protected.GET("/statistics/inspections/by-equipment-type", statistics.ByEquipmentType)
		protected.GET("/statistics/inspections/by-result", statistics.ByResult)
		protected.GET("/statistics/inspections/by-month", statistics.ByMonth)
	}

	return router
}
