package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ecis/inspection-gin/internal/websocket"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthController 健康检查控制器
type HealthController struct {
	db  *gorm.DB
	hub *websocket.Hub
}

// NewHealthController 创建健康检查控制器,hub 可为 nil
func NewHealthController(db *gorm.DB, hub *websocket.Hub) *HealthController {
	return &HealthController{db: db, hub: hub}
}

// HealthStatus 健康检查结果
type HealthStatus struct {
	Status      string            `json:"status" example:"healthy"`
	Version     string            `json:"version" example:"1.4.0"`
	Timestamp   int64             `json:"timestamp"`
	Checks      map[string]string `json:"checks"`
	Subscribers int               `json:"subscribers"`
}

// Check 健康检查
// @Summary      健康检查
// @Tags         系统
// @Produce      json
// @Success      200  {object}  HealthStatus
// @Failure      503  {object}  HealthStatus
// @Router       /health [get]
func (h *HealthController) Check(c *gin.Context) {
	status := HealthStatus{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().Unix(),
		Checks:    make(map[string]string),
	}

	if h.db == nil {
		status.Checks["database"] = "not configured"
	} else if err := h.checkDatabase(c.Request.Context()); err != nil {
		status.Status = "unhealthy"
		status.Checks["database"] = "unhealthy: " + err.Error()
	} else {
		status.Checks["database"] = "healthy"
	}

	if h.hub != nil {
		status.Subscribers = h.hub.GetClientCount()
	}

	httpStatus := http.StatusOK
	if status.Status != "healthy" {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, status)
}

// checkDatabase 检查数据库连接
func (h *HealthController) checkDatabase(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}
