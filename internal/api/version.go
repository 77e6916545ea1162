package api

import (
	"github.com/gin-gonic/gin"
)

// Version 构建版本,通过 -ldflags "-X .../internal/api.Version=..." 注入
var Version = "dev"

// APIVersion 当前 API 版本
const APIVersion = "1"

// VersionMiddleware 在响应头中返回 API 和构建版本
func VersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", APIVersion)
		c.Header("X-Service-Version", Version)
		c.Next()
	}
}

// VersionInfo 版本信息
type VersionInfo struct {
	Service    string `json:"service" example:"ecis-inspection"`
	Version    string `json:"version" example:"1.4.0"`
	APIVersion string `json:"api_version" example:"1"`
}

// GetVersion 获取版本信息
// @Summary      服务版本
// @Tags         系统
// @Produce      json
// @Success      200  {object}  Response{data=VersionInfo}
// @Router       /version [get]
func GetVersion(c *gin.Context) {
	Success(c, VersionInfo{Service: ServiceName, Version: Version, APIVersion: APIVersion})
}
