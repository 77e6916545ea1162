package auth

import (
	"net/http"
	"strings"

	"github.com/ecis/inspection-gin/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ExtractCredential 读取请求凭证
// 依次为 Authorization: Bearer、X-API-Key 头和 api_key 查询参数
func ExtractCredential(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
			return strings.TrimSpace(header[7:])
		}
	}
	if key := c.GetHeader("X-API-Key"); key != "" {
		return strings.TrimSpace(key)
	}
	return c.Query("api_key")
}

// SetPrincipal 把调用方写入 gin 上下文
func SetPrincipal(c *gin.Context, principal *Principal) {
	c.Set("user_id", principal.UserID)
	c.Set("username", principal.Username)
	c.Set("email", principal.Email)
	c.Set("roles", principal.Roles)
	c.Set("auth_method", principal.Method)
}

// Middleware 认证中间件
func Middleware(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := ExtractCredential(c)
		principal, err := authenticator.Authenticate(c.Request.Context(), credential)
		if err != nil {
			reason := err.Error()
			if credential == "" {
				reason = "missing credential"
			}
			abortUnauthorized(c, reason)
			return
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, reason string) {
	logging.GetLogger().WithFields(logrus.Fields{
		"path":   c.Request.URL.Path,
		"ip":     c.ClientIP(),
		"reason": reason,
	}).Warn("Unauthorized request")

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   "Unauthorized",
	})
}
