package api

import (
	"errors"
	"net/http"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/ecis/inspection-gin/internal/logging"
	"github.com/ecis/inspection-gin/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// statusFor 领域错误码对应的 HTTP 状态码
func statusFor(code lifecycle.ErrorCode) int {
	switch code {
	case lifecycle.CodeNotFound:
		return http.StatusNotFound
	case lifecycle.CodeInvalidTransition:
		return http.StatusConflict
	case lifecycle.CodeMissingResult, lifecycle.CodeMissingSignature,
		lifecycle.CodeInvalidDate, lifecycle.CodeInvalidContactInfo, lifecycle.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleError 统一处理服务层错误
func handleError(c *gin.Context, err error) {
	var validationErr *utils.ValidationError
	if errors.As(err, &validationErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   validationErr.Message,
			Code:    string(lifecycle.CodeValidation),
		})
		return
	}

	code := lifecycle.CodeOf(err)
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		logging.GetLogger().WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
		}).WithError(err).Error("Request failed")

		c.AbortWithStatusJSON(status, Response{Success: false, Error: T(c, "error.internal_error")})
		return
	}

	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Error:   translateError(c, code, err),
		Code:    string(code),
	})
}

// bindError 请求体或查询参数无法解析
func bindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   T(c, "error.bad_request") + ": " + err.Error(),
		Code:    string(lifecycle.CodeValidation),
	})
}

// RecoveryMiddleware panic 恢复,返回统一格式的 500
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logging.GetLogger().WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"panic":      recovered,
		}).Error("Recovered from panic")
		Error(c, http.StatusInternalServerError, T(c, "error.internal_error"))
	})
}
