package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应格式
// @Description 统一响应格式,success 为 false 时 error 为错误消息
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty" example:"20"` // 列表接口返回的条数
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty" example:"inspection not found"`
	Code    string      `json:"code,omitempty" example:"NOT_FOUND"` // 领域错误码
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// List 列表响应,附带条数
func List(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Count: &count})
}

// Error 错误响应
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Error: message})
}
