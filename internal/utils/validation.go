package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ValidationError 验证错误
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// 错误定义
var (
	ErrEmptyID         = &ValidationError{Code: "EMPTY_ID", Message: "id cannot be empty"}
	ErrInvalidIDFormat = &ValidationError{Code: "INVALID_ID_FORMAT", Message: "id contains invalid characters"}
	ErrIDTooLong       = &ValidationError{Code: "ID_TOO_LONG", Message: "id exceeds maximum length"}
)

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateID 验证路径中的记录 ID
func ValidateID(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if len(id) > 64 {
		return ErrIDTooLong
	}
	if !idPattern.MatchString(id) {
		return ErrInvalidIDFormat
	}
	return nil
}

// 公开表单中常见的注入片段
var dangerousPatterns = []string{
	"<script",
	"</script>",
	"javascript:",
	"onerror=",
	"onload=",
	"<iframe",
	"<img",
	"<svg",
	"union select",
	"drop table",
}

// ValidateText 校验自由文本字段,空值通过
func ValidateText(field string, value string, maxLen int) error {
	if maxLen > 0 && len(value) > maxLen {
		return &ValidationError{Code: "TOO_LONG", Message: fmt.Sprintf("%s exceeds %d characters", field, maxLen)}
	}
	lower := strings.ToLower(value)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return &ValidationError{Code: "DANGEROUS_CHARS", Message: fmt.Sprintf("%s contains forbidden content", field)}
		}
	}
	return nil
}

// StripControl 去除首尾空白和控制字符,保留换行和制表符
func StripControl(input string) string {
	var result strings.Builder
	for _, r := range strings.TrimSpace(input) {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
