package lifecycle

import (
	"errors"
	"fmt"
)

// ErrorCode 领域错误码
type ErrorCode string

const (
	CodeInvalidTransition  ErrorCode = "INVALID_TRANSITION"
	CodeMissingResult      ErrorCode = "MISSING_RESULT"
	CodeMissingSignature   ErrorCode = "MISSING_SIGNATURE"
	CodeInvalidDate        ErrorCode = "INVALID_DATE"
	CodeInvalidContactInfo ErrorCode = "INVALID_CONTACT_INFO"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeValidation         ErrorCode = "VALIDATION_FAILED"
)

// Error 领域错误
// 同一错误码的两个 *Error 在 errors.Is 下视为相等,消息可以不同
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is 按错误码匹配
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// 错误定义
var (
	ErrInvalidTransition  = &Error{Code: CodeInvalidTransition, Message: "invalid state transition"}
	ErrMissingResult      = &Error{Code: CodeMissingResult, Message: "overall result must be set before completing the inspection"}
	ErrMissingSignature   = &Error{Code: CodeMissingSignature, Message: "inspector signature is required before completing the inspection"}
	ErrInvalidDate        = &Error{Code: CodeInvalidDate, Message: "inspection date cannot be in the future"}
	ErrInvalidContactInfo = &Error{Code: CodeInvalidContactInfo, Message: "invalid contact information"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "record not found"}
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation failed"}
)

func newError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf 构造带资源描述的 NotFound 错误
func NotFoundf(format string, args ...interface{}) error {
	return newError(CodeNotFound, format, args...)
}

// Validationf 构造输入校验错误
func Validationf(format string, args ...interface{}) error {
	return newError(CodeValidation, format, args...)
}

// CodeOf 返回错误链中的领域错误码,非领域错误返回空串
func CodeOf(err error) ErrorCode {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
