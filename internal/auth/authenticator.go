package auth

import (
	"context"
	"errors"
	"time"
)

// ErrUnauthorized 凭证缺失或无效
var ErrUnauthorized = errors.New("unauthorized")

// 认证方式
const (
	MethodAPIKey   = "api_key"
	MethodKeycloak = "keycloak"
)

// Principal 已认证的调用方
type Principal struct {
	UserID   string
	Username string
	Email    string
	Roles    []string
	Method   string

	// ExpiresAt 凭证过期时间,零值表示凭证本身不过期
	ExpiresAt time.Time
}

// Authenticator 凭证认证器
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (*Principal, error)
}

// Chain 依次尝试多个认证器,第一个成功的生效
type Chain []Authenticator

// Authenticate 认证凭证
func (c Chain) Authenticate(ctx context.Context, credential string) (*Principal, error) {
	for _, authenticator := range c {
		if authenticator == nil {
			continue
		}
		principal, err := authenticator.Authenticate(ctx, credential)
		if err == nil {
			return principal, nil
		}
	}
	return nil, ErrUnauthorized
}
