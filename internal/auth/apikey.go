package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// APIKeyUser API 密钥认证成功后的用户 ID
const APIKeyUser = "api"

// APIKeyAuthenticator 共享密钥认证器
// 配置了 bcrypt 哈希时优先比对哈希,否则以常量时间比对明文密钥
type APIKeyAuthenticator struct {
	mu      sync.RWMutex
	key     string
	keyHash []byte
}

// NewAPIKeyAuthenticator 创建共享密钥认证器
func NewAPIKeyAuthenticator(key string, keyHash string) *APIKeyAuthenticator {
	a := &APIKeyAuthenticator{}
	a.SetCredentials(key, keyHash)
	return a
}

// SetCredentials 替换密钥（配置热更新）
func (a *APIKeyAuthenticator) SetCredentials(key string, keyHash string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.key = key
	a.keyHash = nil
	if keyHash != "" {
		a.keyHash = []byte(keyHash)
	}
}

// Enabled 是否配置了密钥
func (a *APIKeyAuthenticator) Enabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.key != "" || len(a.keyHash) > 0
}

// Authenticate 认证共享密钥
func (a *APIKeyAuthenticator) Authenticate(_ context.Context, credential string) (*Principal, error) {
	a.mu.RLock()
	key, keyHash := a.key, a.keyHash
	a.mu.RUnlock()

	if credential == "" {
		return nil, ErrUnauthorized
	}

	switch {
	case len(keyHash) > 0:
		if bcrypt.CompareHashAndPassword(keyHash, []byte(credential)) != nil {
			return nil, ErrUnauthorized
		}
	case key != "":
		if subtle.ConstantTimeCompare([]byte(key), []byte(credential)) != 1 {
			return nil, ErrUnauthorized
		}
	default:
		return nil, ErrUnauthorized
	}

	return &Principal{UserID: APIKeyUser, Username: APIKeyUser, Method: MethodAPIKey}, nil
}

// HashKey 生成 api.key_hash 配置使用的 bcrypt 哈希
func HashKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash key: %w", err)
	}
	return string(hash), nil
}
