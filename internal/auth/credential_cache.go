package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// CredentialCache 认证结果缓存,按凭证的 SHA-256 摘要索引
type CredentialCache struct {
	cache *sync.Map
	ttl   time.Duration
}

// cacheEntry 缓存条目
type cacheEntry struct {
	principal *Principal
	expiresAt time.Time
}

// NewCredentialCache 创建认证结果缓存
func NewCredentialCache(ttl time.Duration) *CredentialCache {
	return &CredentialCache{
		cache: &sync.Map{},
		ttl:   ttl,
	}
}

func cacheKey(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:])
}

// Get 获取缓存
func (c *CredentialCache) Get(credential string) (*Principal, bool) {
	key := cacheKey(credential)
	val, found := c.cache.Load(key)
	if !found {
		return nil, false
	}

	entry := val.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		// 已过期，删除
		c.cache.Delete(key)
		return nil, false
	}
	return entry.principal, true
}

// Set 设置缓存,条目不会晚于凭证本身过期
func (c *CredentialCache) Set(credential string, principal *Principal) {
	expiresAt := time.Now().Add(c.ttl)
	if !principal.ExpiresAt.IsZero() && principal.ExpiresAt.Before(expiresAt) {
		expiresAt = principal.ExpiresAt
	}
	if !time.Now().Before(expiresAt) {
		return
	}
	c.cache.Store(cacheKey(credential), &cacheEntry{
		principal: principal,
		expiresAt: expiresAt,
	})
}

// Clear 清空缓存
func (c *CredentialCache) Clear() {
	c.cache.Range(func(key, value interface{}) bool {
		c.cache.Delete(key)
		return true
	})
}

// CachedAuthenticator 带缓存的认证器
// 只缓存成功的认证
type CachedAuthenticator struct {
	authenticator Authenticator
	cache         *CredentialCache
}

// NewCachedAuthenticator 创建带缓存的认证器
func NewCachedAuthenticator(authenticator Authenticator, cache *CredentialCache) *CachedAuthenticator {
	return &CachedAuthenticator{
		authenticator: authenticator,
		cache:         cache,
	}
}

// Authenticate 认证凭证（带缓存）
func (c *CachedAuthenticator) Authenticate(ctx context.Context, credential string) (*Principal, error) {
	if principal, found := c.cache.Get(credential); found {
		return principal, nil
	}

	principal, err := c.authenticator.Authenticate(ctx, credential)
	if err != nil {
		return nil, err
	}
	c.cache.Set(credential, principal)
	return principal, nil
}

// Invalidate 清空缓存（密钥轮换后调用）
func (c *CachedAuthenticator) Invalidate() {
	c.cache.Clear()
}
