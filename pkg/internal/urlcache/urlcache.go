// Package urlcache 缓存附件的限时访问链接.
//
// 缓存键形状由类别语义决定：单值类别 `category:owner`，
// 多值类别 `category:owner:recordID`——每条记录独立缓存、独立失效.
// 条目 TTL 必须等于链接有效期，命中绝不能返回源站已过期的链接.
package urlcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeisme/attachvault/pkg/cache"
	"github.com/yeisme/attachvault/pkg/internal/storage/kv"
)

// Cache 访问链接缓存.
type Cache struct {
	c   *cache.Cache
	ttl time.Duration
}

// New 创建链接缓存.ttl 必须与链接有效期一致.
func New(store kv.KVStore, ttl time.Duration) *Cache {
	return &Cache{c: cache.NewCache(store), ttl: ttl}
}

// SingletonKey 单值类别的缓存键.
func SingletonKey(category string, ownerID int64) string {
	return fmt.Sprintf("%s:%d", category, ownerID)
}

// MultiKey 多值类别的按记录缓存键.
func MultiKey(category string, ownerID int64, recordID uint) string {
	return fmt.Sprintf("%s:%d:%d", category, ownerID, recordID)
}

// Get 读取缓存的链接.
// 返回 (url, true, nil) 表示命中；(_, false, nil) 表示未命中；
// 错误仅代表缓存自身不可用，调用方应降级到源站而不是失败.
func (uc *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	url, err := cache.Get[string](ctx, uc.c, key)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return "", false, nil
		}

		return "", false, err
	}

	return url, true, nil
}

// Set 写入链接，TTL 固定为链接有效期.已存在的键被覆盖并重置过期时间.
func (uc *Cache) Set(ctx context.Context, key, url string) error {
	return cache.Set(ctx, uc.c, key, url, uc.ttl)
}

// Delete 删除缓存条目，键不存在时视为成功.
func (uc *Cache) Delete(ctx context.Context, key string) error {
	return uc.c.Delete(ctx, key)
}

// TTL 返回条目生存期.
func (uc *Cache) TTL() time.Duration {
	return uc.ttl
}
