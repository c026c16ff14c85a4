package service

import (
	"context"
	"io"

	"github.com/yeisme/attachvault/pkg/internal/blob"
)

// Update 原地覆盖链接指向的对象.
// 记录身份与存储键不变，元数据不动；随后主动失效缓存的旧链接，
// 而不是等 TTL 自然过期（源站侧旧链接在自身有效期内仍可用）.
func (fs *FileService) Update(ctx context.Context, cat string, rawURL string, r io.Reader, size int64, contentType string) error {
	if err := fs.policy.Validate(cat); err != nil {
		return err
	}

	storageKey, err := blob.KeyFromURL(rawURL)
	if err != nil {
		return err
	}

	// 回查记录以恢复归属实体，缓存键的构造依赖它
	rec, err := fs.meta.FindByStorageKey(ctx, storageKey)
	if err != nil {
		return err
	}

	bucket := fs.blob.BucketName(cat)
	if err := fs.blob.Put(ctx, bucket, storageKey, r, size, contentType); err != nil {
		return err
	}

	if err := fs.cache.Delete(ctx, fs.cacheKey(rec)); err != nil {
		return err
	}

	fs.publishReplaced(rec, storageKey)

	return nil
}
