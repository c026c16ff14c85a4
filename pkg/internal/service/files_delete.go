package service

import (
	"context"

	"github.com/yeisme/attachvault/pkg/internal/blob"
	"github.com/yeisme/attachvault/pkg/metrics"
)

// Delete 删除链接指向的附件：对象、元数据记录与缓存条目.
//
// 顺序约束：缓存删除严格最后，必须等对象与记录双双删净——
// 否则并发读者可能命中一条指向已删除对象的缓存.
// 对象删除失败会中止整个操作，元数据与缓存保持原样.
func (fs *FileService) Delete(ctx context.Context, cat string, rawURL string) error {
	if err := fs.policy.Validate(cat); err != nil {
		return err
	}

	storageKey, err := blob.KeyFromURL(rawURL)
	if err != nil {
		return err
	}

	// 链接本身不携带归属实体，回查记录以重建缓存键
	rec, err := fs.meta.FindByStorageKey(ctx, storageKey)
	if err != nil {
		return err
	}

	bucket := fs.blob.BucketName(cat)
	if err := fs.blob.Delete(ctx, bucket, storageKey); err != nil {
		return err
	}

	if err := fs.meta.DeleteByStorageKey(ctx, storageKey); err != nil {
		return err
	}

	if err := fs.cache.Delete(ctx, fs.cacheKey(rec)); err != nil {
		return err
	}

	metrics.DeleteCounter.WithLabelValues(cat).Inc()
	fs.publishDeleted(rec)

	return nil
}
