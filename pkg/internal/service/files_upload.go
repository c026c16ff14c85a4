package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/yeisme/attachvault/pkg/internal/dal"
	nlog "github.com/yeisme/attachvault/pkg/log"
	"github.com/yeisme/attachvault/pkg/metrics"
)

// Upload 上传附件，返回限时访问链接.
//
// 顺序固定：先写对象存储，成功后才写元数据——绝不为一个从未落盘的对象
// 记录元数据.元数据写入失败（如单值冲突）时已上传的对象成为孤儿，
// 不做补偿删除，由清扫任务回收；这是可用性优先的既定取舍.
func (fs *FileService) Upload(ctx context.Context, cat string, ownerID int64, fileName string, r io.Reader, size int64, contentType string) (string, error) {
	if err := fs.policy.Validate(cat); err != nil {
		return "", err
	}

	bucket := fs.blob.BucketName(cat)
	if err := fs.blob.EnsureBucket(ctx, bucket); err != nil {
		return "", err
	}

	// 存储键随机生成，与客户端输入无关
	storageKey := uuid.NewString()

	if err := fs.blob.Put(ctx, bucket, storageKey, r, size, contentType); err != nil {
		return "", err
	}

	rec, err := fs.meta.Create(ctx, cat, ownerID, storageKey, dal.FileMeta{
		FileName: fileName,
		Size:     size,
		MimeType: contentType,
		Bucket:   bucket,
	})
	if err != nil {
		// 对象已落盘但元数据未建，按原样上抛
		return "", err
	}

	url, err := fs.blob.AccessURL(ctx, bucket, storageKey, fs.linkTTL)
	if err != nil {
		return "", err
	}

	if err := fs.cache.Set(ctx, fs.cacheKey(rec), url); err != nil {
		nlog.Logger().Warn().Err(err).Str("storage_key", storageKey).Msg("缓存回填失败")
	}

	metrics.UploadCounter.WithLabelValues(cat).Inc()
	fs.publishStored(rec)

	return url, nil
}
