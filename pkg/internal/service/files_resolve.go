package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yeisme/attachvault/pkg/internal/category"
	"github.com/yeisme/attachvault/pkg/internal/model"
	"github.com/yeisme/attachvault/pkg/internal/urlcache"
	nlog "github.com/yeisme/attachvault/pkg/log"
	"github.com/yeisme/attachvault/pkg/metrics"
)

// Resolve 解析实体的附件访问链接.
// 单值类别返回恰好一个链接，多值类别每条记录一个链接.
// 缓存优先；缓存不可用时降级到元数据库加对象存储，绝不因缓存故障失败.
func (fs *FileService) Resolve(ctx context.Context, cat string, ownerID int64) ([]string, error) {
	if err := fs.policy.Validate(cat); err != nil {
		return nil, err
	}

	if fs.policy.Classify(cat) == category.Multi {
		return fs.resolveMulti(ctx, cat, ownerID)
	}

	return fs.resolveSingleton(ctx, cat, ownerID)
}

// resolveSingleton 单值路径：命中 `category:owner` 即返回，不触碰持久层.
func (fs *FileService) resolveSingleton(ctx context.Context, cat string, ownerID int64) ([]string, error) {
	key := urlcache.SingletonKey(cat, ownerID)

	if url, hit, ok := fs.cacheGet(ctx, key); ok && hit {
		metrics.CacheHitCounter.WithLabelValues("hit").Inc()

		return []string{url}, nil
	}

	recs, err := fs.meta.FindByOwner(ctx, cat, ownerID)
	if err != nil {
		return nil, err
	}

	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: category %q owner %d", ErrNotFound, cat, ownerID)
	}

	rec := &recs[0]

	url, err := fs.blob.AccessURL(ctx, rec.Bucket, rec.StorageKey, fs.linkTTL)
	if err != nil {
		return nil, err
	}

	fs.cacheSet(ctx, key, url)
	fs.publishResolved(rec, false)

	return []string{url}, nil
}

// resolveMulti 多值路径：逐记录独立解析并发扇出，单条命中不影响其兄弟记录，
// 返回序列覆盖实体名下的每一条记录.
func (fs *FileService) resolveMulti(ctx context.Context, cat string, ownerID int64) ([]string, error) {
	recs, err := fs.meta.FindByOwner(ctx, cat, ownerID)
	if err != nil {
		return nil, err
	}

	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: category %q owner %d", ErrNotFound, cat, ownerID)
	}

	urls := make([]string, len(recs))
	g, gctx := errgroup.WithContext(ctx)

	for i := range recs {
		g.Go(func() error {
			url, err := fs.resolveRecord(gctx, &recs[i])
			if err != nil {
				return err
			}

			urls[i] = url

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return urls, nil
}

// resolveRecord 单条记录的缓存优先解析.
func (fs *FileService) resolveRecord(ctx context.Context, rec *model.FileRecord) (string, error) {
	key := urlcache.MultiKey(rec.Category, rec.OwnerID, rec.ID)

	if url, hit, ok := fs.cacheGet(ctx, key); ok && hit {
		metrics.CacheHitCounter.WithLabelValues("hit").Inc()

		return url, nil
	}

	url, err := fs.blob.AccessURL(ctx, rec.Bucket, rec.StorageKey, fs.linkTTL)
	if err != nil {
		return "", err
	}

	fs.cacheSet(ctx, key, url)

	return url, nil
}

// cacheGet 读缓存，故障降级为未命中.ok=false 表示缓存不可用.
func (fs *FileService) cacheGet(ctx context.Context, key string) (string, bool, bool) {
	url, hit, err := fs.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheHitCounter.WithLabelValues("bypass").Inc()
		nlog.Logger().Warn().Err(err).Str("key", key).Msg("缓存读取失败，降级到源站")

		return "", false, false
	}

	if !hit {
		metrics.CacheHitCounter.WithLabelValues("miss").Inc()
	}

	return url, hit, true
}

// cacheSet 回填缓存，失败只记日志.
func (fs *FileService) cacheSet(ctx context.Context, key, url string) {
	if err := fs.cache.Set(ctx, key, url); err != nil {
		nlog.Logger().Warn().Err(err).Str("key", key).Msg("缓存回填失败")
	}
}
