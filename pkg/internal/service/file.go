// Package service 实现附件编排逻辑，协调对象存储、元数据库与链接缓存三个后端.
package service

import (
	"context"
	"io"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/attachvault/pkg/configs"
	ctxPkg "github.com/yeisme/attachvault/pkg/context"
	"github.com/yeisme/attachvault/pkg/internal/blob"
	"github.com/yeisme/attachvault/pkg/internal/category"
	"github.com/yeisme/attachvault/pkg/internal/dal"
	"github.com/yeisme/attachvault/pkg/internal/model"
	"github.com/yeisme/attachvault/pkg/internal/urlcache"
)

// BlobStore 对象存储操作面.
type BlobStore interface {
	BucketName(category string) string
	EnsureBucket(ctx context.Context, bucket string) error
	Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error
	AccessURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, bucket, key string) error
}

// MetadataStore 附件记录持久化操作面.
type MetadataStore interface {
	Create(ctx context.Context, cat string, ownerID int64, storageKey string, meta dal.FileMeta) (*model.FileRecord, error)
	FindByOwner(ctx context.Context, cat string, ownerID int64) ([]model.FileRecord, error)
	FindByStorageKey(ctx context.Context, storageKey string) (*model.FileRecord, error)
	DeleteByStorageKey(ctx context.Context, storageKey string) error
}

// URLCache 链接缓存操作面.Get 的错误代表缓存不可用，调用方必须降级而非失败.
type URLCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, url string) error
	Delete(ctx context.Context, key string) error
}

// FileService 附件编排服务.
// 存储后端在构造时注入；单值唯一性由元数据库的唯一索引保证，
// 服务内不做任何进程内加锁（多实例部署下无效）.
type FileService struct {
	blob    BlobStore
	meta    MetadataStore
	cache   URLCache
	pub     message.Publisher
	policy  *category.Policy
	linkTTL time.Duration
	events  configs.EventsConfig
}

// NewFileService 从请求上下文与全局配置装配服务.
func NewFileService(c context.Context) *FileService {
	cfg := configs.GetConfig()
	policy := category.FromConfig(&cfg.Files)

	fs := &FileService{
		policy:  policy,
		linkTTL: cfg.Files.LinkExpiration,
		events:  cfg.Events,
	}

	if s3c := ctxPkg.GetS3Client(c); s3c != nil {
		fs.blob = blob.NewStore(s3c, &cfg.Files)
	}

	if dbc := ctxPkg.GetDBClient(c); dbc != nil {
		fs.meta = dal.NewFileDAL(dbc.GetDB(), policy)
	}

	if kvc := ctxPkg.GetKVClient(c); kvc != nil {
		fs.cache = urlcache.New(kvc, cfg.Files.LinkExpiration)
	}

	fs.pub = ctxPkg.GetMQClient(c).Publisher()

	return fs
}

// cacheKey 按类别语义构造缓存键.
func (fs *FileService) cacheKey(rec *model.FileRecord) string {
	if fs.policy.Classify(rec.Category) == category.Multi {
		return urlcache.MultiKey(rec.Category, rec.OwnerID, rec.ID)
	}

	return urlcache.SingletonKey(rec.Category, rec.OwnerID)
}
