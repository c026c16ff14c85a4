// Package blob 封装附件对象存储：按类别分桶、对象读写删除与限时访问链接.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/yeisme/attachvault/pkg/configs"
	s3c "github.com/yeisme/attachvault/pkg/internal/storage/s3"
)

// ErrMalformedURL 链接无法解析出存储键.
var ErrMalformedURL = errors.New("malformed attachment url")

// Store 对象存储访问层.
type Store struct {
	client *s3c.Client
	prefix string
}

// NewStore 创建 Store.
func NewStore(client *s3c.Client, cfg *configs.FilesConfig) *Store {
	return &Store{client: client, prefix: cfg.BucketPrefix}
}

// BucketName 由类别推导桶名，纯函数.
func (s *Store) BucketName(category string) string {
	return fmt.Sprintf("%s-%s-bucket", s.prefix, category)
}

// EnsureBucket 幂等地确保桶存在.
// 并发创建同一个桶时，"已存在"视为成功而非异常.
func (s *Store) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}

	if exists {
		return nil
	}

	err = s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.client.Region()})
	if err != nil {
		code := minio.ToErrorResponse(err).Code
		if code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists" {
			return nil
		}

		return fmt.Errorf("make bucket %s: %w", bucket, err)
	}

	return nil
}

// Put 以不透明键上传对象，已存在的键被原地覆盖.
func (s *Store) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}

	return nil
}

// AccessURL 生成有效期为 ttl 的预签名访问链接.
// 存储键是链接路径的最后一段，KeyFromURL 依赖这一点回取.
func (s *Store) AccessURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", bucket, key, err)
	}

	return u.String(), nil
}

// Delete 删除对象.
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s/%s: %w", bucket, key, err)
	}

	return nil
}

// List 列出桶内全部对象，返回存储键到最后修改时间的映射.供清扫任务使用.
func (s *Store) List(ctx context.Context, bucket string) (map[string]time.Time, error) {
	objects := make(map[string]time.Time)

	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects in %s: %w", bucket, obj.Err)
		}

		objects[obj.Key] = obj.LastModified
	}

	return objects, nil
}

// KeyFromURL 从先前签发的访问链接中解出存储键（路径最后一段）.
// 纯解析，不访问网络；存储键为随机生成的标识符，保证不含路径分隔符.
func KeyFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}

	p := strings.TrimSuffix(u.Path, "/")

	idx := strings.LastIndex(p, "/")
	if idx < 0 || idx == len(p)-1 {
		return "", fmt.Errorf("%w: %q carries no storage key", ErrMalformedURL, rawURL)
	}

	return p[idx+1:], nil
}
