// Package s3 封装 MinIO 客户端连接.
package s3

import (
	"context"
	"fmt"
	"net/url"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/attachvault/pkg/configs"
	nlog "github.com/yeisme/attachvault/pkg/log"
)

// Client 包装 MinIO 客户端. 桶按类别在使用时创建，这里只负责连接.
type Client struct {
	*minio.Client

	region string
}

// New 初始化 MinIO 客户端.
func New(ctx context.Context, cfg *configs.S3Config) (*Client, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	// 允许传入完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			useSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("attachvault", configs.AppVersion)

	nlog.Logger().Info().Str("endpoint", cfg.Endpoint).Msg("s3 connected")

	return &Client{Client: cli, region: cfg.Region}, nil
}

// Region 返回配置的区域，创建桶时使用.
func (c *Client) Region() string {
	return c.region
}

// HealthCheck 通过列桶验证连接.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ListBuckets(ctx)
	return err
}

// Close 关闭客户端（minio 无长连接需要释放，保留接口兼容）.
func (c *Client) Close() error {
	return nil
}
