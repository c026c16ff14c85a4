package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultLinkExpiration 访问 URL 的有效期，同时也是缓存条目的 TTL.
	// 两者必须保持一致：缓存命中绝不能返回源站已过期的链接.
	DefaultLinkExpiration = 15 * time.Minute
	// DefaultBucketPrefix 桶名前缀，桶名形如 <prefix>-<category>-bucket.
	DefaultBucketPrefix = "attachvault"
	// DefaultMultiCategory 允许一个实体挂多个附件的类别.
	DefaultMultiCategory = "task_attachment"
)

// DefaultAllowedCategories 默认类别白名单.
var DefaultAllowedCategories = []string{"user_photo", "project_logo", "task_attachment"}

// FilesConfig 附件业务配置.
type FilesConfig struct {
	// AllowedCategories 类别白名单；不在名单内的类别一律拒绝.
	AllowedCategories []string `mapstructure:"allowed_categories" rule:"min=1"`
	// MultiCategory 多值类别名，其余类别均为单值（每个实体至多一个附件）.
	MultiCategory string `mapstructure:"multi_category" rule:"required"`
	// BucketPrefix 桶名前缀.
	BucketPrefix string `mapstructure:"bucket_prefix" rule:"required"`
	// LinkExpiration 访问 URL 有效期 = 缓存 TTL.
	LinkExpiration time.Duration `mapstructure:"link_expiration"`
}

// BucketName 由类别推导桶名，纯函数.
func (c *FilesConfig) BucketName(category string) string {
	return fmt.Sprintf("%s-%s-bucket", c.BucketPrefix, category)
}

// setDefaults 设置附件业务配置的默认值.
func (c *FilesConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("files.allowed_categories", DefaultAllowedCategories)
	v.SetDefault("files.multi_category", DefaultMultiCategory)
	v.SetDefault("files.bucket_prefix", DefaultBucketPrefix)
	v.SetDefault("files.link_expiration", DefaultLinkExpiration)
}
