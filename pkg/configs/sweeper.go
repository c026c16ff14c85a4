package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultSweeperEnabled = false
	// DefaultSweeperCron 每天凌晨 03:20 清扫一次.
	DefaultSweeperCron = "20 3 * * *"
	// DefaultSweeperGracePeriod 对象需至少存在这么久才可能被当作孤儿回收，
	// 避免清掉正在进行的上传（blob 已写入、元数据尚未提交）.
	DefaultSweeperGracePeriod = time.Hour
)

// SweeperConfig 孤儿对象清扫任务配置. Upload 在元数据写入失败时会留下无主 blob，
// 清扫任务负责回收这部分存储.
type SweeperConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Cron        string        `mapstructure:"cron"         rule:"required"`
	GracePeriod time.Duration `mapstructure:"grace_period"`
}

func (c *SweeperConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("sweeper.enabled", DefaultSweeperEnabled)
	v.SetDefault("sweeper.cron", DefaultSweeperCron)
	v.SetDefault("sweeper.grace_period", DefaultSweeperGracePeriod)
}
