package configs

import (
	"time"

	"github.com/spf13/viper"
)

// MetricsConfig 监控指标相关配置.
type MetricsConfig struct {
	Enabled         bool          `mapstructure:"enabled"`          // 是否启用 Metrics
	ServiceName     string        `mapstructure:"service_name"`     // 服务名称
	ServiceVersion  string        `mapstructure:"service_version"`  // 服务版本
	CollectInterval time.Duration `mapstructure:"collect_interval"` // 收集间隔
	RuntimeMetrics  bool          `mapstructure:"runtime_metrics"`  // 是否收集运行时指标
	Pprof           bool          `mapstructure:"pprof"`            // 是否暴露 pprof 端点
}

// setDefaults 设置 Metrics 配置的默认值.
func (c *MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.service_name", "attachvault")
	v.SetDefault("metrics.service_version", AppVersion)
	v.SetDefault("metrics.collect_interval", "15s")
	v.SetDefault("metrics.runtime_metrics", true)
	v.SetDefault("metrics.pprof", false)
}
