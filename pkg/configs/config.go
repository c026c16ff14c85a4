// Package configs 管理应用程序配置，支持多种格式（YAML、JSON、TOML、dotenv）与环境变量，
// 并可选启用热重载.
//
// Example:
//
//	if err := configs.InitConfig("./"); err != nil {
//		log.Fatal(err)
//	}
//
//	cfg := configs.GetConfig()
//	fmt.Println(cfg.Server.Port)
//	fmt.Println(cfg.Files.BucketName("user_photo"))
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AppVersion 应用版本号，构建时通过 -ldflags 注入.
var AppVersion = "dev"

// AppConfig 全局应用程序配置.
type AppConfig struct {
	Server         ServerConfig         `mapstructure:"server"`          // 服务器配置
	Log            LogConfig            `mapstructure:"log"`             // 日志配置
	DB             DBConfig             `mapstructure:"db"`              // 元数据库配置
	S3             S3Config             `mapstructure:"s3"`              // 对象存储配置
	KV             KVConfig             `mapstructure:"kv"`              // URL 缓存后端配置
	MQ             MQConfig             `mapstructure:"mq"`              // 消息队列配置
	Files          FilesConfig          `mapstructure:"files"`           // 附件业务配置
	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`      // 限流配置
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"` // 熔断配置
	Metrics        MetricsConfig        `mapstructure:"metrics"`         // 监控配置
	Tracing        TracingConfig        `mapstructure:"tracing"`         // 追踪配置
	Events         EventsConfig         `mapstructure:"events"`          // 事件发布配置
	Sweeper        SweeperConfig        `mapstructure:"sweeper"`         // 孤儿对象清扫配置
}

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
)

// InitConfig 加载应用程序配置. path 可以是配置文件路径，也可以是包含 config.* 的目录.
func InitConfig(path string) error {
	appViper = viper.New()
	setAllDefaults(appViper)

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		// 直接指定了配置文件，Viper 按扩展名识别格式
		appViper.SetConfigFile(path)
	} else {
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(filepath.Join(path, "configs"))

		for _, ext := range []string{"yaml", "yml", "json", "toml", "env", "dotenv"} {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.AutomaticEnv()
	appViper.SetEnvPrefix("ATTACHVAULT")

	if err := appViper.ReadInConfig(); err != nil {
		// 没有配置文件时允许退回默认值 + 环境变量
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	watchConfig(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

// setAllDefaults 设置所有配置段的默认值.
func setAllDefaults(v *viper.Viper) {
	(&ServerConfig{}).setDefaults(v)
	(&LogConfig{}).setDefaults(v)
	(&DBConfig{}).setDefaults(v)
	(&S3Config{}).setDefaults(v)
	(&KVConfig{}).setDefaults(v)
	(&MQConfig{}).setDefaults(v)
	(&FilesConfig{}).setDefaults(v)
	(&RateLimitConfig{}).setDefaults(v)
	(&CircuitBreakerConfig{}).setDefaults(v)
	(&MetricsConfig{}).setDefaults(v)
	(&TracingConfig{}).setDefaults(v)
	(&EventsConfig{}).setDefaults(v)
	(&SweeperConfig{}).setDefaults(v)
}

func watchConfig(v *viper.Viper, hotReload bool) {
	if !hotReload {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置实例.
func GetConfig() *AppConfig {
	return &globalConfig
}

// GetViper 返回全局 Viper 实例.
func GetViper() *viper.Viper {
	return appViper
}
