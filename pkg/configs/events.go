package configs

import "github.com/spf13/viper"

// EventsConfig 控制附件生命周期事件的发布（全局与分事件开关）.
type EventsConfig struct {
	Enabled    bool                   `mapstructure:"enabled"` // 总开关
	Attachment AttachmentEventsConfig `mapstructure:"attachment"`
}

// AttachmentEventsConfig 附件领域的事件开关.
type AttachmentEventsConfig struct {
	Stored   bool `mapstructure:"stored"`
	Replaced bool `mapstructure:"replaced"`
	Deleted  bool `mapstructure:"deleted"`
	Resolved bool `mapstructure:"resolved"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("events.enabled", true)

	// 默认只开最小必要集，避免事件噪声
	v.SetDefault("events.attachment.stored", true)
	v.SetDefault("events.attachment.deleted", true)
	v.SetDefault("events.attachment.replaced", false)
	v.SetDefault("events.attachment.resolved", false) // 访问事件量大，按需开启
}
