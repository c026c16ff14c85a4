package configs

import (
	"github.com/spf13/viper"
)

// MQType 消息队列类型.
type MQType string

const (
	// MQTypeNATS NATS（可选 JetStream）.
	MQTypeNATS MQType = "nats"
	// MQTypeChannel 进程内 gochannel，适合开发与测试.
	MQTypeChannel MQType = "channel"
)

const (
	DefaultMQURL           = "nats://localhost:4222"
	DefaultMQClientID      = "attachvault"
	DefaultMQMaxReconnects = 5
	DefaultMQReconnectWait = 2   // 秒
	DefaultMQPingInterval  = 20  // 秒
	DefaultMQBufferSize    = 8 * 1024 * 1024
)

// MQConfig 消息队列配置.
type MQConfig struct {
	Type        MQType   `mapstructure:"type" rule:"oneof=nats channel"`
	URL         string   `mapstructure:"url"`
	ClusterURLs []string `mapstructure:"cluster_urls"`
	ClientID    string   `mapstructure:"client_id"`

	// 认证：JWT+seed、NKey、用户名/密码，三选一
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	JWT      string `mapstructure:"jwt"`
	NKey     string `mapstructure:"nkey"`

	MaxReconnects int `mapstructure:"max_reconnects"`
	ReconnectWait int `mapstructure:"reconnect_wait"`
	PingInterval  int `mapstructure:"ping_interval"`
	BufferSize    int `mapstructure:"buffer_size"`

	// JetStream 相关
	JetStreamEnabled       bool   `mapstructure:"jetstream_enabled"`
	JetStreamAutoProvision bool   `mapstructure:"jetstream_auto_provision"`
	JetStreamTrackMsgID    bool   `mapstructure:"jetstream_track_msg_id"`
	JetStreamAckAsync      bool   `mapstructure:"jetstream_ack_async"`
	JetStreamDurablePrefix string `mapstructure:"jetstream_durable_prefix"`
}

// GetMQType 返回消息队列类型.
func (c *MQConfig) GetMQType() MQType {
	return c.Type
}

// setDefaults 设置 MQ 配置的默认值.
func (c *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.type", MQTypeChannel)
	v.SetDefault("mq.url", DefaultMQURL)
	v.SetDefault("mq.cluster_urls", []string{})
	v.SetDefault("mq.client_id", DefaultMQClientID)
	v.SetDefault("mq.max_reconnects", DefaultMQMaxReconnects)
	v.SetDefault("mq.reconnect_wait", DefaultMQReconnectWait)
	v.SetDefault("mq.ping_interval", DefaultMQPingInterval)
	v.SetDefault("mq.buffer_size", DefaultMQBufferSize)
	v.SetDefault("mq.jetstream_enabled", false)
	v.SetDefault("mq.jetstream_auto_provision", true)
	v.SetDefault("mq.jetstream_track_msg_id", false)
	v.SetDefault("mq.jetstream_ack_async", false)
	v.SetDefault("mq.jetstream_durable_prefix", "")
}
