// Package mq 提供进程内消息队列实现。
// gochannel 后端不依赖外部 broker，消息仅在当前进程内传递，
// 用于开发环境与单元测试.
package mq

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/yeisme/attachvault/pkg/configs"
)

const defaultChannelBufferSize = 128

// init 注册进程内 channel 工厂.
func init() {
	RegisterFactory(configs.MQTypeChannel, channelFactory)
}

// channelFactory 创建进程内 Publisher & Subscriber.
// gochannel 的 Publisher 与 Subscriber 是同一个对象.
func channelFactory(
	_ context.Context,
	_ *configs.MQConfig,
	logger watermill.LoggerAdapter) (
	message.Publisher, message.Subscriber, error) {
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: defaultChannelBufferSize,
	}, logger)

	return ch, ch, nil
}
