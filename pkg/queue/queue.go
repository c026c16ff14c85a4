// Package queue 管理附件生命周期事件的消息封装与发布.
//
// 概览
//   - 采用发布/订阅模型，解耦"上传、替换、删除、解析"与下游消费（统计、审计、清理）
//   - 统一的消息封装：Message[Payload] = Header + Payload
//   - 主题常量见 topics.go，负载结构体见 payloads.go
//   - 默认 JSON 编解码（bytedance/sonic），跨语言易解析
//
// 消息信封（Envelope）JSON 结构
//
//	{
//	  "header": {
//	    "event_id": "01J8ZQ4X3YB6H2M9V0T5R7K8WD",
//	    "topic": "av.attachment.stored",
//	    "trace_id": "optional-trace-id",
//	    "producer": "attachvault",
//	    "occurred_at": "2025-01-02T03:04:05.123456Z",
//	    "version": "v1"
//	  },
//	  "payload": { ... 取决于具体主题 ... }
//	}
//
// 发布/订阅示例
//
//	payload := queue.AttachmentStoredPayload{
//	  Attachment: queue.AttachmentRef{
//	    Category: "user_photo",
//	    OwnerID: "alice",
//	    Bucket: "attachvault-user_photo-bucket",
//	    StorageKey: "01J8...jpg",
//	  },
//	}
//
//	msg, _ := queue.NewWatermillMessage(
//	  queue.TopicAttachmentStored, payload,
//	  queue.WithProducer("attachvault"),
//	)
//	// client, _ := mq.New(ctx, &cfg.MQ)
//	// _ = client.Publish(ctx, queue.TopicAttachmentStored, msg)
//
//	// 订阅（简化展示）
//	// ch, _ := client.Subscribe(ctx, queue.TopicAttachmentStored)
//	// for m := range ch {
//	//     env, _ := queue.ParseWatermillMessage[queue.AttachmentStoredPayload](m)
//	//     // 使用 env.Header / env.Payload ...
//	//     m.Ack()
//	// }
//
// 注意事项
//  1. occurred_at 为 UTC，RFC3339 格式
//  2. version 便于后向兼容，建议消费者忽略未知字段
//  3. Header.topic 与消息中间件的 Subject/Topic 可能重复，意在离线可追踪
package queue

import (
	crand "crypto/rand"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
	"github.com/oklog/ulid"
)

const (
	PayloadVersionV1 string = "v1"
)

var ulidEntropy = ulid.Monotonic(crand.Reader, 0)

// NewEventHeader 便捷创建事件头.
func NewEventHeader(topic string, opts ...func(*EventHeader)) EventHeader {
	now := time.Now().UTC()
	hdr := EventHeader{
		EventID:    ulid.MustNew(ulid.Timestamp(now), ulidEntropy).String(),
		Topic:      topic,
		OccurredAt: now,
		Version:    PayloadVersionV1,
	}
	for _, opt := range opts {
		opt(&hdr)
	}

	return hdr
}

// WithTraceID 设置 TraceID.
func WithTraceID(id string) func(*EventHeader) { return func(h *EventHeader) { h.TraceID = id } }

// WithProducer 设置 Producer.
func WithProducer(p string) func(*EventHeader) { return func(h *EventHeader) { h.Producer = p } }

// Encode 将消息封装为 JSON 字节切片.
func Encode[T any](msg Message[T]) ([]byte, error) { return sonic.Marshal(msg) }

// Decode 从 JSON 字节解码为消息.
func Decode[T any](b []byte) (Message[T], error) {
	var m Message[T]

	err := sonic.Unmarshal(b, &m)

	return m, err
}

// NewWatermillMessage 构造一个 watermill 消息，设置 ID 与元数据.
func NewWatermillMessage[T any](topic string, payload T, opts ...func(*EventHeader)) (*message.Message, error) {
	header := NewEventHeader(topic, opts...)
	env := Message[T]{Header: header, Payload: payload}

	data, err := Encode(env)
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(header.EventID, data)
	msg.Metadata.Set("topic", topic)

	if header.TraceID != "" {
		msg.Metadata.Set("trace_id", header.TraceID)
	}

	if header.Producer != "" {
		msg.Metadata.Set("producer", header.Producer)
	}

	msg.Metadata.Set("occurred_at", header.OccurredAt.Format(time.RFC3339Nano))

	if header.Version != "" {
		msg.Metadata.Set("version", header.Version)
	}

	return msg, nil
}

// ParseWatermillMessage 解出泛型负载.
func ParseWatermillMessage[T any](msg *message.Message) (Message[T], error) {
	return Decode[T](msg.Payload)
}
