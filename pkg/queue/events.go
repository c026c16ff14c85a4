package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishAttachmentStored 发布 av.attachment.stored 事件。
// 用于附件写入对象存储并同步元数据到数据库后，通知下游流程。
// 可通过可选项 opts 注入 TraceID、Producer 等头部信息。
func PublishAttachmentStored(pub message.Publisher, payload AttachmentStoredPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAttachmentStored, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAttachmentStored, msg)
}

// PublishAttachmentReplaced 发布 av.attachment.replaced 事件。
func PublishAttachmentReplaced(pub message.Publisher, payload AttachmentReplacedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAttachmentReplaced, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAttachmentReplaced, msg)
}

// PublishAttachmentDeleted 发布 av.attachment.deleted 事件。
func PublishAttachmentDeleted(pub message.Publisher, payload AttachmentDeletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAttachmentDeleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAttachmentDeleted, msg)
}

// PublishAttachmentResolved 发布 av.attachment.resolved 事件。
func PublishAttachmentResolved(pub message.Publisher, payload AttachmentResolvedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAttachmentResolved, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAttachmentResolved, msg)
}

// ParseAttachmentStored 将 Watermill 消息解析为强类型 Envelope.
func ParseAttachmentStored(msg *message.Message) (Message[AttachmentStoredPayload], error) {
	return ParseWatermillMessage[AttachmentStoredPayload](msg)
}

// ParseAttachmentDeleted 将 Watermill 消息解析为强类型 Envelope.
func ParseAttachmentDeleted(msg *message.Message) (Message[AttachmentDeletedPayload], error) {
	return ParseWatermillMessage[AttachmentDeletedPayload](msg)
}
