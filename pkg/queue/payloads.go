package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// EventID 事件唯一 ID（ULID，按时间有序）.
	EventID string `json:"event_id"`
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// AttachmentRef 标识一个附件：所属类别、归属者与存储位置.
type AttachmentRef struct {
	Category   string `json:"category"`
	OwnerID    string `json:"owner_id"`
	RecordID   string `json:"record_id,omitempty"`
	Bucket     string `json:"bucket"`
	StorageKey string `json:"storage_key"`
	Size       int64  `json:"size,omitempty"`
	MimeType   string `json:"mime_type,omitempty"`
}

// AttachmentStoredPayload 附件已写入对象存储且元数据入库.
type AttachmentStoredPayload struct {
	Attachment AttachmentRef `json:"attachment"`
	FileName   string        `json:"file_name,omitempty"`
}

// AttachmentReplacedPayload 单槽位类别下旧附件被新附件替换.
type AttachmentReplacedPayload struct {
	Attachment     AttachmentRef `json:"attachment"`
	PrevStorageKey string        `json:"prev_storage_key"`
}

// AttachmentDeletedPayload 附件及其元数据被删除.
type AttachmentDeletedPayload struct {
	Attachment AttachmentRef `json:"attachment"`
}

// AttachmentResolvedPayload 附件访问链接被解析.
type AttachmentResolvedPayload struct {
	Attachment AttachmentRef `json:"attachment"`
	// CacheHit 链接是否来自缓存.
	CacheHit bool `json:"cache_hit"`
}

// SweepCompletedPayload 一轮孤儿对象回收完成.
type SweepCompletedPayload struct {
	SweptCount int           `json:"swept_count"`
	Elapsed    time.Duration `json:"elapsed"`
}
