// Package queue 定义消息主题常量，供发布/订阅使用.
package queue

// 主题命名规范：av.<域>.<动作>，尽量稳定且向后兼容.
// 域：attachment(附件生命周期)、sweep(后台回收)
// 动作：stored/replaced/deleted/resolved 等过去式表示已发生的事实

const (
	// 附件生命周期领域.
	TopicAttachmentStored   = "av.attachment.stored"   // 附件已写入对象存储且元数据入库
	TopicAttachmentReplaced = "av.attachment.replaced" // 单槽位类别下旧附件被新附件替换
	TopicAttachmentDeleted  = "av.attachment.deleted"  // 附件及其元数据被删除
	TopicAttachmentResolved = "av.attachment.resolved" // 附件访问链接被解析（用于热点统计）

	// 后台回收领域.
	TopicSweepCompleted = "av.sweep.completed" // 一轮孤儿对象回收完成
)

// 主题分组，用于批量订阅.
var (
	// 附件生命周期相关主题集合.
	AttachmentTopics = []string{
		TopicAttachmentStored, TopicAttachmentReplaced,
		TopicAttachmentDeleted, TopicAttachmentResolved,
	}
)
