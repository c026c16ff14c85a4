package service

import (
	"strconv"

	"github.com/yeisme/attachvault/pkg/internal/model"
	nlog "github.com/yeisme/attachvault/pkg/log"
	"github.com/yeisme/attachvault/pkg/queue"
)

const eventProducer = "attachvault"

// attachmentRef 由记录构造事件中的附件引用.
func attachmentRef(rec *model.FileRecord) queue.AttachmentRef {
	ref := queue.AttachmentRef{
		Category:   rec.Category,
		OwnerID:    strconv.FormatInt(rec.OwnerID, 10),
		Bucket:     rec.Bucket,
		StorageKey: rec.StorageKey,
		Size:       rec.Size,
		MimeType:   rec.MimeType,
	}

	if rec.ID != 0 {
		ref.RecordID = strconv.FormatUint(uint64(rec.ID), 10)
	}

	return ref
}

// 事件发布失败只记日志，不影响主流程.

func (fs *FileService) publishStored(rec *model.FileRecord) {
	if fs.pub == nil || !fs.events.Enabled || !fs.events.Attachment.Stored {
		return
	}

	payload := queue.AttachmentStoredPayload{
		Attachment: attachmentRef(rec),
		FileName:   rec.FileName,
	}

	if err := queue.PublishAttachmentStored(fs.pub, payload, queue.WithProducer(eventProducer)); err != nil {
		nlog.Logger().Warn().Err(err).Str("storage_key", rec.StorageKey).Msg("发布 stored 事件失败")
	}
}

func (fs *FileService) publishReplaced(rec *model.FileRecord, prevKey string) {
	if fs.pub == nil || !fs.events.Enabled || !fs.events.Attachment.Replaced {
		return
	}

	payload := queue.AttachmentReplacedPayload{
		Attachment:     attachmentRef(rec),
		PrevStorageKey: prevKey,
	}

	if err := queue.PublishAttachmentReplaced(fs.pub, payload, queue.WithProducer(eventProducer)); err != nil {
		nlog.Logger().Warn().Err(err).Str("storage_key", rec.StorageKey).Msg("发布 replaced 事件失败")
	}
}

func (fs *FileService) publishDeleted(rec *model.FileRecord) {
	if fs.pub == nil || !fs.events.Enabled || !fs.events.Attachment.Deleted {
		return
	}

	payload := queue.AttachmentDeletedPayload{Attachment: attachmentRef(rec)}

	if err := queue.PublishAttachmentDeleted(fs.pub, payload, queue.WithProducer(eventProducer)); err != nil {
		nlog.Logger().Warn().Err(err).Str("storage_key", rec.StorageKey).Msg("发布 deleted 事件失败")
	}
}

func (fs *FileService) publishResolved(rec *model.FileRecord, cacheHit bool) {
	if fs.pub == nil || !fs.events.Enabled || !fs.events.Attachment.Resolved {
		return
	}

	payload := queue.AttachmentResolvedPayload{
		Attachment: attachmentRef(rec),
		CacheHit:   cacheHit,
	}

	if err := queue.PublishAttachmentResolved(fs.pub, payload, queue.WithProducer(eventProducer)); err != nil {
		nlog.Logger().Warn().Err(err).Str("storage_key", rec.StorageKey).Msg("发布 resolved 事件失败")
	}
}
