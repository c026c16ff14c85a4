// Package model 定义持久化数据模型.
package model

import (
	"time"
)

// FileRecord 附件记录.
//
// 单值类别下 (category, owner_id) 至多一条记录，多值类别下可以有任意多条；
// 两种情况统一由 (category, owner_id, slot) 组合唯一索引约束：
// 单值类别 Slot 固定为空串，多值类别 Slot 等于 StorageKey.
// 唯一性必须由存储层保证，先查后插无法关闭并发窗口.
type FileRecord struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Category string `gorm:"size:128;index:idx_category_owner_slot,unique;index:idx_category_owner" json:"category"`
	OwnerID  int64  `gorm:"index:idx_category_owner_slot,unique;index:idx_category_owner"          json:"owner_id"`
	Slot     string `gorm:"size:64;index:idx_category_owner_slot,unique"                           json:"-"`
	// StorageKey 对象存储内的键，上传时随机生成，与任何用户输入无关，终生不变.
	StorageKey string `gorm:"size:64;uniqueIndex" json:"storage_key"`
	FileName   string `gorm:"size:512"            json:"file_name"`
	Size       int64  `json:"size"`
	MimeType   string `gorm:"size:255" json:"mime_type"`
	Bucket     string `gorm:"size:255" json:"bucket"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
