// Package dal 实现附件元数据的持久化访问层.
package dal

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeisme/attachvault/pkg/internal/category"
	"github.com/yeisme/attachvault/pkg/internal/model"
)

var (
	// ErrConflict 单值类别下该实体已存在附件记录.
	ErrConflict = errors.New("attachment already exists")
	// ErrNotFound 记录不存在.
	ErrNotFound = errors.New("attachment not found")
)

// FileMeta 创建记录时附带的文件元信息.
type FileMeta struct {
	FileName string
	Size     int64
	MimeType string
	Bucket   string
}

// FileDAL 附件记录的数据访问对象.
type FileDAL struct {
	db     *gorm.DB
	policy *category.Policy
}

// NewFileDAL 创建 FileDAL.
func NewFileDAL(db *gorm.DB, policy *category.Policy) *FileDAL {
	return &FileDAL{db: db, policy: policy}
}

// Migrate 执行附件表结构迁移.
func (d *FileDAL) Migrate(ctx context.Context) error {
	if err := d.db.WithContext(ctx).AutoMigrate(&model.FileRecord{}); err != nil {
		return fmt.Errorf("migrate file records: %w", err)
	}

	return nil
}

// slotFor 计算唯一索引的槽位：单值类别固定空串，多值类别用存储键占位.
func (d *FileDAL) slotFor(cat, storageKey string) string {
	if d.policy.Classify(cat) == category.Multi {
		return storageKey
	}

	return ""
}

// Create 插入一条附件记录.
// 单值类别的唯一性由数据库组合唯一索引保证，重复键错误翻译为 ErrConflict；
// 依赖 gorm 的 TranslateError 将各方言的 duplicate key 归一为 ErrDuplicatedKey.
func (d *FileDAL) Create(ctx context.Context, cat string, ownerID int64, storageKey string, meta FileMeta) (*model.FileRecord, error) {
	rec := &model.FileRecord{
		Category:   cat,
		OwnerID:    ownerID,
		Slot:       d.slotFor(cat, storageKey),
		StorageKey: storageKey,
		FileName:   meta.FileName,
		Size:       meta.Size,
		MimeType:   meta.MimeType,
		Bucket:     meta.Bucket,
	}

	if err := d.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: category %q owner %d", ErrConflict, cat, ownerID)
		}

		return nil, fmt.Errorf("create file record: %w", err)
	}

	return rec, nil
}

// FindByOwner 按 (类别, 实体) 查找全部附件记录.空结果不是错误.
func (d *FileDAL) FindByOwner(ctx context.Context, cat string, ownerID int64) ([]model.FileRecord, error) {
	var recs []model.FileRecord

	err := d.db.WithContext(ctx).
		Where("category = ? AND owner_id = ?", cat, ownerID).
		Order("id").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("find file records by owner: %w", err)
	}

	return recs, nil
}

// FindByStorageKey 按存储键查找记录.
func (d *FileDAL) FindByStorageKey(ctx context.Context, storageKey string) (*model.FileRecord, error) {
	var rec model.FileRecord

	err := d.db.WithContext(ctx).
		Where("storage_key = ?", storageKey).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: storage key %q", ErrNotFound, storageKey)
		}

		return nil, fmt.Errorf("find file record by storage key: %w", err)
	}

	return &rec, nil
}

// DeleteByStorageKey 按存储键删除记录，记录不存在时返回 ErrNotFound.
func (d *FileDAL) DeleteByStorageKey(ctx context.Context, storageKey string) error {
	res := d.db.WithContext(ctx).
		Where("storage_key = ?", storageKey).
		Delete(&model.FileRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete file record: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: storage key %q", ErrNotFound, storageKey)
	}

	return nil
}

// ExistingStorageKeys 返回给定桶内有记录的存储键集合，供清扫任务比对.
func (d *FileDAL) ExistingStorageKeys(ctx context.Context, bucket string) (map[string]struct{}, error) {
	var keys []string

	err := d.db.WithContext(ctx).
		Model(&model.FileRecord{}).
		Where("bucket = ?", bucket).
		Pluck("storage_key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("list storage keys: %w", err)
	}

	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}

	return set, nil
}
