package dal

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yeisme/attachvault/pkg/internal/category"
)

func newTestDAL(t *testing.T) *FileDAL {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	policy := category.NewPolicy([]string{"user_photo", "project_logo", "task_attachment"}, "task_attachment")
	d := NewFileDAL(db, policy)

	if err := d.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return d
}

// TestFileDAL_CreateSingletonConflict 单值类别第二次插入必须冲突，且由唯一索引拦截.
func TestFileDAL_CreateSingletonConflict(t *testing.T) {
	d := newTestDAL(t)
	ctx := context.Background()

	first, err := d.Create(ctx, "user_photo", 42, "key-1", FileMeta{FileName: "a.jpg"})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err = d.Create(ctx, "user_photo", 42, "key-2", FileMeta{FileName: "b.jpg"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second create = %v, want ErrConflict", err)
	}

	// 原记录不受影响
	recs, err := d.FindByOwner(ctx, "user_photo", 42)
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	if len(recs) != 1 || recs[0].StorageKey != first.StorageKey {
		t.Errorf("records = %+v, want only the first", recs)
	}
}

// TestFileDAL_CreateSingletonDifferentOwners 不同实体互不冲突.
func TestFileDAL_CreateSingletonDifferentOwners(t *testing.T) {
	d := newTestDAL(t)
	ctx := context.Background()

	if _, err := d.Create(ctx, "user_photo", 1, "key-1", FileMeta{}); err != nil {
		t.Fatalf("create owner 1: %v", err)
	}

	if _, err := d.Create(ctx, "user_photo", 2, "key-2", FileMeta{}); err != nil {
		t.Fatalf("create owner 2: %v", err)
	}

	if _, err := d.Create(ctx, "project_logo", 1, "key-3", FileMeta{}); err != nil {
		t.Fatalf("create other category same owner: %v", err)
	}
}

// TestFileDAL_CreateMultiNoConflict 多值类别同一实体可挂任意多条.
func TestFileDAL_CreateMultiNoConflict(t *testing.T) {
	d := newTestDAL(t)
	ctx := context.Background()

	for _, key := range []string{"k1", "k2", "k3"} {
		if _, err := d.Create(ctx, "task_attachment", 7, key, FileMeta{}); err != nil {
			t.Fatalf("create %s: %v", key, err)
		}
	}

	recs, err := d.FindByOwner(ctx, "task_attachment", 7)
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}

	seen := make(map[string]bool)
	for _, r := range recs {
		if seen[r.StorageKey] {
			t.Errorf("duplicate storage key %s", r.StorageKey)
		}

		seen[r.StorageKey] = true
	}
}

// TestFileDAL_FindByOwnerEmpty 空结果不是错误.
func TestFileDAL_FindByOwnerEmpty(t *testing.T) {
	d := newTestDAL(t)

	recs, err := d.FindByOwner(context.Background(), "user_photo", 999)
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	if len(recs) != 0 {
		t.Errorf("got %d records, want 0", len(recs))
	}
}

// TestFileDAL_FindByStorageKey 按存储键查找与 NotFound 区分.
func TestFileDAL_FindByStorageKey(t *testing.T) {
	d := newTestDAL(t)
	ctx := context.Background()

	created, err := d.Create(ctx, "task_attachment", 7, "k1", FileMeta{FileName: "doc.pdf", Size: 123})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := d.FindByStorageKey(ctx, "k1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	if got.ID != created.ID || got.OwnerID != 7 || got.FileName != "doc.pdf" {
		t.Errorf("got %+v, want created record", got)
	}

	_, err = d.FindByStorageKey(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("find missing = %v, want ErrNotFound", err)
	}
}

// TestFileDAL_DeleteByStorageKey 删除后记录消失，二次删除 NotFound.
func TestFileDAL_DeleteByStorageKey(t *testing.T) {
	d := newTestDAL(t)
	ctx := context.Background()

	if _, err := d.Create(ctx, "user_photo", 42, "k1", FileMeta{}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := d.DeleteByStorageKey(ctx, "k1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := d.FindByStorageKey(ctx, "k1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("find after delete = %v, want ErrNotFound", err)
	}

	if err := d.DeleteByStorageKey(ctx, "k1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

// TestFileDAL_DeleteFreesSingletonSlot 删除后单值槽位可复用.
func TestFileDAL_DeleteFreesSingletonSlot(t *testing.T) {
	d := newTestDAL(t)
	ctx := context.Background()

	if _, err := d.Create(ctx, "user_photo", 42, "k1", FileMeta{}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := d.DeleteByStorageKey(ctx, "k1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := d.Create(ctx, "user_photo", 42, "k2", FileMeta{}); err != nil {
		t.Errorf("create after delete = %v, want nil", err)
	}
}

// TestFileDAL_ExistingStorageKeys 按桶列出有记录的存储键.
func TestFileDAL_ExistingStorageKeys(t *testing.T) {
	d := newTestDAL(t)
	ctx := context.Background()

	if _, err := d.Create(ctx, "task_attachment", 7, "k1", FileMeta{Bucket: "b1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := d.Create(ctx, "task_attachment", 7, "k2", FileMeta{Bucket: "b2"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	keys, err := d.ExistingStorageKeys(ctx, "b1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if _, ok := keys["k1"]; !ok || len(keys) != 1 {
		t.Errorf("keys = %v, want only k1", keys)
	}
}
