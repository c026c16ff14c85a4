package urlcache

import (
	"context"
	"testing"
	"time"

	"github.com/yeisme/attachvault/pkg/internal/storage/kv"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("new memory kv: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })

	return New(store, 15*time.Minute)
}

// TestKeyShapes 单值与多值类别的键形状.
func TestKeyShapes(t *testing.T) {
	if got, want := SingletonKey("user_photo", 42), "user_photo:42"; got != want {
		t.Errorf("SingletonKey = %q, want %q", got, want)
	}

	if got, want := MultiKey("task_attachment", 7, 2), "task_attachment:7:2"; got != want {
		t.Errorf("MultiKey = %q, want %q", got, want)
	}

	// 同一实体的不同记录必须落在不同的键上
	if MultiKey("task_attachment", 7, 1) == MultiKey("task_attachment", 7, 2) {
		t.Error("per-record keys must be distinct")
	}
}

// TestCache_GetSetDelete 基本读写删.
func TestCache_GetSetDelete(t *testing.T) {
	uc := newTestCache(t)
	ctx := context.Background()
	key := SingletonKey("user_photo", 42)

	// 未命中
	_, hit, err := uc.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if hit {
		t.Error("expected miss on empty cache")
	}

	// 写入后命中
	if err := uc.Set(ctx, key, "https://s3.local/b/k"); err != nil {
		t.Fatalf("set: %v", err)
	}

	url, hit, err := uc.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if !hit || url != "https://s3.local/b/k" {
		t.Errorf("get = (%q, %v), want hit with stored url", url, hit)
	}

	// 删除后未命中
	if err := uc.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, hit, _ := uc.Get(ctx, key); hit {
		t.Error("expected miss after delete")
	}

	// 删除不存在的键视为成功
	if err := uc.Delete(ctx, key); err != nil {
		t.Errorf("delete missing key = %v, want nil", err)
	}
}

// TestCache_EmptyValueIsHit 空字符串值与未命中可区分.
func TestCache_EmptyValueIsHit(t *testing.T) {
	uc := newTestCache(t)
	ctx := context.Background()

	if err := uc.Set(ctx, "k", ""); err != nil {
		t.Fatalf("set: %v", err)
	}

	url, hit, err := uc.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if !hit || url != "" {
		t.Errorf("get = (%q, %v), want hit with empty value", url, hit)
	}
}

// TestCache_IndependentMultiKeys 删除一条记录的缓存不影响其兄弟记录.
func TestCache_IndependentMultiKeys(t *testing.T) {
	uc := newTestCache(t)
	ctx := context.Background()

	k1 := MultiKey("task_attachment", 7, 1)
	k2 := MultiKey("task_attachment", 7, 2)

	if err := uc.Set(ctx, k1, "u1"); err != nil {
		t.Fatalf("set k1: %v", err)
	}

	if err := uc.Set(ctx, k2, "u2"); err != nil {
		t.Fatalf("set k2: %v", err)
	}

	if err := uc.Delete(ctx, k1); err != nil {
		t.Fatalf("delete k1: %v", err)
	}

	if _, hit, _ := uc.Get(ctx, k1); hit {
		t.Error("k1 should be evicted")
	}

	if url, hit, _ := uc.Get(ctx, k2); !hit || url != "u2" {
		t.Error("k2 must survive deletion of its sibling")
	}
}

// TestCache_TTLExpiry 过期后未命中.
func TestCache_TTLExpiry(t *testing.T) {
	store, err := kv.NewKVStore(context.Background(), kv.KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("new memory kv: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })

	uc := New(store, 10*time.Millisecond)
	ctx := context.Background()

	if err := uc.Set(ctx, "k", "u"); err != nil {
		t.Fatalf("set: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, hit, _ := uc.Get(ctx, "k"); hit {
		t.Error("expected miss after ttl expiry")
	}
}
