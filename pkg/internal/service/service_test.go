package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/yeisme/attachvault/pkg/internal/category"
	"github.com/yeisme/attachvault/pkg/internal/dal"
	"github.com/yeisme/attachvault/pkg/internal/model"
)

// ---------- 带调用计数的测试替身 ----------

type fakeBlob struct {
	ensureCalls int
	putCalls    int
	urlCalls    int
	deleteCalls int

	objects map[string][]byte // "bucket/key" -> data

	failPut    error
	failDelete error
	failURL    error

	// ops 与其他替身共享的调用顺序日志
	ops *[]string
}

func (f *fakeBlob) log(op string) {
	if f.ops != nil {
		*f.ops = append(*f.ops, op)
	}
}

func (f *fakeBlob) BucketName(cat string) string {
	return "test-" + cat + "-bucket"
}

func (f *fakeBlob) EnsureBucket(ctx context.Context, bucket string) error {
	f.ensureCalls++
	return nil
}

func (f *fakeBlob) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	f.putCalls++

	if f.failPut != nil {
		return f.failPut
	}

	data, _ := io.ReadAll(r)
	f.objects[bucket+"/"+key] = data

	return nil
}

func (f *fakeBlob) AccessURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	f.urlCalls++

	if f.failURL != nil {
		return "", f.failURL
	}

	return fmt.Sprintf("https://s3.test/%s/%s?X-Amz-Expires=%d", bucket, key, int(ttl.Seconds())), nil
}

func (f *fakeBlob) Delete(ctx context.Context, bucket, key string) error {
	f.deleteCalls++
	f.log("blob.delete")

	if f.failDelete != nil {
		return f.failDelete
	}

	delete(f.objects, bucket+"/"+key)

	return nil
}

type fakeMeta struct {
	createCalls int
	findCalls   int
	deleteCalls int

	policy *category.Policy
	nextID uint
	byKey  map[string]*model.FileRecord

	ops *[]string
}

func (f *fakeMeta) log(op string) {
	if f.ops != nil {
		*f.ops = append(*f.ops, op)
	}
}

func (f *fakeMeta) Create(ctx context.Context, cat string, ownerID int64, storageKey string, meta dal.FileMeta) (*model.FileRecord, error) {
	f.createCalls++

	// 存储层唯一索引的模拟：单值类别 (category, owner) 至多一条
	if f.policy.Classify(cat) == category.Singleton {
		for _, rec := range f.byKey {
			if rec.Category == cat && rec.OwnerID == ownerID {
				return nil, fmt.Errorf("%w: category %q owner %d", dal.ErrConflict, cat, ownerID)
			}
		}
	}

	f.nextID++
	rec := &model.FileRecord{
		ID:         f.nextID,
		Category:   cat,
		OwnerID:    ownerID,
		StorageKey: storageKey,
		FileName:   meta.FileName,
		Size:       meta.Size,
		MimeType:   meta.MimeType,
		Bucket:     meta.Bucket,
	}
	f.byKey[storageKey] = rec

	return rec, nil
}

func (f *fakeMeta) FindByOwner(ctx context.Context, cat string, ownerID int64) ([]model.FileRecord, error) {
	f.findCalls++

	var recs []model.FileRecord

	for _, rec := range f.byKey {
		if rec.Category == cat && rec.OwnerID == ownerID {
			recs = append(recs, *rec)
		}
	}

	// 按 ID 排序保证结果稳定
	for i := range recs {
		for j := i + 1; j < len(recs); j++ {
			if recs[j].ID < recs[i].ID {
				recs[i], recs[j] = recs[j], recs[i]
			}
		}
	}

	return recs, nil
}

func (f *fakeMeta) FindByStorageKey(ctx context.Context, storageKey string) (*model.FileRecord, error) {
	f.findCalls++

	if rec, ok := f.byKey[storageKey]; ok {
		cp := *rec
		return &cp, nil
	}

	return nil, fmt.Errorf("%w: storage key %q", dal.ErrNotFound, storageKey)
}

func (f *fakeMeta) DeleteByStorageKey(ctx context.Context, storageKey string) error {
	f.deleteCalls++
	f.log("meta.delete")

	if _, ok := f.byKey[storageKey]; !ok {
		return fmt.Errorf("%w: storage key %q", dal.ErrNotFound, storageKey)
	}

	delete(f.byKey, storageKey)

	return nil
}

type fakeCache struct {
	getCalls    int
	setCalls    int
	deleteCalls int

	data map[string]string

	failGet error

	ops *[]string
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	f.getCalls++

	if f.failGet != nil {
		return "", false, f.failGet
	}

	url, ok := f.data[key]

	return url, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, key, url string) error {
	f.setCalls++
	f.data[key] = url

	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.deleteCalls++

	if f.ops != nil {
		*f.ops = append(*f.ops, "cache.delete")
	}

	delete(f.data, key)

	return nil
}

type fixture struct {
	svc   *FileService
	blob  *fakeBlob
	meta  *fakeMeta
	cache *fakeCache
	ops   []string
}

func newFixture() *fixture {
	f := &fixture{}
	policy := category.NewPolicy([]string{"user_photo", "project_logo", "task_attachment"}, "task_attachment")

	f.blob = &fakeBlob{objects: make(map[string][]byte), ops: &f.ops}
	f.meta = &fakeMeta{policy: policy, byKey: make(map[string]*model.FileRecord), ops: &f.ops}
	f.cache = &fakeCache{data: make(map[string]string), ops: &f.ops}

	f.svc = &FileService{
		blob:    f.blob,
		meta:    f.meta,
		cache:   f.cache,
		policy:  policy,
		linkTTL: 15 * time.Minute,
	}

	return f
}

func (f *fixture) upload(t *testing.T, cat string, owner int64, name string) string {
	t.Helper()

	data := []byte("payload of " + name)

	url, err := f.svc.Upload(context.Background(), cat, owner, name, bytes.NewReader(data), int64(len(data)), "application/octet-stream")
	if err != nil {
		t.Fatalf("upload %s: %v", name, err)
	}

	return url
}

// ---------- 测试 ----------

// TestInvalidCategoryNoSideEffects 白名单外的类别在触碰任何后端之前失败.
func TestInvalidCategoryNoSideEffects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Upload(ctx, "bogus", 1, "a", strings.NewReader("x"), 1, ""); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("Upload = %v, want ErrInvalidCategory", err)
	}

	if _, err := f.svc.Resolve(ctx, "bogus", 1); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("Resolve = %v, want ErrInvalidCategory", err)
	}

	if err := f.svc.Update(ctx, "bogus", "http://x/y/z", strings.NewReader("x"), 1, ""); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("Update = %v, want ErrInvalidCategory", err)
	}

	if err := f.svc.Delete(ctx, "bogus", "http://x/y/z"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("Delete = %v, want ErrInvalidCategory", err)
	}

	total := f.blob.ensureCalls + f.blob.putCalls + f.blob.urlCalls + f.blob.deleteCalls +
		f.meta.createCalls + f.meta.findCalls + f.meta.deleteCalls +
		f.cache.getCalls + f.cache.setCalls + f.cache.deleteCalls
	if total != 0 {
		t.Errorf("backing stores were touched %d times, want 0", total)
	}
}

// TestUploadThenResolveCacheHit 上传后立即解析命中缓存，不再生成第二个链接.
func TestUploadThenResolveCacheHit(t *testing.T) {
	f := newFixture()

	u1 := f.upload(t, "user_photo", 42, "me.jpg")

	if f.blob.urlCalls != 1 {
		t.Fatalf("AccessURL calls after upload = %d, want 1", f.blob.urlCalls)
	}

	urls, err := f.svc.Resolve(context.Background(), "user_photo", 42)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if len(urls) != 1 || urls[0] != u1 {
		t.Errorf("resolve = %v, want [%s]", urls, u1)
	}

	if f.blob.urlCalls != 1 {
		t.Errorf("AccessURL calls after cache-hit resolve = %d, want still 1", f.blob.urlCalls)
	}

	if f.meta.findCalls != 0 {
		t.Errorf("metadata lookups on cache hit = %d, want 0", f.meta.findCalls)
	}
}

// TestResolveMissPopulatesCache 缓存未命中时回源并回填.
func TestResolveMissPopulatesCache(t *testing.T) {
	f := newFixture()

	f.upload(t, "user_photo", 42, "me.jpg")

	// 清掉上传时的回填，模拟条目过期
	f.cache.data = make(map[string]string)

	urls, err := f.svc.Resolve(context.Background(), "user_photo", 42)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if len(urls) != 1 {
		t.Fatalf("resolve = %v, want one url", urls)
	}

	if f.blob.urlCalls != 2 {
		t.Errorf("AccessURL calls = %d, want 2 (upload + miss)", f.blob.urlCalls)
	}

	if _, ok := f.cache.data["user_photo:42"]; !ok {
		t.Error("cache not repopulated after miss")
	}
}

// TestResolveNotFound 无记录时返回逻辑 NotFound，而非连接故障.
func TestResolveNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Resolve(context.Background(), "user_photo", 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("resolve = %v, want ErrNotFound", err)
	}
}

// TestMultiResolvePerRecordKeys 多值类别逐记录解析，缓存键相互独立.
func TestMultiResolvePerRecordKeys(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.upload(t, "task_attachment", 7, "a.pdf")
	f.upload(t, "task_attachment", 7, "b.pdf")

	if len(f.meta.byKey) != 2 {
		t.Fatalf("records = %d, want 2", len(f.meta.byKey))
	}

	urls, err := f.svc.Resolve(ctx, "task_attachment", 7)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if len(urls) != 2 {
		t.Fatalf("resolve = %v, want 2 urls", urls)
	}

	if urls[0] == urls[1] {
		t.Error("per-record urls must be distinct")
	}

	k1, k2 := "task_attachment:7:1", "task_attachment:7:2"
	if _, ok := f.cache.data[k1]; !ok {
		t.Errorf("missing cache key %s", k1)
	}

	if _, ok := f.cache.data[k2]; !ok {
		t.Errorf("missing cache key %s", k2)
	}

	// 驱逐一条记录的缓存不影响其兄弟
	delete(f.cache.data, k1)

	urlCallsBefore := f.blob.urlCalls

	urls2, err := f.svc.Resolve(ctx, "task_attachment", 7)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if len(urls2) != 2 {
		t.Fatalf("resolve = %v, want 2 urls", urls2)
	}

	// 只有被驱逐的那条回源
	if got := f.blob.urlCalls - urlCallsBefore; got != 1 {
		t.Errorf("AccessURL calls for partial miss = %d, want 1", got)
	}
}

// TestSingletonSecondUploadConflict 单值类别二次上传冲突，原记录与缓存不动.
func TestSingletonSecondUploadConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u1 := f.upload(t, "user_photo", 42, "me.jpg")

	_, err := f.svc.Upload(ctx, "user_photo", 42, "me2.jpg", strings.NewReader("x"), 1, "")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second upload = %v, want ErrConflict", err)
	}

	// 原记录保持原样
	recs, _ := f.meta.FindByOwner(ctx, "user_photo", 42)
	if len(recs) != 1 || recs[0].FileName != "me.jpg" {
		t.Errorf("records after conflict = %+v, want the original only", recs)
	}

	// 缓存的链接保持原样
	if got := f.cache.data["user_photo:42"]; got != u1 {
		t.Errorf("cached url after conflict = %q, want %q", got, u1)
	}

	// 对象先于元数据写入，孤儿对象是接受的不一致窗口
	if f.blob.putCalls != 2 {
		t.Errorf("Put calls = %d, want 2", f.blob.putCalls)
	}
}

// TestUploadPutFailureStopsMetadata 对象写入失败时绝不写元数据.
func TestUploadPutFailureStopsMetadata(t *testing.T) {
	f := newFixture()
	f.blob.failPut = errors.New("storage unavailable")

	_, err := f.svc.Upload(context.Background(), "user_photo", 42, "me.jpg", strings.NewReader("x"), 1, "")
	if err == nil {
		t.Fatal("expected error")
	}

	if f.meta.createCalls != 0 {
		t.Errorf("metadata Create calls = %d, want 0", f.meta.createCalls)
	}
}

// TestDeleteOrdering 缓存删除严格最后；对象删除失败中止整个操作.
func TestDeleteOrdering(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u1 := f.upload(t, "user_photo", 42, "me.jpg")

	f.ops = f.ops[:0]

	if err := f.svc.Delete(ctx, "user_photo", u1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{"blob.delete", "meta.delete", "cache.delete"}
	if len(f.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", f.ops, want)
	}

	for i := range want {
		if f.ops[i] != want[i] {
			t.Fatalf("ops = %v, want %v", f.ops, want)
		}
	}
}

// TestDeleteBlobFailureStopsRest 对象删除失败时元数据与缓存保持原样.
func TestDeleteBlobFailureStopsRest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u1 := f.upload(t, "user_photo", 42, "me.jpg")

	f.blob.failDelete = errors.New("storage unavailable")

	if err := f.svc.Delete(ctx, "user_photo", u1); err == nil {
		t.Fatal("expected error")
	}

	if f.meta.deleteCalls != 0 {
		t.Errorf("metadata delete calls = %d, want 0", f.meta.deleteCalls)
	}

	if f.cache.deleteCalls != 0 {
		t.Errorf("cache delete calls = %d, want 0", f.cache.deleteCalls)
	}

	if len(f.meta.byKey) != 1 {
		t.Error("record must survive a failed blob delete")
	}
}

// TestUploadResolveDeleteScenario 上传→解析命中→删除→解析 NotFound.
func TestUploadResolveDeleteScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u1 := f.upload(t, "user_photo", 42, "me.jpg")

	urls, err := f.svc.Resolve(ctx, "user_photo", 42)
	if err != nil || len(urls) != 1 || urls[0] != u1 {
		t.Fatalf("resolve = (%v, %v), want ([%s], nil)", urls, err, u1)
	}

	if f.blob.urlCalls != 1 {
		t.Errorf("AccessURL calls = %d, want 1", f.blob.urlCalls)
	}

	if err := f.svc.Delete(ctx, "user_photo", u1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := f.svc.Resolve(ctx, "user_photo", 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("resolve after delete = %v, want ErrNotFound", err)
	}
}

// TestCacheFailureDegradesToOrigin 缓存故障降级到源站，不失败.
func TestCacheFailureDegradesToOrigin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.upload(t, "user_photo", 42, "me.jpg")

	f.cache.failGet = errors.New("cache unavailable")

	urls, err := f.svc.Resolve(ctx, "user_photo", 42)
	if err != nil {
		t.Fatalf("resolve with broken cache = %v, want success", err)
	}

	if len(urls) != 1 {
		t.Fatalf("resolve = %v, want one url", urls)
	}

	// 走了源站
	if f.blob.urlCalls != 2 {
		t.Errorf("AccessURL calls = %d, want 2", f.blob.urlCalls)
	}
}

// TestUpdateOverwritesInPlaceAndInvalidates 原地覆盖，不增记录，缓存失效.
func TestUpdateOverwritesInPlaceAndInvalidates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u1 := f.upload(t, "user_photo", 42, "me.jpg")

	if _, ok := f.cache.data["user_photo:42"]; !ok {
		t.Fatal("cache not populated by upload")
	}

	err := f.svc.Update(ctx, "user_photo", u1, strings.NewReader("new bytes"), 9, "image/png")
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	// 记录数不变，存储键不变
	if len(f.meta.byKey) != 1 {
		t.Errorf("records = %d, want 1", len(f.meta.byKey))
	}

	if f.meta.createCalls != 1 {
		t.Errorf("Create calls = %d, want 1 (update never creates)", f.meta.createCalls)
	}

	// 缓存已主动失效
	if _, ok := f.cache.data["user_photo:42"]; ok {
		t.Error("cache entry must be invalidated by update")
	}

	// 对象被覆盖
	if f.blob.putCalls != 2 {
		t.Errorf("Put calls = %d, want 2", f.blob.putCalls)
	}
}

// TestUpdateUnknownURL 链接指向不存在的记录时 NotFound.
func TestUpdateUnknownURL(t *testing.T) {
	f := newFixture()

	err := f.svc.Update(context.Background(), "user_photo", "https://s3.test/b/nope", strings.NewReader("x"), 1, "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("update = %v, want ErrNotFound", err)
	}
}
