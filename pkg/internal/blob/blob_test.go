package blob

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yeisme/attachvault/pkg/configs"
)

// TestStore_BucketName 桶名由前缀和类别确定性推导.
func TestStore_BucketName(t *testing.T) {
	s := NewStore(nil, &configs.FilesConfig{BucketPrefix: "attachvault"})

	tests := []struct {
		category string
		want     string
	}{
		{"user_photo", "attachvault-user_photo-bucket"},
		{"project_logo", "attachvault-project_logo-bucket"},
		{"task_attachment", "attachvault-task_attachment-bucket"},
	}

	for _, tt := range tests {
		if got := s.BucketName(tt.category); got != tt.want {
			t.Errorf("BucketName(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}

	// 相同输入必须产出相同桶名
	if s.BucketName("user_photo") != s.BucketName("user_photo") {
		t.Error("BucketName must be deterministic")
	}
}

// TestKeyFromURL 解析链接路径最后一段.
func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "presigned url with query",
			url:  "https://s3.local:9000/attachvault-user_photo-bucket/abc123?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Expires=900",
			want: "abc123",
		},
		{
			name: "plain path",
			url:  "http://minio/bucket/deadbeef",
			want: "deadbeef",
		},
		{
			name: "trailing slash",
			url:  "http://minio/bucket/key/",
			want: "key",
		},
		{
			name:    "no path",
			url:     "http://minio",
			wantErr: true,
		},
		{
			name:    "root only",
			url:     "http://minio/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KeyFromURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("KeyFromURL(%q) = %q, want error", tt.url, got)
				}

				return
			}

			if err != nil {
				t.Fatalf("KeyFromURL(%q): %v", tt.url, err)
			}

			if got != tt.want {
				t.Errorf("KeyFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

// TestKeyFromURL_RoundTrip 随机生成的存储键必须能从链接中原样回取.
func TestKeyFromURL_RoundTrip(t *testing.T) {
	for range 20 {
		key := uuid.NewString()
		if strings.ContainsRune(key, '/') {
			t.Fatalf("generated key %q contains a path separator", key)
		}

		url := "https://s3.local/attachvault-task_attachment-bucket/" + key + "?X-Amz-Expires=900"

		got, err := KeyFromURL(url)
		if err != nil {
			t.Fatalf("KeyFromURL: %v", err)
		}

		if got != key {
			t.Errorf("round trip: got %q, want %q", got, key)
		}
	}
}
