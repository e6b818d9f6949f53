package cli

import (
	"path/filepath"
	"testing"
)

func TestCacheDir_EnvOverride(t *testing.T) {
	t.Setenv("PEDKIT_CACHE_DIR", "/tmp/custom-cache")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir error: %v", err)
	}
	if dir != "/tmp/custom-cache" {
		t.Errorf("cacheDir = %q, want env override", dir)
	}
}

func TestCacheDir_Default(t *testing.T) {
	t.Setenv("PEDKIT_CACHE_DIR", "")
	dir, err := cacheDir()
	if err != nil {
		t.Skipf("no user cache dir: %v", err)
	}
	if filepath.Base(dir) != "pedkit" {
		t.Errorf("cacheDir = %q, want a pedkit subdirectory", dir)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{1536, "1.5 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
