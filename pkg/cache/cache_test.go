package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

// backends that can be constructed without external services.
func testBackends(t *testing.T) map[string]Cache {
	t.Helper()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	return map[string]Cache{
		"memory": NewMemoryCache(),
		"file":   fc,
	}
}

func TestCache_SetGetDelete(t *testing.T) {
	for name, c := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("Get(missing) = ok=%v err=%v, want miss", ok, err)
			}

			if err := c.Set(ctx, "k", []byte("value"), 0); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			data, ok, err := c.Get(ctx, "k")
			if err != nil || !ok {
				t.Fatalf("Get(k) = ok=%v err=%v, want hit", ok, err)
			}
			if !bytes.Equal(data, []byte("value")) {
				t.Errorf("Get(k) = %q, want %q", data, "value")
			}

			if err := c.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, ok, _ := c.Get(ctx, "k"); ok {
				t.Error("Get after Delete still hits")
			}

			// Deleting an absent key is not an error.
			if err := c.Delete(ctx, "k"); err != nil {
				t.Errorf("Delete(absent) = %v, want nil", err)
			}

			if err := c.Close(); err != nil {
				t.Errorf("Close failed: %v", err)
			}
		})
	}
}

func TestCache_Expiry(t *testing.T) {
	for name, c := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := c.Set(ctx, "soon", []byte("x"), time.Millisecond); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			time.Sleep(5 * time.Millisecond)
			if _, ok, _ := c.Get(ctx, "soon"); ok {
				t.Error("expired entry still served")
			}

			// Zero TTL never expires.
			if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if _, ok, _ := c.Get(ctx, "forever"); !ok {
				t.Error("zero-TTL entry missing")
			}
		})
	}
}

func TestCache_Overwrite(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	c.Set(ctx, "k", []byte("old"), 0)
	c.Set(ctx, "k", []byte("new"), 0)

	data, ok, _ := c.Get(ctx, "k")
	if !ok || string(data) != "new" {
		t.Errorf("Get after overwrite = %q ok=%v, want %q", data, ok, "new")
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Errorf("NullCache.Get = ok=%v err=%v, want persistent miss", ok, err)
	}
}

func TestKey(t *testing.T) {
	if got := Key("pkg", "abc", "last_updated"); got != "pkg:abc:last_updated" {
		t.Errorf("Key = %q", got)
	}
}
