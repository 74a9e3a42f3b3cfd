package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dvincze/phototz/internal/model"
)

func TestFileKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.jpg")
	if err := os.WriteFile(path, []byte("aaa"), 0o644); err != nil {
		t.Fatal(err)
	}

	key1, err := FileKey(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(key1, "phototz:v1:") {
		t.Errorf("unexpected key format: %s", key1)
	}

	key2, err := FileKey(path)
	if err != nil {
		t.Fatal(err)
	}
	if key1 != key2 {
		t.Error("expected a stable key for an unchanged file")
	}

	// A content change (size or mtime) must change the key.
	if err := os.WriteFile(path, []byte("bbbb"), 0o644); err != nil {
		t.Fatal(err)
	}
	key3, err := FileKey(path)
	if err != nil {
		t.Fatal(err)
	}
	if key3 == key1 {
		t.Error("expected the key to change with the file")
	}

	if _, err := FileKey(filepath.Join(dir, "missing.jpg")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Error("expected miss on empty cache")
	}
	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Get("k")
	if !ok || string(got) != "v" {
		t.Errorf("expected hit with v, got %q (ok=%v)", got, ok)
	}
	if err := c.Delete("k"); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache(t *testing.T) {
	c, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Get("k")
	if !ok || string(got) != "v" {
		t.Errorf("expected hit with v, got %q (ok=%v)", got, ok)
	}

	// Expired entries evict on read.
	if err := c.Set("old", []byte("x"), -time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("old"); ok {
		t.Error("expected expired entry to miss")
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after clear")
	}
}

func TestLayeredCache_Promote(t *testing.T) {
	mem := NewMemoryCache(time.Minute)
	disk, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewLayeredCache(mem, disk)

	// Seed only the disk layer; a read must promote into memory.
	if err := disk.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, ok := mem.Get("k"); ok {
		t.Fatal("memory layer unexpectedly warm")
	}
	got, ok := c.Get("k")
	if !ok || string(got) != "v" {
		t.Fatalf("expected layered hit, got %q (ok=%v)", got, ok)
	}
	if _, ok := mem.Get("k"); !ok {
		t.Error("expected promotion into the memory layer")
	}
}

func TestRecordStore_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.jpg")
	if err := os.WriteFile(path, []byte("jpeg bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewRecordStore(NewMemoryCache(time.Minute), time.Minute)

	if _, ok := store.Get(path); ok {
		t.Error("expected miss before Put")
	}

	rec := model.Record{
		"SourceFile":               path,
		"ExifIFD:DateTimeOriginal": "2024:07:15 12:00:00",
		"Composite:GPSLatitude":    47.4979,
	}
	if err := store.Put(path, rec); err != nil {
		t.Fatal(err)
	}

	got, ok := store.Get(path)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if v, _ := got.String("ExifIFD:DateTimeOriginal"); v != "2024:07:15 12:00:00" {
		t.Errorf("unexpected datetime after roundtrip: %q", v)
	}
	if lat, ok := got.Float("Composite:GPSLatitude"); !ok || lat != 47.4979 {
		t.Errorf("unexpected latitude after roundtrip: %v (ok=%v)", lat, ok)
	}

	// Touching the file invalidates the stored record.
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.Get(path); ok {
		t.Error("expected miss after the file changed")
	}
}

func TestRecordStore_NilSafe(t *testing.T) {
	var store *RecordStore
	if _, ok := store.Get("/nope"); ok {
		t.Error("nil store must miss")
	}
	if err := store.Put("/nope", model.Record{}); err != nil {
		t.Errorf("nil store Put must be a no-op, got %v", err)
	}
}
