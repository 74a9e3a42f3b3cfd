package exiftool

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/dvincze/phototz/internal/model"
)

func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exiftool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReader_Read_NoPaths(t *testing.T) {
	r := NewReader(model.ExiftoolConfig{Binary: "exiftool"})
	records, err := r.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records != nil {
		t.Errorf("expected nil records, got %v", records)
	}
}

func TestReader_ReadOne(t *testing.T) {
	bin := fakeBinary(t, `echo '[{"SourceFile":"a.jpg","ExifIFD:DateTimeOriginal":"2024:07:15 12:00:00","Composite:GPSLatitude":47.5}]'`)
	r := NewReader(model.ExiftoolConfig{Binary: bin, Timeout: 5 * time.Second})

	rec, err := r.ReadOne(context.Background(), "a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := rec.String("ExifIFD:DateTimeOriginal"); got != "2024:07:15 12:00:00" {
		t.Errorf("DateTimeOriginal = %q", got)
	}
	if got, _ := rec.Float("Composite:GPSLatitude"); got != 47.5 {
		t.Errorf("GPSLatitude = %v", got)
	}
}

func TestReader_ReadTool_NonZeroExitWithOutput(t *testing.T) {
	// exiftool exits 1 when a file has warnings but still emits the record
	bin := fakeBinary(t, `echo '[{"SourceFile":"a.jpg"}]'; echo 'Warning: bad IFD' >&2; exit 1`)
	r := NewReader(model.ExiftoolConfig{Binary: bin})

	records, err := r.Read(context.Background(), "a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if got := records[0].SourceFile(); got != "a.jpg" {
		t.Errorf("SourceFile = %q", got)
	}
}

func TestReader_ReadTool_NonZeroExitWithoutOutput(t *testing.T) {
	bin := fakeBinary(t, `echo 'File not found' >&2; exit 1`)
	r := NewReader(model.ExiftoolConfig{Binary: bin})

	if _, err := r.Read(context.Background(), "missing.jpg"); err == nil {
		t.Error("expected error when no records were emitted")
	}
}

func TestReader_ReadTool_BadJSON(t *testing.T) {
	bin := fakeBinary(t, `echo 'not json'`)
	r := NewReader(model.ExiftoolConfig{Binary: bin})

	if _, err := r.Read(context.Background(), "a.jpg"); err == nil {
		t.Error("expected parse error for malformed output")
	}
}

func TestReader_MissingBinary(t *testing.T) {
	r := NewReader(model.ExiftoolConfig{Binary: "phototz-no-such-exiftool"})

	_, err := r.Read(context.Background(), "a.jpg")
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("expected exec.ErrNotFound, got %v", err)
	}
}
