// Package exiftool is the boundary to the external metadata tool.
// Records come from `exiftool -j -G1`; when the binary is not
// installed a native EXIF decoder provides a minimal record.
package exiftool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/dvincze/phototz/internal/model"
)

// Reader reads metadata records for image files
type Reader struct {
	binary         string
	timeout        time.Duration
	nativeFallback bool
}

// NewReader builds a reader from configuration
func NewReader(cfg model.ExiftoolConfig) *Reader {
	return &Reader{
		binary:         cfg.Binary,
		timeout:        cfg.Timeout,
		nativeFallback: cfg.NativeFallback,
	}
}

// Read returns one record per path, in input order
func (r *Reader) Read(ctx context.Context, paths ...string) ([]model.Record, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	records, err := r.readTool(ctx, paths...)
	if err == nil {
		return records, nil
	}
	if r.nativeFallback && errors.Is(err, exec.ErrNotFound) {
		return r.readNative(paths...)
	}
	return nil, err
}

// ReadOne reads a single file's record
func (r *Reader) ReadOne(ctx context.Context, path string) (model.Record, error) {
	records, err := r.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("exiftool returned no record for %s", path)
	}
	return records[0], nil
}

// readTool invokes the exiftool binary. -j yields a JSON array of
// flat tag maps, -G1 family-1 group prefixes, -n numeric GPS values.
func (r *Reader) readTool(ctx context.Context, paths ...string) ([]model.Record, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := append([]string{"-j", "-G1", "-n"}, paths...)
	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, err
		}
		// exiftool exits non-zero when any file has problems but may
		// still emit usable records
		if stdout.Len() == 0 {
			return nil, fmt.Errorf("exiftool: %w (%s)", err, bytes.TrimSpace(stderr.Bytes()))
		}
	}

	var records []model.Record
	if err := json.Unmarshal(stdout.Bytes(), &records); err != nil {
		return nil, fmt.Errorf("parse exiftool output: %w", err)
	}
	return records, nil
}

// readNative builds minimal records (capture datetime + GPS) straight
// from the image files.
func (r *Reader) readNative(paths ...string) ([]model.Record, error) {
	records := make([]model.Record, 0, len(paths))
	for _, path := range paths {
		rec, err := decodeNative(path)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeNative(path string) (model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec := model.Record{"SourceFile": path}
	x, err := exif.Decode(f)
	if err != nil {
		if exif.IsCriticalError(err) {
			return nil, err
		}
		return rec, nil
	}

	if tag, err := x.Get(exif.DateTimeOriginal); err == nil {
		if s, err := tag.StringVal(); err == nil {
			rec["ExifIFD:DateTimeOriginal"] = s
		}
	}
	if tag, err := x.Get(exif.FieldName("OffsetTimeOriginal")); err == nil {
		if s, err := tag.StringVal(); err == nil {
			rec["ExifIFD:OffsetTimeOriginal"] = s
		}
	}
	if lat, lon, err := x.LatLong(); err == nil {
		rec["Composite:GPSLatitude"] = lat
		rec["Composite:GPSLongitude"] = lon
	}
	return rec, nil
}
