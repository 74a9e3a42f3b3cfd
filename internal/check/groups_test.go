package check

import (
	"testing"

	"github.com/dvincze/phototz/internal/model"
)

func TestCatalog_NormalizeRecord(t *testing.T) {
	c := DefaultCatalog()

	rec := model.Record{
		"EXIF:DateTimeOriginal":   "2024:07:15 12:00:00",
		"EXIF:OffsetTimeOriginal": "+02:00",
		"XMP:GPSDateTime":         "2024:07:15 10:00:00Z",
		"File:FileName":           "a.jpg",
	}

	norm := c.NormalizeRecord(rec)

	if got, _ := norm.String("ExifIFD:DateTimeOriginal"); got != "2024:07:15 12:00:00" {
		t.Errorf("ExifIFD:DateTimeOriginal = %q", got)
	}
	if got, _ := norm.String("ExifIFD:OffsetTimeOriginal"); got != "+02:00" {
		t.Errorf("ExifIFD:OffsetTimeOriginal = %q", got)
	}
	if got, _ := norm.String("XMP-exif:GPSDateTime"); got != "2024:07:15 10:00:00Z" {
		t.Errorf("XMP-exif:GPSDateTime = %q", got)
	}

	// The input record is left alone.
	if rec.Has("ExifIFD:DateTimeOriginal") {
		t.Error("input record was modified")
	}
}

func TestCatalog_NormalizeRecord_CatalogNameWins(t *testing.T) {
	c := DefaultCatalog()

	rec := model.Record{
		"ExifIFD:DateTimeOriginal": "2024:07:15 12:00:00",
		"EXIF:DateTimeOriginal":    "1999:01:01 00:00:00",
	}

	norm := c.NormalizeRecord(rec)
	if got, _ := norm.String("ExifIFD:DateTimeOriginal"); got != "2024:07:15 12:00:00" {
		t.Errorf("catalog spelling overwritten: %q", got)
	}
}

func TestCatalog_NormalizeRecord_NoAliases(t *testing.T) {
	c := DefaultCatalog()

	rec := model.Record{"ExifIFD:DateTimeOriginal": "2024:07:15 12:00:00"}
	norm := c.NormalizeRecord(rec)
	if got := len(norm); got != 1 {
		t.Errorf("record grew to %d keys without any alias present", got)
	}
}

func TestDatetimeChecker_FamilyZeroRecord(t *testing.T) {
	checker := NewDatetimeChecker(DefaultCatalog())

	res := checker.Check(model.Record{
		"EXIF:DateTimeOriginal":   "2024:07:15 12:00:00",
		"EXIF:OffsetTimeOriginal": "+02:00",
		"EXIF:CreateDate":         "2024:07:15 12:00:00",
		"EXIF:OffsetTime":         "+02:00",
	})
	if !res.Empty() {
		t.Errorf("expected clean result for consistent -G0 record, got %+v", res)
	}
}
