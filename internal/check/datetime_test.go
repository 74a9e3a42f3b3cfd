package check

import (
	"strings"
	"testing"

	"github.com/dvincze/phototz/internal/model"
)

func newChecker(t *testing.T) *DatetimeChecker {
	t.Helper()
	return NewDatetimeChecker(DefaultCatalog())
}

func TestDatetimeChecker_NoCatalogTags(t *testing.T) {
	res := newChecker(t).Check(model.Record{
		"SourceFile": "/photos/2024/07/15/img.jpg",
		"File:Size":  "12345",
	})
	if !res.Empty() {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestDatetimeChecker_AnchorOnly(t *testing.T) {
	res := newChecker(t).Check(model.Record{
		"ExifIFD:DateTimeOriginal": "2024:07:15 12:00:00",
	})
	if !res.Empty() {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestDatetimeChecker_MissingAnchor_Fatal(t *testing.T) {
	res := newChecker(t).Check(model.Record{
		"SourceFile":         "/somewhere/img.jpg",
		"ExifIFD:CreateDate": "2024:07:15 12:00:00",
	})
	if len(res.Fatal) != 1 {
		t.Fatalf("expected one fatal entry, got %+v", res)
	}
	if _, ok := res.Fatal["ExifIFD:DateTimeOriginal"]; !ok {
		t.Errorf("expected fatal keyed by the anchor, got %+v", res.Fatal)
	}
	if len(res.Fixable) != 0 || len(res.Deletable) != 0 {
		t.Error("fatal anchor must short-circuit the other buckets")
	}
}

func TestDatetimeChecker_BlankAnchor_PathDateFix(t *testing.T) {
	res := newChecker(t).Check(model.Record{
		"SourceFile":         "/photos/2024/07/15/img.jpg",
		"ExifIFD:CreateDate": "2024:07:15 12:00:00",
	})
	want := "2024:07:15 00:00:00"
	if res.Fixable["ExifIFD:DateTimeOriginal"] != want {
		t.Errorf("expected fixable anchor %q, got %+v", want, res)
	}
	if len(res.Fatal) != 0 {
		t.Errorf("expected no fatal entries, got %+v", res.Fatal)
	}
}

func TestDatetimeChecker_GarbageAnchor_Fatal(t *testing.T) {
	res := newChecker(t).Check(model.Record{
		"ExifIFD:DateTimeOriginal": "not a datetime",
	})
	if len(res.Fatal) != 1 {
		t.Fatalf("expected one fatal entry, got %+v", res)
	}
}

func TestDatetimeChecker_ConsistentRecord(t *testing.T) {
	res := newChecker(t).Check(model.Record{
		"ExifIFD:DateTimeOriginal":   "2024:07:15 12:00:00",
		"ExifIFD:OffsetTimeOriginal": "+02:00",
		"ExifIFD:CreateDate":         "2024:07:15 12:00:00",
		"ExifIFD:OffsetTime":         "+02:00",
		"MakerNotes:DateTimeUTC":     "2024:07:15 10:00:00",
		"EXIF:GPSDateStamp":          "2024:07:15",
		"EXIF:GPSTimeStamp":          "10:00:05",
		"XMP-exif:GPSDateTime":       "2024:07:15 10:00:00Z",
	})
	if !res.Empty() {
		t.Errorf("expected clean record, got %+v", res)
	}
}

func TestDatetimeChecker_OffsetAdoption(t *testing.T) {
	// The anchor has no offset of its own; it adopts the first one
	// seen and the record stays consistent.
	res := newChecker(t).Check(model.Record{
		"ExifIFD:DateTimeOriginal": "2024:07:15 12:00:00",
		"ExifIFD:CreateDate":       "2024:07:15 12:00:00",
		"ExifIFD:OffsetTime":       "+02:00",
		"MakerNotes:DateTimeUTC":   "2024:07:15 10:00:00",
	})
	if !res.Empty() {
		t.Errorf("expected adopted offset to reconcile the record, got %+v", res)
	}
}

func TestDatetimeChecker_NaiveMismatch_Deletable(t *testing.T) {
	res := newChecker(t).Check(model.Record{
		"ExifIFD:DateTimeOriginal": "2024:07:15 12:00:00",
		"ExifIFD:CreateDate":       "2024:07:15 13:00:00",
	})
	reason, ok := res.Deletable["ExifIFD:CreateDate"]
	if !ok {
		t.Fatalf("expected deletable CreateDate, got %+v", res)
	}
	if !strings.Contains(reason, "diff=3600s") {
		t.Errorf("expected the second-level diff in the reason, got %q", reason)
	}
}

func TestDatetimeChecker_Tolerance(t *testing.T) {
	// MakerNotes:TimeStamp tolerates up to 10 seconds of drift.
	res := newChecker(t).Check(model.Record{
		"ExifIFD:DateTimeOriginal": "2024:07:15 12:00:00",
		"MakerNotes:TimeStamp":     "2024:07:15 12:00:08",
	})
	if !res.Empty() {
		t.Errorf("expected drift within tolerance to pass, got %+v", res)
	}

	res = newChecker(t).Check(model.Record{
		"ExifIFD:DateTimeOriginal": "2024:07:15 12:00:00",
		"MakerNotes:TimeStamp":     "2024:07:15 12:00:30",
	})
	if _, ok := res.Deletable["MakerNotes:TimeStamp"]; !ok {
		t.Errorf("expected drift beyond tolerance to be deletable, got %+v", res)
	}
}

func TestDatetimeChecker_EmbeddedOffsetMismatch_FixableRewrite(t *testing.T) {
	res := newChecker(t).Check(model.Record{
		"ExifIFD:DateTimeOriginal":   "2024:07:15 12:00:00",
		"ExifIFD:OffsetTimeOriginal": "+02:00",
		"XMP:CreateDate":             "2024:07:15 12:00:00+03:00",
	})
	want := "2024:07:15 12:00:00+02:00"
	if res.Fixable["XMP:CreateDate"] != want {
		t.Errorf("expected in-place rewrite to %q, got %+v", want, res)
	}
	// Same wall time under a different offset is also a different
	// instant, which the UTC comparison flags.
	if _, ok := res.Deletable["XMP:CreateDate"]; !ok {
		t.Errorf("expected the UTC disagreement to be recorded, got %+v", res)
	}
}

func TestDatetimeChecker_CompanionOffsetMismatch_Deletable(t *testing.T) {
	res := newChecker(t).Check(model.Record{
		"ExifIFD:DateTimeOriginal":   "2024:07:15 12:00:00",
		"ExifIFD:OffsetTimeOriginal": "+02:00",
		"ExifIFD:CreateDate":         "2024:07:15 12:00:00",
		"ExifIFD:OffsetTime":         "+03:00",
	})
	// Companion-held offsets are not rewritten in place.
	if _, ok := res.Fixable["ExifIFD:CreateDate"]; ok {
		t.Errorf("expected no in-place fix for a companion offset, got %+v", res)
	}
	if _, ok := res.Deletable["ExifIFD:CreateDate"]; !ok {
		t.Fatalf("expected deletable entry, got %+v", res)
	}
	// The companion goes with its parent.
	if _, ok := res.Deletable["ExifIFD:OffsetTime"]; !ok {
		t.Errorf("expected the companion flagged too, got %+v", res)
	}
}

func TestDatetimeChecker_MissingOffset_Fixable(t *testing.T) {
	res := newChecker(t).Check(model.Record{
		"ExifIFD:DateTimeOriginal":   "2024:07:15 12:00:00",
		"ExifIFD:OffsetTimeOriginal": "+02:00",
		"ExifIFD:CreateDate":         "2024:07:15 12:00:00",
		"QuickTime:CreateDate":       "2024:07:15 12:00:00",
	})
	// A tag with an offset companion gets the offset proposed there;
	// a tag without one gets it appended to its own value.
	if res.Fixable["ExifIFD:OffsetTime"] != "+02:00" {
		t.Errorf("expected +02:00 proposed for ExifIFD:OffsetTime, got %+v", res)
	}
	if res.Fixable["QuickTime:CreateDate"] != "2024:07:15 12:00:00+02:00" {
		t.Errorf("expected appended offset for QuickTime:CreateDate, got %+v", res)
	}
}

func TestDatetimeChecker_NoOffsetAnywhere_Deletable(t *testing.T) {
	// With no offset anywhere there is no UTC frame to compare in,
	// and nothing to propose as a fix.
	res := newChecker(t).Check(model.Record{
		"ExifIFD:DateTimeOriginal": "2024:07:15 12:00:00",
		"QuickTime:CreateDate":     "2024:07:15 12:00:00",
	})
	if !res.Empty() {
		t.Errorf("expected naive-only record to pass, got %+v", res)
	}
}

func TestDatetimeChecker_OrphanCompanion_Deletable(t *testing.T) {
	res := newChecker(t).Check(model.Record{
		"ExifIFD:DateTimeOriginal": "2024:07:15 12:00:00",
		"ExifIFD:OffsetTime":       "+02:00", // parent CreateDate missing
	})
	if res.Deletable["ExifIFD:OffsetTime"] != "Missing ExifIFD:CreateDate" {
		t.Errorf("expected orphan companion flagged, got %+v", res)
	}
}

func TestDatetimeChecker_SubsecMismatch_Deletable(t *testing.T) {
	res := newChecker(t).Check(model.Record{
		"ExifIFD:DateTimeOriginal":   "2024:07:15 12:00:00",
		"ExifIFD:SubSecTimeOriginal": "123",
		"ExifIFD:CreateDate":         "2024:07:15 12:00:00",
		"ExifIFD:SubSecTime":         "456",
	})
	if _, ok := res.Deletable["ExifIFD:CreateDate"]; !ok {
		t.Errorf("expected subsecond disagreement to be deletable, got %+v", res)
	}
}

func TestDatetimeChecker_ForcedUTCDrift_Deletable(t *testing.T) {
	res := newChecker(t).Check(model.Record{
		"ExifIFD:DateTimeOriginal":   "2024:07:15 12:00:00",
		"ExifIFD:OffsetTimeOriginal": "+02:00",
		"MakerNotes:DateTimeUTC":     "2024:07:15 11:00:00",
	})
	reason, ok := res.Deletable["MakerNotes:DateTimeUTC"]
	if !ok {
		t.Fatalf("expected deletable UTC tag, got %+v", res)
	}
	if !strings.Contains(reason, "utc=") {
		t.Errorf("expected a UTC comparison reason, got %q", reason)
	}
}
