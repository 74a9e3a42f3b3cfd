package check

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dvincze/phototz/internal/model"
	"github.com/dvincze/phototz/internal/tzrule"
)

// DefaultBorderToleranceMeters is used when the caller passes no
// explicit tolerance.
const DefaultBorderToleranceMeters = 200

// Candidate GPS tag pairs, in lookup order. Both exiftool group-name
// families are listed so records read with -G0 or -G1 both resolve.
var gpsTagPairs = [][2]string{
	{"Composite:GPSLatitude", "Composite:GPSLongitude"},
	{"EXIF:GPSLatitude", "EXIF:GPSLongitude"},
	{"GPS:GPSLatitude", "GPS:GPSLongitude"},
}

// Candidate offset tags, in lookup order
var offsetTags = []string{
	"ExifIFD:OffsetTimeOriginal", "EXIF:OffsetTimeOriginal",
	"ExifIFD:OffsetTimeDigitized", "EXIF:OffsetTimeDigitized",
	"ExifIFD:OffsetTime", "EXIF:OffsetTime",
	"ExifIFD:TimeZoneOffset", "EXIF:TimeZoneOffset",
	"XMP:TimeZone", "XMP:Timezone",
	"XMP:TimeZoneOffset", "XMP:TimezoneOffset",
	"QuickTime:TimeZone", "QuickTime:Timezone",
}

// Candidate capture datetime tags, in lookup order
var captureTags = []string{
	"ExifIFD:DateTimeOriginal", "EXIF:DateTimeOriginal",
	"ExifIFD:CreateDate", "EXIF:CreateDate",
	"ExifIFD:DateTimeDigitized", "EXIF:DateTimeDigitized",
	"XMP:DateTimeOriginal",
	"QuickTime:CreateDate",
}

// TimezoneChecker validates that a record's declared UTC offset agrees
// with the offset resolved from its GPS coordinates and capture time.
type TimezoneChecker struct {
	resolver *tzrule.Resolver
}

// NewTimezoneChecker wires the checker to an offset resolver
func NewTimezoneChecker(resolver *tzrule.Resolver) *TimezoneChecker {
	return &TimezoneChecker{resolver: resolver}
}

// Check raises a typed error on missing inputs or an offset mismatch
// and returns nil otherwise. A declared offset matching any point
// within toleranceMeters of the coordinates is accepted: the record
// may have been captured just across a zone border.
func (c *TimezoneChecker) Check(rec model.Record, toleranceMeters float64) error {
	lat, lon, err := extractLatLon(rec)
	if err != nil {
		return err
	}
	declared, err := extractDeclaredOffset(rec)
	if err != nil {
		return err
	}
	local, err := extractNaiveLocal(rec)
	if err != nil {
		return err
	}

	expected, ok, err := c.resolver.OffsetFor(lat, lon, local)
	if err != nil {
		return err
	}
	if !ok {
		return &UnresolvedZoneError{Lat: lat, Lon: lon}
	}
	expectedStr := FormatOffsetHHMM(expected)
	if declared == expectedStr {
		return nil
	}

	if c.probeBorder(lat, lon, local, declared, toleranceMeters) {
		return nil
	}
	return &TzMismatchError{
		Declared: declared,
		Expected: expectedStr,
		Lat:      lat,
		Lon:      lon,
		Local:    local,
	}
}

// probeBorder tests 8 points around the coordinates at the given
// metric distance; if any of them resolves to the declared offset the
// record is considered to sit on a zone border.
func (c *TimezoneChecker) probeBorder(lat, lon float64, local time.Time, declared string, toleranceMeters float64) bool {
	const mPerDegLat = 111320.0
	mPerDegLon := math.Max(1e-6, mPerDegLat*math.Cos(lat*math.Pi/180))
	dlat := toleranceMeters / mPerDegLat
	dlon := toleranceMeters / mPerDegLon

	probes := [8][2]float64{
		{dlat, 0}, {-dlat, 0},
		{0, dlon}, {0, -dlon},
		{dlat, dlon}, {dlat, -dlon},
		{-dlat, dlon}, {-dlat, -dlon},
	}
	for _, pr := range probes {
		off, ok, err := c.resolver.OffsetFor(lat+pr[0], lon+pr[1], local)
		if err != nil || !ok {
			continue
		}
		if FormatOffsetHHMM(off) == declared {
			return true
		}
	}
	return false
}

// RecordLatLon returns the first GPS coordinate pair present in the
// record, or a NoGpsError.
func RecordLatLon(rec model.Record) (float64, float64, error) {
	return extractLatLon(rec)
}

func extractLatLon(rec model.Record) (float64, float64, error) {
	for _, pair := range gpsTagPairs {
		lat, okLat := rec.Float(pair[0])
		lon, okLon := rec.Float(pair[1])
		if okLat && okLon {
			return lat, lon, nil
		}
	}
	return 0, 0, &NoGpsError{}
}

func extractDeclaredOffset(rec model.Record) (string, error) {
	for _, tag := range offsetTags {
		val, ok := rec.String(tag)
		if !ok || val == "" {
			continue
		}
		if norm, ok := NormalizeOffset(val); ok {
			return norm, nil
		}
	}

	// Last resort: scan the remaining fields for anything that looks
	// like an offset. Keys are sorted so the scan is deterministic.
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, ok := rec[k].(string)
		if !ok {
			continue
		}
		if norm, ok := NormalizeOffset(v); ok {
			return norm, nil
		}
	}
	return "", &OffsetParseError{}
}

func extractNaiveLocal(rec model.Record) (time.Time, error) {
	for _, tag := range captureTags {
		val, ok := rec.String(tag)
		if !ok || val == "" {
			continue
		}
		t, err := parseFlexibleDateTime(val)
		if err != nil {
			return time.Time{}, err
		}
		return t, nil
	}
	return time.Time{}, &NoCaptureDateTimeError{}
}

// parseFlexibleDateTime accepts EXIF "YYYY:MM:DD HH:MM:SS" or ISO-8601
// with an optional offset or trailing Z; any timezone information is
// dropped and the wall-clock fields are kept as written.
func parseFlexibleDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{
		"2006:01:02 15:04:05",
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, mo, d := t.Date()
		h, mi, sec := t.Clock()
		return time.Date(y, mo, d, h, mi, sec, 0, time.UTC), nil
	}
	return time.Time{}, &DateTimeParseError{Msg: "unrecognized datetime format: " + s}
}
