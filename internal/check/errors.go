// Package check validates photo metadata records: timezone offsets
// against GPS coordinates, and datetime tags against one another.
package check

import (
	"fmt"
	"time"
)

// NoGpsError means the record carries no usable GPS coordinates.
// Callers typically treat it as "skip this record".
type NoGpsError struct{}

func (e *NoGpsError) Error() string {
	return "no GPS coordinates in metadata (latitude/longitude missing)"
}

// NoCaptureDateTimeError means no capture datetime tag is present.
// Recoverable by the caller, like NoGpsError.
type NoCaptureDateTimeError struct{}

func (e *NoCaptureDateTimeError) Error() string {
	return "missing capture datetime (e.g. DateTimeOriginal)"
}

// OffsetParseError means no tag value normalized to a UTC offset
type OffsetParseError struct {
	Value string
}

func (e *OffsetParseError) Error() string {
	if e.Value == "" {
		return "missing timezone offset tag(s)"
	}
	return fmt.Sprintf("invalid offset format: %q", e.Value)
}

// DateTimeParseError means a tag value does not match its grammar
type DateTimeParseError struct {
	Tag string
	Msg string
}

func (e *DateTimeParseError) Error() string {
	if e.Tag == "" {
		return e.Msg
	}
	return fmt.Sprintf("cannot parse %s: %s", e.Tag, e.Msg)
}

// TzMismatchError is the terminal verdict of the timezone checker:
// the declared offset disagrees with the one resolved from the
// coordinates, even allowing for border tolerance.
type TzMismatchError struct {
	Declared string
	Expected string
	Lat, Lon float64
	Local    time.Time
}

func (e *TzMismatchError) Error() string {
	return fmt.Sprintf("timezone offset mismatch: declared=%s expected=%s at (%g, %g) for %s",
		e.Declared, e.Expected, e.Lat, e.Lon, e.Local.Format("2006:01:02 15:04:05"))
}

// UnresolvedZoneError means the coordinates resolve to no timezone:
// outside all data or index unavailable. Fatal, not retried.
type UnresolvedZoneError struct {
	Lat, Lon float64
}

func (e *UnresolvedZoneError) Error() string {
	return fmt.Sprintf("cannot resolve timezone at (%g, %g)", e.Lat, e.Lon)
}
