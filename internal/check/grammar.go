package check

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Grammar identifies the datetime text form a tag must match
type Grammar int

const (
	// GrammarDateTime is EXIF "YYYY:MM:DD HH:MM:SS", nothing else
	GrammarDateTime Grammar = iota
	// GrammarDateTimeOptTZ allows a trailing ±HH:MM or Z
	GrammarDateTimeOptTZ
	// GrammarDateTimeOptFracOptTZ allows fractional seconds and an offset
	GrammarDateTimeOptFracOptTZ
	// GrammarDateTimeFracZulu requires a UTC marker (Z or +00:00),
	// fractional seconds optional
	GrammarDateTimeFracZulu
)

// Pattern fragments ending in 0 carry no anchors so they compose
const (
	patDT0   = `(?P<year>[0-9]{4}):(?P<month>[0-9]{2}):(?P<day>[0-9]{2}) (?P<hour>[0-9]{2}):(?P<minute>[0-9]{2}):(?P<second>[0-9]{2})`
	patTZ0   = `(?P<offset>[+-][0-9]{2}:[0-9]{2}|Z)`
	patZulu0 = `(?P<offset>[+-]00:00|Z)`
	patFrac0 = `(?:[.](?P<subsec>[0-9]*))?`
)

var grammarPatterns = map[Grammar]*regexp.Regexp{
	GrammarDateTime:             regexp.MustCompile(`^` + patDT0 + `$`),
	GrammarDateTimeOptTZ:        regexp.MustCompile(`^` + patDT0 + `(?:` + patTZ0 + `)?$`),
	GrammarDateTimeOptFracOptTZ: regexp.MustCompile(`^` + patDT0 + patFrac0 + `(?:` + patTZ0 + `)?$`),
	GrammarDateTimeFracZulu:     regexp.MustCompile(`^` + patDT0 + patFrac0 + patZulu0 + `$`),
}

// parsedValue is the uniform intermediate produced by every grammar
type parsedValue struct {
	naive  time.Time      // wall-clock fields, no location
	offset *time.Duration // nil when the text carried none
	subsec string         // fractional-second digits as written, "" when absent
}

// parseGrammar matches the text against the grammar and extracts the
// naive datetime plus optional offset and subsecond parts.
func parseGrammar(g Grammar, text string) (parsedValue, error) {
	re, ok := grammarPatterns[g]
	if !ok {
		return parsedValue{}, fmt.Errorf("unknown grammar %d", g)
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return parsedValue{}, &DateTimeParseError{Msg: fmt.Sprintf("%q does not match %q", text, re.String())}
	}

	groups := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" && m[i] != "" {
			groups[name] = m[i]
		}
	}

	naive, err := naiveFromGroups(groups)
	if err != nil {
		return parsedValue{}, &DateTimeParseError{Msg: err.Error()}
	}

	v := parsedValue{naive: naive, subsec: groups["subsec"]}
	if off, present := groups["offset"]; present {
		d, err := ParseOffset(off)
		if err != nil {
			return parsedValue{}, err
		}
		v.offset = &d
	}
	return v, nil
}

// naiveFromGroups builds the naive datetime, rejecting field values
// that time.Date would silently normalize (month 13, day 32, ...).
func naiveFromGroups(groups map[string]string) (time.Time, error) {
	n := func(key string) int {
		v, _ := strconv.Atoi(groups[key])
		return v
	}
	t := time.Date(n("year"), time.Month(n("month")), n("day"),
		n("hour"), n("minute"), n("second"), 0, time.UTC)
	if t.Year() != n("year") || t.Month() != time.Month(n("month")) || t.Day() != n("day") ||
		t.Hour() != n("hour") || t.Minute() != n("minute") || t.Second() != n("second") {
		return time.Time{}, fmt.Errorf("impossible date/time value %04d:%02d:%02d %02d:%02d:%02d",
			n("year"), n("month"), n("day"), n("hour"), n("minute"), n("second"))
	}
	return t, nil
}
