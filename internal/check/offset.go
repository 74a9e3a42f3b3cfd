package check

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reOffsetCanonical = regexp.MustCompile(`^[+-]\d{2}:\d{2}$`)
	reOffsetPacked    = regexp.MustCompile(`^([+-])(\d{2})(\d{2})$`)
	reOffsetUTC       = regexp.MustCompile(`(?i)^(?:UTC|GMT)\s*([+-]?\d{1,2})(?::?(\d{2}))?$`)
	reOffsetBare      = regexp.MustCompile(`^([+-]?\d{1,2})(?::(\d{2}))?$`)
)

// NormalizeOffset canonicalizes an offset string to +HH:MM / -HH:MM.
// Accepted forms: ±HH:MM, ±HHMM, UTC±H[:MM], GMT±H[:MM] and bare
// ±H[:MM]. Returns false when the text matches none of them.
func NormalizeOffset(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if reOffsetCanonical.MatchString(s) {
		return s, true
	}
	if m := reOffsetPacked.FindStringSubmatch(s); m != nil {
		return m[1] + m[2] + ":" + m[3], true
	}
	if m := reOffsetUTC.FindStringSubmatch(s); m != nil {
		return formatParts(m[1], m[2]), true
	}
	if m := reOffsetBare.FindStringSubmatch(s); m != nil {
		return formatParts(m[1], m[2]), true
	}
	return "", false
}

func formatParts(hours, minutes string) string {
	h, _ := strconv.Atoi(hours)
	sign := "+"
	if h < 0 {
		sign = "-"
		h = -h
	}
	m := 0
	if minutes != "" {
		m, _ = strconv.Atoi(minutes)
	}
	return fmt.Sprintf("%s%02d:%02d", sign, h, m)
}

// ParseOffset converts a canonical +HH:MM / -HH:MM offset (or "Z")
// into a duration.
func ParseOffset(s string) (time.Duration, error) {
	if s == "Z" {
		return 0, nil
	}
	m := reOffsetCanonical.FindString(s)
	if m == "" {
		return 0, &OffsetParseError{Value: s}
	}
	h, _ := strconv.Atoi(s[1:3])
	min, _ := strconv.Atoi(s[4:6])
	d := time.Duration(h)*time.Hour + time.Duration(min)*time.Minute
	if s[0] == '-' {
		d = -d
	}
	return d, nil
}

// FormatOffsetHHMM renders a duration as +HH:MM / -HH:MM
func FormatOffsetHHMM(d time.Duration) string {
	mins := int(d.Minutes())
	sign := "+"
	if mins < 0 {
		sign = "-"
		mins = -mins
	}
	return fmt.Sprintf("%s%02d:%02d", sign, mins/60, mins%60)
}
