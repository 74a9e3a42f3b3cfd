package check

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dvincze/phototz/internal/model"
)

// reSourceDate pulls a date out of a photos/YYYY/MM/DD path so a
// blank anchor can be repaired from the file's location on disk.
var reSourceDate = regexp.MustCompile(`photos/(....)/(..)/(..)`)

// DatetimeChecker validates that every datetime-bearing tag in a
// record agrees with the anchor tag, classifying disagreements as
// fixable, deletable or fatal.
type DatetimeChecker struct {
	catalog *Catalog
}

// NewDatetimeChecker builds a checker over a validated catalog
func NewDatetimeChecker(catalog *Catalog) *DatetimeChecker {
	return &DatetimeChecker{catalog: catalog}
}

// tagValue is the working state for one parsed catalog tag
type tagValue struct {
	def    *TagDefinition
	parsed parsedValue
	offset *time.Duration // possibly forced by the definition
	utc    *time.Time
}

// Check is a pure function of the record and the static catalog. A
// record with no catalog tags yields an empty result; an unparseable
// anchor yields only a fatal entry.
func (c *DatetimeChecker) Check(rec model.Record) *model.ConsistencyResult {
	rec = c.catalog.NormalizeRecord(rec)

	res := &model.ConsistencyResult{}
	if !c.catalog.AnyPresent(rec.Has) {
		return res
	}

	anchorDef := c.catalog.Anchor()
	anchorVal, _, err := c.parseTag(rec, anchorDef)
	if err != nil {
		if raw, present := rec.String(anchorDef.Name); !present || strings.TrimSpace(raw) == "" {
			if m := reSourceDate.FindStringSubmatch(rec.SourceFile()); m != nil {
				res.SetFixable(anchorDef.Name, fmt.Sprintf("%s:%s:%s 00:00:00", m[1], m[2], m[3]))
				return res
			}
		}
		res.SetFatal(c.tagWithCompanions(anchorDef, rec), err.Error())
		return res
	}

	anchorNaive := anchorVal.naive
	anchorOffset := anchorVal.offset
	anchorSubsec := anchorVal.subsec
	var anchorUTC *time.Time
	if anchorOffset != nil {
		u := anchorNaive.Add(-*anchorOffset)
		anchorUTC = &u
	}

	deletable := func(def *TagDefinition, reason string) {
		for _, tag := range c.presentTags(def, rec) {
			res.AddDeletable(tag, reason)
		}
	}

	// Parsing pass: collect every present non-derived tag, adopting an
	// offset or subsecond for the anchor from the first tag that has
	// one the anchor lacks.
	var values []*tagValue
	for _, def := range c.catalog.Tags() {
		if !rec.Has(def.Name) {
			continue
		}
		if def.DerivedFrom != "" {
			if !rec.Has(def.DerivedFrom) {
				res.AddDeletable(def.Name, "Missing "+def.DerivedFrom)
			}
			continue
		}
		if def == anchorDef {
			continue
		}

		parsed, _, err := c.parseTag(rec, def)
		if err != nil {
			deletable(def, err.Error())
			continue
		}
		tv := &tagValue{def: def, parsed: parsed}

		offset := parsed.offset
		if def.ForcedOffset != "" {
			forced, err := ParseOffset(def.ForcedOffset)
			if err == nil {
				offset = &forced
			}
		}
		if offset != nil {
			tv.offset = offset
			u := parsed.naive.Add(-*offset)
			tv.utc = &u
			if anchorOffset == nil {
				anchorOffset = offset
				au := anchorNaive.Add(-*offset)
				anchorUTC = &au
			}
		}
		if parsed.subsec != "" && anchorSubsec == "" {
			anchorSubsec = parsed.subsec
		}
		values = append(values, tv)
	}

	// Comparison pass against the anchor
	for _, tv := range values {
		def := tv.def
		tol := def.ToleranceSecs

		if def.ForcedOffset == "" {
			// Naive wall time: skipped for self-contained (tz-aware)
			// tags, whose wall time is in a different frame.
			if !def.SelfContained {
				if diff := absSeconds(tv.parsed.naive.Sub(anchorNaive)); diff > tol {
					deletable(def, fmt.Sprintf("datetime=%s vs anchor %s diff=%ds tolerance=%ds",
						exifTime(tv.parsed.naive), exifTime(anchorNaive), diff, tol))
				}
			}
			// Offset: exact match, except for self-contained tags whose
			// offset is their own frame. A tag whose offset is embedded
			// in its own text (no companion) can be rewritten in place.
			if !def.SelfContained && tv.parsed.offset != nil && anchorOffset != nil && *tv.parsed.offset != *anchorOffset {
				if def.OffsetTag == "" {
					raw, _ := rec.String(def.Name)
					fixed := strings.TrimSuffix(raw, offsetAsWritten(raw, *tv.parsed.offset)) + FormatOffsetHHMM(*anchorOffset)
					res.SetFixable(def.Name, fixed)
				} else {
					deletable(def, "offset mismatch vs anchor")
				}
			}
			// Subsecond: exact match
			if tv.parsed.subsec != "" && anchorSubsec != "" && tv.parsed.subsec != anchorSubsec {
				deletable(def, fmt.Sprintf("subsec=%s vs anchor %s", tv.parsed.subsec, anchorSubsec))
			}
		}

		// UTC instant: the only comparison forced-offset tags take part in
		if tv.utc != nil && anchorUTC != nil {
			if diff := absSeconds(tv.utc.Sub(*anchorUTC)); diff > tol {
				deletable(def, fmt.Sprintf("utc=%s vs anchor %s diff=%ds tolerance=%ds",
					exifTime(*tv.utc), exifTime(*anchorUTC), diff, tol))
			}
		}

		// A tag that never got a UTC instant while the anchor has one:
		// propose appending the anchor's offset where it belongs, or
		// give up on the tag.
		if tv.utc == nil && anchorUTC != nil {
			if anchorOffset != nil {
				off := FormatOffsetHHMM(*anchorOffset)
				switch {
				case def.OffsetTag != "":
					res.SetFixable(def.OffsetTag, off)
				case def.TimeTag != "":
					tval, _ := rec.String(def.TimeTag)
					res.SetFixable(def.TimeTag, tval+off)
				default:
					raw, _ := rec.String(def.Name)
					res.SetFixable(def.Name, raw+off)
				}
			} else {
				deletable(def, "could not determine UTC datetime for comparison")
			}
		}
	}
	return res
}

// parseTag concatenates the tag's value with its companions (time,
// subsecond, offset, in that order) and parses the result against the
// tag's grammar. The returned label names every tag that contributed.
func (c *DatetimeChecker) parseTag(rec model.Record, def *TagDefinition) (parsedValue, string, error) {
	raw, ok := rec.String(def.Name)
	if !ok {
		return parsedValue{}, def.Name, &DateTimeParseError{Tag: def.Name, Msg: "missing value"}
	}
	text := raw
	label := def.Name
	for _, companion := range []struct {
		tag    string
		prefix string
	}{
		{def.TimeTag, " "},
		{def.SubsecTag, "."},
		{def.OffsetTag, ""},
	} {
		if companion.tag == "" {
			continue
		}
		if val, ok := rec.String(companion.tag); ok && val != "" {
			label += "+" + companion.tag
			text += companion.prefix + val
		}
	}

	v, err := parseGrammar(def.Grammar, text)
	if err != nil {
		return parsedValue{}, label, &DateTimeParseError{Tag: label, Msg: err.Error()}
	}
	return v, label, nil
}

// tagWithCompanions joins the tag with its present companions into a
// single "+"-separated identifier, as used for fatal entries.
func (c *DatetimeChecker) tagWithCompanions(def *TagDefinition, rec model.Record) string {
	return strings.Join(c.presentTags(def, rec), "+")
}

// presentTags lists the tag and those of its companions present in
// the record.
func (c *DatetimeChecker) presentTags(def *TagDefinition, rec model.Record) []string {
	tags := []string{def.Name}
	for _, companion := range []string{def.TimeTag, def.SubsecTag, def.OffsetTag} {
		if companion != "" && rec.Has(companion) {
			tags = append(tags, companion)
		}
	}
	return tags
}

// offsetAsWritten returns the offset text as it appears at the end of
// the raw value, so the fixable rewrite strips exactly what's there.
func offsetAsWritten(raw string, off time.Duration) string {
	if strings.HasSuffix(raw, "Z") && off == 0 {
		return "Z"
	}
	return FormatOffsetHHMM(off)
}

func absSeconds(d time.Duration) int {
	s := int(d / time.Second)
	if s < 0 {
		return -s
	}
	return s
}

func exifTime(t time.Time) string {
	return t.Format("2006:01:02 15:04:05")
}
