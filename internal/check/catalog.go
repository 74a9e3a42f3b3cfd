package check

import "fmt"

// TagDefinition is one static catalog entry for a datetime-bearing
// tag. Companion tags (time/offset/subsecond) are merged into the
// tag's value before parsing; derived entries exist only to serve a
// parent tag.
type TagDefinition struct {
	Name          string
	Grammar       Grammar
	TimeTag       string // companion carrying the time-of-day part
	OffsetTag     string // companion carrying the UTC offset
	SubsecTag     string // companion carrying fractional seconds
	ForcedOffset  string // fixed offset ("Z") for tags that are always UTC
	ToleranceSecs int    // allowed disagreement with the anchor, in whole seconds
	SelfContained bool   // tz-aware tag: naive wall time is not comparable
	DerivedFrom   string // set on companion entries added by the catalog
	Anchor        bool   // exactly one entry carries this
}

// Catalog is the validated, ordered tag table. Iteration order is
// definition order, which keeps results deterministic.
type Catalog struct {
	defs   []*TagDefinition
	byName map[string]*TagDefinition
	anchor *TagDefinition
}

// NewCatalog validates the definitions and appends derived entries for
// every companion tag. It fails on duplicate tags, duplicate derived
// identifiers, or an anchor count other than one.
func NewCatalog(defs []*TagDefinition) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*TagDefinition)}

	for _, def := range defs {
		if _, dup := c.byName[def.Name]; dup {
			return nil, fmt.Errorf("duplicate tag definition: %s", def.Name)
		}
		c.defs = append(c.defs, def)
		c.byName[def.Name] = def
		if def.Anchor {
			if c.anchor != nil {
				return nil, fmt.Errorf("multiple anchor tags: %s and %s", c.anchor.Name, def.Name)
			}
			c.anchor = def
		}
	}
	if c.anchor == nil {
		return nil, fmt.Errorf("catalog has no anchor tag")
	}

	// Companion tags become derived entries of their own.
	for _, def := range defs {
		for _, companion := range []string{def.TimeTag, def.OffsetTag, def.SubsecTag} {
			if companion == "" {
				continue
			}
			if _, dup := c.byName[companion]; dup {
				return nil, fmt.Errorf("derived tag already present: %s", companion)
			}
			derived := &TagDefinition{Name: companion, DerivedFrom: def.Name}
			c.defs = append(c.defs, derived)
			c.byName[companion] = derived
		}
	}
	return c, nil
}

// Anchor returns the single anchor definition
func (c *Catalog) Anchor() *TagDefinition { return c.anchor }

// Lookup returns the definition for a tag name
func (c *Catalog) Lookup(name string) (*TagDefinition, bool) {
	def, ok := c.byName[name]
	return def, ok
}

// Tags returns all definitions, primary entries first, in catalog order
func (c *Catalog) Tags() []*TagDefinition { return c.defs }

// AnyPresent reports whether the record carries any catalog tag
func (c *Catalog) AnyPresent(has func(string) bool) bool {
	for _, def := range c.defs {
		if has(def.Name) {
			return true
		}
	}
	return false
}

// DefaultCatalog returns the tag table for exiftool family-1 group
// names. The anchor is ExifIFD:DateTimeOriginal.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]*TagDefinition{
		{
			Name:      "ExifIFD:DateTimeOriginal",
			Anchor:    true,
			Grammar:   GrammarDateTimeOptFracOptTZ,
			OffsetTag: "ExifIFD:OffsetTimeOriginal",
			SubsecTag: "ExifIFD:SubSecTimeOriginal",
		},
		{
			Name:      "ExifIFD:CreateDate",
			Grammar:   GrammarDateTimeOptFracOptTZ,
			OffsetTag: "ExifIFD:OffsetTime",
			SubsecTag: "ExifIFD:SubSecTime",
		},
		{
			Name:      "ExifIFD:DateTimeDigitized",
			Grammar:   GrammarDateTimeOptFracOptTZ,
			OffsetTag: "ExifIFD:OffsetTimeDigitized",
			SubsecTag: "ExifIFD:SubSecTimeDigitized",
		},
		{Name: "XMP:DateTimeOriginal", Grammar: GrammarDateTimeOptFracOptTZ},
		{Name: "XMP:CreateDate", Grammar: GrammarDateTimeOptFracOptTZ},
		{Name: "XMP:DateCreated", Grammar: GrammarDateTimeOptFracOptTZ},
		{Name: "XMP:DateTimeDigitized", Grammar: GrammarDateTimeOptFracOptTZ},
		{Name: "XMP-exif:GPSDateTime", Grammar: GrammarDateTimeFracZulu, SelfContained: true},
		{
			Name:    "IPTC:DateCreated",
			Grammar: GrammarDateTimeOptTZ,
			TimeTag: "IPTC:TimeCreated",
		},
		{Name: "QuickTime:CreateDate", Grammar: GrammarDateTimeOptTZ}, // no subsec
		{Name: "MakerNotes:DateTimeUTC", Grammar: GrammarDateTime, ForcedOffset: "Z", ToleranceSecs: 10},
		{Name: "MakerNotes:TimeStamp", Grammar: GrammarDateTimeOptFracOptTZ, ToleranceSecs: 10},
		{
			Name:          "EXIF:GPSDateStamp",
			Grammar:       GrammarDateTime,
			TimeTag:       "EXIF:GPSTimeStamp",
			ForcedOffset:  "Z",
			ToleranceSecs: 1799,
			SelfContained: true,
		},
	})
	if err != nil {
		panic(fmt.Sprintf("invalid builtin tag catalog: %v", err))
	}
	return c
}
