package check

import (
	"strings"

	"github.com/dvincze/phototz/internal/model"
)

// groupAliases pairs exiftool family-1 group names with the family-0
// group the same tags appear under when the tool runs with -G0.
var groupAliases = [][2]string{
	{"ExifIFD", "EXIF"},
	{"IFD0", "EXIF"},
	{"IFD1", "EXIF"},
	{"InteropIFD", "EXIF"},
	{"GPS", "EXIF"},
	{"System", "File"},
	{"XMP-dc", "XMP"},
	{"XMP-xmp", "XMP"},
	{"XMP-x", "XMP"},
	{"XMP-exif", "XMP"},
	{"MWG", "Composite"},
}

// alternateNames lists the other-family spellings of a namespaced tag
// name, in a fixed order.
func alternateNames(name string) []string {
	group, tag, ok := strings.Cut(name, ":")
	if !ok {
		return nil
	}
	var alts []string
	for _, pair := range groupAliases {
		if group == pair[0] {
			alts = append(alts, pair[1]+":"+tag)
		}
		if group == pair[1] {
			alts = append(alts, pair[0]+":"+tag)
		}
	}
	return alts
}

// NormalizeRecord copies alternate-group spellings of catalog tags
// over to their catalog names, so a record read with -G0 checks the
// same way as one read with -G1. Catalog names already present win;
// the input record is never modified.
func (c *Catalog) NormalizeRecord(rec model.Record) model.Record {
	var out model.Record
	for _, def := range c.defs {
		if rec.Has(def.Name) {
			continue
		}
		for _, alt := range alternateNames(def.Name) {
			if !rec.Has(alt) {
				continue
			}
			if out == nil {
				out = make(model.Record, len(rec))
				for k, v := range rec {
					out[k] = v
				}
			}
			out[def.Name] = rec[alt]
			break
		}
	}
	if out == nil {
		return rec
	}
	return out
}
