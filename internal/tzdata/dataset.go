package tzdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dvincze/phototz/internal/geo"
)

// Dataset is the on-disk timezone-boundary-builder dataset: a manifest
// (timezones.json) mapping IANA zone names to geometry file ids, plus
// one GeoJSON geometry file per id under geojson/.
type Dataset struct {
	Dir string
}

// Open points at a dataset directory; nothing is read until asked
func Open(dir string) *Dataset {
	return &Dataset{Dir: dir}
}

// ManifestPath returns the zone-to-geometry mapping file
func (d *Dataset) ManifestPath() string { return filepath.Join(d.Dir, "timezones.json") }

// GeoJSONDir returns the geometry file directory
func (d *Dataset) GeoJSONDir() string { return filepath.Join(d.Dir, "geojson") }

// ArtifactPath returns the persisted index location
func (d *Dataset) ArtifactPath() string { return filepath.Join(d.Dir, "tz_index.mp") }

// URLPinPath returns the file recording which release was installed
func (d *Dataset) URLPinPath() string { return filepath.Join(d.Dir, "tz.url") }

// Manifest maps IANA zone names to geometry entries
type Manifest map[string][]ManifestEntry

// ManifestEntry names one geometry file id, e.g. "Europe-Budapest-tz"
// for geojson/Europe-Budapest-tz.json.
type ManifestEntry struct {
	ID string `json:"id"`
}

// LoadManifest parses timezones.json
func (d *Dataset) LoadManifest() (Manifest, error) {
	data, err := os.ReadFile(d.ManifestPath())
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", d.ManifestPath(), err)
	}
	return m, nil
}

// IDToZone inverts the manifest: geometry file id to zone name
func (m Manifest) IDToZone() map[string]string {
	out := make(map[string]string)
	for zone, entries := range m {
		for _, e := range entries {
			if e.ID != "" {
				out[e.ID] = zone
			}
		}
	}
	return out
}

// ExpectedIDs returns the sorted geometry ids the manifest references
func (m Manifest) ExpectedIDs() []string {
	seen := make(map[string]struct{})
	for _, entries := range m {
		for _, e := range entries {
			if e.ID != "" {
				seen[e.ID] = struct{}{}
			}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Complete reports whether every geometry file the manifest references
// exists, returning the missing ids otherwise.
func (d *Dataset) Complete() (bool, []string, error) {
	m, err := d.LoadManifest()
	if err != nil {
		return false, nil, err
	}
	var missing []string
	for _, id := range m.ExpectedIDs() {
		if _, err := os.Stat(filepath.Join(d.GeoJSONDir(), id+".json")); err != nil {
			missing = append(missing, id)
		}
	}
	return len(missing) == 0, missing, nil
}

// SourcePaths lists the files the built index depends on, for
// staleness checks: the manifest and every *-tz.json geometry file.
func (d *Dataset) SourcePaths() ([]string, error) {
	paths := []string{d.ManifestPath()}
	matches, err := filepath.Glob(filepath.Join(d.GeoJSONDir(), "*-tz.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return append(paths, matches...), nil
}

// LoadPolygons reads every manifest-mapped geometry file, in sorted
// file order, into zone polygons. The resulting slice order is the
// index load order and therefore fixes overlap resolution.
func (d *Dataset) LoadPolygons() ([]*geo.ZonePolygon, error) {
	m, err := d.LoadManifest()
	if err != nil {
		return nil, err
	}
	idToZone := m.IDToZone()

	files, err := filepath.Glob(filepath.Join(d.GeoJSONDir(), "*-tz.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var polys []*geo.ZonePolygon
	for _, file := range files {
		id := strings.TrimSuffix(filepath.Base(file), ".json")
		zone, ok := idToZone[id]
		if !ok {
			continue
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read geometry %s: %w", file, err)
		}
		parsed, err := ParseGeometry(zone, data)
		if err != nil {
			return nil, fmt.Errorf("parse geometry %s: %w", file, err)
		}
		polys = append(polys, parsed...)
	}
	return polys, nil
}

// geometry covers the GeoJSON shapes the dataset uses: a bare
// Polygon/MultiPolygon geometry, optionally wrapped in a Feature.
type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
	Geometry    *geometry       `json:"geometry"`
}

// ParseGeometry decodes one GeoJSON geometry document into polygons
// for the given zone.
func ParseGeometry(zone string, data []byte) ([]*geo.ZonePolygon, error) {
	var g geometry
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	if g.Geometry != nil { // Feature wrapper
		g = *g.Geometry
	}

	switch g.Type {
	case "Polygon":
		var coords [][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, err
		}
		p := polygonFromCoords(zone, coords)
		if p == nil {
			return nil, fmt.Errorf("degenerate polygon for %s", zone)
		}
		return []*geo.ZonePolygon{p}, nil
	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, err
		}
		var out []*geo.ZonePolygon
		for _, pc := range coords {
			if p := polygonFromCoords(zone, pc); p != nil {
				out = append(out, p)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}

func polygonFromCoords(zone string, coords [][][]float64) *geo.ZonePolygon {
	rings := make([][]geo.Point, 0, len(coords))
	for _, rc := range coords {
		ring := make([]geo.Point, 0, len(rc))
		for _, pair := range rc {
			if len(pair) < 2 {
				continue
			}
			ring = append(ring, geo.Point{Lon: pair[0], Lat: pair[1]})
		}
		rings = append(rings, ring)
	}
	return geo.NewZonePolygon(zone, rings)
}
