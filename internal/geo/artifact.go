package geo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when artifactPayload format changes
const artifactSchemaVersion uint16 = 1

// artifactPayload is the persisted form of a built index. Geometry is
// stored as raw lon/lat pairs; bounding boxes and centroids are cheap
// and recomputed on load.
type artifactPayload struct {
	Schema uint16
	Zones  []string
	Rings  [][][][2]float64 // per polygon: rings of lon/lat pairs
}

// WriteArtifact persists the polygon collection atomically
// (temp file + rename).
func WriteArtifact(path string, polys []*ZonePolygon) (err error) {
	payload := artifactPayload{
		Schema: artifactSchemaVersion,
		Zones:  make([]string, len(polys)),
		Rings:  make([][][][2]float64, len(polys)),
	}
	for i, p := range polys {
		payload.Zones[i] = p.Zone
		rings := make([][][2]float64, len(p.Rings))
		for j, ring := range p.Rings {
			pts := make([][2]float64, len(ring))
			for k, pt := range ring {
				pts[k] = [2]float64{pt.Lon, pt.Lat}
			}
			rings[j] = pts
		}
		payload.Rings[i] = rings
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	return os.Rename(f.Name(), path)
}

// LoadArtifact reads a persisted index back into polygons. A missing
// file or a schema mismatch yields (nil, false, nil): callers rebuild.
func LoadArtifact(path string) ([]*ZonePolygon, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	var payload artifactPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	if payload.Schema != artifactSchemaVersion {
		return nil, false, nil
	}
	if len(payload.Zones) != len(payload.Rings) {
		return nil, false, fmt.Errorf("corrupt artifact %s: %d zones, %d geometries", path, len(payload.Zones), len(payload.Rings))
	}

	polys := make([]*ZonePolygon, 0, len(payload.Zones))
	for i, zone := range payload.Zones {
		rings := make([][]Point, len(payload.Rings[i]))
		for j, raw := range payload.Rings[i] {
			ring := make([]Point, len(raw))
			for k, pair := range raw {
				ring[k] = Point{Lon: pair[0], Lat: pair[1]}
			}
			rings[j] = ring
		}
		if p := NewZonePolygon(zone, rings); p != nil {
			polys = append(polys, p)
		}
	}
	return polys, true, nil
}

// Stale reports whether the artifact needs a rebuild: it does not
// exist, or any source file is newer (makefile-style dependency check).
func Stale(artifactPath string, sourcePaths []string) bool {
	st, err := os.Stat(artifactPath)
	if err != nil {
		return true
	}
	artMtime := st.ModTime()
	for _, src := range sourcePaths {
		sst, err := os.Stat(src)
		if err != nil {
			return true
		}
		if sst.ModTime().After(artMtime) {
			return true
		}
	}
	return false
}

// LoadOrBuild returns an index from the cached artifact when it is
// fresh, otherwise builds from source polygons and refreshes the
// artifact. Never triggers any download: it only reads local files.
func LoadOrBuild(artifactPath string, sourcePaths []string, load func() ([]*ZonePolygon, error)) (*Index, error) {
	if !Stale(artifactPath, sourcePaths) {
		polys, ok, err := LoadArtifact(artifactPath)
		if err == nil && ok {
			return NewIndex(polys), nil
		}
		// fall through to a rebuild on any artifact problem
	}

	polys, err := load()
	if err != nil {
		return nil, fmt.Errorf("load polygons: %w", err)
	}
	if err := WriteArtifact(artifactPath, polys); err != nil {
		// the artifact is an optimization; a failed write is not fatal
		fmt.Fprintf(os.Stderr, "Warning: could not persist timezone index: %v\n", err)
	}
	return NewIndex(polys), nil
}
