package tzdata

import (
	"os"
	"path/filepath"
	"testing"
)

const testManifest = `{
	"Europe/Budapest": [{"id": "Europe-Budapest-tz"}],
	"Europe/Paris":    [{"id": "Europe-Paris-tz"}]
}`

const budapestGeometry = `{
	"type": "Polygon",
	"coordinates": [[[15,45],[24,45],[24,49],[15,49],[15,45]]]
}`

const parisGeometry = `{
	"type": "Feature",
	"geometry": {
		"type": "MultiPolygon",
		"coordinates": [
			[[[0,43],[8,43],[8,50],[0,50],[0,43]]],
			[[[8.5,41.3],[9.6,41.3],[9.6,43.1],[8.5,43.1],[8.5,41.3]]]
		]
	}
}`

// writeDataset lays out a minimal two-zone dataset on disk
func writeDataset(t *testing.T) *Dataset {
	t.Helper()
	dir := t.TempDir()
	ds := Open(dir)

	if err := os.MkdirAll(ds.GeoJSONDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	write := func(path, content string) {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(ds.ManifestPath(), testManifest)
	write(filepath.Join(ds.GeoJSONDir(), "Europe-Budapest-tz.json"), budapestGeometry)
	write(filepath.Join(ds.GeoJSONDir(), "Europe-Paris-tz.json"), parisGeometry)
	return ds
}

func TestDataset_LoadManifest(t *testing.T) {
	ds := writeDataset(t)

	m, err := ds.LoadManifest()
	if err != nil {
		t.Fatal(err)
	}

	idToZone := m.IDToZone()
	if idToZone["Europe-Budapest-tz"] != "Europe/Budapest" {
		t.Errorf("unexpected mapping: %v", idToZone)
	}

	ids := m.ExpectedIDs()
	if len(ids) != 2 || ids[0] != "Europe-Budapest-tz" || ids[1] != "Europe-Paris-tz" {
		t.Errorf("unexpected ids: %v", ids)
	}
}

func TestDataset_Complete(t *testing.T) {
	ds := writeDataset(t)

	ok, missing, err := ds.Complete()
	if err != nil {
		t.Fatal(err)
	}
	if !ok || len(missing) != 0 {
		t.Errorf("expected complete dataset, missing=%v", missing)
	}

	if err := os.Remove(filepath.Join(ds.GeoJSONDir(), "Europe-Paris-tz.json")); err != nil {
		t.Fatal(err)
	}
	ok, missing, err = ds.Complete()
	if err != nil {
		t.Fatal(err)
	}
	if ok || len(missing) != 1 || missing[0] != "Europe-Paris-tz" {
		t.Errorf("expected Europe-Paris-tz missing, got ok=%v missing=%v", ok, missing)
	}
}

func TestDataset_LoadPolygons(t *testing.T) {
	ds := writeDataset(t)

	polys, err := ds.LoadPolygons()
	if err != nil {
		t.Fatal(err)
	}
	// Budapest: 1 polygon. Paris MultiPolygon: 2 (mainland + island).
	if len(polys) != 3 {
		t.Fatalf("expected 3 polygons, got %d", len(polys))
	}
	// Sorted file order: Budapest before Paris.
	if polys[0].Zone != "Europe/Budapest" {
		t.Errorf("expected Europe/Budapest first, got %s", polys[0].Zone)
	}
	if polys[1].Zone != "Europe/Paris" || polys[2].Zone != "Europe/Paris" {
		t.Errorf("expected both Paris polygons, got %s, %s", polys[1].Zone, polys[2].Zone)
	}
}

func TestDataset_SourcePaths(t *testing.T) {
	ds := writeDataset(t)

	paths, err := ds.SourcePaths()
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected manifest plus 2 geometry files, got %v", paths)
	}
	if paths[0] != ds.ManifestPath() {
		t.Errorf("expected the manifest first, got %s", paths[0])
	}
}

func TestParseGeometry_Unsupported(t *testing.T) {
	if _, err := ParseGeometry("Zone", []byte(`{"type":"Point","coordinates":[1,2]}`)); err == nil {
		t.Error("expected error for unsupported geometry type")
	}
	if _, err := ParseGeometry("Zone", []byte(`not json`)); err == nil {
		t.Error("expected error for malformed document")
	}
}

func TestParseGeometry_Holes(t *testing.T) {
	doc := `{
		"type": "Polygon",
		"coordinates": [
			[[0,0],[10,0],[10,10],[0,10],[0,0]],
			[[4,4],[6,4],[6,6],[4,6],[4,4]]
		]
	}`
	polys, err := ParseGeometry("Zone/Holed", []byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(polys) != 1 || len(polys[0].Rings) != 2 {
		t.Fatalf("expected one polygon with a hole, got %+v", polys)
	}
}
