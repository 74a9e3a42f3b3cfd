package geo

// DefaultToleranceDeg is the longitude constraint applied to the
// nearest-zone fallback when the caller does not override it.
const DefaultToleranceDeg = 7.5

// grid cell edge in degrees for the bounding-box index
const cellDeg = 5.0

// Index answers point-to-zone queries over a fixed polygon collection.
// Built once, read-only afterwards; safe for concurrent queries.
type Index struct {
	polys []*ZonePolygon
	cells map[cellKey][]int // polygon indices in load order
}

type cellKey struct{ x, y int }

// NewIndex builds the bounding-box index over the polygons. The slice
// order is the load order and fixes the resolution order for
// overlapping or disputed polygons: first containment match wins.
func NewIndex(polys []*ZonePolygon) *Index {
	ix := &Index{
		polys: polys,
		cells: make(map[cellKey][]int),
	}
	for i, p := range polys {
		x0, y0 := cellOf(p.BBox[0], p.BBox[1])
		x1, y1 := cellOf(p.BBox[2], p.BBox[3])
		for x := x0; x <= x1; x++ {
			for y := y0; y <= y1; y++ {
				k := cellKey{x, y}
				ix.cells[k] = append(ix.cells[k], i)
			}
		}
	}
	return ix
}

// Len returns the number of polygons in the index
func (ix *Index) Len() int { return len(ix.polys) }

// Resolve returns the IANA zone name covering the point. If no polygon
// contains it and toleranceDeg is non-zero, the nearest polygon is
// chosen, preferring polygons whose centroid longitude lies within
// toleranceDeg of the query longitude (wrapped at 180). Returns
// ("", false) for an empty index or when toleranceDeg is zero and no
// polygon contains the point.
func (ix *Index) Resolve(lat, lon, toleranceDeg float64) (string, bool) {
	if len(ix.polys) == 0 {
		return "", false
	}
	pt := Point{Lat: lat, Lon: lon}

	// Exact containment pass over bbox candidates, in load order.
	for _, i := range ix.candidates(pt) {
		if ix.polys[i].Contains(pt) {
			return ix.polys[i].Zone, true
		}
	}
	if toleranceDeg == 0 {
		return "", false
	}

	// Fallback: nearest polygon, preferring the longitude-constrained
	// partition. Ties break to the first encountered (strict <), which
	// keeps answers deterministic for a fixed load order.
	bestAny, bestNear := -1, -1
	distAny, distNear := 0.0, 0.0
	for i, p := range ix.polys {
		d := p.Distance(pt)
		if bestAny < 0 || d < distAny {
			bestAny, distAny = i, d
		}
		if p.LonDelta(lon) <= toleranceDeg {
			if bestNear < 0 || d < distNear {
				bestNear, distNear = i, d
			}
		}
	}
	if bestNear >= 0 {
		return ix.polys[bestNear].Zone, true
	}
	return ix.polys[bestAny].Zone, true
}

// candidates returns indices of polygons whose bbox may contain the
// point, in load order.
func (ix *Index) candidates(pt Point) []int {
	x, y := cellOf(pt.Lon, pt.Lat)
	var out []int
	for _, i := range ix.cells[cellKey{x, y}] {
		if ix.polys[i].InBBox(pt) {
			out = append(out, i)
		}
	}
	return out
}

func cellOf(lon, lat float64) (int, int) {
	return int((lon + 180) / cellDeg), int((lat + 90) / cellDeg)
}
