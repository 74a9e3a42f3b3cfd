package geo

import "math"

// Point is a WGS84 coordinate
type Point struct {
	Lat float64
	Lon float64
}

// ZonePolygon is one closed planar polygon belonging to an IANA zone.
// A zone may own several polygons. Rings follow the GeoJSON convention:
// the first ring is the outer boundary, any further rings are holes.
// Immutable once built.
type ZonePolygon struct {
	Zone        string
	Rings       [][]Point
	BBox        [4]float64 // minLon, minLat, maxLon, maxLat
	CentroidLon float64
}

// NewZonePolygon builds a polygon and derives its bounding box and
// centroid longitude. Polygons with no outer ring are rejected by
// returning nil.
func NewZonePolygon(zone string, rings [][]Point) *ZonePolygon {
	if len(rings) == 0 || len(rings[0]) < 3 {
		return nil
	}
	p := &ZonePolygon{Zone: zone, Rings: rings}
	p.BBox = ringBBox(rings[0])
	p.CentroidLon = ringCentroidLon(rings[0])
	return p
}

// Contains performs the exact even-odd containment test: inside the
// outer ring and outside every hole.
func (p *ZonePolygon) Contains(pt Point) bool {
	if !p.InBBox(pt) {
		return false
	}
	if !pointInRing(pt, p.Rings[0]) {
		return false
	}
	for _, hole := range p.Rings[1:] {
		if pointInRing(pt, hole) {
			return false
		}
	}
	return true
}

// InBBox is the cheap bounding-box pre-filter
func (p *ZonePolygon) InBBox(pt Point) bool {
	return pt.Lon >= p.BBox[0] && pt.Lon <= p.BBox[2] &&
		pt.Lat >= p.BBox[1] && pt.Lat <= p.BBox[3]
}

// Distance returns the planar degree-space distance from the point to
// the polygon's outer ring, 0 if the point is contained. Planar rather
// than geodesic: the fallback path tolerates this approximation.
func (p *ZonePolygon) Distance(pt Point) float64 {
	if p.Contains(pt) {
		return 0
	}
	best := math.Inf(1)
	ring := p.Rings[0]
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		if d := pointSegmentDistance(pt, ring[j], ring[i]); d < best {
			best = d
		}
	}
	return best
}

// LonDelta returns the minimal absolute longitude difference to the
// polygon centroid, wrapping at 180 degrees.
func (p *ZonePolygon) LonDelta(lon float64) float64 {
	d := math.Abs(lon - p.CentroidLon)
	return math.Min(d, 360-d)
}

// pointInRing runs the even-odd ray-casting test
func pointInRing(pt Point, ring []Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	x, y := pt.Lon, pt.Lat
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lon, ring[i].Lat
		xj, yj := ring[j].Lon, ring[j].Lat
		if ((yi > y) != (yj > y)) && (x < (xj-xi)*(y-yi)/(yj-yi+1e-12)+xi) {
			inside = !inside
		}
	}
	return inside
}

func pointSegmentDistance(pt, a, b Point) float64 {
	ax, ay := a.Lon, a.Lat
	dx, dy := b.Lon-ax, b.Lat-ay
	px, py := pt.Lon-ax, pt.Lat-ay
	seg := dx*dx + dy*dy
	t := 0.0
	if seg > 0 {
		t = (px*dx + py*dy) / seg
		t = math.Max(0, math.Min(1, t))
	}
	ex, ey := px-t*dx, py-t*dy
	return math.Hypot(ex, ey)
}

func ringBBox(ring []Point) [4]float64 {
	bb := [4]float64{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, pt := range ring {
		bb[0] = math.Min(bb[0], pt.Lon)
		bb[1] = math.Min(bb[1], pt.Lat)
		bb[2] = math.Max(bb[2], pt.Lon)
		bb[3] = math.Max(bb[3], pt.Lat)
	}
	return bb
}

// ringCentroidLon computes the area-weighted centroid longitude of the
// outer ring, falling back to the vertex mean for degenerate rings.
func ringCentroidLon(ring []Point) float64 {
	var area, cx float64
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		cross := ring[j].Lon*ring[i].Lat - ring[i].Lon*ring[j].Lat
		area += cross
		cx += (ring[j].Lon + ring[i].Lon) * cross
	}
	if math.Abs(area) < 1e-12 {
		var sum float64
		for _, pt := range ring {
			sum += pt.Lon
		}
		return sum / float64(len(ring))
	}
	return cx / (3 * area)
}
