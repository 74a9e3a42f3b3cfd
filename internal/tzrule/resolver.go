package tzrule

import (
	"fmt"
	"time"

	"github.com/bradfitz/latlong"

	"github.com/dvincze/phototz/internal/geo"
)

// Resolver derives the UTC offset for a naive local timestamp at a
// geographic point: spatial index for the zone, rule provider for the
// offset, post-transition policy for ambiguous and nonexistent times.
type Resolver struct {
	index    *geo.Handle
	provider *Provider
	coarse   bool
}

// NewResolver wires an index handle to a rule provider. When coarse is
// true and the polygon index cannot be built, zone resolution degrades
// to a low-resolution builtin lookup instead of failing.
func NewResolver(index *geo.Handle, provider *Provider, coarse bool) *Resolver {
	return &Resolver{index: index, provider: provider, coarse: coarse}
}

// ResolveZone returns the IANA zone for the point, or ("", nil) when
// no zone can be determined.
func (r *Resolver) ResolveZone(lat, lon, toleranceDeg float64) (string, error) {
	idx, err := r.index.Index()
	if err != nil {
		if r.coarse {
			return latlong.LookupZoneName(lat, lon), nil
		}
		return "", fmt.Errorf("timezone index unavailable: %w", err)
	}
	zone, ok := idx.Resolve(lat, lon, toleranceDeg)
	if !ok {
		return "", nil
	}
	return zone, nil
}

// OffsetFor returns the UTC offset in effect for the naive local time
// at the point. The second return is false when the point resolves to
// no zone.
func (r *Resolver) OffsetFor(lat, lon float64, naive time.Time) (time.Duration, bool, error) {
	zone, err := r.ResolveZone(lat, lon, geo.DefaultToleranceDeg)
	if err != nil {
		return 0, false, err
	}
	if zone == "" {
		return 0, false, nil
	}

	cl, err := r.provider.Classify(zone, naive)
	if err != nil {
		return 0, false, err
	}
	switch cl.Kind {
	case Unambiguous:
		return cl.Offset, true, nil
	default:
		// Ambiguous and nonexistent wall times both resolve to the
		// post-transition offset.
		return cl.Post, true, nil
	}
}

// FormatOffset renders a UTC offset as +HH:MM / -HH:MM
func FormatOffset(d time.Duration) string {
	mins := int(d.Minutes())
	sign := "+"
	if mins < 0 {
		sign = "-"
		mins = -mins
	}
	return fmt.Sprintf("%s%02d:%02d", sign, mins/60, mins%60)
}
