// Package tzrule classifies naive local timestamps against IANA zone
// rules and derives UTC offsets for geographic points.
package tzrule

import (
	"fmt"
	"sort"
	"sync"
	"time"
	_ "time/tzdata" // embed the IANA database; hosts without zoneinfo still resolve
)

// Kind classifies how a naive local time maps onto a zone's timeline
type Kind int

const (
	// Unambiguous: the wall time occurs exactly once
	Unambiguous Kind = iota
	// Ambiguous: the wall time occurs twice (fall-back transition)
	Ambiguous
	// Nonexistent: the wall time is skipped (spring-forward gap)
	Nonexistent
)

// Classification is the provider's verdict for a (zone, naive time)
// pair. Offset is set for Unambiguous; Pre and Post carry the offsets
// in effect before and after the transition otherwise.
type Classification struct {
	Kind   Kind
	Offset time.Duration
	Pre    time.Duration
	Post   time.Duration
}

// Provider answers offset classification queries from the IANA rule
// database. Locations are cached; safe for concurrent use.
type Provider struct {
	mu   sync.Mutex
	locs map[string]*time.Location
}

// NewProvider creates a rule provider
func NewProvider() *Provider {
	return &Provider{locs: make(map[string]*time.Location)}
}

func (p *Provider) location(zone string) (*time.Location, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if loc, ok := p.locs[zone]; ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load zone %q: %w", zone, err)
	}
	p.locs[zone] = loc
	return loc, nil
}

// Classify determines whether the naive local time exists once, twice
// or not at all in the zone. The probe assumes transitions are at most
// one hour, which holds for real-world DST rules; candidates are
// sampled a day either side of the wall time.
func (p *Provider) Classify(zone string, naive time.Time) (Classification, error) {
	loc, err := p.location(zone)
	if err != nil {
		return Classification{}, err
	}

	wall := wallSeconds(naive)
	matches := wallMatches(loc, wall)

	switch len(matches) {
	case 1:
		return Classification{Kind: Unambiguous, Offset: secs(matches[0])}, nil
	case 0:
		// Spring-forward gap: the pre/post offsets are what the zone
		// resolves to one hour before and one hour after the gap.
		pre := resolveWall(loc, wall-3600)
		post := resolveWall(loc, wall+3600)
		return Classification{Kind: Nonexistent, Pre: secs(pre), Post: secs(post)}, nil
	default:
		// Fall-back overlap. The earlier instant carries the larger
		// offset; the later one is post-transition.
		sort.Sort(sort.Reverse(sort.IntSlice(matches)))
		return Classification{
			Kind: Ambiguous,
			Pre:  secs(matches[0]),
			Post: secs(matches[len(matches)-1]),
		}, nil
	}
}

// wallSeconds treats the naive time's wall-clock fields as seconds
// since the epoch, ignoring any location attached to it.
func wallSeconds(naive time.Time) int64 {
	y, mo, d := naive.Date()
	h, mi, s := naive.Clock()
	return time.Date(y, mo, d, h, mi, s, 0, time.UTC).Unix()
}

// wallMatches finds every offset o such that the instant (wall - o)
// renders as the requested wall time in the zone.
func wallMatches(loc *time.Location, wall int64) []int {
	seen := make(map[int]struct{})
	for _, delta := range []int64{-86400, 0, 86400} {
		_, off := time.Unix(wall+delta, 0).In(loc).Zone()
		seen[off] = struct{}{}
	}
	var matches []int
	for off := range seen {
		if _, got := time.Unix(wall-int64(off), 0).In(loc).Zone(); got == off {
			matches = append(matches, off)
		}
	}
	sort.Ints(matches)
	return matches
}

// resolveWall returns the offset for a wall time known to exist,
// falling back to the zone offset at the corresponding instant when
// it does not.
func resolveWall(loc *time.Location, wall int64) int {
	if matches := wallMatches(loc, wall); len(matches) > 0 {
		// post-transition policy: the later instant has the smallest offset
		return matches[0]
	}
	_, off := time.Unix(wall, 0).In(loc).Zone()
	return off
}

func secs(off int) time.Duration {
	return time.Duration(off) * time.Second
}
