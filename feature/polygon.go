package feature

import (
	"errors"

	"github.com/paulmach/orb"
)

// RingMember is one way contributing to a multipolygon relation, already
// resolved to coordinates (spec.md's C1 cache lookups happen before this
// point, so polygon assembly itself never touches node storage).
type RingMember struct {
	Role        string // "outer" or "inner"
	Orientation orb.Orientation
	Line        orb.LineString
}

// ring is the join-able unit polygon assembly works over.
type ring struct {
	orientation orb.Orientation
	line        orb.LineString
}

func (r *ring) reverse() { r.line.Reverse() }

func (r ring) first() orb.Point { return r.line[0] }
func (r ring) last() orb.Point  { return r.line[len(r.line)-1] }

// chain is an ordered run of rings stitched end to end, forming either a
// closed ring or a dangling (invalid) open path.
type chain []ring

func (c chain) first() orb.Point { return c[0].first() }
func (c chain) last() orb.Point  { return c[len(c)-1].last() }

func (c chain) closedRing(want orb.Orientation) orb.Ring {
	length := 0
	for _, r := range c {
		length += len(r.line)
	}
	out := make(orb.Ring, 0, length)

	haveOrientation := false
	reversed := false
	for _, r := range c {
		if r.orientation != 0 {
			haveOrientation = true
			if r.orientation != want {
				reversed = true
			}
		}
		out = append(out, r.line...)
	}

	if (haveOrientation && reversed) || (!haveOrientation && out.Orientation() != want) {
		out.Reverse()
	}
	return out
}

// BuildMultiPolygon assembles a relation's outer/inner way members into a
// MultiPolygon, matching inner rings to the outer ring that contains them.
// Adapted from the single-outer "old style multipolygon" special case and
// the general multi-outer case alike.
func BuildMultiPolygon(members []RingMember) (orb.MultiPolygon, error) {
	var outers, inners []ring
	outerCount := 0
	for _, m := range members {
		r := ring{orientation: m.Orientation, line: m.Line}
		if m.Role == "outer" {
			outerCount++
			outers = append(outers, r)
		} else {
			inners = append(inners, r)
		}
	}

	if len(outers) == 0 {
		return nil, errors.New("feature: relation has no outer ways")
	}

	outerChains := joinRings(outers)
	if outerCount == 1 && len(outerChains) == 1 {
		outerRing := outerChains[0].closedRing(orb.CCW)
		if len(outerRing) < 4 || !outerRing.Closed() {
			return nil, errors.New("feature: invalid outer ring")
		}

		poly := make(orb.Polygon, 0, len(inners)+1)
		poly = append(poly, outerRing)
		for _, innerChain := range joinRings(inners) {
			poly = append(poly, innerChain.closedRing(orb.CW))
		}
		return orb.MultiPolygon{poly}, nil
	}

	mp := make(orb.MultiPolygon, 0, len(outers))
	for _, outerChain := range outerChains {
		r := outerChain.closedRing(orb.CCW)
		if len(r) < 4 || !r.Closed() {
			continue
		}
		mp = append(mp, orb.Polygon{r})
	}
	if len(mp) == 0 {
		return nil, errors.New("feature: no valid outer ways")
	}

	for _, innerChain := range joinRings(inners) {
		r := innerChain.closedRing(orb.CW)
		mp = addHoleToMultiPolygon(mp, r)
	}
	return mp, nil
}

func addHoleToMultiPolygon(mp orb.MultiPolygon, hole orb.Ring) orb.MultiPolygon {
	for i := range mp {
		if ringContains(mp[i][0], hole) {
			mp[i] = append(mp[i], hole)
			return mp
		}
	}
	return append(mp, orb.Polygon{nil, hole})
}

func ringContains(outer, r orb.Ring) bool {
	for _, p := range r {
		if !pointInRing(p, outer) {
			return false
		}
	}
	return true
}

func pointInRing(p orb.Point, outer orb.Ring) bool {
	inside := false
	x, y := p[0], p[1]
	for i, j := 0, len(outer)-1; i < len(outer); j, i = i, i+1 {
		xi, yi := outer[i][0], outer[i][1]
		xj, yj := outer[j][0], outer[j][1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// joinRings stitches a pool of open line segments end to end into maximal
// chains, consuming pool in the process.
func joinRings(pool []ring) []chain {
	pool = compactRings(pool)
	var chains []chain

	for len(pool) != 0 {
		current := chain{pool[len(pool)-1]}
		pool = pool[:len(pool)-1]

		for len(pool) != 0 && !pointsEqual(current.first(), current.last()) {
			first, last := current.first(), current.last()
			foundAt := -1

			for i, r := range pool {
				switch {
				case pointsEqual(last, r.first()):
					r.line = r.line[1:]
					current = append(current, r)
					foundAt = i
				case pointsEqual(last, r.last()):
					r.reverse()
					r.line = r.line[1:]
					current = append(current, r)
					foundAt = i
				case pointsEqual(first, r.last()):
					r.line = r.line[:len(r.line)-1]
					current = append(chain{r}, current...)
					foundAt = i
				case pointsEqual(first, r.first()):
					r.reverse()
					r.line = r.line[:len(r.line)-1]
					current = append(chain{r}, current...)
					foundAt = i
				}
				if foundAt != -1 {
					break
				}
			}

			if foundAt == -1 {
				break // dangling way or unclosed ring; keep what joined so far
			}
			pool = append(pool[:foundAt], pool[foundAt+1:]...)
		}

		chains = append(chains, current)
	}

	return chains
}

func compactRings(rings []ring) []ring {
	at := 0
	for _, r := range rings {
		if len(r.line) <= 1 {
			continue
		}
		rings[at] = r
		at++
	}
	return rings[:at]
}

func pointsEqual(a, b orb.Point) bool {
	return a[0] == b[0] && a[1] == b[1]
}
