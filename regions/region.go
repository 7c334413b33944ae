// Package regions builds per-country trees of nested administrative regions
// from a planet's worth of admin polygons, assigning each region a place
// level (hierarchy.Type) and, where known, a finer Kind.
package regions

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/royalcat/geocore/geoid"
	"github.com/royalcat/geocore/hierarchy"
)

// Region is a Feature of type Area plus the derived attributes spec.md §3
// lists for it, generalized into the tree node used by the resolver.
type Region struct {
	ID      geoid.Id
	Name    string
	Names   map[string]string // locale -> name
	Polygon orb.MultiPolygon
	Bound   orb.Bound
	Area    float64

	AdminLevel int    // 2..12, -1 when unknown
	PlaceType  string // country, state, province, district, county, city, town, village, hamlet, suburb, neighbourhood, unknown
	IsoCode    string

	LabelPoint orb.Point
	HasLabel   bool

	Level hierarchy.Type
	Kind  hierarchy.Kind

	Parent   *Region
	Children []*Region
}

// NewRegion computes the derived Bound/Area from Polygon; callers should
// construct with NewRegion rather than filling Bound/Area by hand so the two
// never drift apart.
func NewRegion(id geoid.Id, name string, poly orb.MultiPolygon) *Region {
	r := &Region{
		ID:         id,
		Name:       name,
		Polygon:    poly,
		Bound:      poly.Bound(),
		AdminLevel: -1,
		PlaceType:  "unknown",
		Level:      hierarchy.TypeCount,
	}
	r.Area = polygonArea(poly)
	return r
}

func polygonArea(mp orb.MultiPolygon) float64 {
	total := 0.0
	for _, poly := range mp {
		if len(poly) == 0 {
			continue
		}
		_, area := planar.CentroidArea(poly[0])
		total += math.Abs(area)
		for _, hole := range poly[1:] {
			_, a := planar.CentroidArea(hole)
			total -= math.Abs(a)
		}
	}
	return total
}

// RepresentativePoint is the point used for containment tests against other
// regions: the attached label point if one was bound, otherwise the
// polygon's centroid.
func (r *Region) RepresentativePoint() orb.Point {
	if r.HasLabel {
		return r.LabelPoint
	}
	if len(r.Polygon) > 0 && len(r.Polygon[0]) > 0 {
		p, _ := planar.CentroidArea(r.Polygon[0])
		return p
	}
	return r.Bound.Center()
}

// Contains reports whether p falls inside any outer ring of the region's
// polygon, subtracting holes (paulmach/orb's MultiPolygonContains already
// accounts for inner rings).
func (r *Region) Contains(p orb.Point) bool {
	return planar.MultiPolygonContains(r.Polygon, p)
}

// IsCountryOuter matches spec.md §4.5's "Country outers are extracted" rule.
func (r *Region) IsCountryOuter() bool {
	return r.PlaceType == "country" || (r.AdminLevel == 2 && r.PlaceType == "unknown")
}

func boundOverlapRatio(a, b orb.Bound) float64 {
	ix := math.Min(a.Max[0], b.Max[0]) - math.Max(a.Min[0], b.Min[0])
	iy := math.Min(a.Max[1], b.Max[1]) - math.Max(a.Min[1], b.Min[1])
	if ix <= 0 || iy <= 0 {
		return 0
	}
	inter := ix * iy
	areaA := (a.Max[0] - a.Min[0]) * (a.Max[1] - a.Min[1])
	areaB := (b.Max[0] - b.Min[0]) * (b.Max[1] - b.Min[1])
	smaller := math.Min(areaA, areaB)
	if smaller <= 0 {
		return 0
	}
	return inter / smaller
}
