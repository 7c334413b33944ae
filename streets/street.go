// Package streets assembles highway ways and relations into one street
// record per administering region, aggregating multilingual names and
// composite geometry the way a city's streets layer is built for the
// geocoder's hierarchy and token index.
package streets

import (
	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/geoid"
)

// Segment is one sub-path of a highway that falls entirely inside a single
// region. The Builder does not construct Segment values: it stores each
// region's sub-paths as plain orb.LineString values in Street.Segments, and
// assigns no surrogate id per sub-path.
type Segment struct {
	SurrogateID geoid.Id
	RegionID    geoid.Id
	Line        orb.LineString
}

// Area is an areal part of a street (a square, a plaza) contributed by a
// way/relation tagged as the street's own polygon rather than its centerline.
type Area struct {
	RegionID geoid.Id
	Polygon  orb.Polygon
}

// Street is the aggregated record for all segments and areas in one region
// that share a normalized name.
type Street struct {
	PinID    geoid.Id // osm id of the label node, or a surrogate if synthesized
	RegionID geoid.Id
	Names    map[string]string // locale -> display name

	Pin      orb.Point
	Bound    orb.Bound
	Segments []orb.LineString
	Areas    []orb.Polygon

	AddressCount int // number of geo-objects bound to this street via addr:street
}

func newStreet(regionID geoid.Id, names map[string]string) *Street {
	return &Street{
		RegionID: regionID,
		Names:    names,
	}
}

func (s *Street) addSegment(line orb.LineString) {
	s.Segments = append(s.Segments, line)
	s.growBound(line.Bound())
}

func (s *Street) addArea(poly orb.Polygon) {
	s.Areas = append(s.Areas, poly)
	s.growBound(poly.Bound())
}

func (s *Street) growBound(b orb.Bound) {
	if s.Bound == (orb.Bound{}) {
		s.Bound = b
		return
	}
	s.Bound = s.Bound.Union(b)
}

// finalize computes the pin point once all of a street's pieces are known:
// a Pin that is already set is kept, otherwise a representative point is
// derived from the geometry. Binding does not set Pin.
func (s *Street) finalize() {
	if s.Pin != (orb.Point{}) {
		return
	}
	s.Pin = representativePoint(s.Areas, s.Segments)
}
