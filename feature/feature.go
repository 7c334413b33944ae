// Package feature turns resolved OSM geometry and tags into the Feature
// records the translators emit: points, lines, and areas carrying
// multilingual names and a classified type set.
package feature

import (
	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/geoid"
)

// GeomType is the shape a Feature's geometry takes.
type GeomType int

const (
	Point GeomType = iota
	Line
	Area
)

// Geometry holds exactly the field matching its Type.
type Geometry struct {
	Type    GeomType
	Point   orb.Point
	Line    orb.LineString
	Polygon orb.MultiPolygon
}

// Feature is the generalized output of the translator pipeline: an OSM
// element resolved to geometry, classified by tag, carrying whatever
// multilingual names and address fragments its tags named.
type Feature struct {
	OsmID   geoid.Id
	Geom    Geometry
	Classes Classification
	Names   map[string]string // locale -> name, "default" always present if any name exists
	Street  string             // addr:street, if present
	House   string             // addr:housenumber, if present
}

// Bound returns the geometry's bounding box, regardless of its shape.
func (f *Feature) Bound() orb.Bound {
	switch f.Geom.Type {
	case Point:
		return orb.Bound{Min: f.Geom.Point, Max: f.Geom.Point}
	case Line:
		return f.Geom.Line.Bound()
	case Area:
		return f.Geom.Polygon.Bound()
	default:
		return orb.Bound{}
	}
}
