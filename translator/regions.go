package translator

import (
	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/feature"
	"github.com/royalcat/geocore/geoid"
)

// RegionsTranslator accepts admin boundaries and place nodes, emitting Area
// (or, for place nodes without a polygon, Point) features tagged with the
// admin_level/place_type Regions needs.
type RegionsTranslator struct {
	seen map[uint64]struct{} // osm ids this clone already turned into a feature; Merge unions the sets but does not drop features other workers produced
}

func NewRegionsTranslator() *RegionsTranslator {
	return &RegionsTranslator{seen: map[uint64]struct{}{}}
}

func (t *RegionsTranslator) Accept(tags map[string]string) bool {
	if tags["boundary"] == "administrative" {
		return true
	}
	if tags["place"] != "" {
		return true
	}
	return false
}

func (t *RegionsTranslator) Make(el Element) (feature.Feature, bool) {
	if _, dup := t.seen[el.ID]; dup {
		return feature.Feature{}, false
	}
	t.seen[el.ID] = struct{}{}

	classes, _, _ := feature.Classify(el.Tags)

	if len(el.Members) > 0 {
		mp, err := feature.BuildMultiPolygon(el.Members)
		if err != nil {
			return feature.Feature{}, false
		}
		return feature.Feature{
			OsmID:   geoid.New(geoid.Relation, el.ID),
			Geom:    feature.Geometry{Type: feature.Area, Polygon: mp},
			Classes: classes,
			Names:   namesFromTags(el.Tags),
		}, true
	}

	return feature.Feature{
		OsmID:   geoid.New(geoid.Node, el.ID),
		Geom:    feature.Geometry{Type: feature.Point, Point: orb.Point(el.Point)},
		Classes: classes,
		Names:   namesFromTags(el.Tags),
	}, true
}

func (t *RegionsTranslator) New() Translator { return NewRegionsTranslator() }

func (t *RegionsTranslator) Merge(other Translator) Translator {
	o := other.(*RegionsTranslator)
	for id := range o.seen {
		t.seen[id] = struct{}{}
	}
	return t
}

// namesFromTags collects name and name:<locale> tags into a locale map,
// always populating "default" from the plain name tag when present.
func namesFromTags(tags map[string]string) map[string]string {
	names := map[string]string{}
	if n := tags["name"]; n != "" {
		names["default"] = n
	}
	const prefix = "name:"
	for k, v := range tags {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			names[k[len(prefix):]] = v
		}
	}
	return names
}
