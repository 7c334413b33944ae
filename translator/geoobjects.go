package translator

import (
	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/feature"
	"github.com/royalcat/geocore/geoid"
)

// GeoObjectsTranslator accepts buildings, addressed features, and POIs
// worth indexing individually (as opposed to folding into a street or
// region), emitting Point or Area features.
type GeoObjectsTranslator struct {
	count int
}

func NewGeoObjectsTranslator() *GeoObjectsTranslator {
	return &GeoObjectsTranslator{}
}

func (t *GeoObjectsTranslator) Accept(tags map[string]string) bool {
	classes, _, _ := feature.Classify(tags)
	return classes.Has(feature.ClassBuilding) || classes.Has(feature.ClassAddressed) || classes.Has(feature.ClassPOI)
}

func (t *GeoObjectsTranslator) Make(el Element) (feature.Feature, bool) {
	classes, street, house := feature.Classify(el.Tags)
	t.count++

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
			Street:  street,
			House:   house,
		}, true
	}

	idType := geoid.Node
	if len(el.Line) > 0 {
		idType = geoid.Way
	}

	return feature.Feature{
		OsmID:   geoid.New(idType, el.ID),
		Geom:    feature.Geometry{Type: feature.Point, Point: orb.Point(el.Point)},
		Classes: classes,
		Names:   namesFromTags(el.Tags),
		Street:  street,
		House:   house,
	}, true
}

func (t *GeoObjectsTranslator) New() Translator { return NewGeoObjectsTranslator() }

func (t *GeoObjectsTranslator) Merge(other Translator) Translator {
	o := other.(*GeoObjectsTranslator)
	t.count += o.count
	return t
}
