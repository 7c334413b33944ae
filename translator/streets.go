package translator

import (
	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/feature"
	"github.com/royalcat/geocore/geoid"
)

// StreetsTranslator accepts named highways and squares, emitting Line (for
// centerlines) or Area (for squares/plazas) features for the streets
// builder to assemble and aggregate.
type StreetsTranslator struct {
	accepted int // count of elements that passed Accept, merged for stats only
}

func NewStreetsTranslator() *StreetsTranslator {
	return &StreetsTranslator{}
}

func (t *StreetsTranslator) Accept(tags map[string]string) bool {
	classes, _, _ := feature.Classify(tags)
	return classes.Has(feature.ClassHighway) || classes.Has(feature.ClassSquare)
}

func (t *StreetsTranslator) Make(el Element) (feature.Feature, bool) {
	t.accepted++
	classes, street, house := feature.Classify(el.Tags)

	if classes.Has(feature.ClassSquare) && len(el.Members) > 0 {
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

	if len(el.Line) == 0 {
		return feature.Feature{}, false
	}
	line := make(orb.LineString, len(el.Line))
	for i, p := range el.Line {
		line[i] = orb.Point(p)
	}

	return feature.Feature{
		OsmID:   geoid.New(geoid.Way, el.ID),
		Geom:    feature.Geometry{Type: feature.Line, Line: line},
		Classes: classes,
		Names:   namesFromTags(el.Tags),
		Street:  street,
		House:   house,
	}, true
}

func (t *StreetsTranslator) New() Translator { return NewStreetsTranslator() }

func (t *StreetsTranslator) Merge(other Translator) Translator {
	o := other.(*StreetsTranslator)
	t.accepted += o.accepted
	return t
}
