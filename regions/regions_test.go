package regions

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/geoid"
	"github.com/royalcat/geocore/hierarchy"
)

func square(minX, minY, maxX, maxY float64) orb.MultiPolygon {
	ring := orb.Ring{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}
	return orb.MultiPolygon{orb.Polygon{ring}}
}

func TestCompareAffiliationUnderOver(t *testing.T) {
	country := NewRegion(geoid.New(geoid.Relation, 1), "Wonderland", square(0, 0, 10, 10))
	country.PlaceType = "country"
	country.AdminLevel = 2

	state := NewRegion(geoid.New(geoid.Relation, 2), "Midland", square(1, 1, 4, 4))
	state.PlaceType = "state"
	state.AdminLevel = 4

	if got := CompareAffiliation(state, country); got != Under {
		t.Fatalf("CompareAffiliation(state, country) = %v, want Under", got)
	}
	if got := CompareAffiliation(country, state); got != Over {
		t.Fatalf("CompareAffiliation(country, state) = %v, want Over", got)
	}
}

func TestCompareAffiliationDisjoint(t *testing.T) {
	a := NewRegion(geoid.New(geoid.Relation, 1), "A", square(0, 0, 10, 10))
	b := NewRegion(geoid.New(geoid.Relation, 2), "B", square(20, 20, 30, 30))

	if got := CompareAffiliation(a, b); got != Disjoint {
		t.Fatalf("CompareAffiliation(disjoint) = %v, want Disjoint", got)
	}
}

func TestCompareAffiliationAmbiguousOverlap(t *testing.T) {
	a := NewRegion(geoid.New(geoid.Relation, 1), "A", square(0, 0, 10, 10))
	b := NewRegion(geoid.New(geoid.Relation, 2), "B", square(1, 1, 11, 11))

	if got := CompareAffiliation(a, b); got != Ambiguous {
		t.Fatalf("CompareAffiliation(heavy overlap, comparable area) = %v, want Ambiguous", got)
	}
}

// TestBuildTreesKeepsDisjointSiblingsUnderCountry guards against a
// regression where two disjoint same-country regions of different area
// (e.g. two states) were parented to each other via the weight tiebreak
// instead of staying siblings under the country: ChooseParent must never
// consult RelateByWeight for a Disjoint pair.
func TestBuildTreesKeepsDisjointSiblingsUnderCountry(t *testing.T) {
	country := NewRegion(geoid.New(geoid.Relation, 1), "Wonderland", square(0, 0, 100, 100))
	country.PlaceType = "country"
	country.AdminLevel = 2
	country.IsoCode = "WL"

	bigState := NewRegion(geoid.New(geoid.Relation, 2), "Bigstate", square(0, 0, 40, 40))
	bigState.PlaceType = "state"
	bigState.AdminLevel = 4
	bigState.IsoCode = "WL"

	smallState := NewRegion(geoid.New(geoid.Relation, 3), "Smallstate", square(60, 60, 70, 70))
	smallState.PlaceType = "state"
	smallState.AdminLevel = 4
	smallState.IsoCode = "WL"

	all := []*Region{country, bigState, smallState}
	roots := MakeCountryNodesInAreaOrder(all, nil)

	if len(roots) != 1 || roots[0] != country {
		t.Fatalf("expected a single root equal to country, got %v", roots)
	}
	if bigState.Parent != country {
		t.Fatalf("bigState.Parent = %v, want country", bigState.Parent)
	}
	if smallState.Parent != country {
		t.Fatalf("smallState.Parent = %v, want country (not bigState)", smallState.Parent)
	}
}

func TestBuildTreesAssignsParentAndLevel(t *testing.T) {
	country := NewRegion(geoid.New(geoid.Relation, 1), "Wonderland", square(0, 0, 10, 10))
	country.PlaceType = "country"
	country.AdminLevel = 2
	country.IsoCode = "WL"

	region := NewRegion(geoid.New(geoid.Relation, 2), "Midland", square(1, 1, 4, 4))
	region.PlaceType = "state"
	region.AdminLevel = 4
	region.IsoCode = "WL"

	city := NewRegion(geoid.New(geoid.Relation, 3), "Smallville", square(2, 2, 3, 3))
	city.PlaceType = "city"
	city.AdminLevel = 8
	city.IsoCode = "WL"

	all := []*Region{country, region, city}
	roots := MakeCountryNodesInAreaOrder(all, nil)

	if len(roots) != 1 || roots[0] != country {
		t.Fatalf("expected a single root equal to country, got %v", roots)
	}
	if region.Parent != country {
		t.Fatalf("region.Parent = %v, want country", region.Parent)
	}
	if city.Parent != region {
		t.Fatalf("city.Parent = %v, want region (the smallest containing candidate)", city.Parent)
	}
	if region.Level != hierarchy.Region || city.Level != hierarchy.Locality {
		t.Fatalf("levels: region=%s city=%s, want region and locality", region.Level, city.Level)
	}
	if city.Area >= region.Area || region.Area >= country.Area {
		t.Fatalf("area ordering violated: city=%f region=%f country=%f", city.Area, region.Area, country.Area)
	}
}

func TestFormRegionsInAreaOrderDescending(t *testing.T) {
	small := NewRegion(geoid.New(geoid.Relation, 1), "small", square(0, 0, 1, 1))
	big := NewRegion(geoid.New(geoid.Relation, 2), "big", square(0, 0, 100, 100))

	ordered := FormRegionsInAreaOrder([]*Region{small, big})
	if ordered[0] != big || ordered[1] != small {
		t.Fatalf("expected descending area order, got %v then %v", ordered[0].Name, ordered[1].Name)
	}
}
