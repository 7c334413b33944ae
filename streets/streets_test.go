package streets

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/geoid"
	"github.com/royalcat/geocore/hierarchy"
	"github.com/royalcat/geocore/regions"
)

func cityRegion(id geoid.Id, minX, minY, maxX, maxY float64) *regions.Region {
	ring := orb.Ring{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY}}
	r := regions.NewRegion(id, "Testville", orb.MultiPolygon{orb.Polygon{ring}})
	r.Level = hierarchy.Locality
	return r
}

func TestAssemblyAggregatesSegmentsByName(t *testing.T) {
	city := cityRegion(geoid.New(geoid.Relation, 1), 0, 0, 10, 10)
	tree := regions.NewTree([]*regions.Region{city})

	b := NewBuilder(tree, 2)

	b.Assembly(Highway{
		ID:    geoid.New(geoid.Way, 1),
		Names: map[string]string{"default": "Main Street"},
		Line:  orb.LineString{{1, 1}, {2, 2}, {3, 3}},
	})
	b.Assembly(Highway{
		ID:    geoid.New(geoid.Way, 2),
		Names: map[string]string{"default": "main street"},
		Line:  orb.LineString{{3, 3}, {4, 4}},
	})

	streets := b.Aggregation()
	if len(streets) != 1 {
		t.Fatalf("expected one aggregated street, got %d", len(streets))
	}
	if len(streets[0].Segments) != 2 {
		t.Fatalf("expected both segments merged, got %d", len(streets[0].Segments))
	}
}

func TestBindingIncrementsAddressCount(t *testing.T) {
	city := cityRegion(geoid.New(geoid.Relation, 1), 0, 0, 10, 10)
	tree := regions.NewTree([]*regions.Region{city})
	b := NewBuilder(tree, 1)

	b.Assembly(Highway{
		ID:    geoid.New(geoid.Way, 1),
		Names: map[string]string{"default": "Elm Street"},
		Line:  orb.LineString{{1, 1}, {2, 2}},
	})

	if !b.Binding(AddressedObject{Point: orb.Point{1.5, 1.5}, Street: "Elm Street"}) {
		t.Fatalf("expected address to bind to the assembled street")
	}

	streets := b.Aggregation()
	if streets[0].AddressCount != 1 {
		t.Fatalf("AddressCount = %d, want 1", streets[0].AddressCount)
	}
}

func TestEmitWritesOneLinePerStreet(t *testing.T) {
	city := cityRegion(geoid.New(geoid.Relation, 1), 0, 0, 10, 10)
	tree := regions.NewTree([]*regions.Region{city})
	b := NewBuilder(tree, 1)

	b.Assembly(Highway{
		ID:    geoid.New(geoid.Way, 1),
		Names: map[string]string{"default": "Oak Street"},
		Line:  orb.LineString{{1, 1}, {2, 2}},
	})

	var buf strings.Builder
	err := Emit(&buf, b.Aggregation(), func(uint64) map[string]string {
		return map[string]string{"locality": "Testville"}
	})
	if err != nil {
		t.Fatalf("Emit returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "Oak Street") {
		t.Fatalf("expected emitted line to contain the street name, got %q", buf.String())
	}
}
