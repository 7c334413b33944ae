package coverindex

import (
	"bytes"
	"testing"

	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/geoid"
)

func TestCellIDRoundTripsBound(t *testing.T) {
	id := newCellID(4, 3, 5)
	if id.Depth() != 4 {
		t.Fatalf("Depth() = %d, want 4", id.Depth())
	}
	col, row := id.coords()
	if col != 3 || row != 5 {
		t.Fatalf("coords() = (%d, %d), want (3, 5)", col, row)
	}
}

func TestCoverDropsDisjointCells(t *testing.T) {
	geom := orb.Bound{Min: orb.Point{-170, -80}, Max: orb.Point{-160, -70}}
	cells := Cover(geom, 3)
	if len(cells) == 0 {
		t.Fatalf("expected at least one covering cell")
	}
	for _, c := range cells {
		if classify(c.Bound(), geom) == disjoint {
			t.Fatalf("covering included a disjoint cell %v", c)
		}
	}
}

func square(minX, minY, maxX, maxY float64) orb.MultiPolygon {
	ring := orb.Ring{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY}}
	return orb.MultiPolygon{orb.Polygon{ring}}
}

func TestIndexQueryPointFindsExactMatch(t *testing.T) {
	a := geoid.New(geoid.Relation, 1)
	b := geoid.New(geoid.Relation, 2)

	idx := Build([]Item{
		{ID: a, Polygon: square(0, 0, 10, 10)},
		{ID: b, Polygon: square(20, 20, 30, 30)},
	}, MaxDepthRegions)

	_, exact, ok := idx.QueryPoint(orb.Point{5, 5})
	if !ok || exact != a {
		t.Fatalf("QueryPoint(5,5) = (%v, %v), want (%v, true)", exact, ok, a)
	}

	_, _, ok = idx.QueryPoint(orb.Point{100, 100})
	if ok {
		t.Fatalf("expected no exact match far outside both polygons")
	}
}

func TestIndexSaveLoadRoundTripsQueries(t *testing.T) {
	a := geoid.New(geoid.Relation, 1)
	b := geoid.New(geoid.Relation, 2)

	items := []Item{
		{ID: a, Polygon: square(0, 0, 10, 10)},
		{ID: b, Polygon: square(20, 20, 30, 30)},
	}
	idx := Build(items, MaxDepthRegions)

	var buf bytes.Buffer
	if err := idx.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	loaded.AttachExact(items)

	candidates, exact, ok := loaded.QueryPoint(orb.Point{5, 5})
	if !ok || exact != a {
		t.Fatalf("QueryPoint(5,5) after round trip = (%v, %v), want (%v, true)", exact, ok, a)
	}
	if len(candidates) == 0 {
		t.Fatalf("expected at least one candidate cell hit")
	}

	_, _, ok = loaded.QueryPoint(orb.Point{100, 100})
	if ok {
		t.Fatalf("expected no exact match far outside both polygons after round trip")
	}
}

func TestIndexSaveLoadPreservesManyCellsAcrossLevels(t *testing.T) {
	var items []Item
	for i := 0; i < 20; i++ {
		base := float64(i * 8)
		id := geoid.New(geoid.Relation, uint64(i+1))
		items = append(items, Item{ID: id, Polygon: square(base, base, base+2, base+2)})
	}
	idx := Build(items, MaxDepthRegions)

	var buf bytes.Buffer
	if err := idx.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	loaded.AttachExact(items)

	for _, item := range items {
		center := item.Polygon.Bound().Center()
		_, exact, ok := loaded.QueryPoint(center)
		if !ok || exact != item.ID {
			t.Fatalf("QueryPoint(%v) = (%v, %v), want (%v, true)", center, exact, ok, item.ID)
		}
	}
}

func TestApproximateIndexQueryPoint(t *testing.T) {
	idx := NewApproximateIndex()
	idx.Insert("downtown", orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}})

	if got := idx.QueryPoint(orb.Point{5, 5}); got != "downtown" {
		t.Fatalf("QueryPoint(5,5) = %q, want downtown", got)
	}
}
