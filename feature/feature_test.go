package feature

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestClassifyHighwayWithName(t *testing.T) {
	c, street, house := Classify(map[string]string{"highway": "residential", "name": "Elm Street"})
	if !c.Has(ClassHighway) {
		t.Fatalf("expected ClassHighway for a named highway")
	}
	if street != "" || house != "" {
		t.Fatalf("unexpected address fragments: street=%q house=%q", street, house)
	}
}

func TestClassifyAddressed(t *testing.T) {
	c, street, house := Classify(map[string]string{"addr:street": "Elm Street", "addr:housenumber": "12a"})
	if !c.Has(ClassAddressed) {
		t.Fatalf("expected ClassAddressed")
	}
	if street != "Elm Street" || house != "12a" {
		t.Fatalf("got street=%q house=%q", street, house)
	}
}

func TestAdminLevelParsing(t *testing.T) {
	if got := AdminLevel(map[string]string{"admin_level": "4"}); got != 4 {
		t.Fatalf("AdminLevel = %d, want 4", got)
	}
	if got := AdminLevel(map[string]string{}); got != -1 {
		t.Fatalf("AdminLevel(missing) = %d, want -1", got)
	}
	if got := AdminLevel(map[string]string{"admin_level": "abc"}); got != -1 {
		t.Fatalf("AdminLevel(garbage) = %d, want -1", got)
	}
}

func TestRelationAccepted(t *testing.T) {
	if !RelationAccepted("multipolygon") {
		t.Fatalf("multipolygon should be accepted")
	}
	if RelationAccepted("site") {
		t.Fatalf("site should not be accepted")
	}
}

func TestBuildMultiPolygonSingleOuter(t *testing.T) {
	outer := orb.LineString{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	mp, err := BuildMultiPolygon([]RingMember{{Role: "outer", Line: outer}})
	if err != nil {
		t.Fatalf("BuildMultiPolygon returned error: %v", err)
	}
	if len(mp) != 1 || len(mp[0][0]) == 0 {
		t.Fatalf("expected one polygon with a populated outer ring, got %v", mp)
	}
}

func TestBuildMultiPolygonJoinsSplitOuter(t *testing.T) {
	a := orb.LineString{{0, 0}, {10, 0}, {10, 10}}
	b := orb.LineString{{10, 10}, {0, 10}, {0, 0}}
	mp, err := BuildMultiPolygon([]RingMember{
		{Role: "outer", Line: a},
		{Role: "outer", Line: b},
	})
	if err != nil {
		t.Fatalf("BuildMultiPolygon returned error: %v", err)
	}
	if len(mp) != 1 || !mp[0][0].Closed() {
		t.Fatalf("expected the two outer ways to join into one closed ring, got %v", mp)
	}
}

func TestBuildMultiPolygonNoOuterFails(t *testing.T) {
	_, err := BuildMultiPolygon(nil)
	if err == nil {
		t.Fatalf("expected an error when no outer ways are given")
	}
}
