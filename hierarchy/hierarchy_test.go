package hierarchy

import "testing"

func buildS1Hierarchy(t *testing.T) *Hierarchy {
	t.Helper()

	dict := NewNameDictionaryBuilder()
	var stats ParsingStats

	lines := []struct {
		id  Id
		raw string
	}{
		{1, `{"properties":{"rank":1,"locales":{"default":{"name":"Cuba","address":{"country":"Cuba"}}}}}`},
		{2, `{"properties":{"rank":2,"locales":{"default":{"name":"Ciego de Avila","address":{"country":"Cuba","region":"Ciego de Avila"}}}}}`},
		{3, `{"properties":{"rank":3,"locales":{"default":{"name":"Florencia","address":{"country":"Cuba","region":"Ciego de Avila","subregion":"Florencia"}}}}}`},
	}

	var entries []Entry
	for _, l := range lines {
		e := Entry{OsmID: l.id}
		if !e.DeserializeFromJSON([]byte(l.raw), dict, &stats) {
			t.Fatalf("line %d failed to parse", l.id)
		}
		entries = append(entries, e)
	}

	return NewHierarchy(entries, dict.Release(), stats)
}

func TestGetEntryForOsmId(t *testing.T) {
	h := buildS1Hierarchy(t)

	e := h.GetEntryForOsmId(3)
	if e == nil || e.Name != "Florencia" {
		t.Fatalf("expected to find Florencia by id, got %+v", e)
	}

	if h.GetEntryForOsmId(999) != nil {
		t.Fatalf("expected no entry for unknown id")
	}
}

func TestIsParentTo(t *testing.T) {
	h := buildS1Hierarchy(t)

	cuba := h.GetEntryForOsmId(1)
	region := h.GetEntryForOsmId(2)
	subregion := h.GetEntryForOsmId(3)

	if !IsParentTo(cuba, region) {
		t.Fatalf("expected Cuba to be parent of Ciego de Avila")
	}
	if !IsParentTo(cuba, subregion) {
		t.Fatalf("expected Cuba to be parent of Florencia")
	}
	if !IsParentTo(region, subregion) {
		t.Fatalf("expected Ciego de Avila to be parent of Florencia")
	}
	if IsParentTo(subregion, cuba) {
		t.Fatalf("did not expect Florencia to be parent of Cuba")
	}
}
