package hierarchy

import "testing"

func TestBuildTokenIndexForEachDocId(t *testing.T) {
	h := buildS1Hierarchy(t)
	idx := BuildTokenIndex(h)

	var got []DocId
	idx.ForEachDocId("florencia", Subregion, func(d DocId) bool {
		got = append(got, d)
		return true
	})
	if len(got) != 1 {
		t.Fatalf("expected 1 doc for florencia/subregion, got %d", len(got))
	}
	if e := idx.Entry(got[0]); e == nil || e.Name != "Florencia" {
		t.Fatalf("expected Florencia entry, got %+v", e)
	}

	var none []DocId
	idx.ForEachDocId("florencia", Country, func(d DocId) bool {
		none = append(none, d)
		return true
	})
	if len(none) != 0 {
		t.Fatalf("expected 0 docs for florencia/country, got %d", len(none))
	}
}
