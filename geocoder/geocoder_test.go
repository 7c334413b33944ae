package geocoder

import (
	"math"
	"testing"

	"github.com/royalcat/geocore/hierarchy"
)

func buildS1Geocoder(t *testing.T) *Geocoder {
	t.Helper()

	dict := hierarchy.NewNameDictionaryBuilder()
	var stats hierarchy.ParsingStats

	lines := []struct {
		id  hierarchy.Id
		raw string
	}{
		{1, `{"properties":{"rank":1,"locales":{"default":{"name":"Cuba","address":{"country":"Cuba"}}}}}`},
		{2, `{"properties":{"rank":2,"locales":{"default":{"name":"Ciego de Avila","address":{"country":"Cuba","region":"Ciego de Avila"}}}}}`},
		{3, `{"properties":{"rank":3,"locales":{"default":{"name":"Florencia","address":{"country":"Cuba","region":"Ciego de Avila","subregion":"Florencia"}}}}}`},
	}

	var entries []hierarchy.Entry
	for _, l := range lines {
		e := hierarchy.Entry{OsmID: l.id}
		if !e.DeserializeFromJSON([]byte(l.raw), dict, &stats) {
			t.Fatalf("line %d failed to parse", l.id)
		}
		entries = append(entries, e)
	}

	h := hierarchy.NewHierarchy(entries, dict.Release(), stats)
	idx := hierarchy.BuildTokenIndex(h)
	return New(h, idx, nil)
}

func approxEqual(a, b, eps float64) bool { return math.Abs(a-b) < eps }

func TestProcessQueryS1SingleToken(t *testing.T) {
	g := buildS1Geocoder(t)

	results := g.ProcessQuery("florencia")
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d: %+v", len(results), results)
	}
	if !approxEqual(results[0].Certainty, 1.0, 1e-9) {
		t.Fatalf("expected certainty 1.0, got %v", results[0].Certainty)
	}
}

func TestProcessQueryS1TwoTokens(t *testing.T) {
	g := buildS1Geocoder(t)

	results := g.ProcessQuery("cuba florencia")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(results), results)
	}
	if !approxEqual(results[0].Certainty, 1.0, 1e-9) {
		t.Fatalf("expected top certainty 1.0, got %v", results[0].Certainty)
	}
	if !approxEqual(results[1].Certainty, 0.714, 1e-3) {
		t.Fatalf("expected second certainty ~0.714, got %v", results[1].Certainty)
	}
}

func TestProcessQueryEmptyQuery(t *testing.T) {
	g := buildS1Geocoder(t)

	if results := g.ProcessQuery(""); len(results) != 0 {
		t.Fatalf("expected 0 results for empty query, got %d", len(results))
	}
}

// buildGeocoderFromLines is buildS1Geocoder generalized to an arbitrary set
// of raw hierarchy jsonl lines.
func buildGeocoderFromLines(t *testing.T, lines []string) *Geocoder {
	t.Helper()

	dict := hierarchy.NewNameDictionaryBuilder()
	var stats hierarchy.ParsingStats

	var entries []hierarchy.Entry
	for i, raw := range lines {
		e := hierarchy.Entry{OsmID: hierarchy.Id(i + 1)}
		if !e.DeserializeFromJSON([]byte(raw), dict, &stats) {
			t.Fatalf("line %d failed to parse: %s", i, raw)
		}
		entries = append(entries, e)
	}

	h := hierarchy.NewHierarchy(entries, dict.Release(), stats)
	idx := hierarchy.BuildTokenIndex(h)
	return New(h, idx, nil)
}

func findResult(t *testing.T, results []Result, osmID hierarchy.Id) (Result, bool) {
	t.Helper()
	for _, r := range results {
		if r.OsmID == osmID {
			return r, true
		}
	}
	return Result{}, false
}

// S3: "Москва, Зорге 7к2" must match building "7 к2" at certainty 1.00
// despite the query's house number being written without a space.
func TestProcessQueryS3HouseNumberPartialMatch(t *testing.T) {
	g := buildGeocoderFromLines(t, []string{
		`{"properties":{"locales":{"default":{"name":"Москва","address":{"locality":"Москва"}}}}}`,
		`{"properties":{"locales":{"default":{"name":"Зорге","address":{"locality":"Москва","street":"Зорге"}}}}}`,
		`{"properties":{"locales":{"default":{"name":"7","address":{"locality":"Москва","street":"Зорге","building":"7"}}}}}`,
		`{"properties":{"locales":{"default":{"name":"7 к2","address":{"locality":"Москва","street":"Зорге","building":"7 к2"}}}}}`,
		`{"properties":{"locales":{"default":{"name":"7 к2 с3","address":{"locality":"Москва","street":"Зорге","building":"7 к2 с3"}}}}}`,
	})

	results := g.ProcessQuery("Москва, Зорге 7к2")

	exact, ok := findResult(t, results, 4)
	if !ok {
		t.Fatalf("expected building \"7 к2\" (osm id 4) among results, got %+v", results)
	}
	if !approxEqual(exact.Certainty, 1.0, 1e-9) {
		t.Fatalf("expected exact house number match at certainty 1.0, got %v", exact.Certainty)
	}

	if partial, ok := findResult(t, results, 5); ok && partial.Certainty >= exact.Certainty {
		t.Fatalf("building \"7 к2 с3\" (missing minor part) should score below the exact match: %v >= %v", partial.Certainty, exact.Certainty)
	}
	if plain, ok := findResult(t, results, 3); ok && plain.Certainty >= exact.Certainty {
		t.Fatalf("building \"7\" (extra minor part in query) should score below the exact match: %v >= %v", plain.Certainty, exact.Certainty)
	}
}

// S3 continued: a conflicting minor part ("7к1" vs "7 к2") must not match
// at all, leaving only the building with no minor part.
func TestProcessQueryS3ConflictingMinorPartExcluded(t *testing.T) {
	g := buildGeocoderFromLines(t, []string{
		`{"properties":{"locales":{"default":{"name":"Москва","address":{"locality":"Москва"}}}}}`,
		`{"properties":{"locales":{"default":{"name":"Зорге","address":{"locality":"Москва","street":"Зорге"}}}}}`,
		`{"properties":{"locales":{"default":{"name":"7","address":{"locality":"Москва","street":"Зорге","building":"7"}}}}}`,
		`{"properties":{"locales":{"default":{"name":"7 к2","address":{"locality":"Москва","street":"Зорге","building":"7 к2"}}}}}`,
	})

	results := g.ProcessQuery("Москва, Зорге 7к1")

	if _, ok := findResult(t, results, 4); ok {
		t.Fatalf("building \"7 к2\" must not match query \"7к1\", got %+v", results)
	}
	if _, ok := findResult(t, results, 3); !ok {
		t.Fatalf("expected building \"7\" to still match query \"7к1\", got %+v", results)
	}
}

// S4: a street name shared by two localities must not let a building under
// one locality satisfy a query naming the other.
func TestProcessQueryS4MismatchedLocalityExcluded(t *testing.T) {
	g := buildGeocoderFromLines(t, []string{
		`{"properties":{"locales":{"default":{"name":"Moscow","address":{"locality":"Moscow"}}}}}`,
		`{"properties":{"locales":{"default":{"name":"Krymskaya","address":{"locality":"Moscow","street":"Krymskaya"}}}}}`,
		`{"properties":{"locales":{"default":{"name":"2","address":{"locality":"Moscow","street":"Krymskaya","building":"2"}}}}}`,
		`{"properties":{"locales":{"default":{"name":"Paris","address":{"locality":"Paris"}}}}}`,
		`{"properties":{"locales":{"default":{"name":"Krymskaya","address":{"locality":"Paris","street":"Krymskaya"}}}}}`,
		`{"properties":{"locales":{"default":{"name":"3","address":{"locality":"Paris","street":"Krymskaya","building":"3"}}}}}`,
	})

	results := g.ProcessQuery("Moscow Krymskaya 3")
	if len(results) != 0 {
		t.Fatalf("expected no results (Paris's building 3 must not match under Moscow), got %+v", results)
	}
}

// S5: a bare numeric query must not resolve to a numeric-named suburb with
// no locality context, but the same number qualified by its locality (or
// by its street) must resolve to the intended entry.
func TestProcessQueryS5NumericSuburbVsStreetNumber(t *testing.T) {
	g := buildGeocoderFromLines(t, []string{
		`{"properties":{"locales":{"default":{"name":"Caloocan","address":{"locality":"Caloocan"}}}}}`,
		`{"properties":{"locales":{"default":{"name":"60","address":{"locality":"Caloocan","suburb":"60"}}}}}`,
		`{"properties":{"locales":{"default":{"name":"Белгород","address":{"locality":"Белгород"}}}}}`,
		`{"properties":{"locales":{"default":{"name":"Щорса","address":{"locality":"Белгород","street":"Щорса"}}}}}`,
		`{"properties":{"locales":{"default":{"name":"60","address":{"locality":"Белгород","street":"Щорса","building":"60"}}}}}`,
	})

	if results := g.ProcessQuery("60"); len(results) != 0 {
		t.Fatalf("expected a bare numeric query to resolve to nothing, got %+v", results)
	}

	suburbResults := g.ProcessQuery("Caloocan, 60")
	suburb, ok := findResult(t, suburbResults, 2)
	if !ok || !approxEqual(suburb.Certainty, 1.0, 1e-6) {
		t.Fatalf("expected suburb \"60\" under Caloocan at certainty 1.0, got %+v", suburbResults)
	}

	buildingResults := g.ProcessQuery("Белгород, Щорса, 60")
	building, ok := findResult(t, buildingResults, 5)
	if !ok || !approxEqual(building.Certainty, 1.0, 1e-6) {
		t.Fatalf("expected building \"60\" under Белгород/Щорса at certainty 1.0, got %+v", buildingResults)
	}
}
