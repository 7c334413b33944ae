package geocoder

import (
	"reflect"
	"testing"
)

func TestHouseNumberPartsSplitsConcatenatedMinorParts(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"12", []string{"12"}},
		{"12a", []string{"12a"}},
		{"7 к2 с3", []string{"7", "к2", "с3"}},
		{"7к2", []string{"7", "к2"}},
		{"7к2с3", []string{"7", "к2", "с3"}},
		{"12/34b", []string{"12", "34b"}},
	}
	for _, c := range cases {
		got := houseNumberParts(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("houseNumberParts(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestMatchHouseNumbersConcatenatedEqualsSpacedForm(t *testing.T) {
	res := matchHouseNumbers("7 к2", "7к2")
	if !res.OK || res.Missing != 0 || res.Extra != 0 {
		t.Fatalf("matchHouseNumbers(%q, %q) = %+v, want an exact match", "7 к2", "7к2", res)
	}
}

func TestMatchHouseNumbersConflictingMinorPartRejected(t *testing.T) {
	res := matchHouseNumbers("7 к2", "7к1")
	if res.OK {
		t.Fatalf("matchHouseNumbers(%q, %q) = %+v, want OK=false (к1 != к2)", "7 к2", "7к1", res)
	}
}

func TestMatchHouseNumbersMissingMinorPart(t *testing.T) {
	res := matchHouseNumbers("7 к2 с3", "7к2")
	if !res.OK || res.Missing != 1 || res.Extra != 0 {
		t.Fatalf("matchHouseNumbers(%q, %q) = %+v, want 1 missing part", "7 к2 с3", "7к2", res)
	}
}

func TestMatchHouseNumbersExtraMinorPart(t *testing.T) {
	res := matchHouseNumbers("7", "7к2")
	if !res.OK || res.Extra != 1 || res.Missing != 0 {
		t.Fatalf("matchHouseNumbers(%q, %q) = %+v, want 1 extra part", "7", "7к2", res)
	}
}

func TestHouseNumberPenaltyOrdersPartialMatchesBelowExact(t *testing.T) {
	exact := matchHouseNumbers("7 к2", "7к2")
	missing := matchHouseNumbers("7 к2 с3", "7к2")
	extra := matchHouseNumbers("7", "7к2")

	exactPenalty := houseNumberPenalty(exact, 1.0)
	missingPenalty := houseNumberPenalty(missing, 1.0)
	extraPenalty := houseNumberPenalty(extra, 1.0)

	if exactPenalty != 0 {
		t.Fatalf("exact match penalty = %v, want 0", exactPenalty)
	}
	if missingPenalty <= 0 || extraPenalty <= 0 {
		t.Fatalf("partial match penalties should be positive: missing=%v extra=%v", missingPenalty, extraPenalty)
	}
}
