package geocoder

import (
	"strings"
	"unicode"
)

// looksLikeHouseNumber reports whether a short token sequence matches a
// local house-number convention: "12", "12a", "7 к2 с3", "12/34b". The rule
// is permissive: at least one part, and the first part must start with a
// digit.
func looksLikeHouseNumber(s string) bool {
	parts := houseNumberParts(s)
	if len(parts) == 0 {
		return false
	}
	r := []rune(parts[0])
	return unicode.IsDigit(r[0])
}

// houseNumberParts splits a house number into its minor-part tokens,
// treating "/" the same as a space so "12/34b" and "12 34b" parse alike.
// Each whitespace-delimited field is further split on digit/letter-run
// boundaries so a concatenated minor part ("7к2") parses the same as its
// space-separated form ("7 к2"): a trailing letter run with no digits
// after it stays attached to its digit run ("12a" stays one part), but a
// letter run followed by more digits starts a new part ("к2" in "7к2").
func houseNumberParts(s string) []string {
	s = strings.ReplaceAll(s, "/", " ")

	var parts []string
	for _, field := range strings.Fields(s) {
		parts = append(parts, splitMinorParts(field)...)
	}
	return parts
}

func splitMinorParts(field string) []string {
	runs := digitLetterRuns(field)

	var parts []string
	for i := 0; i < len(runs); {
		if i+1 < len(runs) && isDigitRun(runs[i]) != isDigitRun(runs[i+1]) {
			// runs[i] and runs[i+1] differ in kind (digit vs letter); if a
			// third run of the opposite kind to runs[i+1] follows, runs[i+1]
			// belongs with that one instead ("7к2" -> "7", "к2"), otherwise
			// it's a trailing suffix that glues onto runs[i] ("12a" -> "12a").
			if isDigitRun(runs[i]) && i+2 < len(runs) && isDigitRun(runs[i+2]) != isDigitRun(runs[i+1]) {
				parts = append(parts, runs[i])
				i++
				continue
			}
			parts = append(parts, runs[i]+runs[i+1])
			i += 2
			continue
		}
		parts = append(parts, runs[i])
		i++
	}
	return parts
}

// digitLetterRuns splits s into maximal runs of consecutive digits or
// consecutive non-digits.
func digitLetterRuns(s string) []string {
	var runs []string
	var b strings.Builder
	var curDigit bool
	for i, r := range s {
		d := unicode.IsDigit(r)
		if i > 0 && d != curDigit {
			runs = append(runs, b.String())
			b.Reset()
		}
		b.WriteRune(r)
		curDigit = d
	}
	if b.Len() > 0 {
		runs = append(runs, b.String())
	}
	return runs
}

func isDigitRun(run string) bool {
	r := []rune(run)
	return len(r) > 0 && unicode.IsDigit(r[0])
}

// houseNumberMatchResult reports how well a query house number matches a
// building's actual one.
type houseNumberMatchResult struct {
	Matched int
	Missing int
	Extra   int
	OK      bool
}

// matchHouseNumbers compares the building's real house number against the
// subquery's, part by part in order. The primary (first) part must match
// for OK. A minor part present at the same position on both sides must
// also match, or the whole comparison fails ("7 к1" must not match
// "7 к2"); a minor part present on only one side is counted as missing
// (present in the real number, absent from the query) or extra (present
// in the query, absent from the real number).
func matchHouseNumbers(real, query string) houseNumberMatchResult {
	realParts := houseNumberParts(real)
	queryParts := houseNumberParts(query)
	if len(realParts) == 0 || len(queryParts) == 0 {
		return houseNumberMatchResult{}
	}

	if !strings.EqualFold(realParts[0], queryParts[0]) {
		return houseNumberMatchResult{}
	}

	res := houseNumberMatchResult{OK: true, Matched: 1}
	n := len(realParts)
	if len(queryParts) > n {
		n = len(queryParts)
	}
	for i := 1; i < n; i++ {
		switch {
		case i < len(realParts) && i < len(queryParts):
			if !strings.EqualFold(realParts[i], queryParts[i]) {
				return houseNumberMatchResult{}
			}
			res.Matched++
		case i < len(realParts):
			res.Missing++
		default:
			res.Extra++
		}
	}
	return res
}

// houseNumberPenalty is the §4.8.1/§4.8.2 partial-match penalty: both
// missing minor parts (present on the building, absent from the query)
// and extra ones (present in the query, absent from the building) reduce
// certainty, scaled by the building's base weight.
func houseNumberPenalty(res houseNumberMatchResult, buildingWeight float64) float64 {
	off := res.Missing + res.Extra
	if off == 0 {
		return 0
	}
	return (float64(off) * 4.0 / (float64(off)*4.0 + float64(res.Matched))) * buildingWeight
}
