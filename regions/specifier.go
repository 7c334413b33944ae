package regions

import "github.com/royalcat/geocore/hierarchy"

// CountrySpecifier is the per-country extension point spec.md §4.5.2
// describes: a small registry maps country iso code to one of these so
// country-specific rules plug in without changing the resolver's code.
type CountrySpecifier interface {
	// RectifyBoundary rewrites a country's candidate list (e.g. to excise
	// disputed enclaves per policy) before tree construction.
	RectifyBoundary(outer *Region, candidates []*Region) []*Region
	// AdjustRegionsLevel runs after the tree is built and may reassign
	// place levels (e.g. Ukraine oblast -> Region, raion -> Subregion).
	AdjustRegionsLevel(root *Region)
	// RelateByWeight breaks ties when CompareAffiliation returns Ambiguous.
	// A negative result means l should be treated as under r.
	RelateByWeight(l, r *Region) int
	// GetSpecificCountryLevel canonicalizes admin_level+place_type into a
	// generic hierarchy.Type.
	GetSpecificCountryLevel(r *Region) hierarchy.Type
}

// DefaultSpecifier implements the generic admin_level/place_type mapping
// used when no country-specific override is registered.
type DefaultSpecifier struct{}

func (DefaultSpecifier) RectifyBoundary(_ *Region, candidates []*Region) []*Region { return candidates }

func (DefaultSpecifier) AdjustRegionsLevel(*Region) {}

func (DefaultSpecifier) RelateByWeight(l, r *Region) int {
	if l.Area < r.Area {
		return -1
	}
	if l.Area > r.Area {
		return 1
	}
	return 0
}

func (DefaultSpecifier) GetSpecificCountryLevel(r *Region) hierarchy.Type {
	switch r.PlaceType {
	case "country":
		return hierarchy.Country
	case "city", "town":
		return hierarchy.Locality
	case "village", "hamlet":
		return hierarchy.Locality
	case "suburb", "neighbourhood":
		return hierarchy.Suburb
	case "district", "county":
		return hierarchy.Subregion
	case "state", "province":
		return hierarchy.Region
	}

	switch {
	case r.AdminLevel <= 2:
		return hierarchy.Country
	case r.AdminLevel <= 4:
		return hierarchy.Region
	case r.AdminLevel <= 6:
		return hierarchy.Subregion
	case r.AdminLevel <= 8:
		return hierarchy.Locality
	case r.AdminLevel <= 10:
		return hierarchy.Suburb
	case r.AdminLevel > 0:
		return hierarchy.Sublocality
	default:
		return hierarchy.TypeCount
	}
}

// ukraineSpecifier implements the oblast/raion remap spec.md §4.5 names as
// an example per-country adjustment: oblasts (direct children of the
// country) map to Region, raions (their children) to Subregion.
type ukraineSpecifier struct {
	DefaultSpecifier
}

func (s ukraineSpecifier) AdjustRegionsLevel(root *Region) {
	for _, oblast := range root.Children {
		oblast.Level = hierarchy.Region
		for _, raion := range oblast.Children {
			raion.Level = hierarchy.Subregion
		}
	}
}

// Specifiers is the iso-code-keyed registry. Adding a country means adding
// an entry here (a CountrySpecifier implementation in Go); the resolver
// itself is unchanged.
var Specifiers = map[string]CountrySpecifier{
	"UA": ukraineSpecifier{},
}

// SpecifierFor returns the registered specifier for isoCode, or
// DefaultSpecifier{} when none is registered.
func SpecifierFor(isoCode string) CountrySpecifier {
	if s, ok := Specifiers[isoCode]; ok {
		return s
	}
	return DefaultSpecifier{}
}
