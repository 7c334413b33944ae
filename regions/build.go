package regions

import (
	"sort"

	"github.com/google/btree"
	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/hierarchy"
)

// FormRegionsInAreaOrder sorts all regions by polygon area, largest first
// (spec.md §4.5's "Ordering" step).
func FormRegionsInAreaOrder(all []*Region) []*Region {
	ordered := make([]*Region, len(all))
	copy(ordered, all)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Area > ordered[j].Area })
	return ordered
}

// ExtractCountriesOuters returns the regions that qualify as country
// outers (spec.md §4.5), preserving the area-descending order they arrive
// in.
func ExtractCountriesOuters(orderedByAreaDesc []*Region) []*Region {
	var outers []*Region
	for _, r := range orderedByAreaDesc {
		if r.IsCountryOuter() {
			outers = append(outers, r)
		}
	}
	return outers
}

// candidatesFor returns the regions whose bounding rectangle is contained
// in country's bounding rectangle, applying the iso-code dependency filter:
// a region whose iso_code names a different sovereign is excluded.
func candidatesFor(country *Region, ordered []*Region) []*Region {
	var out []*Region
	for _, r := range ordered {
		if r == country {
			continue
		}
		if !country.Bound.Contains(r.Bound.Min) || !country.Bound.Contains(r.Bound.Max) {
			continue
		}
		if r.IsoCode != "" && country.IsoCode != "" && sovereignOf(r.IsoCode) != sovereignOf(country.IsoCode) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// dependencyToSovereign maps a handful of well-known dependency iso codes to
// their sovereign's iso code; entries absent here are assumed sovereign.
var dependencyToSovereign = map[string]string{}

func sovereignOf(iso string) string {
	if s, ok := dependencyToSovereign[iso]; ok {
		return s
	}
	return iso
}

// MakeCountryNodesInAreaOrder builds one tree per country outer, returning
// the roots. labelPoints are separate place-point regions (Area == 0,
// HasLabel == true) that get attached into the smallest containing region.
func MakeCountryNodesInAreaOrder(all []*Region, labelPoints []*Region) []*Region {
	ordered := FormRegionsInAreaOrder(all)
	countries := ExtractCountriesOuters(ordered)

	var roots []*Region
	for _, country := range countries {
		specifier := SpecifierFor(country.IsoCode)
		candidates := specifier.RectifyBoundary(country, candidatesFor(country, ordered))
		buildCountryTree(country, candidates, specifier)
		attachLabels(country, labelPoints)
		specifier.AdjustRegionsLevel(country)
		roots = append(roots, country)
	}
	return roots
}

func less(a, b *Region) bool {
	if a.Area != b.Area {
		return a.Area < b.Area
	}
	return a.ID < b.ID
}

// buildCountryTree implements spec.md §4.5 step 2: candidates are walked
// smallest-first; each finds its parent by searching forward (ascending
// area) among larger candidates for the first one that contains it.
func buildCountryTree(country *Region, candidates []*Region, specifier CountrySpecifier) {
	tree := btree.NewG(32, less)
	tree.ReplaceOrInsert(country)
	for _, c := range candidates {
		tree.ReplaceOrInsert(c)
	}

	byAreaAsc := make([]*Region, len(candidates))
	copy(byAreaAsc, candidates)
	sort.Slice(byAreaAsc, func(i, j int) bool { return byAreaAsc[i].Area < byAreaAsc[j].Area })

	for _, item := range byAreaAsc {
		parent := ChooseParent(tree, item, specifier)
		if parent == nil {
			parent = country
		}
		InsertIntoSubtree(parent, item)
	}
}

// ChooseParent is FindAreaLowerBoundRely: it ascends the area-ordered tree
// from item's own area, skipping item itself, and returns the first larger
// candidate that contains item (or wins the weight tiebreak).
func ChooseParent(tree *btree.BTreeG[*Region], item *Region, specifier CountrySpecifier) *Region {
	var found *Region
	tree.AscendGreaterOrEqual(item, func(cand *Region) bool {
		if cand == item {
			return true
		}

		switch CompareAffiliation(item, cand) {
		case Under:
			found = cand
			return false
		case Ambiguous:
			if specifier.RelateByWeight(item, cand) < 0 {
				found = cand
				return false
			}
		case Disjoint:
			// not related at all; keep ascending past cand rather than
			// letting the weight tiebreak claim it.
		}
		return true
	})
	return found
}

// InsertIntoSubtree attaches child under parent, wiring both the child's
// back-pointer and the parent's child list.
func InsertIntoSubtree(parent, child *Region) {
	child.Parent = parent
	parent.Children = append(parent.Children, child)
	if child.Level == hierarchy.TypeCount {
		child.Level = SpecifierFor(child.IsoCode).GetSpecificCountryLevel(child)
	}
}

func attachLabels(root *Region, labelPoints []*Region) {
	for _, label := range labelPoints {
		target := deepestContaining(root, label.RepresentativePoint())
		if target == nil {
			continue
		}
		if target.AdminLevel >= 0 && !consistentLabel(target, label) {
			continue // spec.md §4.5 "Label binding": admin level mismatch, drop the binding.
		}
		target.LabelPoint = label.RepresentativePoint()
		target.HasLabel = true
		if target.Name == "" {
			target.Name = label.Name
		}
	}
}

func consistentLabel(region, label *Region) bool {
	if label.PlaceType == "" || region.PlaceType == "" {
		return true
	}
	return label.PlaceType == region.PlaceType
}

func deepestContaining(root *Region, p orb.Point) *Region {
	if !root.Contains(p) {
		return nil
	}
	best := root
	for _, child := range root.Children {
		if found := deepestContaining(child, p); found != nil {
			best = found
			break
		}
	}
	return best
}
