package regions

import (
	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/hierarchy"
)

// Tree is a built set of country-rooted region trees, queryable by point.
type Tree struct {
	roots []*Region
}

func NewTree(roots []*Region) *Tree {
	return &Tree{roots: roots}
}

// RegionByID walks every tree in the forest looking for a region with the
// given id, returning nil if none matches.
func (t *Tree) RegionByID(id uint64) *Region {
	var found *Region
	var walk func(r *Region) bool
	walk = func(r *Region) bool {
		if uint64(r.ID) == id {
			found = r
			return true
		}
		for _, c := range r.Children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	for _, root := range t.roots {
		if walk(root) {
			break
		}
	}
	return found
}

// StreetAdministeringRegion returns the deepest region containing p whose
// level is Locality (spec.md §4.6 step 1: "the deepest region whose address
// has a locality field and no suburb/sublocality" — a point under a suburb
// or sublocality is attributed to that suburb's own Locality ancestor).
func (t *Tree) StreetAdministeringRegion(p orb.Point) *Region {
	for _, root := range t.roots {
		if !root.Contains(p) {
			continue
		}
		leaf := deepestContaining(root, p)
		for r := leaf; r != nil; r = r.Parent {
			if r.Level == hierarchy.Locality {
				return r
			}
		}
	}
	return nil
}
