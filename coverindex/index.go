package coverindex

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/bordertree"
	"github.com/royalcat/geocore/boundstree"
	"github.com/royalcat/geocore/geoid"
)

// Item is one geometry fed into Build: exact polygon data for point-in-
// polygon verification, plus the derived bound the covering algorithm
// actually indexes on.
type Item struct {
	ID      geoid.Id
	Polygon orb.MultiPolygon
}

// MaxDepth selects the covering depth for a dataset kind, per spec.md §4.4
// ("regions: 6; geo-objects: 8").
const (
	MaxDepthRegions    = 6
	MaxDepthGeoObjects = 8
)

// Index answers "what contains this point" queries. Its cell->feature
// mapping (cells) is held in memory as a single Go map; Save and Load
// (serialize.go) write it to and read it back from the on-disk format, and
// the generator commands query the reloaded copy. Exact-match filtering at
// query time is delegated to a bordertree.BorderTree, so a candidate cell
// hit still gets verified against the real polygon rather than just its
// covering cell.
type Index struct {
	maxDepth int
	cells    map[CellID][]geoid.Id
	exact    *bordertree.BorderTree[geoid.Id]
}

// Build covers every item's bound into cells at maxDepth and inserts its
// polygon into the exact-match tree used to disambiguate ties at query
// time. Input pairs are conceptually sorted ascending by cell id before
// grouping, matching the "parallel block sort" step of spec.md §4.4's Build.
func Build(items []Item, maxDepth int) *Index {
	idx := &Index{
		maxDepth: maxDepth,
		cells:    map[CellID][]geoid.Id{},
		exact:    bordertree.NewBorderTree[geoid.Id](),
	}

	type pair struct {
		cell CellID
		id   geoid.Id
	}
	var pairs []pair

	for _, item := range items {
		bound := item.Polygon.Bound()
		for _, cell := range Cover(bound, maxDepth) {
			pairs = append(pairs, pair{cell: cell, id: item.ID})
		}
		idx.exact.InsertBorder(item.ID, item.Polygon)
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].cell < pairs[j].cell })
	for _, p := range pairs {
		idx.cells[p.cell] = append(idx.cells[p.cell], p.id)
	}

	return idx
}

// QueryPoint returns the candidate ids whose covering cell contains p, the
// id the exact-match tree resolves to (if any), and whether the exact match
// succeeded.
func (idx *Index) QueryPoint(p orb.Point) (candidates []geoid.Id, exact geoid.Id, ok bool) {
	// Cover may stop above maxDepth, so check p's cell at every depth.
	for depth := idx.maxDepth; depth >= 0; depth-- {
		candidates = append(candidates, idx.cells[leafCellAt(p, depth)]...)
	}
	if idx.exact == nil {
		return candidates, geoid.Invalid, false
	}
	exact, ok = idx.exact.QueryPoint(p)
	return candidates, exact, ok
}

// ApproximateIndex is the bound-only alternative Build's exact tree is
// paired against: a boundstree.BoundTree keyed by a caller-chosen label
// (e.g. a region's normalized name) rather than an exact id, useful when a
// quick nearest-bound answer is all a caller needs and the polygon data
// isn't worth carrying around.
type ApproximateIndex struct {
	tree *boundstree.BoundTree
}

func NewApproximateIndex() *ApproximateIndex {
	return &ApproximateIndex{tree: boundstree.NewBoundTree()}
}

func (a *ApproximateIndex) Insert(label string, bound orb.Bound) {
	a.tree.InsertBorder(label, bound)
}

func (a *ApproximateIndex) QueryPoint(p orb.Point) string {
	return a.tree.QueryPoint(p)
}
