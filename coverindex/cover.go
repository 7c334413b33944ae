package coverindex

import "github.com/paulmach/orb"

type overlap int

const (
	disjoint overlap = iota
	cellInsideGeom
	geomInsideCell
	partial
)

func classify(cell, geom orb.Bound) overlap {
	if !boundsIntersect(cell, geom) {
		return disjoint
	}
	if boundContains(geom, cell) {
		return cellInsideGeom
	}
	if boundContains(cell, geom) {
		return geomInsideCell
	}
	return partial
}

func boundsIntersect(a, b orb.Bound) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1]
}

func boundContains(outer, inner orb.Bound) bool {
	return outer.Min[0] <= inner.Min[0] && outer.Max[0] >= inner.Max[0] &&
		outer.Min[1] <= inner.Min[1] && outer.Max[1] >= inner.Max[1]
}

func boundArea(b orb.Bound) float64 {
	return (b.Max[0] - b.Min[0]) * (b.Max[1] - b.Min[1])
}

// Cover returns the small set of cells that collectively cover geom's
// bounding box, recursing down to maxDepth (spec.md §4.4's covering
// algorithm — §4.4 uses a single cell penalty heuristic: a cell is not
// split into its four children when doing so would reclaim less than one
// cell's worth of area).
func Cover(geom orb.Bound, maxDepth int) []CellID {
	if maxDepth > maxDepthSupported {
		maxDepth = maxDepthSupported
	}
	var out []CellID
	coverCell(rootCell(), geom, maxDepth, &out)
	return out
}

func coverCell(cell CellID, geom orb.Bound, maxDepth int, out *[]CellID) {
	cellBound := cell.Bound()

	switch classify(cellBound, geom) {
	case disjoint:
		return
	case cellInsideGeom, geomInsideCell:
		*out = append(*out, cell)
		return
	}

	if cell.Depth() >= maxDepth {
		*out = append(*out, cell)
		return
	}

	children := cell.children()
	onecellPenalty := boundArea(cellBound) / 4

	wasted := 0.0
	for _, child := range children {
		cb := child.Bound()
		if classify(cb, geom) == disjoint {
			wasted += boundArea(cb)
		}
	}
	if wasted < onecellPenalty {
		*out = append(*out, cell)
		return
	}

	for _, child := range children {
		coverCell(child, geom, maxDepth, out)
	}
}
