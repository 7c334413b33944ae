package main

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/coverindex"
	"github.com/royalcat/geocore/hierarchy"
	"github.com/royalcat/geocore/regions"
)

// regionCoverItems collects the leaf regions (no children, real polygon) of
// a forest: these are the regions coverindex.Build needs, since an
// ancestor's polygon is redundant once its children are indexed.
func regionCoverItems(roots []*regions.Region) []coverindex.Item {
	var items []coverindex.Item
	var walk func(r *regions.Region)
	walk = func(r *regions.Region) {
		if len(r.Children) == 0 && len(r.Polygon) > 0 {
			items = append(items, coverindex.Item{ID: r.ID, Polygon: r.Polygon})
		}
		for _, c := range r.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return items
}

// buildRegionCoverIndex builds and round-trips a region cover index through
// path, exercising the on-disk format (header, level offsets, delta-encoded
// leaf stream) the same way it would be used across process restarts: a
// fresh Index is always the one the pipeline goes on to query, not the one
// Build returned in memory.
func buildRegionCoverIndex(path string, items []coverindex.Item) (*coverindex.Index, error) {
	built := coverindex.Build(items, coverindex.MaxDepthRegions)

	f, err := createTruncated(path)
	if err != nil {
		return nil, fmt.Errorf("creating cover index %s: %w", path, err)
	}
	if err := built.Save(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("saving cover index: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	reopened, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reopening cover index %s: %w", path, err)
	}
	defer reopened.Close()

	loaded, err := coverindex.Load(reopened)
	if err != nil {
		return nil, fmt.Errorf("loading cover index: %w", err)
	}
	loaded.AttachExact(items)

	return loaded, nil
}

// indexedRegionLookup satisfies streets.RegionLookup by resolving the
// containing leaf region through a coverindex.Index (O(1) cell lookup plus
// exact polygon verification) instead of regions.Tree's recursive
// descent, falling back to the tree walk when the index has no exact
// match for the point (e.g. the point is outside every indexed region).
type indexedRegionLookup struct {
	tree *regions.Tree
	idx  *coverindex.Index
}

func (l *indexedRegionLookup) StreetAdministeringRegion(p orb.Point) *regions.Region {
	if l.idx != nil {
		if _, exact, ok := l.idx.QueryPoint(p); ok {
			if leaf := l.tree.RegionByID(uint64(exact)); leaf != nil {
				for r := leaf; r != nil; r = r.Parent {
					if r.Level == hierarchy.Locality {
						return r
					}
				}
			}
		}
	}
	return l.tree.StreetAdministeringRegion(p)
}
