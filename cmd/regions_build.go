package main

import (
	"sync"

	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/feature"
	"github.com/royalcat/geocore/geoid"
	"github.com/royalcat/geocore/hierarchy"
	"github.com/royalcat/geocore/regions"
	"github.com/royalcat/geocore/translator"
)

// regionCollector turns admin-boundary and place elements into regions.Region
// values directly, bypassing the generic translator.Pipeline: Region carries
// admin_level/place_type/iso_code fields a plain feature.Feature does not
// retain, so regions needs the raw tags a Feature already discarded by the
// time a pipeline hands one back. consider is safe to call concurrently,
// e.g. from a pool of goroutines scanning independent input files.
type regionCollector struct {
	mu     sync.Mutex
	areas  []*regions.Region // boundary=administrative, carries a polygon
	labels []*regions.Region // place=*, point-only; attached to an area later
}

func newRegionCollector() *regionCollector {
	return &regionCollector{}
}

func (c *regionCollector) consider(el translator.Element) {
	classes, _, _ := feature.Classify(el.Tags)
	switch {
	case classes.Has(feature.ClassAdminBoundary):
		c.considerArea(el)
	case classes.Has(feature.ClassPlaceNode):
		c.considerLabel(el)
	}
}

func (c *regionCollector) considerArea(el translator.Element) {
	if len(el.Members) == 0 {
		return
	}
	mp, err := feature.BuildMultiPolygon(el.Members)
	if err != nil {
		return
	}

	r := regions.NewRegion(geoid.New(geoid.Relation, el.ID), tagName(el.Tags), mp)
	r.Names = namesFromTags(el.Tags)
	r.AdminLevel = feature.AdminLevel(el.Tags)
	r.PlaceType = feature.PlaceType(el.Tags)
	r.IsoCode = isoCode(el.Tags)

	c.mu.Lock()
	c.areas = append(c.areas, r)
	c.mu.Unlock()
}

func (c *regionCollector) considerLabel(el translator.Element) {
	name := tagName(el.Tags)
	if name == "" {
		return
	}
	pt := orb.Point(el.Point)

	r := regions.NewRegion(geoid.New(geoid.Node, el.ID), name, nil)
	r.Names = namesFromTags(el.Tags)
	r.PlaceType = feature.PlaceType(el.Tags)
	r.Bound = orb.Bound{Min: pt, Max: pt}

	c.mu.Lock()
	c.labels = append(c.labels, r)
	c.mu.Unlock()
}

// Build finalizes the collected areas into one tree per country, returning
// both the point-lookup wrapper and the tree's roots for callers that need
// to walk every region (e.g. to write one hierarchy document per region).
func (c *regionCollector) Build() (*regions.Tree, []*regions.Region) {
	roots := regions.MakeCountryNodesInAreaOrder(c.areas, c.labels)
	return regions.NewTree(roots), roots
}

// collectRegions flattens a forest of region trees into a single slice,
// depth first.
func collectRegions(roots []*regions.Region) []*regions.Region {
	var out []*regions.Region
	var walk func(r *regions.Region)
	walk = func(r *regions.Region) {
		out = append(out, r)
		for _, c := range r.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return out
}

// regionAddressChain builds the "country"/"region"/.../street-level map a
// hierarchy.Document carries, walking a region's Parent chain and keeping
// the first (deepest) name seen at each level.
func regionAddressChain(r *regions.Region) map[string]string {
	address := map[string]string{}
	for cur := r; cur != nil; cur = cur.Parent {
		if cur.Level >= hierarchy.TypeCount {
			continue
		}
		key := cur.Level.String()
		if _, ok := address[key]; !ok {
			address[key] = cur.Name
		}
	}
	return address
}

// regionKind maps a Region's place_type/admin_level onto the finer Kind
// enum the geocoder weighs queries by.
func regionKind(r *regions.Region) hierarchy.Kind {
	switch r.PlaceType {
	case "country":
		return hierarchy.KindCountry
	case "state":
		return hierarchy.KindState
	case "province":
		return hierarchy.KindProvince
	case "district":
		return hierarchy.KindDistrict
	case "county":
		return hierarchy.KindCounty
	case "city":
		return hierarchy.KindCity
	case "town":
		return hierarchy.KindTown
	case "village":
		return hierarchy.KindVillage
	case "hamlet":
		return hierarchy.KindHamlet
	case "suburb":
		return hierarchy.KindSuburb
	case "neighbourhood":
		return hierarchy.KindNeighbourhood
	}

	switch r.Level {
	case hierarchy.Country:
		return hierarchy.KindCountry
	case hierarchy.Region:
		return hierarchy.KindState
	case hierarchy.Subregion:
		return hierarchy.KindDistrict
	case hierarchy.Locality:
		return hierarchy.KindMunicipality
	case hierarchy.Suburb:
		return hierarchy.KindSuburb
	case hierarchy.Sublocality:
		return hierarchy.KindNeighbourhood
	default:
		return hierarchy.KindUnknown
	}
}

func tagName(tags map[string]string) string {
	return tags["name"]
}

func isoCode(tags map[string]string) string {
	if v := tags["ISO3166-1:alpha2"]; v != "" {
		return v
	}
	if v := tags["ISO3166-1"]; v != "" {
		return v
	}
	return tags["ISO3166-2"]
}

// namesFromTags collects name and name:<locale> tags into a locale map,
// mirroring translator's own (unexported) helper of the same shape.
func namesFromTags(tags map[string]string) map[string]string {
	names := map[string]string{}
	if n := tags["name"]; n != "" {
		names["default"] = n
	}
	const prefix = "name:"
	for k, v := range tags {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			names[k[len(prefix):]] = v
		}
	}
	return names
}
