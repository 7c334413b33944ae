package main

import (
	"io"

	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/feature"
	"github.com/royalcat/geocore/hierarchy"
	"github.com/royalcat/geocore/regions"
	"github.com/royalcat/geocore/streets"
)

// writeRegionDocuments writes one hierarchy document per region in the
// forest, keyed by its own osm id and addressed with its full ancestor
// chain.
func writeRegionDocuments(w io.Writer, roots []*regions.Region) error {
	for _, r := range collectRegions(roots) {
		if r.Level >= hierarchy.TypeCount {
			continue
		}
		address := regionAddressChain(r)

		locales := make(map[string]hierarchy.LocaleDoc, len(r.Names))
		for locale, name := range r.Names {
			locales[locale] = hierarchy.LocaleDoc{Name: name, Address: address}
		}
		if len(locales) == 0 {
			if r.Name == "" {
				continue
			}
			locales["default"] = hierarchy.LocaleDoc{Name: r.Name, Address: address}
		}

		doc := hierarchy.Document{
			OsmID:   r.ID,
			Rank:    int(r.Level) + 1,
			Kind:    regionKind(r).String(),
			Locales: locales,
		}
		if err := hierarchy.WriteLine(w, doc); err != nil {
			return err
		}
	}
	return nil
}

// regionAddressByID looks up a region among roots' descendants by its osm
// id and returns its address chain, or nil if not found.
func regionAddressByID(tree *regions.Tree, regionID uint64) map[string]string {
	r := tree.RegionByID(regionID)
	if r == nil {
		return nil
	}
	return regionAddressChain(r)
}

// writeGeoObjectDocuments writes one hierarchy document per addressed
// building/POI feature, attaching it to the deepest containing locality
// lookup resolves.
func writeGeoObjectDocuments(w io.Writer, lookup streets.RegionLookup, objects []feature.Feature) error {
	for _, f := range objects {
		if f.House == "" {
			continue
		}

		var pt [2]float64
		switch f.Geom.Type {
		case feature.Point:
			pt = [2]float64(f.Geom.Point)
		default:
			center := f.Bound().Center()
			pt = [2]float64(center)
		}

		region := lookup.StreetAdministeringRegion(orb.Point(pt))
		address := map[string]string{}
		if region != nil {
			address = regionAddressChain(region)
		}
		if f.Street != "" {
			address["street"] = f.Street
		}

		doc := hierarchy.Document{
			OsmID: f.OsmID,
			Rank:  int(hierarchy.Building) + 1,
			Kind:  hierarchy.KindBuilding.String(),
			Locales: map[string]hierarchy.LocaleDoc{
				"default": {Name: f.House, Address: address},
			},
		}
		if err := hierarchy.WriteLine(w, doc); err != nil {
			return err
		}
	}
	return nil
}
