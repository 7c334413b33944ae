package streets

import (
	"io"

	"github.com/royalcat/geocore/hierarchy"
)

// Emit writes one hierarchy document per street (spec.md §4.6 step 4,
// "keyed by the pin's osm id"). The caller supplies a regionAddress lookup
// so each street's document carries its full country/region/.../locality
// chain, not just its own name.
func Emit(w io.Writer, items []*Street, regionAddress func(regionID uint64) map[string]string) error {
	for _, s := range items {
		address := map[string]string{}
		if regionAddress != nil {
			for k, v := range regionAddress(uint64(s.RegionID)) {
				address[k] = v
			}
		}

		locales := make(map[string]hierarchy.LocaleDoc, len(s.Names))
		for locale, name := range s.Names {
			localeAddress := make(map[string]string, len(address)+1)
			for k, v := range address {
				localeAddress[k] = v
			}
			localeAddress["street"] = name
			locales[locale] = hierarchy.LocaleDoc{Name: name, Address: localeAddress}
		}
		if len(locales) == 0 {
			continue
		}

		doc := hierarchy.Document{
			OsmID:   s.PinID,
			Rank:    int(hierarchy.Street),
			Kind:    hierarchy.KindStreet.String(),
			Locales: locales,
		}
		if err := hierarchy.WriteLine(w, doc); err != nil {
			return err
		}
	}
	return nil
}
