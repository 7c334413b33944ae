package hierarchy

import "fmt"

// ParsingStats accumulates non-fatal load-time anomalies, field-for-field
// grounded on the original hierarchy loader's stat counters, so that the
// "logged and counted but not fatal" policy in spec.md §7 has a concrete
// home instead of being dropped at the log call site.
type ParsingStats struct {
	NumLoaded           uint64
	BadJSONs            uint64
	BadOsmIDs           uint64
	DuplicateOsmIDs      uint64
	DuplicateAddresses   uint64
	EmptyAddresses       uint64
	EmptyNames           uint64
	NoLocalityStreets    uint64
	NoLocalityBuildings  uint64
	MismatchedNames      uint64
}

func (s ParsingStats) String() string {
	return fmt.Sprintf(
		"loaded=%d bad_json=%d bad_osm_id=%d dup_osm_id=%d dup_address=%d "+
			"empty_address=%d empty_name=%d no_locality_street=%d no_locality_building=%d mismatched_name=%d",
		s.NumLoaded, s.BadJSONs, s.BadOsmIDs, s.DuplicateOsmIDs, s.DuplicateAddresses,
		s.EmptyAddresses, s.EmptyNames, s.NoLocalityStreets, s.NoLocalityBuildings, s.MismatchedNames,
	)
}
