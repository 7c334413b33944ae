package feature

// Class is one tag-derived type a Feature can carry; a feature may belong
// to more than one (e.g. a building that is also addressed).
type Class int

const (
	ClassAdminBoundary Class = iota
	ClassPlaceNode
	ClassHighway
	ClassSquare
	ClassBuilding
	ClassAddressed
	ClassPOI
)

// Classification is the set of Classes a feature's tags matched.
type Classification map[Class]struct{}

func (c Classification) has(class Class) bool {
	_, ok := c[class]
	return ok
}

func (c Classification) add(class Class) {
	c[class] = struct{}{}
}

// Has reports whether the classification includes class.
func (c Classification) Has(class Class) bool { return c.has(class) }

// relationWhitelist is the set of relation types translators accept; every
// other relation type is dropped before it ever reaches a translator.
var relationWhitelist = map[string]struct{}{
	"multipolygon":     {},
	"route":            {},
	"boundary":         {},
	"associatedStreet": {},
	"building":         {},
	"restriction":      {},
}

// RelationAccepted reports whether a relation's type tag is in the
// whitelist the intermediate cache retains.
func RelationAccepted(relationType string) bool {
	_, ok := relationWhitelist[relationType]
	return ok
}

// Classify inspects raw OSM tags and returns the set of Classes that apply,
// plus any address fragments the caller should attach to the Feature.
func Classify(tags map[string]string) (cls Classification, street, house string) {
	c := Classification{}

	if boundary := tags["boundary"]; boundary == "administrative" {
		c.add(ClassAdminBoundary)
	}
	if place := tags["place"]; place != "" {
		c.add(ClassPlaceNode)
	}
	if highway := tags["highway"]; highway != "" && tags["name"] != "" {
		c.add(ClassHighway)
	}
	if tags["place"] == "square" || tags["area"] == "yes" && tags["highway"] != "" {
		c.add(ClassSquare)
	}
	if building := tags["building"]; building != "" {
		c.add(ClassBuilding)
	}
	if hn := tags["addr:housenumber"]; hn != "" {
		c.add(ClassAddressed)
		house = hn
	}
	if st := tags["addr:street"]; st != "" {
		c.add(ClassAddressed)
		street = st
	}
	if amenity := tags["amenity"]; amenity != "" {
		c.add(ClassPOI)
	}
	if shop := tags["shop"]; shop != "" {
		c.add(ClassPOI)
	}

	return c, street, house
}

// AdminLevel parses the admin_level tag, returning -1 when absent or
// unparseable (spec.md's Region.admin_level ∈ {2..12, unknown}).
func AdminLevel(tags map[string]string) int {
	raw := tags["admin_level"]
	if raw == "" {
		return -1
	}
	level := 0
	neg := false
	for i, ch := range raw {
		if i == 0 && ch == '-' {
			neg = true
			continue
		}
		if ch < '0' || ch > '9' {
			return -1
		}
		level = level*10 + int(ch-'0')
	}
	if neg {
		return -1
	}
	return level
}

// PlaceType normalizes the place tag to one of the canonical values
// spec.md's Region.place_type enumerates, defaulting to "unknown".
func PlaceType(tags map[string]string) string {
	switch tags["place"] {
	case "country", "state", "province", "district", "county",
		"city", "town", "village", "hamlet", "suburb", "neighbourhood":
		return tags["place"]
	default:
		return "unknown"
	}
}
