package hierarchy

import (
	"encoding/json"
	"fmt"

	"github.com/royalcat/geocore/geoid"
	"github.com/royalcat/geocore/internal/normalize"
)

// Entry is one line of the hierarchy key-value store: a feature's osm id,
// display name, and the normalized address that places it in the region/
// street/building tree.
type Entry struct {
	OsmID Id
	Name  string
	Type  Type
	Kind  Kind

	// normalizedAddress[t] is the dictionary position of the entry's
	// address component at level t, or UnspecifiedPosition.
	normalizedAddress [TypeCount]Position
}

type Id = geoid.Id

func (e *Entry) HasFieldInAddress(t Type) bool {
	return e.normalizedAddress[t] != UnspecifiedPosition
}

func (e *Entry) AddressPosition(t Type) Position {
	return e.normalizedAddress[t]
}

func (e *Entry) GetNormalizedMultipleNames(t Type, dict *NameDictionary) MultipleNames {
	return dict.Get(e.normalizedAddress[t])
}

// rawEntry mirrors the on-disk JSON shape: properties.locales.<locale>.{name,address,rank}.
type rawEntry struct {
	Properties struct {
		Locales map[string]struct {
			Name    string            `json:"name"`
			Address map[string]string `json:"address"`
		} `json:"locales"`
		Rank *int   `json:"rank"`
		Kind string `json:"kind"`
	} `json:"properties"`
}

var fieldKeyByType = map[Type]string{
	Country:     "country",
	Region:      "region",
	Subregion:   "subregion",
	Locality:    "locality",
	Suburb:      "suburb",
	Sublocality: "sublocality",
	Street:      "street",
	Building:    "building",
}

// DeserializeFromJSON parses one hierarchy jsonl line's JSON document into
// e. Returns false (non-fatal, counted in stats) for malformed JSON, a
// document with no resolvable address field, or a street/building with no
// locality/subregion ancestor in its own address.
func (e *Entry) DeserializeFromJSON(raw []byte, dictBuilder *NameDictionaryBuilder, stats *ParsingStats) bool {
	var doc rawEntry
	if err := json.Unmarshal(raw, &doc); err != nil {
		stats.BadJSONs++
		return false
	}

	if !e.deserializeAddress(doc, dictBuilder, stats) {
		return false
	}

	if def, ok := doc.Properties.Locales["default"]; ok {
		e.Name = def.Name
	}
	if e.Name == "" {
		stats.EmptyNames++
	}
	e.Kind = KindFromString(doc.Properties.Kind)
	if e.Type == TypeCount {
		stats.EmptyAddresses++
		return false
	}

	stats.NumLoaded++
	return true
}

func (e *Entry) deserializeAddress(doc rawEntry, dictBuilder *NameDictionaryBuilder, stats *ParsingStats) bool {
	e.normalizedAddress = [TypeCount]Position{}
	e.Type = TypeCount

	for t := Country; t < TypeCount; t++ {
		names, ok := fetchAddressFieldNames(doc, fieldKeyByType[t])
		if !ok {
			continue
		}
		if names.GetMainName() != "" {
			e.normalizedAddress[t] = dictBuilder.Add(names)
			e.Type = t
		}
	}

	if doc.Properties.Rank != nil {
		if rt := rankToType(*doc.Properties.Rank); rt != TypeCount &&
			e.normalizedAddress[rt] != UnspecifiedPosition {
			e.Type = rt
		}
	}

	hasLocalityOrSubregion := e.normalizedAddress[Subregion] != UnspecifiedPosition ||
		e.normalizedAddress[Locality] != UnspecifiedPosition

	if e.Type == Street && !hasLocalityOrSubregion {
		stats.NoLocalityStreets++
		return false
	}
	if e.Type == Building && !hasLocalityOrSubregion {
		stats.NoLocalityBuildings++
		return false
	}

	return true
}

func fetchAddressFieldNames(doc rawEntry, levelKey string) (MultipleNames, bool) {
	var names MultipleNames
	any := false
	for locale, loc := range doc.Properties.Locales {
		value, ok := loc.Address[levelKey]
		if !ok || value == "" {
			continue
		}
		tokens := normalize.Tokens(value)
		if len(tokens) == 0 {
			continue
		}
		normalizedValue := joinTokens(tokens)
		if locale == "default" {
			names.SetMainName(normalizedValue)
		} else {
			names.AddAltName(normalizedValue)
		}
		any = true
	}
	return names, any
}

func joinTokens(tokens []string) string {
	out := tokens[0]
	for _, t := range tokens[1:] {
		out += " " + t
	}
	return out
}

func rankToType(rank int) Type {
	switch rank {
	case 1:
		return Country
	case 2:
		return Region
	case 3:
		return Subregion
	case 4:
		return Locality
	default:
		return TypeCount
	}
}

func (e *Entry) String() string {
	return fmt.Sprintf("Entry{osmID=%d name=%q type=%s kind=%s}", e.OsmID, e.Name, e.Type, e.Kind)
}
