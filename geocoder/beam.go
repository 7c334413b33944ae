package geocoder

import (
	"sort"

	"github.com/royalcat/geocore/geoid"
	"github.com/royalcat/geocore/hierarchy"
)

const maxResults = 100

// beamKey identifies one candidate parse: the matched feature, the type it
// was matched as, which query token positions it consumed, and the type
// sequence assigned to every consumed token so far.
type beamKey struct {
	osmID    geoid.Id
	typ      hierarchy.Type
	tokenIDs []int
	allTypes []hierarchy.Type
}

type beamEntry struct {
	key        beamKey
	certainty  float64
}

// beam keeps the maxResults highest-certainty entries seen so far, sorted
// descending. Insertion is O(n) which is fine at this bound.
type beam struct {
	entries []beamEntry
}

func newBeam() *beam { return &beam{} }

func (b *beam) Add(key beamKey, certainty float64) {
	i := sort.Search(len(b.entries), func(i int) bool { return b.entries[i].certainty < certainty })
	b.entries = append(b.entries, beamEntry{})
	copy(b.entries[i+1:], b.entries[i:])
	b.entries[i] = beamEntry{key: key, certainty: certainty}
	if len(b.entries) > maxResults {
		b.entries = b.entries[:maxResults]
	}
}

func (b *beam) Entries() []beamEntry { return b.entries }
