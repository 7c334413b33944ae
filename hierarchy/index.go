package hierarchy

import (
	"sort"
	"strings"
)

// DocId is a dense, zero-based index into a Hierarchy's sorted entries,
// assigned in ascending OsmID order. The geocoder's beam search works
// against DocIds rather than Entry pointers so its per-candidate state stays
// small and cache-friendly.
type DocId int32

const InvalidDocId DocId = -1

// TokenIndex is the in-memory inverted index over every entry's normalized
// address tokens, built once at geocoder startup and read-only thereafter.
type TokenIndex struct {
	h *Hierarchy

	// postings[token][type] lists the DocIds whose address field at that
	// Type normalizes (after tokenization) to include token, sorted ascending.
	postings map[string][TypeCount][]DocId

	// buildings[ownerDocId] lists DocIds of Building entries whose nearest
	// Street or Locality ancestor is ownerDocId, for ForEachRelatedBuilding.
	buildings map[DocId][]DocId
}

func BuildTokenIndex(h *Hierarchy) *TokenIndex {
	idx := &TokenIndex{
		h:         h,
		postings:  make(map[string][TypeCount][]DocId),
		buildings: make(map[DocId][]DocId),
	}

	entries := h.Entries()
	dict := h.NameDictionary()

	for i := range entries {
		e := &entries[i]
		doc := DocId(i)
		for t := Country; t < TypeCount; t++ {
			pos := e.normalizedAddress[t]
			if pos == UnspecifiedPosition {
				continue
			}
			for _, token := range tokenize(dict.Get(pos)) {
				lists := idx.postings[token]
				lists[t] = appendDocSorted(lists[t], doc)
				idx.postings[token] = lists
			}
		}
	}

	streetDocByPos := make(map[Position]DocId)
	localityDocByPos := make(map[Position]DocId)
	for i := range entries {
		e := &entries[i]
		switch e.Type {
		case Street:
			streetDocByPos[e.normalizedAddress[Street]] = DocId(i)
		case Locality:
			localityDocByPos[e.normalizedAddress[Locality]] = DocId(i)
		}
	}

	for i := range entries {
		e := &entries[i]
		if e.Type != Building {
			continue
		}
		owner := InvalidDocId
		if pos := e.normalizedAddress[Street]; pos != UnspecifiedPosition {
			if d, ok := streetDocByPos[pos]; ok {
				owner = d
			}
		}
		if owner == InvalidDocId {
			if pos := e.normalizedAddress[Locality]; pos != UnspecifiedPosition {
				if d, ok := localityDocByPos[pos]; ok {
					owner = d
				}
			}
		}
		if owner != InvalidDocId {
			idx.buildings[owner] = append(idx.buildings[owner], DocId(i))
		}
	}

	return idx
}

func tokenize(names MultipleNames) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}
	for _, field := range append([]string{names.GetMainName()}, names.GetNames()...) {
		for _, tok := range strings.Fields(field) {
			add(tok)
		}
	}
	return out
}

func appendDocSorted(list []DocId, doc DocId) []DocId {
	i := sort.Search(len(list), func(i int) bool { return list[i] >= doc })
	if i < len(list) && list[i] == doc {
		return list
	}
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = doc
	return list
}

// ForEachDocId calls fn for every DocId whose address field at level t
// contains token, stopping early if fn returns false.
func (idx *TokenIndex) ForEachDocId(token string, t Type, fn func(DocId) bool) {
	lists, ok := idx.postings[token]
	if !ok {
		return
	}
	for _, doc := range lists[t] {
		if !fn(doc) {
			return
		}
	}
}

// ForEachRelatedBuilding calls fn for every Building DocId owned by the
// street or locality at ownerDoc.
func (idx *TokenIndex) ForEachRelatedBuilding(ownerDoc DocId, fn func(DocId) bool) {
	for _, doc := range idx.buildings[ownerDoc] {
		if !fn(doc) {
			return
		}
	}
}

func (idx *TokenIndex) Entry(doc DocId) *Entry {
	if doc < 0 || int(doc) >= len(idx.h.entries) {
		return nil
	}
	return &idx.h.entries[doc]
}

func (idx *TokenIndex) Hierarchy() *Hierarchy { return idx.h }
