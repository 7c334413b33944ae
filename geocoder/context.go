package geocoder

import (
	"github.com/royalcat/geocore/geoid"
	"github.com/royalcat/geocore/hierarchy"
	"github.com/royalcat/geocore/internal/normalize"
)

// Layer is one pushed level of the search: the type it was resolved at, and
// every matching document found at that level for the current subquery.
type Layer struct {
	Type    hierarchy.Type
	Entries []hierarchy.DocId
}

// Result is one ranked answer to a query.
type Result struct {
	OsmID     geoid.Id
	Certainty float64
}

// Context holds per-query mutable search state: the tokenized query, which
// tokens are currently claimed by which type, the layer stack, the bounded
// result beam, and the set of token positions that looked like a house
// number at some point during the search.
type Context struct {
	tokens        []string
	tokenTypes    []hierarchy.Type
	numUsedTokens int

	layers []Layer
	beam   *beam

	houseNumberPositions map[int]bool
}

func NewContext(query string) *Context {
	tokens := normalize.Tokens(query)
	types := make([]hierarchy.Type, len(tokens))
	for i := range types {
		types[i] = hierarchy.TypeCount
	}
	return &Context{
		tokens:               tokens,
		tokenTypes:           types,
		beam:                 newBeam(),
		houseNumberPositions: make(map[int]bool),
	}
}

func (c *Context) NumTokens() int { return len(c.tokens) }

func (c *Context) NumUsedTokens() int { return c.numUsedTokens }

func (c *Context) Token(id int) string { return c.tokens[id] }

func (c *Context) TokenType(id int) hierarchy.Type { return c.tokenTypes[id] }

func (c *Context) MarkToken(id int, t hierarchy.Type) {
	wasUsed := c.tokenTypes[id] != hierarchy.TypeCount
	c.tokenTypes[id] = t
	nowUsed := c.tokenTypes[id] != hierarchy.TypeCount
	switch {
	case wasUsed && !nowUsed:
		c.numUsedTokens--
	case !wasUsed && nowUsed:
		c.numUsedTokens++
	}
}

func (c *Context) IsTokenUsed(id int) bool { return c.tokenTypes[id] != hierarchy.TypeCount }

func (c *Context) AllTokensUsed() bool { return c.numUsedTokens == len(c.tokens) }

func (c *Context) Layers() []Layer { return c.layers }

func (c *Context) PushLayer(l Layer) { c.layers = append(c.layers, l) }

func (c *Context) PopLayer() { c.layers = c.layers[:len(c.layers)-1] }

func (c *Context) MarkHouseNumberPositions(tokenIDs []int) {
	for _, id := range tokenIDs {
		c.houseNumberPositions[id] = true
	}
}

func (c *Context) AddResult(osmID geoid.Id, certainty float64, typ hierarchy.Type, tokenIDs []int, allTypes []hierarchy.Type) {
	c.beam.Add(beamKey{
		osmID:    osmID,
		typ:      typ,
		tokenIDs: append([]int(nil), tokenIDs...),
		allTypes: append([]hierarchy.Type(nil), allTypes...),
	}, certainty)
}

// markTokens marks tokens [l, r) with t and returns an unmark func that
// restores them to TypeCount, mirroring the original's scope-guarded
// ScopedMarkTokens in an explicit defer-friendly shape.
func (c *Context) markTokens(t hierarchy.Type, l, r int) func() {
	for i := l; i < r; i++ {
		c.MarkToken(i, t)
	}
	return func() {
		for i := l; i < r; i++ {
			c.MarkToken(i, hierarchy.TypeCount)
		}
	}
}

// FillResults drains the beam into a deduplicated, certainty-rescaled,
// house-number-guard-filtered result list.
func (c *Context) FillResults() []Result {
	entries := c.beam.Entries()
	results := make([]Result, 0, len(entries))
	seen := make(map[geoid.Id]bool, len(entries))

	hasPotentialHouseNumber := len(c.houseNumberPositions) > 0

	for _, e := range entries {
		if seen[e.key.osmID] {
			continue
		}
		seen[e.key.osmID] = true

		if hasPotentialHouseNumber && !c.isGoodForPotentialHouseNumberAt(e.key) {
			continue
		}

		results = append(results, Result{OsmID: e.key.osmID, Certainty: e.certainty})
	}

	if len(results) > 0 {
		by := results[0].Certainty
		if by != 0 {
			for i := range results {
				results[i].Certainty /= by
			}
		}
	}

	return results
}

// isGoodForPotentialHouseNumberAt implements the three-way guard from the
// house-number position check: (a) the parse consumes every query token,
// (b) it is a Building with Locality/Street/Building all present, or
// (c) it has a Locality/Region in its parse and covers every flagged
// house-number position.
func (c *Context) isGoodForPotentialHouseNumberAt(key beamKey) bool {
	if len(key.tokenIDs) == len(c.tokens) {
		return true
	}
	if isBuildingWithAddress(key) {
		return true
	}
	if hasLocalityOrRegion(key) && containsAll(key.tokenIDs, c.houseNumberPositions) {
		return true
	}
	return false
}

func isBuildingWithAddress(key beamKey) bool {
	if key.typ != hierarchy.Building {
		return false
	}
	var gotLocality, gotStreet, gotBuilding bool
	for _, t := range key.allTypes {
		switch t {
		case hierarchy.Region, hierarchy.Subregion, hierarchy.Locality:
			gotLocality = true
		case hierarchy.Street:
			gotStreet = true
		case hierarchy.Building:
			gotBuilding = true
		}
	}
	return gotLocality && gotStreet && gotBuilding
}

func hasLocalityOrRegion(key beamKey) bool {
	for _, t := range key.allTypes {
		if t == hierarchy.Region || t == hierarchy.Subregion || t == hierarchy.Locality {
			return true
		}
	}
	return false
}

func containsAll(have []int, need map[int]bool) bool {
	haveSet := make(map[int]bool, len(have))
	for _, id := range have {
		haveSet[id] = true
	}
	for id := range need {
		if !haveSet[id] {
			return false
		}
	}
	return true
}
