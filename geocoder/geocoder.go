// Package geocoder resolves free-text address queries against a loaded
// hierarchy and token index using a bounded beam search over increasingly
// specific address types.
package geocoder

import (
	"fmt"
	"log/slog"

	"github.com/royalcat/geocore/hierarchy"
)

// cityStateExtraWeight favours a locality whose name matches its own
// region's name (Moscow/Moscow, Istanbul/Istanbul) over otherwise
// equivalent candidates.
const cityStateExtraWeight = 0.05

// streetSynonyms are tokens that stand in for the word "street" in one
// locale or another; a leftover token matching one is tentatively marked
// as Street while the search is exploring that layer.
var streetSynonyms = map[string]bool{
	"street": true, "st": true, "ave": true, "avenue": true,
	"ulitsa": true, "ul": true, "prospekt": true, "per": true, "pereulok": true,
	"road": true, "rd": true, "blvd": true, "boulevard": true,
	"lane": true, "ln": true, "drive": true, "dr": true,
}

// Geocoder resolves free-text queries against a loaded hierarchy and token
// index using the bounded beam search described for this package.
type Geocoder struct {
	hierarchy *hierarchy.Hierarchy
	index     *hierarchy.TokenIndex
	logger    *slog.Logger
}

func New(h *hierarchy.Hierarchy, idx *hierarchy.TokenIndex, logger *slog.Logger) *Geocoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Geocoder{hierarchy: h, index: idx, logger: logger}
}

func (g *Geocoder) Hierarchy() *hierarchy.Hierarchy { return g.hierarchy }
func (g *Geocoder) Index() *hierarchy.TokenIndex    { return g.index }

// ProcessQuery runs the beam search over query and returns ranked results.
func (g *Geocoder) ProcessQuery(query string) []Result {
	ctx := NewContext(query)
	g.search(ctx, hierarchy.Country)
	return ctx.FillResults()
}

func getWeight(k hierarchy.Kind) float64 { return k.Weight() }

// search is the recursive beam-search step: at each query position it tries
// every prefix of unused tokens as a subquery for type, and on any match
// recurses into the next, more specific type.
func (g *Geocoder) search(ctx *Context, t hierarchy.Type) {
	if ctx.NumTokens() == 0 || ctx.AllTokensUsed() || t == hierarchy.TypeCount {
		return
	}

	n := ctx.NumTokens()
	for i := 0; i < n; i++ {
		var subqueryTokens []string
		var subqueryTokenIDs []int

		for j := i; j < n; j++ {
			if ctx.IsTokenUsed(j) {
				break
			}
			subqueryTokens = append(subqueryTokens, ctx.Token(j))
			subqueryTokenIDs = append(subqueryTokenIDs, j)

			var layer Layer
			layer.Type = t

			if t == hierarchy.Building {
				g.fillBuildingsLayer(ctx, subqueryTokens, subqueryTokenIDs, &layer)
			} else {
				g.fillRegularLayer(ctx, t, subqueryTokens, &layer)
			}

			if len(layer.Entries) == 0 {
				continue
			}

			unmark := ctx.markTokens(t, i, j+1)

			var unmarkSynonym func()
			if t == hierarchy.Street {
				unmarkSynonym = markStreetSynonym(ctx)
			}

			g.addResults(ctx, layer.Entries)

			ctx.PushLayer(layer)
			g.search(ctx, hierarchy.NextType(t))
			ctx.PopLayer()

			if unmarkSynonym != nil {
				unmarkSynonym()
			}
			unmark()
		}
	}

	g.search(ctx, hierarchy.NextType(t))
}

func markStreetSynonym(ctx *Context) func() {
	for id := 0; id < ctx.NumTokens(); id++ {
		if ctx.TokenType(id) != hierarchy.TypeCount {
			continue
		}
		if streetSynonyms[ctx.Token(id)] {
			return ctx.markTokens(hierarchy.Street, id, id+1)
		}
	}
	return nil
}

func (g *Geocoder) fillRegularLayer(ctx *Context, t hierarchy.Type, subquery []string, layer *Layer) {
	if len(subquery) == 0 {
		return
	}
	token := joinSpace(subquery)

	seen := make(map[hierarchy.DocId]bool)
	g.index.ForEachDocId(token, t, func(doc hierarchy.DocId) bool {
		if seen[doc] {
			return true
		}
		e := g.index.Entry(doc)
		if e == nil || e.Type != t {
			return true
		}

		if len(ctx.Layers()) == 0 || g.hasParent(ctx.Layers(), e) {
			if t > hierarchy.Locality && !g.isRelevantLocalityMember(ctx, e, subquery) {
				return true
			}
			seen[doc] = true
			layer.Entries = append(layer.Entries, doc)
		}
		return true
	})
}

func (g *Geocoder) fillBuildingsLayer(ctx *Context, subquery []string, subqueryTokenIDs []int, layer *Layer) {
	if len(ctx.Layers()) == 0 {
		return
	}

	subqueryHN := joinSpace(subquery)
	if !looksLikeHouseNumber(subqueryHN) {
		return
	}

	layers := ctx.Layers()
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		if l.Type != hierarchy.Street && l.Type != hierarchy.Locality {
			continue
		}

		ctx.MarkHouseNumberPositions(subqueryTokenIDs)

		for _, docID := range l.Entries {
			g.index.ForEachRelatedBuilding(docID, func(buildingDoc hierarchy.DocId) bool {
				bld := g.index.Entry(buildingDoc)
				if bld == nil {
					return true
				}
				names := bld.GetNormalizedMultipleNames(hierarchy.Building, g.hierarchy.NameDictionary())
				realHN := names.GetMainName()
				if res := matchHouseNumbers(realHN, subqueryHN); res.OK {
					layer.Entries = append(layer.Entries, buildingDoc)
				}
				return true
			})
		}

		break
	}
}

func (g *Geocoder) addResults(ctx *Context, entries []hierarchy.DocId) {
	var certainty float64
	var tokenIDs []int
	var allTypes []hierarchy.Type

	for tokID := 0; tokID < ctx.NumTokens(); tokID++ {
		t := ctx.TokenType(tokID)
		if t != hierarchy.TypeCount {
			certainty += typeWeight(t)
			tokenIDs = append(tokenIDs, tokID)
			allTypes = append(allTypes, t)
		}
	}

	for _, docID := range entries {
		entry := g.index.Entry(docID)
		if entry == nil {
			continue
		}

		entryCertainty := certainty
		if entry.Kind != hierarchy.KindUnknown {
			entryCertainty = rebase(certainty, allTypes, entry.Kind)
		}

		if g.inCityState(entry) {
			entryCertainty += cityStateExtraWeight
		}

		if entry.Type == hierarchy.Building {
			buildingWeight := typeWeight(hierarchy.Building)
			if entry.Kind != hierarchy.KindUnknown {
				buildingWeight = entry.Kind.Weight()
			}
			if hn := g.lastMatchedHouseNumber(ctx, entry); hn.OK {
				entryCertainty -= houseNumberPenalty(hn, buildingWeight)
			}
		}

		ctx.AddResult(entry.OsmID, entryCertainty, entry.Type, tokenIDs, allTypes)
	}
}

// lastMatchedHouseNumber recomputes the match result for an accepted
// building result, purely to size its partial-match penalty; the cost is
// bounded because it only runs once per finalized candidate.
func (g *Geocoder) lastMatchedHouseNumber(ctx *Context, entry *hierarchy.Entry) houseNumberMatchResult {
	names := entry.GetNormalizedMultipleNames(hierarchy.Building, g.hierarchy.NameDictionary())
	realHN := names.GetMainName()
	for id := 0; id < ctx.NumTokens(); id++ {
		if ctx.houseNumberPositions[id] && ctx.TokenType(id) == hierarchy.Building {
			return matchHouseNumbers(realHN, ctx.Token(id))
		}
	}
	return houseNumberMatchResult{}
}

// typeWeight is the per-structural-Type base weight used while a subquery's
// type is still just a guess (the generic Country/Region/.../Building
// level), before any specific entry — and therefore its Kind — has been
// matched.
func typeWeight(t hierarchy.Type) float64 {
	switch t {
	case hierarchy.Country:
		return 10.0
	case hierarchy.Region, hierarchy.Subregion:
		return 4.0
	case hierarchy.Locality:
		return 5.0
	case hierarchy.Suburb, hierarchy.Sublocality:
		return 1.0
	case hierarchy.Street:
		return 2.0
	case hierarchy.Building:
		return 0.1
	default:
		return 0
	}
}

// rebase substitutes the matched entry's real per-Kind weight for the
// generic per-Type estimate already folded into certainty by the token
// loop in addResults, so a known place classification (City vs Village,
// say) refines the score instead of leaving it at the coarse Type guess.
func rebase(certainty float64, allTypes []hierarchy.Type, kind hierarchy.Kind) float64 {
	if len(allTypes) == 0 {
		return certainty
	}
	last := allTypes[len(allTypes)-1]
	return certainty - typeWeight(last) + getWeight(kind)
}

func (g *Geocoder) inCityState(entry *hierarchy.Entry) bool {
	if !entry.HasFieldInAddress(hierarchy.Locality) {
		return false
	}
	dict := g.hierarchy.NameDictionary()
	localityName := entry.GetNormalizedMultipleNames(hierarchy.Locality, dict).GetMainName()

	for _, t := range []hierarchy.Type{hierarchy.Region, hierarchy.Subregion} {
		if !entry.HasFieldInAddress(t) {
			continue
		}
		if entry.GetNormalizedMultipleNames(t, dict).GetMainName() == localityName {
			return true
		}
	}
	return false
}

// hasParent reports whether e descends from any candidate in the most
// recently pushed layer. Addresses only point upward (a child knows its
// ancestors' names, never the reverse), so this is a forward scan rather
// than a graph walk.
func (g *Geocoder) hasParent(layers []Layer, e *hierarchy.Entry) bool {
	layer := layers[len(layers)-1]
	for _, docID := range layer.Entries {
		parent := g.index.Entry(docID)
		if parent != nil && hierarchy.IsParentTo(parent, e) {
			return true
		}
	}
	return false
}

func (g *Geocoder) isRelevantLocalityMember(ctx *Context, member *hierarchy.Entry, subquery []string) bool {
	isNumeric := len(subquery) == 1 && isASCIINumeric(subquery[0])
	return !isNumeric || g.hasMemberLocalityInMatching(ctx, member)
}

func (g *Geocoder) hasMemberLocalityInMatching(ctx *Context, member *hierarchy.Entry) bool {
	for _, layer := range ctx.Layers() {
		if layer.Type > hierarchy.Locality {
			break
		}
		if layer.Type != hierarchy.Locality {
			continue
		}
		for _, docID := range layer.Entries {
			matched := g.index.Entry(docID)
			if matched != nil && hierarchy.IsParentTo(matched, member) {
				return true
			}
		}
	}
	return false
}

func isASCIINumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func joinSpace(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " " + p
	}
	return out
}

func (g *Geocoder) String() string {
	return fmt.Sprintf("Geocoder{entries=%d}", len(g.hierarchy.Entries()))
}
