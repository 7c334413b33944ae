// Package translator runs the filter/transform/emit pipeline that turns
// classified OSM elements into features: one clone of each translator per
// worker, reduced pairwise into a single instance once every worker drains.
package translator

import (
	"github.com/royalcat/geocore/feature"
)

// Element is the minimal OSM-element view a translator needs: an id, its
// tags, and resolved geometry inputs. osmsource is responsible for filling
// this in from whichever wire format it read.
type Element struct {
	ID      uint64
	Tags    map[string]string
	Point   [2]float64
	Line    [][2]float64
	Members []feature.RingMember
}

// Translator is the filter/transform/emit triple spec.md's pipeline wires
// together. Implementations are cloned once per worker (New) and folded
// pairwise at shutdown (Merge) so no cross-worker lock is ever held on the
// hot path.
type Translator interface {
	// Accept is the cheap tag-based pre-check; elements that fail it never
	// reach Make.
	Accept(tags map[string]string) bool
	// Make resolves an accepted element into a Feature. A false second
	// return means the element was accepted but produced nothing usable
	// (e.g. a relation whose ways could not be fully resolved).
	Make(el Element) (feature.Feature, bool)
	// New returns a fresh, empty clone for another worker.
	New() Translator
	// Merge folds other's bookkeeping state (not features, which the
	// pipeline tracks separately) into the receiver and returns it. Must
	// be associative; need not be commutative.
	Merge(other Translator) Translator
}
