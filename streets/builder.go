package streets

import (
	"strings"
	"sync/atomic"

	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/geoid"
	"github.com/royalcat/geocore/regions"
)

// Highway is one named way or relation fed into Assembly: a centerline (for
// ordinary streets) or an areal polygon (for squares and plazas tagged as
// the street's own geometry).
type Highway struct {
	ID      geoid.Id
	Names   map[string]string // locale -> name, "default" always present
	Line    orb.LineString    // set for centerline ways
	Polygon orb.Polygon       // set for areal ways
	LabelID geoid.Id          // osm id of an attached label point, if any
}

// AddressedObject is a geo-object carrying a non-empty addr:street tag,
// bound to its owning region's street during the Binding step.
type AddressedObject struct {
	Point  orb.Point
	Street string
}

// RegionLookup resolves the region a geometry falls in. It is the streets
// package's only dependency on the region tree built by the regions package,
// keeping the two packages decoupled for testing.
type RegionLookup interface {
	// StreetAdministeringRegion returns the deepest region whose address
	// has a locality and no suburb/sublocality under p, or nil.
	StreetAdministeringRegion(p orb.Point) *regions.Region
}

// Builder runs the four-stage pipeline (spec.md §4.6): assembly, binding,
// aggregation, emission.
type Builder struct {
	lookup RegionLookup

	streets   *arenas[map[string]*Street] // region id -> (normalized name -> street)
	surrogate atomic.Uint64
}

// NewBuilder creates a Builder sharding its region-keyed state across n*n
// arenas, where n is the worker count the caller intends to drive Assembly
// and Binding with.
func NewBuilder(lookup RegionLookup, workers int) *Builder {
	return &Builder{
		lookup:  lookup,
		streets: newArenas[map[string]*Street](workers),
	}
}

func normalizeStreetName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (b *Builder) nextSurrogate() geoid.Id {
	v := b.surrogate.Add(1)
	return geoid.New(geoid.Surrogate, v)
}

// Assembly consumes one highway. A way whose centerline crosses region
// boundaries is split at the vertices where the owning region changes,
// and each sub-path is merged into its region's street bucket. The edge
// that spans the change belongs to neither sub-path.
func (b *Builder) Assembly(h Highway) {
	name := h.Names["default"]
	if name == "" {
		return
	}

	if len(h.Polygon) > 0 {
		region := b.lookup.StreetAdministeringRegion(h.Polygon.Bound().Center())
		if region == nil {
			return
		}
		b.mergeArea(uint64(region.ID), h, h.Polygon)
		return
	}

	for _, part := range splitByRegion(h.Line, b.lookup) {
		b.mergeSegment(uint64(part.region.ID), h, part.line)
	}
}

type regionPart struct {
	region *regions.Region
	line   orb.LineString
}

// splitByRegion walks line and cuts it at every point where the owning
// region changes, returning one maximal sub-path per region.
func splitByRegion(line orb.LineString, lookup RegionLookup) []regionPart {
	var parts []regionPart
	var current *regions.Region
	var buf orb.LineString

	flush := func() {
		if current != nil && len(buf) > 1 {
			parts = append(parts, regionPart{region: current, line: buf})
		}
	}

	for _, p := range line {
		region := lookup.StreetAdministeringRegion(p)
		if region != current {
			flush()
			current = region
			buf = orb.LineString{p}
		} else {
			buf = append(buf, p)
		}
	}
	flush()
	return parts
}

func (b *Builder) mergeSegment(regionKey uint64, h Highway, line orb.LineString) {
	key := normalizeStreetName(h.Names["default"])
	b.streets.Update(regionKey, func(bucket map[string]*Street, ok bool) map[string]*Street {
		if !ok {
			bucket = make(map[string]*Street)
		}
		street, ok := bucket[key]
		if !ok {
			street = newStreet(geoid.Id(regionKey), map[string]string{})
			street.PinID = b.nextSurrogate()
			bucket[key] = street
		}
		mergeNames(street.Names, h.Names)
		street.addSegment(line)
		if h.LabelID.IsValid() {
			street.PinID = h.LabelID
		}
		return bucket
	})
}

func (b *Builder) mergeArea(regionKey uint64, h Highway, poly orb.Polygon) {
	key := normalizeStreetName(h.Names["default"])
	b.streets.Update(regionKey, func(bucket map[string]*Street, ok bool) map[string]*Street {
		if !ok {
			bucket = make(map[string]*Street)
		}
		street, ok := bucket[key]
		if !ok {
			street = newStreet(geoid.Id(regionKey), map[string]string{})
			street.PinID = b.nextSurrogate()
			bucket[key] = street
		}
		mergeNames(street.Names, h.Names)
		street.addArea(poly)
		if h.LabelID.IsValid() {
			street.PinID = h.LabelID
		}
		return bucket
	})
}

func mergeNames(dst, src map[string]string) {
	for locale, name := range src {
		if _, ok := dst[locale]; !ok {
			dst[locale] = name
		}
	}
}

// Binding attaches an addressed object's addr:street value to the street it
// names within the object's owning region, incrementing that street's
// address count (spec.md §4.6 step 2). Objects whose street was never
// assembled as a highway are dropped, counted by the caller if desired.
func (b *Builder) Binding(obj AddressedObject) bool {
	if obj.Street == "" {
		return false
	}
	region := b.lookup.StreetAdministeringRegion(obj.Point)
	if region == nil {
		return false
	}

	key := normalizeStreetName(obj.Street)
	bound := false
	b.streets.Update(uint64(region.ID), func(bucket map[string]*Street, ok bool) map[string]*Street {
		if !ok {
			return bucket
		}
		if street, ok := bucket[key]; ok {
			street.AddressCount++
			bound = true
		}
		return bucket
	})
	return bound
}

// Aggregation finalizes every street's pin point now that assembly and
// binding are complete, and returns the full set grouped by region.
func (b *Builder) Aggregation() []*Street {
	var out []*Street
	b.streets.Range(func(_ uint64, bucket map[string]*Street) {
		for _, s := range bucket {
			s.finalize()
			out = append(out, s)
		}
	})
	return out
}
