package main

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/feature"
	"github.com/royalcat/geocore/osmsource"
	"github.com/royalcat/geocore/translator"
)

// resolver turns the raw node/way/relation stream osmsource hands back into
// translator.Elements with resolved geometry. OSM files are ordered nodes,
// then ways, then relations, so a single forward pass is enough: by the time
// a way arrives every node it references has already been seen, and by the
// time a relation arrives every way it references has already been
// resolved.
type resolver struct {
	nodes map[uint64]orb.Point
	ways  map[uint64]wayGeom
}

type wayGeom struct {
	line orb.LineString
	tags map[string]string
}

func newResolver() *resolver {
	return &resolver{
		nodes: make(map[uint64]orb.Point),
		ways:  make(map[uint64]wayGeom),
	}
}

// feed resolves one osmsource.Element and, if it produced something a
// translator pipeline could use, calls submit with it. Plain nodes with no
// tags are remembered for later way resolution but never submitted.
func (r *resolver) feed(el *osmsource.Element, submit func(translator.Element)) {
	switch el.Type {
	case osmsource.NodeElement:
		pt := orb.Point{el.Lon, el.Lat}
		r.nodes[el.ID] = pt
		if len(el.Tags) == 0 {
			return
		}
		submit(translator.Element{ID: el.ID, Tags: el.Tags, Point: [2]float64{pt[0], pt[1]}})

	case osmsource.WayElement:
		line := r.resolveWay(el.WayNodeIDs)
		r.ways[el.ID] = wayGeom{line: line, tags: el.Tags}
		if len(el.Tags) == 0 || len(line) == 0 {
			return
		}
		lineCopy := make([][2]float64, len(line))
		for i, p := range line {
			lineCopy[i] = [2]float64(p)
		}
		submit(translator.Element{ID: el.ID, Tags: el.Tags, Line: lineCopy})

	case osmsource.RelationElement:
		members := r.resolveMembers(el.Members)
		if len(members) == 0 {
			return
		}
		submit(translator.Element{ID: el.ID, Tags: el.Tags, Members: members})
	}
}

func (r *resolver) resolveWay(nodeIDs []uint64) orb.LineString {
	line := make(orb.LineString, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		pt, ok := r.nodes[id]
		if !ok {
			continue
		}
		line = append(line, pt)
	}
	return line
}

func (r *resolver) resolveMembers(members []osmsource.Member) []feature.RingMember {
	out := make([]feature.RingMember, 0, len(members))
	for _, m := range members {
		if m.Type != osmsource.WayElement {
			continue
		}
		way, ok := r.ways[m.Ref]
		if !ok || len(way.line) < 2 {
			continue
		}
		role := m.Role
		if role != "inner" {
			role = "outer"
		}
		out = append(out, feature.RingMember{Role: role, Line: way.line})
	}
	return out
}

// runResolved walks src to exhaustion, submitting every usable element to
// submit. It returns once the source is drained or errors.
func runResolved(src osmsource.Source, submit func(translator.Element)) error {
	r := newResolver()
	var el osmsource.Element
	for src.Next(&el) {
		r.feed(&el, submit)
	}
	if err := src.Err(); err != nil {
		return fmt.Errorf("reading osm source: %w", err)
	}
	return nil
}
