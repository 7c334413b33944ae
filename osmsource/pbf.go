package osmsource

import (
	"context"
	"io"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// PBFSource adapts osmpbf.Scanner (the same reader the teacher's generator
// uses) to the uniform Source interface. workerIndex/workerCount implement
// the chunked round-robin sharding contract: each worker opens its own
// scanner over the same file and only keeps elements assigned to it.
type PBFSource struct {
	scanner     *osmpbf.Scanner
	workerIndex int
	workerCount int
	chunkSize   uint64
	seen        uint64
	err         error
}

// NewPBFSource opens a sharded PBF reader. decodeThreads is passed straight
// through to osmpbf.New as its parallel-decoder count.
func NewPBFSource(ctx context.Context, r io.Reader, decodeThreads, workerIndex, workerCount int) *PBFSource {
	return &PBFSource{
		scanner:     osmpbf.New(ctx, r, decodeThreads),
		workerIndex: workerIndex,
		workerCount: workerCount,
		chunkSize:   DefaultChunkSize,
	}
}

func (s *PBFSource) Next(out *Element) bool {
	for s.scanner.Scan() {
		idx := s.seen
		s.seen++

		if s.workerCount > 1 && !ShardAssignment(idx, s.chunkSize, s.workerCount, s.workerIndex) {
			continue
		}

		if convertOSMObject(s.scanner.Object(), out) {
			return true
		}
	}
	s.err = s.scanner.Err()
	return false
}

func (s *PBFSource) Err() error   { return s.err }
func (s *PBFSource) Close() error { return s.scanner.Close() }

func convertOSMObject(obj osm.Object, out *Element) bool {
	switch o := obj.(type) {
	case *osm.Node:
		out.Type = NodeElement
		out.ID = uint64(o.ID)
		out.Tags = o.Tags.Map()
		out.Lat = o.Lat
		out.Lon = o.Lon
		out.WayNodeIDs = nil
		out.Members = nil
		return true

	case *osm.Way:
		out.Type = WayElement
		out.ID = uint64(o.ID)
		out.Tags = o.Tags.Map()
		out.WayNodeIDs = out.WayNodeIDs[:0]
		for _, n := range o.Nodes {
			out.WayNodeIDs = append(out.WayNodeIDs, uint64(n.ID))
		}
		out.Members = nil
		return true

	case *osm.Relation:
		relType := o.Tags.Find("type")
		if !relationTypeAccepted(relType) {
			return false
		}
		out.Type = RelationElement
		out.ID = uint64(o.ID)
		out.Tags = o.Tags.Map()
		out.WayNodeIDs = nil
		out.Members = out.Members[:0]
		for _, m := range o.Members {
			mt := NodeElement
			if m.Type == osm.TypeWay {
				mt = WayElement
			} else if m.Type == osm.TypeRelation {
				mt = RelationElement
			}
			out.Members = append(out.Members, Member{Type: mt, Ref: uint64(m.Ref), Role: m.Role})
		}
		return true
	}
	return false
}
