package osmsource

import (
	"encoding/xml"
	"io"
	"strconv"
)

// XMLSource is a hand-rolled SAX-style reader over the .osm XML format:
// encoding/xml's token stream is walked directly rather than unmarshalled
// into a whole-document tree, so a planet-sized XML export never has to
// fit in memory at once.
type XMLSource struct {
	dec         *xml.Decoder
	workerIndex int
	workerCount int
	chunkSize   uint64
	seen        uint64
	err         error
}

func NewXMLSource(r io.Reader, workerIndex, workerCount int) *XMLSource {
	return &XMLSource{
		dec:         xml.NewDecoder(r),
		workerIndex: workerIndex,
		workerCount: workerCount,
		chunkSize:   DefaultChunkSize,
	}
}

func (s *XMLSource) Next(out *Element) bool {
	for {
		tok, err := s.dec.Token()
		if err != nil {
			if err != io.EOF {
				s.err = err
			}
			return false
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "node":
			idx := s.seen
			s.seen++
			if s.workerCount > 1 && !ShardAssignment(idx, s.chunkSize, s.workerCount, s.workerIndex) {
				skipElement(s.dec, start)
				continue
			}
			if s.readNode(start, out) {
				return true
			}

		case "way":
			idx := s.seen
			s.seen++
			if s.workerCount > 1 && !ShardAssignment(idx, s.chunkSize, s.workerCount, s.workerIndex) {
				skipElement(s.dec, start)
				continue
			}
			if s.readWay(start, out) {
				return true
			}

		case "relation":
			idx := s.seen
			s.seen++
			if s.workerCount > 1 && !ShardAssignment(idx, s.chunkSize, s.workerCount, s.workerIndex) {
				skipElement(s.dec, start)
				continue
			}
			if s.readRelation(start, out) {
				return true
			}
		}
	}
}

func (s *XMLSource) Err() error   { return s.err }
func (s *XMLSource) Close() error { return nil }

func attr(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (s *XMLSource) readNode(start xml.StartElement, out *Element) bool {
	out.Type = NodeElement
	out.ID = parseUint(attr(start, "id"))
	out.Lat = parseFloat(attr(start, "lat"))
	out.Lon = parseFloat(attr(start, "lon"))
	out.WayNodeIDs = nil
	out.Members = nil
	out.Tags = s.readTagsUntilClose(start.Name)
	return true
}

func (s *XMLSource) readWay(start xml.StartElement, out *Element) bool {
	out.Type = WayElement
	out.ID = parseUint(attr(start, "id"))
	out.WayNodeIDs = out.WayNodeIDs[:0]
	out.Members = nil
	out.Tags = s.readBodyUntilClose(start.Name, func(child xml.StartElement) {
		if child.Name.Local == "nd" {
			out.WayNodeIDs = append(out.WayNodeIDs, parseUint(attr(child, "ref")))
		}
	})
	return true
}

func (s *XMLSource) readRelation(start xml.StartElement, out *Element) bool {
	id := parseUint(attr(start, "id"))
	var members []Member
	tags := s.readBodyUntilClose(start.Name, func(child xml.StartElement) {
		if child.Name.Local == "member" {
			mt := NodeElement
			switch attr(child, "type") {
			case "way":
				mt = WayElement
			case "relation":
				mt = RelationElement
			}
			members = append(members, Member{Type: mt, Ref: parseUint(attr(child, "ref")), Role: attr(child, "role")})
		}
	})

	if !relationTypeAccepted(tags["type"]) {
		return false
	}

	out.Type = RelationElement
	out.ID = id
	out.Tags = tags
	out.WayNodeIDs = nil
	out.Members = members
	return true
}

// readTagsUntilClose consumes an element's body, collecting only <tag>
// children, until its matching end element.
func (s *XMLSource) readTagsUntilClose(name xml.Name) map[string]string {
	return s.readBodyUntilClose(name, nil)
}

// readBodyUntilClose consumes an element's body up to its matching end
// element, collecting <tag> children into a map and invoking onChild for
// every other start element encountered (e.g. <nd>, <member>).
func (s *XMLSource) readBodyUntilClose(name xml.Name, onChild func(xml.StartElement)) map[string]string {
	tags := map[string]string{}
	depth := 0
	for {
		tok, err := s.dec.Token()
		if err != nil {
			s.err = err
			return tags
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tag" {
				tags[attr(t, "k")] = attr(t, "v")
			} else if onChild != nil {
				onChild(t)
			}
			if t.Name == name {
				depth++
			}
		case xml.EndElement:
			if t.Name == name {
				if depth == 0 {
					return tags
				}
				depth--
			}
		}
	}
}

// skipElement discards start's subtree without collecting anything, used
// when an element belongs to another worker's shard.
func skipElement(dec *xml.Decoder, start xml.StartElement) {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name == start.Name {
				depth++
			}
		case xml.EndElement:
			if t.Name == start.Name {
				if depth == 0 {
					return
				}
				depth--
			}
		}
	}
}

func parseUint(s string) uint64 {
	v, _ := strconv.ParseUint(s, 10, 64)
	return v
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
