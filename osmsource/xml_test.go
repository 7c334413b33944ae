package osmsource

import (
	"strings"
	"testing"
)

const sampleXML = `<?xml version="1.0"?>
<osm version="0.6">
  <node id="1" lat="50.1" lon="14.2"><tag k="place" v="city"/><tag k="name" v="Testville"/></node>
  <node id="2" lat="50.2" lon="14.3"/>
  <way id="10"><nd ref="1"/><nd ref="2"/><tag k="highway" v="residential"/><tag k="name" v="Elm Street"/></way>
  <relation id="100"><member type="way" ref="10" role="outer"/><tag k="type" v="multipolygon"/><tag k="name" v="Park"/></relation>
  <relation id="200"><member type="node" ref="1" role=""/><tag k="type" v="site"/></relation>
</osm>`

func TestXMLSourceReadsAllElements(t *testing.T) {
	src := NewXMLSource(strings.NewReader(sampleXML), 0, 1)

	var elems []Element
	var el Element
	for src.Next(&el) {
		elems = append(elems, el)
	}
	if src.Err() != nil {
		t.Fatalf("unexpected error: %v", src.Err())
	}

	// the "site" relation is outside the whitelist and must be dropped.
	if len(elems) != 4 {
		t.Fatalf("expected 4 elements (2 nodes, 1 way, 1 relation), got %d", len(elems))
	}

	if elems[0].Type != NodeElement || elems[0].ID != 1 || elems[0].Tags["place"] != "city" {
		t.Fatalf("unexpected first element: %+v", elems[0])
	}
	if elems[2].Type != WayElement || len(elems[2].WayNodeIDs) != 2 {
		t.Fatalf("unexpected way element: %+v", elems[2])
	}
	if elems[3].Type != RelationElement || len(elems[3].Members) != 1 {
		t.Fatalf("unexpected relation element: %+v", elems[3])
	}
}

func TestXMLSourceSharding(t *testing.T) {
	var got []uint64
	for worker := 0; worker < 2; worker++ {
		src := NewXMLSource(strings.NewReader(sampleXML), worker, 2)
		var el Element
		for src.Next(&el) {
			got = append(got, el.ID)
		}
	}
	if len(got) != 4 {
		t.Fatalf("expected the two shards together to cover 4 elements, got %d", len(got))
	}
}
