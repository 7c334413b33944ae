package translator

import (
	"testing"
)

func TestRegionsTranslatorAcceptsAdminBoundary(t *testing.T) {
	rt := NewRegionsTranslator()
	if !rt.Accept(map[string]string{"boundary": "administrative"}) {
		t.Fatalf("expected admin boundary to be accepted")
	}
	if rt.Accept(map[string]string{"highway": "residential"}) {
		t.Fatalf("expected a plain highway to be rejected")
	}
}

func TestRegionsTranslatorMakeDedupes(t *testing.T) {
	rt := NewRegionsTranslator()
	el := Element{ID: 1, Tags: map[string]string{"place": "city", "name": "Testville"}}

	if _, ok := rt.Make(el); !ok {
		t.Fatalf("expected first Make to succeed")
	}
	if _, ok := rt.Make(el); ok {
		t.Fatalf("expected duplicate Make to be rejected")
	}
}

func TestStreetsTranslatorAcceptsNamedHighway(t *testing.T) {
	st := NewStreetsTranslator()
	if !st.Accept(map[string]string{"highway": "residential", "name": "Elm Street"}) {
		t.Fatalf("expected named highway to be accepted")
	}
	if st.Accept(map[string]string{"highway": "residential"}) {
		t.Fatalf("expected unnamed highway to be rejected")
	}
}

func TestPipelineMergesAcrossWorkers(t *testing.T) {
	p := NewPipeline(NewRegionsTranslator(), 3)

	for i := uint64(1); i <= 20; i++ {
		p.Submit(Element{
			ID:   i,
			Tags: map[string]string{"place": "village", "name": "Village"},
		})
	}

	features := p.WaitAndMerge()
	if len(features) != 20 {
		t.Fatalf("expected 20 features, got %d", len(features))
	}
}
