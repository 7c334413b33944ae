package hierarchy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/royalcat/geocore/geoid"
)

func writeJsonl(t *testing.T, lines []string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "hierarchy.jsonl")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	for _, l := range lines {
		if _, err := f.WriteString(l + "\n"); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return path
}

func TestLoadFromJsonlS1(t *testing.T) {
	cuba := geoid.New(geoid.Node, 1)
	region := geoid.New(geoid.Node, 2)
	subregion := geoid.New(geoid.Node, 3)

	path := writeJsonl(t, []string{
		FormatOsmIdHex(cuba) + ` {"properties":{"rank":1,"locales":{"default":{"name":"Cuba","address":{"country":"Cuba"}}}}}`,
		FormatOsmIdHex(region) + ` {"properties":{"rank":2,"locales":{"default":{"name":"Ciego de Avila","address":{"country":"Cuba","region":"Ciego de Avila"}}}}}`,
		FormatOsmIdHex(subregion) + ` {"properties":{"rank":3,"locales":{"default":{"name":"Florencia","address":{"country":"Cuba","region":"Ciego de Avila","subregion":"Florencia"}}}}}`,
	})

	h, version, err := LoadFromJsonl(path, LoadConfig{Workers: 2}, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if version != "" {
		t.Fatalf("expected no data version, got %q", version)
	}
	if len(h.Entries()) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(h.Entries()))
	}
	if e := h.GetEntryForOsmId(subregion); e == nil || e.Name != "Florencia" {
		t.Fatalf("expected Florencia entry, got %+v", e)
	}
}

func TestLoadFromJsonlDataVersion(t *testing.T) {
	id := geoid.New(geoid.Node, 1)
	path := writeJsonl(t, []string{
		"version abc123",
		FormatOsmIdHex(id) + ` {"properties":{"rank":1,"locales":{"default":{"name":"Cuba","address":{"country":"Cuba"}}}}}`,
	})

	h, version, err := LoadFromJsonl(path, LoadConfig{}, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if version != "abc123" {
		t.Fatalf("expected version abc123, got %q", version)
	}
	if len(h.Entries()) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(h.Entries()))
	}
}
