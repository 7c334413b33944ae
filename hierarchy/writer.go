package hierarchy

import (
	"encoding/json"
	"fmt"
	"io"
)

// LocaleDoc is one locale's contribution to a Document: its display name and
// the address component values at each structural level, keyed by the same
// strings fieldKeyByType uses on read (country, region, subregion, ...).
type LocaleDoc struct {
	Name    string            `json:"name"`
	Address map[string]string `json:"address"`
}

// Document is the write-side counterpart of rawEntry: what a generator-side
// producer (regions, streets, the geo-object translator) assembles for one
// feature before it is appended to the jsonl key-value store that LoadFromJsonl
// reads back.
type Document struct {
	OsmID   Id
	Rank    int
	Kind    string
	Locales map[string]LocaleDoc
}

type documentProperties struct {
	Locales map[string]LocaleDoc `json:"locales"`
	Rank    int                  `json:"rank"`
	Kind    string               `json:"kind"`
}

type documentJSON struct {
	Properties documentProperties `json:"properties"`
}

// WriteLine appends one hierarchy entry line: "<16 hex digits> <json>\n".
func WriteLine(w io.Writer, doc Document) error {
	payload := documentJSON{
		Properties: documentProperties{
			Locales: doc.Locales,
			Rank:    doc.Rank,
			Kind:    doc.Kind,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal hierarchy document: %w", err)
	}

	if _, err := fmt.Fprintf(w, "%s %s\n", FormatOsmIdHex(doc.OsmID), body); err != nil {
		return fmt.Errorf("write hierarchy document: %w", err)
	}
	return nil
}

// WriteVersionLine writes the optional "version <string>" header line that
// must, if present, come before any entry line.
func WriteVersionLine(w io.Writer, version string) error {
	_, err := fmt.Fprintf(w, "version %s\n", version)
	return err
}
