package hierarchy

import (
	"bufio"
	"compress/gzip"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/royalcat/geocore/geoid"
)

// LoadConfig controls jsonl parsing concurrency, grounded on spec.md §5's
// "configurable reader-thread pool ... mutex-protected line queue ... merge
// and re-intern" loading model.
type LoadConfig struct {
	Workers int
}

func DefaultLoadConfig() LoadConfig {
	return LoadConfig{Workers: 4}
}

type rawLine struct {
	osmID Id
	json  []byte
}

// LoadFromJsonl reads a (possibly gzip-compressed) hierarchy key-value
// store and returns the assembled Hierarchy. Each worker parses lines into
// its own Entry slice and NameDictionaryBuilder; results are merged and
// names re-interned into a single shared dictionary.
func LoadFromJsonl(path string, cfg LoadConfig, logger *slog.Logger) (*Hierarchy, string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg = DefaultLoadConfig()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("hierarchy: open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, "", fmt.Errorf("hierarchy: gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, "", fmt.Errorf("hierarchy: zstd %s: %w", path, err)
		}
		zr := dec.IOReadCloser()
		defer zr.Close()
		r = zr
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	dataVersion := ""
	var pendingFirstLine string
	if scanner.Scan() {
		first := scanner.Text()
		if v, ok := strings.CutPrefix(first, "version "); ok {
			dataVersion = v
		} else {
			pendingFirstLine = first
		}
	}

	lines := make(chan rawLine, cfg.Workers*64)
	type partial struct {
		entries []Entry
		dict    *NameDictionaryBuilder
		stats   ParsingStats
	}
	partials := make([]partial, cfg.Workers)

	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		partials[w] = partial{dict: NewNameDictionaryBuilder()}
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			p := &partials[w]
			for rl := range lines {
				var e Entry
				e.OsmID = rl.osmID
				if e.DeserializeFromJSON(rl.json, p.dict, &p.stats) {
					p.entries = append(p.entries, e)
				}
			}
		}(w)
	}

	var badOsmIDs uint64
	submit := func(line string) {
		if line == "" {
			return
		}
		id, doc, ok := parseLine(line)
		if !ok {
			badOsmIDs++
			return
		}
		lines <- rawLine{osmID: id, json: append([]byte(nil), doc...)}
	}

	var scanErr error
	if pendingFirstLine != "" {
		submit(pendingFirstLine)
	}
	for scanner.Scan() {
		submit(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		scanErr = err
	}
	close(lines)
	wg.Wait()
	if scanErr != nil {
		return nil, "", fmt.Errorf("hierarchy: scan %s: %w", path, scanErr)
	}

	var merged ParsingStats
	merged.BadOsmIDs = badOsmIDs
	var entries []Entry
	finalDict := NewNameDictionaryBuilder()
	// remap[w][pos] translates a worker-local Position to the shared dict's Position.
	for w := range partials {
		p := &partials[w]
		localDict := p.dict.Release()
		remap := make([]Position, localDict.Len()+1)
		for i := 1; i <= localDict.Len(); i++ {
			remap[i] = finalDict.Add(localDict.Get(Position(i)))
		}
		for i := range p.entries {
			e := &p.entries[i]
			for t := Country; t < TypeCount; t++ {
				if e.normalizedAddress[t] != UnspecifiedPosition {
					e.normalizedAddress[t] = remap[e.normalizedAddress[t]]
				}
			}
		}
		entries = append(entries, p.entries...)
		merged.NumLoaded += p.stats.NumLoaded
		merged.BadJSONs += p.stats.BadJSONs
		merged.BadOsmIDs += p.stats.BadOsmIDs
		merged.EmptyAddresses += p.stats.EmptyAddresses
		merged.EmptyNames += p.stats.EmptyNames
		merged.NoLocalityStreets += p.stats.NoLocalityStreets
		merged.NoLocalityBuildings += p.stats.NoLocalityBuildings
	}

	seen := make(map[Id]bool, len(entries))
	deduped := entries[:0]
	for _, e := range entries {
		if seen[e.OsmID] {
			merged.DuplicateOsmIDs++
			continue
		}
		seen[e.OsmID] = true
		deduped = append(deduped, e)
	}

	logger.Info("hierarchy loaded", "path", path, "stats", merged.String())

	return NewHierarchy(deduped, finalDict.Release(), merged), dataVersion, nil
}

func parseLine(line string) (Id, []byte, bool) {
	if len(line) < 17 || line[16] != ' ' {
		return 0, nil, false
	}
	raw, err := hex.DecodeString(line[:16])
	if err != nil {
		return 0, nil, false
	}
	var v uint64
	for _, b := range raw {
		v = v<<8 | uint64(b)
	}
	return geoid.Id(v), []byte(line[17:]), true
}

// FormatOsmIdHex renders id the way LoadFromJsonl expects to read it back:
// 16 lowercase hex digits, no prefix.
func FormatOsmIdHex(id Id) string {
	return fmt.Sprintf("%016x", uint64(id))
}
