package main

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/royalcat/geocore/cachesaver"
	"github.com/royalcat/geocore/feature"
	"github.com/royalcat/geocore/geomodel"
	"github.com/royalcat/geocore/hierarchy"
	"github.com/royalcat/geocore/kdbush"
	"github.com/royalcat/geocore/regions"
	"github.com/royalcat/geocore/translator"
	"github.com/sourcegraph/conc/pool"
	"github.com/urfave/cli/v3"
)

// generatePoints builds a reverse-geocode point cache from one or more osm
// extracts: every addressed building/POI becomes one point, with City and
// Region filled from the region tree the same scan assembles.
func generatePoints(ctx *cli.Context) error {
	log := slog.Default()

	inputs := ctx.StringSlice("input")
	if len(inputs) == 0 {
		return fmt.Errorf("generate: at least one --input is required")
	}
	output := ctx.String("points")
	if !strings.HasSuffix(output, ".rgc") {
		output += ".rgc"
	}
	workers := ctx.Int("threads")
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	regionsColl := newRegionCollector()
	objectsPipe := translator.NewPipeline(translator.NewGeoObjectsTranslator(), workers)

	// Each input file gets its own resolver (node/way caches don't cross
	// file boundaries anyway), so scanning multiple extracts fans out
	// across a worker pool rather than running them one at a time.
	p := pool.New().WithErrors().WithMaxGoroutines(workers)
	for _, input := range inputs {
		input := input
		p.Go(func() error {
			src, cleanup, err := openOSMSource(ctx.Context, input, 1)
			if err != nil {
				return fmt.Errorf("opening %s: %w", input, err)
			}
			defer cleanup()

			log.Info("scanning input", "file", input)
			return runResolved(src, func(el translator.Element) {
				regionsColl.consider(el)
				objectsPipe.Submit(el)
			})
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}

	features := objectsPipe.WaitAndMerge()
	tree, roots := regionsColl.Build()
	log.Info("scan complete", "object features", len(features))

	regionIndex, err := buildRegionCoverIndex(output+".cover", regionCoverItems(roots))
	if err != nil {
		return fmt.Errorf("building region cover index: %w", err)
	}
	lookup := &indexedRegionLookup{tree: tree, idx: regionIndex}

	points := make([]kdbush.Point[geomodel.Info], 0, len(features))
	for _, f := range features {
		if f.House == "" {
			continue
		}

		var pt [2]float64
		switch f.Geom.Type {
		case feature.Point:
			pt = [2]float64(f.Geom.Point)
		default:
			pt = [2]float64(f.Bound().Center())
		}

		region := lookup.StreetAdministeringRegion(orb.Point(pt))
		info := geomodel.Info{
			Name:        f.Names["default"],
			Street:      f.Street,
			HouseNumber: f.House,
		}
		if region != nil {
			info.City = regionAncestorName(region, hierarchy.Locality)
			info.Region = regionAncestorName(region, hierarchy.Region)
		}

		points = append(points, kdbush.Point[geomodel.Info]{X: pt[0], Y: pt[1], Data: info})
	}
	log.Info("addressed points collected", "count", len(points))

	out, err := createTruncated(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	defer out.Close()

	meta := cachesaver.Metadata{Version: 1, Locale: "default", DateCreated: time.Now()}
	if err := cachesaver.Save(points, meta, out); err != nil {
		return fmt.Errorf("saving points: %w", err)
	}

	log.Info("generation complete", "output", output)
	return nil
}

// regionAncestorName returns the name of r's ancestor (inclusive) at level,
// or "" if none is found.
func regionAncestorName(r *regions.Region, level hierarchy.Type) string {
	for cur := r; cur != nil; cur = cur.Parent {
		if cur.Level == level {
			return cur.Name
		}
	}
	return ""
}
