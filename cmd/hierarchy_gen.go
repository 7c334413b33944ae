package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/royalcat/geocore/feature"
	"github.com/royalcat/geocore/hierarchy"
	"github.com/royalcat/geocore/osmsource"
	"github.com/royalcat/geocore/streets"
	"github.com/royalcat/geocore/translator"
	"github.com/urfave/cli/v3"
)

// openOSMSource opens path for scanning and wires up a byte-progress bar
// against its size. The returned cleanup stops the bar, closes the source,
// and closes the underlying file; callers must defer it.
func openOSMSource(ctx context.Context, path string, threads int) (src osmsource.Source, cleanup func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	reader, stopBar := scanProgress(f, path, stat.Size())

	if strings.HasSuffix(path, ".pbf") {
		src = osmsource.NewPBFSource(ctx, reader, threads, 0, 1)
	} else {
		src = osmsource.NewXMLSource(reader, 0, 1)
	}

	return src, func() error {
		stopBar()
		src.Close()
		return f.Close()
	}, nil
}

func generateHierarchy(ctx *cli.Context) error {
	log := slog.Default()

	input := ctx.String("input")
	output := ctx.String("output")
	workers := ctx.Int("workers")
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	src, cleanup, err := openOSMSource(ctx.Context, input, workers)
	if err != nil {
		return fmt.Errorf("opening osm source: %w", err)
	}
	defer cleanup()

	regionsColl := newRegionCollector()
	streetsPipe := translator.NewPipeline(translator.NewStreetsTranslator(), workers)
	objectsPipe := translator.NewPipeline(translator.NewGeoObjectsTranslator(), workers)

	log.Info("scanning osm source", "input", input, "workers", workers)
	if err := runResolved(src, func(el translator.Element) {
		regionsColl.consider(el)
		streetsPipe.Submit(el)
		objectsPipe.Submit(el)
	}); err != nil {
		return err
	}

	streetFeatures := streetsPipe.WaitAndMerge()
	objectFeatures := objectsPipe.WaitAndMerge()
	log.Info("scan complete",
		"regions", len(regionsColl.areas),
		"labels", len(regionsColl.labels),
		"street features", len(streetFeatures),
		"object features", len(objectFeatures),
	)

	tree, roots := regionsColl.Build()

	coverPath := output + ".cover"
	regionIndex, err := buildRegionCoverIndex(coverPath, regionCoverItems(roots))
	if err != nil {
		return fmt.Errorf("building region cover index: %w", err)
	}
	log.Info("region cover index built", "path", coverPath)
	lookup := &indexedRegionLookup{tree: tree, idx: regionIndex}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()

	if err := hierarchy.WriteVersionLine(out, "1"); err != nil {
		return err
	}

	if err := writeRegionDocuments(out, roots); err != nil {
		return fmt.Errorf("writing region documents: %w", err)
	}

	builder := streets.NewBuilder(lookup, workers)
	for _, f := range streetFeatures {
		if h, ok := highwayFromFeature(f); ok {
			builder.Assembly(h)
		}
	}
	for _, f := range objectFeatures {
		if obj, ok := addressedObjectFromFeature(f); ok {
			builder.Binding(obj)
		}
	}
	streetList := builder.Aggregation()
	log.Info("assembled streets", "count", len(streetList))

	if err := streets.Emit(out, streetList, func(regionID uint64) map[string]string {
		return regionAddressByID(tree, regionID)
	}); err != nil {
		return fmt.Errorf("emitting streets: %w", err)
	}

	if err := writeGeoObjectDocuments(out, lookup, objectFeatures); err != nil {
		return fmt.Errorf("writing geo-object documents: %w", err)
	}

	log.Info("hierarchy generation complete", "output", output)
	return nil
}

func highwayFromFeature(f feature.Feature) (streets.Highway, bool) {
	switch f.Geom.Type {
	case feature.Line:
		return streets.Highway{ID: f.OsmID, Names: f.Names, Line: f.Geom.Line}, true
	case feature.Area:
		if len(f.Geom.Polygon) == 0 {
			return streets.Highway{}, false
		}
		return streets.Highway{ID: f.OsmID, Names: f.Names, Polygon: f.Geom.Polygon[0]}, true
	default:
		return streets.Highway{}, false
	}
}

func addressedObjectFromFeature(f feature.Feature) (streets.AddressedObject, bool) {
	if f.Street == "" {
		return streets.AddressedObject{}, false
	}
	switch f.Geom.Type {
	case feature.Point:
		return streets.AddressedObject{Point: f.Geom.Point, Street: f.Street}, true
	case feature.Area, feature.Line:
		return streets.AddressedObject{Point: f.Bound().Center(), Street: f.Street}, true
	default:
		return streets.AddressedObject{}, false
	}
}
