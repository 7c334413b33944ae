package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/royalcat/geocore/geocoder"
	"github.com/royalcat/geocore/hierarchy"
	"github.com/royalcat/geocore/reversegeo"
	"github.com/royalcat/geocore/server"
	"github.com/urfave/cli/v3"
)

func serve(ctx *cli.Context) error {
	slog.Info("loading reverse geocoder cache", "points", ctx.String("points"))
	rgeo, err := reversegeo.LoadGeoCoderFromFile(ctx.String("points"))
	if err != nil {
		return fmt.Errorf("loading points cache: %w", err)
	}

	return server.Run(ctx.Context, ctx.String("listen"), rgeo, nil)
}

func serveGeocoder(ctx *cli.Context) error {
	geo, err := loadGeocoder(ctx.String("hierarchy"))
	if err != nil {
		return err
	}

	var rgeo *reversegeo.RGeoCoder
	if points := ctx.String("points"); points != "" {
		rgeo, err = reversegeo.LoadGeoCoderFromFile(points)
		if err != nil {
			return fmt.Errorf("loading points cache: %w", err)
		}
	}

	return server.Run(ctx.Context, ctx.String("listen"), rgeo, geo)
}

func geocode(ctx *cli.Context) error {
	geo, err := loadGeocoder(ctx.String("hierarchy"))
	if err != nil {
		return err
	}

	query := strings.Join(ctx.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("geocode: a query is required")
	}

	results := geo.ProcessQuery(query)
	out := make([]map[string]any, len(results))
	for i, r := range results {
		out[i] = map[string]any{
			"osm_id":    hierarchy.FormatOsmIdHex(r.OsmID),
			"certainty": r.Certainty,
		}
	}

	body, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}

func loadGeocoder(path string) (*geocoder.Geocoder, error) {
	log := slog.Default()
	slog.Info("loading hierarchy", "path", path)
	h, _, err := hierarchy.LoadFromJsonl(path, hierarchy.DefaultLoadConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("loading hierarchy: %w", err)
	}
	idx := hierarchy.BuildTokenIndex(h)
	return geocoder.New(h, idx, log), nil
}
