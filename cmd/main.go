package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v3"
	_ "go.uber.org/automaxprocs"
)

func main() {
	app := &cli.App{
		Name:        "geocore",
		Usage:       "OSM-backed forward and reverse geocoding",
		Description: "Builds and serves region/street/geo-object hierarchies and reverse-geocode point caches from OSM extracts",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "serve the reverse-geocode API backed by a generated point cache",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "points", Aliases: []string{"p"}, Required: true, TakesFile: true},
					&cli.StringFlag{Name: "listen", Value: ":8080"},
				},
				Action: serve,
			},
			{
				Name:    "generate",
				Aliases: []string{"g"},
				Usage:   "builds a reverse-geocode point cache from one or more osm extracts",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "points", Aliases: []string{"p"}, Required: true, TakesFile: true},
					&cli.StringSliceFlag{Name: "input", Aliases: []string{"i"}, Required: true, TakesFile: true},
					&cli.IntFlag{Name: "threads", Aliases: []string{"t"}, DefaultText: "max"},
				},
				Action: generatePoints,
			},
			{
				Name:  "generate-hierarchy",
				Usage: "builds a region/street/geo-object hierarchy jsonl file from an osm extract",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, TakesFile: true},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, TakesFile: true},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, DefaultText: "max"},
				},
				Action: generateHierarchy,
			},
			{
				Name:  "serve-geocoder",
				Usage: "serve the forward-geocode API backed by a generated hierarchy",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "hierarchy", Aliases: []string{"H"}, Required: true, TakesFile: true},
					&cli.StringFlag{Name: "points", Aliases: []string{"p"}, TakesFile: true},
					&cli.StringFlag{Name: "listen", Value: ":8080"},
				},
				Action: serveGeocoder,
			},
			{
				Name:      "geocode",
				Usage:     "resolve a single free-text query against a generated hierarchy",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "hierarchy", Aliases: []string{"H"}, Required: true, TakesFile: true},
				},
				Action: geocode,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
