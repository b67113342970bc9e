package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/spf13/cobra"

	"pig-logistics/internal/dataset"
	"pig-logistics/internal/scene"
	"pig-logistics/internal/session"
)

var (
	sceneDay     int
	sceneGeoJSON bool
)

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Print the scene for one day as JSON",
	RunE:  runScene,
}

func init() {
	flags := sceneCmd.Flags()
	flags.IntVar(&sceneDay, "day", 1, "day to render")
	flags.BoolVar(&sceneGeoJSON, "geojson", false, "print a GeoJSON FeatureCollection instead of the scene")
	flags.String("snapshot-mode", "", "farm snapshot mode: random, demand or fixed")
	rootCmd.AddCommand(sceneCmd)
}

func runScene(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := log.New(os.Stderr, "[scene] ", log.LstdFlags|log.Lshortfile)

	if mode, _ := cmd.Flags().GetString("snapshot-mode"); mode != "" {
		cfg.Snapshot.Mode = mode
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ds, err := dataset.Open(ctx, cfg.Dataset, openOptions(logger))
	if err != nil {
		return err
	}

	sess := session.New(ds, session.Options{
		Params:    cfg.SceneParams(),
		MaxDay:    cfg.MaxDay,
		Generator: cfg.SnapshotGenerator(ds),
		Logger:    logger,
	})
	sess.MarkReady()

	sc, err := sess.SceneFor(sceneDay)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if sceneGeoJSON {
		return enc.Encode(scene.ToGeoJSON(sc))
	}
	return enc.Encode(sc)
}
