package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pig-logistics/internal/dataset"
)

var importTarget string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the dataset into a postgres:// or sqlite:// store",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&importTarget, "target", "", "postgres:// DSN or sqlite://path to write to")
	_ = importCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger("import")

	ds, err := dataset.Open(ctx, cfg.Dataset, openOptions(logger))
	if err != nil {
		return err
	}

	w, cleanup, err := dataset.ResolveWriter(ctx, importTarget)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := w.Save(ctx, ds); err != nil {
		return fmt.Errorf("import dataset: %w", err)
	}
	logger.Printf("Imported %d farms and %d activity rows", len(ds.Farms), len(ds.Activity))
	return nil
}
