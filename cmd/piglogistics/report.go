package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"pig-logistics/internal/dataset"
	"pig-logistics/internal/observability"
	"pig-logistics/internal/reporting"
	"pig-logistics/internal/storage/memory"
	"pig-logistics/internal/storage/s3store"
)

var (
	reportOutputDir string
	reportFirstDay  int
	reportLastDay   int
	reportFormats   []string
	reportUpload    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write per-day metrics reports (markdown, csv, parquet)",
	RunE:  runReport,
}

func init() {
	flags := reportCmd.Flags()
	flags.StringVar(&reportOutputDir, "output-dir", "reports", "output directory for generated files")
	flags.IntVar(&reportFirstDay, "first-day", 1, "first day of the report")
	flags.IntVar(&reportLastDay, "last-day", 0, "last day of the report (default max-day)")
	flags.StringSliceVar(&reportFormats, "format", []string{"markdown", "csv", "parquet"}, "formats to write")
	flags.StringVar(&reportUpload, "upload", "", "s3://bucket/prefix to copy the written files to")
	rootCmd.AddCommand(reportCmd)
}

var reportFiles = map[string]string{
	"markdown": "REPORT.md",
	"csv":      "daily_metrics.csv",
	"parquet":  "daily_metrics.parquet",
}

var contentTypes = map[string]string{
	"markdown": "text/markdown; charset=utf-8",
	"csv":      "text/csv; charset=utf-8",
	"parquet":  "application/vnd.apache.parquet",
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger("report")

	for _, format := range reportFormats {
		if _, ok := reportFiles[format]; !ok {
			return fmt.Errorf("unknown report format %q", format)
		}
	}

	lastDay := reportLastDay
	if lastDay == 0 {
		lastDay = cfg.MaxDay
	}

	ds, err := dataset.Open(ctx, cfg.Dataset, openOptions(logger))
	if err != nil {
		return err
	}
	store := memory.NewDatasetStoreFrom(ds)

	bar := progressbar.NewOptions(max(lastDay-reportFirstDay+1, 0),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("aggregating days"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	gen := reporting.NewGenerator(store, store).
		WithFacility(cfg.Facility(), cfg.CarcassYield).
		WithCapacity(cfg.TruckCapacityKg).
		WithTruckCapacities(cfg.TypeCapacities()).
		WithProgress(func(int) { _ = bar.Add(1) })

	report, err := gen.Generate(ctx, reportFirstDay, lastDay)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	_ = bar.Finish()

	if err := os.MkdirAll(reportOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	written := make(map[string]string, len(reportFormats))
	for _, format := range reportFormats {
		path := filepath.Join(reportOutputDir, reportFiles[format])
		if err := writeReport(format, path, report); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		observability.RecordReportGenerated(format)
		written[format] = path
		logger.Printf("Wrote %s", path)
	}

	if !report.DataQuality.Clean() {
		logger.Printf("Data quality: %d placeholder rows, %d dropped stop references, %d integrity errors",
			report.DataQuality.PlaceholderRows, len(report.DataQuality.DroppedStops), len(report.DataQuality.IntegrityErrors))
	}

	if reportUpload == "" {
		return nil
	}
	return uploadReports(ctx, logger, written)
}

func writeReport(format, path string, report *reporting.Report) error {
	switch format {
	case "markdown":
		return os.WriteFile(path, []byte(reporting.RenderMarkdown(report)), 0o644)
	case "csv":
		return os.WriteFile(path, []byte(reporting.RenderCSV(report.Days)), 0o644)
	case "parquet":
		return reporting.WriteParquet(path, report.Days)
	}
	return fmt.Errorf("unknown report format %q", format)
}

func uploadReports(ctx context.Context, logger *log.Logger, written map[string]string) error {
	loc, err := s3store.ParseURI(reportUpload)
	if err != nil {
		return err
	}
	objects, err := s3store.NewObjectStoreFromEnv(ctx, cfg.S3.Region)
	if err != nil {
		return err
	}

	for format, path := range written {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		target := loc.Join(filepath.Base(path))
		if err := objects.Put(ctx, target, data, contentTypes[format]); err != nil {
			return err
		}
		logger.Printf("Uploaded %s", target)
	}
	return nil
}
