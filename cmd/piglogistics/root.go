package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"pig-logistics/internal/config"
	"pig-logistics/internal/dataset"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "piglogistics",
	Short: "Daily pig collection metrics and route map",
	Long: `piglogistics loads a pig collection simulation (farms and daily truck trips),
aggregates per-day logistics metrics and serves them as an interactive map scene
over HTTP and WebSocket. It can also write Markdown, CSV and Parquet reports and
copy a dataset into Postgres or SQLite.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./piglogistics.yaml or $HOME/piglogistics.yaml)")
	flags.String("dataset", "", "dataset location: path, file://, s3://, postgres:// or sqlite://")
	flags.Int("max-day", 0, "last selectable day")
	flags.Float64("truck-capacity-kg", 0, "per-trip capacity used for utilization")
	flags.Float64("carcass-yield", 0, "live to carcass weight ratio")
	flags.String("s3-region", "", "AWS region for s3:// locations")

	bindFlags(flags, map[string]string{
		"dataset":           "dataset",
		"max_day":           "max-day",
		"truck_capacity_kg": "truck-capacity-kg",
		"carcass_yield":     "carcass-yield",
		"s3.region":         "s3-region",
	})
}

// bindFlags binds config keys to flag names on the global viper instance.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(name)))
	}
}

func initConfig() error {
	if err := config.LoadDotEnv("."); err != nil {
		return err
	}

	loaded, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
	cfg = loaded
	return nil
}

func newLogger(component string) *log.Logger {
	return log.New(os.Stdout, "["+component+"] ", log.LstdFlags|log.Lshortfile)
}

func openOptions(logger *log.Logger) dataset.OpenOptions {
	return dataset.OpenOptions{S3Region: cfg.S3.Region, Logger: logger}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
