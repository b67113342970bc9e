package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pig-logistics/internal/dataset"
	"pig-logistics/internal/publish"
	"pig-logistics/internal/server"
	"pig-logistics/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the day selector, scene API and WebSocket push",
	RunE:  runServe,
}

func init() {
	flags := serveCmd.Flags()
	flags.String("listen-addr", "", "HTTP listen address")
	flags.Bool("ready-on-start", true, "open the readiness gate as soon as the server starts")
	flags.StringSlice("allowed-origins", nil, "CORS and WebSocket allowed origins")
	flags.String("snapshot-mode", "", "farm snapshot mode: random, demand or fixed")
	flags.Int64("snapshot-seed", 0, "random snapshot seed (0 uses the clock)")
	flags.Bool("kafka-enabled", false, "publish a scene event per recompute to Kafka")
	flags.StringSlice("kafka-brokers", nil, "Kafka broker list")
	flags.String("kafka-topic", "", "Kafka topic for scene events")

	bindFlags(flags, map[string]string{
		"listen_addr":          "listen-addr",
		"ready_on_start":       "ready-on-start",
		"cors.allowed_origins": "allowed-origins",
		"snapshot.mode":        "snapshot-mode",
		"snapshot.seed":        "snapshot-seed",
		"kafka.enabled":        "kafka-enabled",
		"kafka.brokers":        "kafka-brokers",
		"kafka.topic":          "kafka-topic",
	})
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := newLogger("server")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()

		sig, ok = <-sigCh
		if !ok {
			return
		}
		logger.Printf("Received second signal %v, forcing exit", sig)
		os.Exit(1)
	}()

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

	srv := server.New(sess, server.Options{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
	})

	if cfg.Kafka.Enabled {
		pub, err := publish.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			srv.Close()
			return err
		}
		defer func() {
			if err := pub.Close(); err != nil {
				logger.Printf("close kafka producer: %v", err)
			}
		}()
		detach := pub.Attach(sess)
		defer detach()
		logger.Printf("Publishing scene events to %s on %v", cfg.Kafka.Topic, cfg.Kafka.Brokers)
	}

	if cfg.ReadyOnStart {
		sess.MarkReady()
	} else {
		logger.Println("Waiting for POST /api/session/ready before pushing scenes")
	}

	return srv.Run(ctx, cfg.ListenAddr)
}
