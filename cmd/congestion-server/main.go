package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/wardroplab/congestion-sim/pkg/api"
	"github.com/wardroplab/congestion-sim/pkg/config"
	"github.com/wardroplab/congestion-sim/pkg/engine"
	"github.com/wardroplab/congestion-sim/pkg/logging"
	"github.com/wardroplab/congestion-sim/pkg/metrics"
	"github.com/wardroplab/congestion-sim/pkg/server"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	port := flag.Int("port", 0, "Override listen port")
	workers := flag.Int("workers", 0, "Override solver worker count")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *workers != 0 {
		cfg.Solver.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Logging.Level))
	registry := metrics.NewRegistry()

	eng := engine.New(
		engine.WithLogger(logger.With(logging.Component("engine"))),
		engine.WithMetrics(registry),
		engine.WithSolverLimits(cfg.Solver.MaxIterations, cfg.Solver.Tolerance),
		engine.WithLineSearchTolerance(cfg.Solver.LineSearchTolerance),
		engine.WithWorkers(cfg.Solver.Workers),
	)

	srv := api.NewServer(eng, logger, registry)

	gs := server.NewGracefulServer(server.Options{
		Addr:            fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:         srv.Router(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger.With(logging.Component("server")),
	})

	logger.Info("congestion game simulator starting",
		logging.Int("port", cfg.Server.Port),
		logging.Int("workers", cfg.Solver.Workers))

	if err := gs.Start(); err != nil {
		logger.Error("server failed", logging.Error(err))
		os.Exit(1)
	}
}
