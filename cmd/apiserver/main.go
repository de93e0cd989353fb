// API server entry point for the Madison intelligence engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/helix-insights/madison/internal/config"
	"github.com/helix-insights/madison/internal/infrastructure/monitoring/logging"
	"github.com/helix-insights/madison/internal/interfaces/cli"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	log, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(log)
	log.Info("starting madison api server",
		logging.String("version", cli.Version),
		logging.Int("port", cfg.Server.Port))

	if err := cli.Serve(context.Background(), cfg, log); err != nil {
		log.Error("server exited", logging.Err(err))
		os.Exit(1)
	}
}
