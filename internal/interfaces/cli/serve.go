package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/helix-insights/madison/internal/application/intelligence"
	"github.com/helix-insights/madison/internal/config"
	"github.com/helix-insights/madison/internal/infrastructure/database/redis"
	"github.com/helix-insights/madison/internal/infrastructure/messaging/kafka"
	"github.com/helix-insights/madison/internal/infrastructure/monitoring/logging"
	"github.com/helix-insights/madison/internal/infrastructure/monitoring/prometheus"
	"github.com/helix-insights/madison/internal/infrastructure/providers/clinicaltrials"
	"github.com/helix-insights/madison/internal/infrastructure/providers/fda"
	httpiface "github.com/helix-insights/madison/internal/interfaces/http"
	"github.com/helix-insights/madison/internal/interfaces/http/handlers"
)

func newServeCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the intelligence API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			if root.ConfigPath != "" {
				config.Watch(root.ConfigPath, func(_ *config.Config) {
					log.Info("configuration file changed, restart to apply",
						logging.String("path", root.ConfigPath))
				})
			}
			return Serve(cmd.Context(), cfg, log)
		},
	}
}

// Serve assembles every component and blocks until ctx is cancelled or a
// termination signal arrives.
func Serve(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := prometheus.NewMetrics()

	fdaClient := fda.NewClient(cfg.Providers.FDA, log)
	trialsClient := clinicaltrials.NewClient(cfg.Providers.ClinicalTrials, log)

	opts := []intelligence.Option{intelligence.WithMetrics(metrics)}
	checks := map[string]handlers.Pinger{}

	if cfg.Redis.Enabled {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := redis.NewClient(connectCtx, cfg.Redis, log)
		cancel()
		if err != nil {
			log.Warn("cache unavailable, fetching live", logging.Err(err))
		} else {
			defer client.Close()
			client.StartHealthLoop(ctx)
			cache := redis.NewRedisCache(client, log,
				redis.WithPrefix(cfg.Redis.KeyPrefix),
				redis.WithDefaultTTL(cfg.Redis.DefaultTTL))
			opts = append(opts, intelligence.WithCache(cache, cfg.Providers.CacheTTL))
			checks["redis"] = client
		}
	}

	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("alert publishing disabled", logging.Err(err))
		} else {
			defer producer.Close()
			opts = append(opts, intelligence.WithPublisher(producer))
		}
	}

	service := intelligence.NewService(fdaClient, trialsClient, cfg.Analysis, log, opts...)

	router := httpiface.NewRouter(cfg.Server.Mode, httpiface.RouterDeps{
		Service:         service,
		Logger:          log,
		Metrics:         metrics,
		Version:         Version,
		ReadinessChecks: checks,
	})
	server := httpiface.NewServer(cfg.Server, router, log)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")
	if err := server.Stop(context.Background()); err != nil {
		return err
	}
	return nil
}
