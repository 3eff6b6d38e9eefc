package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/race-scorer/internal/cache"
	"github.com/yourusername/race-scorer/internal/config"
	"github.com/yourusername/race-scorer/internal/database"
	"github.com/yourusername/race-scorer/internal/logger"
	"github.com/yourusername/race-scorer/internal/repository"
	"github.com/yourusername/race-scorer/internal/scoring"
	"github.com/yourusername/race-scorer/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
	engine     *service.Engine
	batch      *service.BatchScorer
	curation   *service.CurationService

	redisClient *redis.Client
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	rootCmd.AddCommand(raceCmd, batchCmd, rgsCmd, curateCmd, factorsCmd, daemonCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "race-scorer",
	Short: "Score race fields from historical factor profitability",
	Long: `Ranks the runners of a race by combining bias-corrected historical return
rates of 31 handicapping factors into one bounded composite score.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[offlineAnnotation] == "true" {
			return nil
		}
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if redisClient != nil {
			redisClient.Close()
		}
		if db != nil {
			db.Close()
		}
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, loaded, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(loaded); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := config.ValidateEnvironment(loaded); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(logger.Options{
		Level:       cfg.App.LogLevel,
		Environment: cfg.App.Environment,
		Service:     cfg.App.Name,
	})

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return err
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	repos = repos.
		WithObservationRateLimit(cfg.Batch.QueryRatePerSecond, cfg.Batch.QueryBurst).
		WithObservationBreaker(cfg.Batch.BreakerFailures, cfg.BreakerTimeout(), appLog)

	var opts []scoring.EngineOption
	if cfg.Cache.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			appLog.WithError(err).Warn("Shared statistic cache unavailable, continuing without it")
		} else {
			redisClient = client
			opts = append(opts, scoring.WithSharedStore(
				cache.NewRedisStatisticStore(client, cfg.Cache.RedisPrefix, cfg.CacheTTL())))
		}
	}

	engine, err = service.NewEngine(cfg, repos.Observation, appLog, opts...)
	if err != nil {
		return err
	}

	batch = service.NewBatchScorer(repos.Race, repos.Runner, engine.Race, cfg.Batch.Workers, appLog)
	curation = service.NewCurationService(repos.Observation, engine.Absolute, engine.Catalog, engine.Tables.Years, appLog)

	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"first_year":  cfg.Scoring.FirstYear,
		"last_year":   cfg.Scoring.LastYear,
	}).Debug("Race scorer initialized")
	return nil
}
