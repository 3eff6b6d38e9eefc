package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/race-scorer/internal/factor"
	"github.com/yourusername/race-scorer/internal/health"
	"github.com/yourusername/race-scorer/internal/metrics"
	"github.com/yourusername/race-scorer/internal/repository"
	"github.com/yourusername/race-scorer/internal/scheduler"
	"github.com/yourusername/race-scorer/internal/service"
)

const dateLayout = "2006-01-02"

var (
	showBreakdown bool
	fromDate      string
	toDate        string
	minSamples    int
)

func init() {
	raceCmd.Flags().BoolVar(&showBreakdown, "breakdown", false, "Print the per-factor breakdown of every runner")

	batchCmd.Flags().StringVar(&fromDate, "from", "", "First race date (YYYY-MM-DD)")
	batchCmd.Flags().StringVar(&toDate, "to", "", "Last race date (YYYY-MM-DD), defaults to --from")
	_ = batchCmd.MarkFlagRequired("from")

	curateCmd.Flags().IntVar(&minSamples, "min-samples", 30, "Drop values with fewer win and place samples combined")
}

// offlineAnnotation marks commands that run without configuration or a data store
const offlineAnnotation = "offline"

var offline = map[string]string{offlineAnnotation: "true"}

var raceCmd = &cobra.Command{
	Use:   "race <race-id>",
	Short: "Score and rank the runners of one race",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raceID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid race id %q: %w", args[0], err)
		}

		result, err := batch.ScoreRaceByID(cmd.Context(), raceID)
		if err != nil {
			return err
		}

		printRaceScore(cmd.OutOrStdout(), result, engine.Catalog.Len())
		if showBreakdown {
			printBreakdown(cmd.OutOrStdout(), result)
		}
		return nil
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score every race in a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := time.Parse(dateLayout, fromDate)
		if err != nil {
			return fmt.Errorf("invalid --from date: %w", err)
		}
		end := start
		if toDate != "" {
			if end, err = time.Parse(dateLayout, toDate); err != nil {
				return fmt.Errorf("invalid --to date: %w", err)
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := batch.ScoreDateRange(ctx, start, end, service.TriggerManual)
		if err != nil {
			return err
		}

		printBatchReport(cmd.OutOrStdout(), report)
		return nil
	},
}

var rgsCmd = &cobra.Command{
	Use:   "rgs <venue> <factor-id> <value>",
	Short: "Score the absolute profitability of one factor value",
	Long: `Scores one factor value at a venue without reference to a race.
Combined factor values are written as two parts joined by '|', e.g. J001|T042.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := engine.Absolute.ScoreFactorAbsolute(cmd.Context(), args[0], args[1], factor.ParseKey(args[2]))
		if err != nil {
			return err
		}
		printAbsoluteScore(cmd.OutOrStdout(), score)
		return nil
	},
}

var curateCmd = &cobra.Command{
	Use:   "curate <venue> <factor-id>",
	Short: "Rank every observed value of a factor at a venue by absolute profitability",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := curation.CurateFactor(cmd.Context(), args[0], args[1], minSamples)
		if err != nil {
			return err
		}
		printCurationReport(cmd.OutOrStdout(), report)
		return nil
	},
}

var factorsCmd = &cobra.Command{
	Use:         "factors",
	Short:       "List the factor catalog",
	Args:        cobra.NoArgs,
	Annotations: offline,
	Run: func(cmd *cobra.Command, args []string) {
		printCatalog(cmd.OutOrStdout(), factor.Default())
	},
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print build information",
	Args:        cobra.NoArgs,
	Annotations: offline,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "race-scorer %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Score each day's races on a schedule and serve health and metrics endpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd.Context())
	},
}

func runDaemon(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sched := scheduler.NewScheduler(batch, appLog)
	if err := sched.ScheduleDailyScoring(cfg.Batch.Schedule); err != nil {
		return err
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		metricsPath = cfg.Metrics.Path
	}
	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        strconv.Itoa(cfg.Metrics.Port),
		MetricsPath: metricsPath,
		Logger:      appLog,
		DB:          db,
		Jobs:        sched,
		Cache:       engine.Cache,
	}
	if guarded, ok := repos.Observation.(*repository.BreakerObservationRepository); ok {
		healthCfg.Breaker = guarded
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	if err := sched.Start(); err != nil {
		return err
	}
	healthServer.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"schedule": cfg.Batch.Schedule,
		"next_run": sched.GetNextRun().Format(time.RFC3339),
		"workers":  cfg.Batch.Workers,
	}).Info("Race scorer daemon running")

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig).Info("Shutdown signal received")
	case <-ctx.Done():
	}

	healthServer.SetReady(false)
	sched.Stop()
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error during health server shutdown")
	}

	appLog.Info("Race scorer daemon shut down")
	return nil
}
