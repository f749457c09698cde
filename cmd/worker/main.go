// Command worker runs the weekly menu pipeline on a cron schedule and serves
// health and Prometheus endpoints until it receives SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"weekly-menu/internal/app"
	"weekly-menu/internal/infra/worker"
	"weekly-menu/internal/observability/logging"
	"weekly-menu/internal/usecase/pipeline"
)

func main() {
	env, err := app.Init("worker")
	if err != nil {
		slog.Error("failed to initialise", slog.Any("error", err))
		os.Exit(1)
	}
	defer env.Close()
	logger := env.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// worker metrics live on their own registry; the default one carries the
	// process, config, completion and pipeline metrics
	registry := prometheus.NewRegistry()
	workerMetrics := worker.NewWorkerMetrics(registry)
	gatherers := prometheus.Gatherers{registry, prometheus.DefaultGatherer}

	cfg := worker.LoadConfigFromEnv(logger, workerMetrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Duration("pipeline_timeout", cfg.PipelineTimeout),
		slog.Int("health_port", cfg.HealthPort),
		slog.Int("metrics_port", cfg.MetricsPort))

	loc, err := cfg.Location()
	if err != nil {
		env.Fatal("invalid worker timezone", err)
	}

	runner, err := env.Runner(ctx, workerMetrics)
	if err != nil {
		env.Fatal("invalid configuration", err)
	}

	healthServer := worker.NewHealthServer(fmt.Sprintf(":%d", cfg.HealthPort), logger)
	metricsServer := worker.NewMetricsServer(fmt.Sprintf(":%d", cfg.MetricsPort), gatherers, logger)

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger{logger}),
		cron.WithChain(
			cron.Recover(cronLogger{logger}),
			cron.SkipIfStillRunning(cronLogger{logger}),
		),
	)
	if _, err := c.AddFunc(cfg.CronSchedule, func() {
		runJob(ctx, runner, cfg, healthServer)
	}); err != nil {
		env.Fatal("failed to schedule pipeline", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ignoreClosed(healthServer.Start(gctx)) })
	g.Go(func() error { return ignoreClosed(metricsServer.Start(gctx)) })
	g.Go(func() error {
		c.Start()
		healthServer.SetReady(true)
		next := c.Entries()[0].Next
		logger.Info("worker started",
			slog.String("schedule", cfg.CronSchedule),
			slog.String("timezone", loc.String()),
			slog.Time("next_run", next))

		<-gctx.Done()
		healthServer.SetReady(false)
		logger.Info("waiting for running pipeline to finish")
		<-c.Stop().Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		env.Fatal("worker stopped with error", err)
	}
	logger.Info("worker stopped")
}

// runJob executes one pipeline run bounded by the configured timeout.
func runJob(ctx context.Context, runner *pipeline.Runner, cfg *worker.WorkerConfig, health *worker.HealthServer) {
	jobCtx, cancel := context.WithTimeout(ctx, cfg.PipelineTimeout)
	defer cancel()

	report, err := runner.Run(jobCtx)

	info := worker.RunInfo{
		RunID:      report.RunID,
		Status:     pipeline.StatusSuccess,
		StartedAt:  report.StartedAt,
		FinishedAt: report.StartedAt.Add(report.Duration),
	}
	if err != nil {
		info.Status = pipeline.StatusFailure
		info.Error = logging.SanitizeError(err)
	}
	health.RecordRun(info)
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	args := append([]any{slog.String("error", logging.SanitizeError(err))}, keysAndValues...)
	l.logger.Error("cron: "+msg, args...)
}

var _ cron.Logger = cronLogger{}
