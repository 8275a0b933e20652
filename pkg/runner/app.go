package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockETL/internal/usecase"
	"StockETL/pkg/config"
	applogger "StockETL/pkg/logger"
	"StockETL/pkg/metrics"
)

const pushTimeout = 10 * time.Second

// App encapsulates one job invocation.
type App struct {
	cfg      *config.Config
	pipeline *usecase.Pipeline
	recorder *metrics.Recorder
	l        *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, pipeline *usecase.Pipeline, recorder *metrics.Recorder, l *applogger.Logger) *App {
	if l == nil {
		l = applogger.NewNop()
	}
	return &App{cfg: cfg, pipeline: pipeline, recorder: recorder, l: l}
}

// Run executes the pipeline once. SIGINT and SIGTERM cancel in-flight I/O.
func (a *App) Run(ctx context.Context) (*usecase.RunReport, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	report, err := a.pipeline.Run(ctx)
	fields := []applogger.Field{
		applogger.String("ticker", report.Ticker),
		applogger.Int("extracted", report.Extracted),
		applogger.Int("transformed", report.Transformed),
		applogger.Duration("elapsed", time.Since(start)),
	}
	if report.Load != nil {
		fields = append(fields,
			applogger.Int("loaded", report.Load.Rows),
			applogger.Bool("compute_already_active", report.Load.ComputeAlreadyActive),
		)
	}
	if err != nil {
		a.l.Error("job failed", append(fields, applogger.Error(err))...)
	} else {
		a.l.Info("job complete", fields...)
	}

	a.pushMetrics(report.Ticker)
	return report, err
}

// pushMetrics is best-effort; a failed push never changes the job outcome.
func (a *App) pushMetrics(ticker string) {
	if a.recorder == nil || !a.cfg.Metrics.Enabled || a.cfg.Metrics.PushgatewayURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()
	if err := a.recorder.Push(ctx, a.cfg.Metrics.PushgatewayURL, a.cfg.Metrics.Job, ticker); err != nil {
		a.l.Warn("metrics push failed", applogger.Error(err))
		return
	}
	a.l.Debug("metrics pushed", applogger.String("gateway", a.cfg.Metrics.PushgatewayURL))
}
