package di

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/google/uuid"

	"StockETL/internal/domain/repository"
	internalrepo "StockETL/internal/repository"
	"StockETL/internal/service/yahoo"
	"StockETL/internal/usecase"
	pkgch "StockETL/pkg/clickhouse"
	"StockETL/pkg/config"
	xhttp "StockETL/pkg/http"
	applogger "StockETL/pkg/logger"
	"StockETL/pkg/metrics"
	"StockETL/pkg/runner"
	pkgsf "StockETL/pkg/snowflake"
	pkgsqlite "StockETL/pkg/sqlite"
)

// RunID identifies one job invocation in logs and reports.
type RunID string

// ProvideRunID generates a fresh run id.
func ProvideRunID() RunID {
	return RunID(uuid.NewString())
}

// ProvideLogger creates the job logger with the run id bound to every event.
func ProvideLogger(cfg *config.Config, id RunID) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(
		applogger.String("run_id", string(id)),
		applogger.String("env", cfg.Environment),
	), nil
}

// ProvideMetricsRecorder creates a Prometheus metrics recorder.
func ProvideMetricsRecorder() *metrics.Recorder {
	return metrics.New()
}

// ProvideMetrics exposes the recorder through the domain interface.
func ProvideMetrics(r *metrics.Recorder) repository.Metrics {
	return r
}

// ProvideMarketSource creates the Yahoo chart client.
func ProvideMarketSource(cfg *config.Config) repository.MarketSource {
	return yahoo.New(cfg.Yahoo.BaseURL,
		xhttp.WithTimeout(cfg.Yahoo.Timeout),
		xhttp.WithUserAgent(cfg.Yahoo.UserAgent),
	)
}

// ProvideOpener returns a connection factory for the configured driver.
// Nothing is dialed until the loader connects.
func ProvideOpener(cfg *config.Config) (internalrepo.Opener, error) {
	wh := cfg.Warehouse
	switch wh.Driver {
	case config.DriverSnowflake:
		sf := wh.Snowflake
		return func(ctx context.Context) (*sql.DB, error) {
			return pkgsf.Open(ctx,
				pkgsf.WithAccount(sf.Account),
				pkgsf.WithCredentials(sf.User, sf.Password),
				pkgsf.WithNamespace(sf.Database, sf.Schema),
				pkgsf.WithWarehouse(sf.Warehouse),
				pkgsf.WithRole(sf.Role),
				pkgsf.WithLoginTimeout(sf.LoginTimeout),
			)
		}, nil
	case config.DriverClickHouse:
		ch := wh.ClickHouse
		return func(ctx context.Context) (*sql.DB, error) {
			return pkgch.Open(ctx,
				pkgch.WithHost(ch.Host),
				pkgch.WithPort(ch.Port),
				pkgch.WithDatabase(ch.Database),
				pkgch.WithCredentials(ch.User, ch.Password),
				pkgch.WithHTTP(ch.UseHTTP),
				pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout),
				pkgch.WithMaxExecutionTime(ch.MaxExecutionTime),
			)
		}, nil
	case config.DriverSQLite:
		path := wh.SQLite.Path
		return func(ctx context.Context) (*sql.DB, error) {
			return pkgsqlite.Open(ctx, path)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported warehouse driver: %s", wh.Driver)
	}
}

// ProvideWarehouse creates the SQL warehouse for the configured driver.
func ProvideWarehouse(cfg *config.Config, open internalrepo.Opener, l *applogger.Logger) (repository.Warehouse, error) {
	dialect, err := internalrepo.DialectFor(cfg.Warehouse.Driver)
	if err != nil {
		return nil, err
	}
	wh, err := internalrepo.NewSQLWarehouse(open, dialect, cfg.Warehouse.Table, cfg.Warehouse.ComputeUnit())
	if err != nil {
		return nil, fmt.Errorf("warehouse: %w", err)
	}
	wh.SetLogger(l)
	return wh, nil
}

// ProvideExtractor creates the extract use case.
func ProvideExtractor(src repository.MarketSource, cfg *config.Config, l *applogger.Logger) *usecase.Extractor {
	ex := usecase.NewExtractor(src, cfg.ETL.Ticker, cfg.ETL.WindowDays)
	ex.SetLogger(l)
	return ex
}

// ProvideTransformer creates the transform use case.
func ProvideTransformer(cfg *config.Config) *usecase.Transformer {
	return usecase.NewTransformer(cfg.ETL.MAWindow)
}

// ProvideLoader creates the load use case.
func ProvideLoader(wh repository.Warehouse, m repository.Metrics, l *applogger.Logger) *usecase.Loader {
	ld := usecase.NewLoader(wh, m)
	ld.SetLogger(l)
	return ld
}

// ProvidePipeline assembles the job; the preview goes to stdout.
func ProvidePipeline(
	cfg *config.Config,
	id RunID,
	ex *usecase.Extractor,
	tr *usecase.Transformer,
	ld *usecase.Loader,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Pipeline {
	p := usecase.NewPipeline(ex, tr, ld, m, os.Stdout)
	p.RunID = string(id)
	p.Ticker = cfg.ETL.Ticker
	p.PreviewRows = cfg.ETL.PreviewRows
	p.SetLogger(l)
	return p
}

// ProvideApp creates the job runner.
func ProvideApp(cfg *config.Config, p *usecase.Pipeline, rec *metrics.Recorder, l *applogger.Logger) *runner.App {
	return runner.New(cfg, p, rec, l)
}
