package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockETL/internal/domain/models"
	drepo "StockETL/internal/domain/repository"
	applogger "StockETL/pkg/logger"
)

// LoadResult describes a committed load.
type LoadResult struct {
	Rows                 int
	ComputeAlreadyActive bool
	Duration             time.Duration
}

// Loader appends records to the warehouse table in one transaction.
type Loader struct {
	wh      drepo.Warehouse
	metrics drepo.Metrics
	l       *applogger.Logger
}

func NewLoader(wh drepo.Warehouse, metrics drepo.Metrics) *Loader {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Loader{wh: wh, metrics: metrics, l: applogger.NewNop()}
}

// SetLogger injects a structured logger.
func (ld *Loader) SetLogger(l *applogger.Logger) { ld.l = l }

// Load runs connect, resume, bootstrap, ordered inserts and a single commit.
// Every failure is returned as *models.ETLError; the session is closed on all paths.
func (ld *Loader) Load(ctx context.Context, records []models.PriceRecord) (res *LoadResult, err error) {
	start := time.Now()
	res = &LoadResult{}
	defer func() {
		if r := recover(); r != nil {
			err = ld.fail(models.NewETLError(models.ErrUnexpected, "load", fmt.Errorf("panic: %v", r)))
		}
		res.Duration = time.Since(start)
		ld.metrics.RecordLatency("load", res.Duration.Seconds())
	}()

	sess, err := ld.wh.Connect(ctx)
	if err != nil {
		return res, ld.fail(models.NewETLError(models.ErrWarehouseConnection, "connect "+ld.wh.Driver(), err))
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			ld.l.Warn("warehouse session close failed", applogger.Error(cerr))
		}
	}()

	switch rerr := sess.ResumeCompute(ctx); {
	case rerr == nil:
		ld.l.Info("compute resumed")
	case errors.Is(rerr, drepo.ErrComputeAlreadyActive):
		res.ComputeAlreadyActive = true
		ld.l.Info("warehouse is already active")
	case errors.Is(rerr, drepo.ErrResumeUnsupported):
		ld.l.Debug("compute resume skipped", applogger.String("driver", ld.wh.Driver()))
	default:
		return res, ld.fail(models.NewETLError(models.ErrComputeResume, "resume compute", rerr))
	}

	if err := sess.EnsureTable(ctx); err != nil {
		return res, ld.fail(models.NewETLError(models.ErrSchemaBootstrap, "create table", err))
	}
	ld.l.Info("table ready")

	if len(records) == 0 {
		ld.l.Info("no records to load")
		return res, nil
	}

	tx, err := sess.Begin(ctx)
	if err != nil {
		return res, ld.fail(models.NewETLError(models.ErrInsert, "begin load", err))
	}
	for i, rec := range records {
		if err := tx.Insert(ctx, rec); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				ld.l.Warn("rollback failed", applogger.Error(rbErr))
			}
			return res, ld.fail(models.NewETLError(models.ErrInsert, "insert record", err).WithRow(i + 1))
		}
	}
	if err := tx.Commit(); err != nil {
		return res, ld.fail(models.NewETLError(models.ErrCommit, "commit load", err))
	}

	res.Rows = len(records)
	ld.metrics.RecordRows("load", res.Rows)
	ld.l.Info("data successfully loaded",
		applogger.String("driver", ld.wh.Driver()),
		applogger.Int("rows", res.Rows),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return res, nil
}

func (ld *Loader) fail(e *models.ETLError) error {
	ld.metrics.RecordError(string(e.Kind))
	ld.l.Error("load failed",
		applogger.String("kind", string(e.Kind)),
		applogger.Int("row", e.Row),
		applogger.Error(e),
	)
	return e
}

type nopMetrics struct{}

func (nopMetrics) RecordRows(string, int)          {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastClose(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}
