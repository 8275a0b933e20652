package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"StockETL/internal/domain/models"
	drepo "StockETL/internal/domain/repository"
	applogger "StockETL/pkg/logger"
)

// RunReport summarises one pipeline run.
type RunReport struct {
	RunID       string
	Ticker      string
	Extracted   int
	Transformed int
	Load        *LoadResult
}

// Pipeline runs extract, transform and load strictly in sequence.
type Pipeline struct {
	RunID       string
	Ticker      string
	PreviewRows int

	extractor   *Extractor
	transformer *Transformer
	loader      *Loader
	metrics     drepo.Metrics
	preview     io.Writer
	l           *applogger.Logger
}

func NewPipeline(extractor *Extractor, transformer *Transformer, loader *Loader, metrics drepo.Metrics, preview io.Writer) *Pipeline {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Pipeline{
		PreviewRows: 5,
		extractor:   extractor,
		transformer: transformer,
		loader:      loader,
		metrics:     metrics,
		preview:     preview,
		l:           applogger.NewNop(),
	}
}

// SetLogger injects a structured logger.
func (p *Pipeline) SetLogger(l *applogger.Logger) { p.l = l }

// Run executes the job once. Extraction failures abort before anything is
// written; load failures are returned after the preview was printed.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{RunID: p.RunID, Ticker: p.Ticker}

	start := time.Now()
	bars, err := p.extractor.Extract(ctx, p.Ticker)
	p.metrics.RecordLatency("extract", time.Since(start).Seconds())
	if err != nil {
		p.metrics.RecordError(string(models.ErrSourceUnavailable))
		return report, fmt.Errorf("extract: %w", err)
	}
	if len(bars) > 0 {
		report.Ticker = bars[0].Ticker
	} else if report.Ticker == "" {
		report.Ticker = p.extractor.defaultTicker
	}
	report.Extracted = len(bars)
	p.metrics.RecordRows("extract", len(bars))

	start = time.Now()
	records := p.transformer.Transform(bars)
	p.metrics.RecordLatency("transform", time.Since(start).Seconds())
	p.metrics.RecordRows("transform", len(records))
	report.Transformed = len(records)
	fields := []applogger.Field{
		applogger.Int("rows_in", len(bars)),
		applogger.Int("rows_out", len(records)),
	}
	if n := len(records); n > 0 {
		last := records[n-1]
		lastClose := last.ClosePrice.InexactFloat64()
		p.metrics.RecordLastClose(report.Ticker, lastClose)
		fields = append(fields,
			applogger.Float64("last_close", lastClose),
			applogger.Int64("last_volume", last.Volume),
		)
	}
	p.l.Info("transform ok", fields...)

	if p.preview != nil && p.PreviewRows > 0 {
		if err := WritePreview(p.preview, records, p.PreviewRows); err != nil {
			p.l.Warn("preview failed", applogger.Error(err))
		}
	}

	res, err := p.loader.Load(ctx, records)
	report.Load = res
	if err != nil {
		return report, fmt.Errorf("load: %w", err)
	}
	return report, nil
}
