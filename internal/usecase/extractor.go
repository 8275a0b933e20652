package usecase

import (
	"context"
	"fmt"
	"time"

	"StockETL/internal/domain/models"
	drepo "StockETL/internal/domain/repository"
	applogger "StockETL/pkg/logger"
	"StockETL/pkg/util"
)

// Extractor pulls a trailing window of daily bars for one ticker.
type Extractor struct {
	source        drepo.MarketSource
	defaultTicker string
	windowDays    int
	now           func() time.Time
	l             *applogger.Logger
}

func NewExtractor(source drepo.MarketSource, defaultTicker string, windowDays int) *Extractor {
	return &Extractor{
		source:        source,
		defaultTicker: defaultTicker,
		windowDays:    windowDays,
		now:           time.Now,
		l:             applogger.NewNop(),
	}
}

// SetLogger injects a structured logger.
func (e *Extractor) SetLogger(l *applogger.Logger) { e.l = l }

// SetClock overrides the wall clock that defines the window end.
func (e *Extractor) SetClock(now func() time.Time) { e.now = now }

// Extract returns bars ascending by date, all stamped with the same ticker and
// extraction time. Source failures are returned as ErrSourceUnavailable.
func (e *Extractor) Extract(ctx context.Context, ticker string) ([]models.PriceBar, error) {
	if ticker == "" {
		ticker = e.defaultTicker
	}

	now := e.now()
	from, to := util.TrailingWindow(now, e.windowDays)
	bars, err := e.source.DailyBars(ctx, ticker, from, to)
	if err != nil {
		e.l.Error("extract failed",
			applogger.String("source", e.source.Name()),
			applogger.String("ticker", ticker),
			applogger.Error(err),
		)
		return nil, models.NewETLError(models.ErrSourceUnavailable, fmt.Sprintf("extract %s from %s", ticker, e.source.Name()), err)
	}

	extractedAt := now.UTC()
	for i := range bars {
		bars[i].Ticker = ticker
		bars[i].ExtractedAt = extractedAt
	}

	e.l.Info("extract ok",
		applogger.String("source", e.source.Name()),
		applogger.String("ticker", ticker),
		applogger.Time("from", from),
		applogger.Time("to", to),
		applogger.Int("rows", len(bars)),
	)
	return bars, nil
}
