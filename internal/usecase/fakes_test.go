package usecase

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"StockETL/internal/domain/models"
	drepo "StockETL/internal/domain/repository"
)

type fakeSource struct {
	bars      []models.PriceBar
	err       error
	gotTicker string
	gotFrom   time.Time
	gotTo     time.Time
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) DailyBars(_ context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error) {
	f.gotTicker, f.gotFrom, f.gotTo = ticker, from, to
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.PriceBar, len(f.bars))
	copy(out, f.bars)
	return out, nil
}

// fakeWarehouse records every call made through its session and transaction.
type fakeWarehouse struct {
	connectErr error
	resumeErr  error
	tableErr   error
	beginErr   error
	insertErr  error
	failOnRow  int // 1-indexed; 0 never fails
	commitErr  error
	panicOn    string

	calls     []string
	inserted  []models.PriceRecord
	committed []models.PriceRecord
	closed    int
}

func (w *fakeWarehouse) Driver() string { return "fake" }

func (w *fakeWarehouse) Connect(context.Context) (drepo.WarehouseSession, error) {
	w.calls = append(w.calls, "connect")
	if w.connectErr != nil {
		return nil, w.connectErr
	}
	return &fakeSession{w: w}, nil
}

type fakeSession struct{ w *fakeWarehouse }

func (s *fakeSession) ResumeCompute(context.Context) error {
	s.w.calls = append(s.w.calls, "resume")
	return s.w.resumeErr
}

func (s *fakeSession) EnsureTable(context.Context) error {
	s.w.calls = append(s.w.calls, "ensure_table")
	return s.w.tableErr
}

func (s *fakeSession) Begin(context.Context) (drepo.WarehouseTx, error) {
	s.w.calls = append(s.w.calls, "begin")
	if s.w.beginErr != nil {
		return nil, s.w.beginErr
	}
	return &fakeTx{w: s.w}, nil
}

func (s *fakeSession) Close() error {
	s.w.calls = append(s.w.calls, "close")
	s.w.closed++
	return nil
}

type fakeTx struct {
	w       *fakeWarehouse
	pending []models.PriceRecord
}

func (t *fakeTx) Insert(_ context.Context, rec models.PriceRecord) error {
	if t.w.panicOn == "insert" {
		panic("driver exploded")
	}
	t.w.calls = append(t.w.calls, "insert")
	if t.w.failOnRow > 0 && len(t.pending)+1 == t.w.failOnRow {
		return t.w.insertErr
	}
	t.pending = append(t.pending, rec)
	t.w.inserted = append(t.w.inserted, rec)
	return nil
}

func (t *fakeTx) Commit() error {
	t.w.calls = append(t.w.calls, "commit")
	if t.w.commitErr != nil {
		return t.w.commitErr
	}
	t.w.committed = append(t.w.committed, t.pending...)
	return nil
}

func (t *fakeTx) Rollback() error {
	t.w.calls = append(t.w.calls, "rollback")
	t.pending = nil
	return nil
}

type recordingMetrics struct {
	rows      map[string]int
	errors    map[string]int
	lastClose map[string]float64
	latency   map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		rows:      map[string]int{},
		errors:    map[string]int{},
		lastClose: map[string]float64{},
		latency:   map[string]int{},
	}
}

func (m *recordingMetrics) RecordRows(stage string, n int)      { m.rows[stage] += n }
func (m *recordingMetrics) RecordError(kind string)             { m.errors[kind]++ }
func (m *recordingMetrics) RecordLastClose(t string, p float64) { m.lastClose[t] = p }
func (m *recordingMetrics) RecordLatency(op string, _ float64)  { m.latency[op]++ }

func barsWithCloses(ticker string, closes ...float64) []models.PriceBar {
	start := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = models.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Ticker: ticker,
			Open:   decimal.NewNullDecimal(decimal.NewFromFloat(c - 0.5)),
			Close:  decimal.NewNullDecimal(decimal.NewFromFloat(c)),
			Volume: sql.NullInt64{Int64: int64(1000 + i), Valid: true},
		}
	}
	return bars
}

func records(n int) []models.PriceRecord {
	out := make([]models.PriceRecord, n)
	for i := range out {
		out[i] = models.PriceRecord{
			Date:       time.Date(2024, 10, 1+i, 0, 0, 0, 0, time.UTC),
			Ticker:     "AAPL",
			OpenPrice:  decimal.NewFromInt(int64(100 + i)),
			ClosePrice: decimal.NewFromInt(int64(101 + i)),
			Volume:     int64(1000 * (i + 1)),
			MovingAvg7: decimal.NewFromInt(int64(100 + i)),
		}
	}
	return out
}

var errBoom = errors.New("boom")
