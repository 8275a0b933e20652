package repository

import (
	"context"
	"time"

	"StockETL/internal/domain/models"
)

// MarketSource returns daily bars for a ticker over [from, to], ascending by date.
type MarketSource interface {
	DailyBars(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error)
	Name() string
}

// Warehouse opens scoped sessions against the analytical sink.
type Warehouse interface {
	Connect(ctx context.Context) (WarehouseSession, error)
	Driver() string
}

// WarehouseSession holds one connection for the duration of a load.
type WarehouseSession interface {
	// ResumeCompute wakes the compute unit. Returns ErrComputeAlreadyActive
	// when the engine reports it is not suspended and ErrResumeUnsupported
	// when the engine has no suspendable compute.
	ResumeCompute(ctx context.Context) error
	EnsureTable(ctx context.Context) error
	Begin(ctx context.Context) (WarehouseTx, error)
	Close() error
}

// WarehouseTx inserts rows in order and publishes them on Commit only.
type WarehouseTx interface {
	Insert(ctx context.Context, rec models.PriceRecord) error
	Commit() error
	Rollback() error
}

type Metrics interface {
	RecordRows(stage string, n int)
	RecordError(kind string)
	RecordLastClose(ticker string, price float64)
	RecordLatency(op string, seconds float64)
}
