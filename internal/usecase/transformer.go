package usecase

import (
	"github.com/shopspring/decimal"

	"StockETL/internal/domain/models"
	"StockETL/internal/services/features"
)

// DefaultMAWindow is the moving-average length stored in the "7_day_avg" column.
const DefaultMAWindow = 7

// Transformer turns raw bars into STOCK_DATA rows.
type Transformer struct {
	window int
}

func NewTransformer(window int) *Transformer {
	if window <= 0 {
		window = DefaultMAWindow
	}
	return &Transformer{window: window}
}

// Transform projects bars to records and attaches the trailing close average.
// Input order is kept; rows in the warm-up period or with any undefined field are dropped.
func (t *Transformer) Transform(bars []models.PriceBar) []models.PriceRecord {
	closes := make([]decimal.NullDecimal, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	avg := features.RollingMean(closes, t.window)

	out := make([]models.PriceRecord, 0, max(0, len(bars)-(t.window-1)))
	for i, b := range bars {
		if !avg[i].Valid || !b.Complete() {
			continue
		}
		out = append(out, models.PriceRecord{
			Date:       b.Date,
			Ticker:     b.Ticker,
			OpenPrice:  b.Open.Decimal,
			ClosePrice: b.Close.Decimal,
			Volume:     b.Volume.Int64,
			MovingAvg7: avg[i].Decimal,
		})
	}
	return out
}
