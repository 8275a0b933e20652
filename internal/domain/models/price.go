package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar is one raw daily bar as returned by the market-data source.
// Open, Close and Volume are invalid when the source reported null.
type PriceBar struct {
	Date        time.Time
	Ticker      string
	Open        decimal.NullDecimal
	Close       decimal.NullDecimal
	Volume      sql.NullInt64
	ExtractedAt time.Time
}

// Complete reports whether every numeric field of the bar is defined.
func (b PriceBar) Complete() bool {
	return b.Open.Valid && b.Close.Valid && b.Volume.Valid
}

// PriceRecord is a transformed row ready for STOCK_DATA.
type PriceRecord struct {
	Date       time.Time
	Ticker     string
	OpenPrice  decimal.Decimal
	ClosePrice decimal.Decimal
	Volume     int64
	MovingAvg7 decimal.Decimal
}
