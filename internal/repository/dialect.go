package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/snowflakedb/gosnowflake"

	"StockETL/internal/domain/models"
	"StockETL/pkg/util"
)

// Dialect renders the engine-specific statements used by a load.
type Dialect interface {
	Name() string
	// ResumeStatement returns "" when the engine has no suspendable compute.
	ResumeStatement(computeUnit string) string
	IsAlreadyActive(err error) bool
	CreateTableStatement(table string) string
	InsertStatement(table string) string
	InsertArgs(rec models.PriceRecord) []any
}

// DialectFor returns the dialect registered for a driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "snowflake":
		return SnowflakeDialect{}, nil
	case "clickhouse":
		return ClickHouseDialect{}, nil
	case "sqlite":
		return SQLiteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported warehouse driver: %s", driver)
	}
}

// SnowflakeDialect targets Snowflake virtual warehouses.
type SnowflakeDialect struct{}

const snowflakeNotSuspended = "cannot be resumed since it is not suspended"

func (SnowflakeDialect) Name() string { return "snowflake" }

func (SnowflakeDialect) ResumeStatement(computeUnit string) string {
	if computeUnit == "" {
		return ""
	}
	return fmt.Sprintf("ALTER WAREHOUSE %s RESUME", computeUnit)
}

func (SnowflakeDialect) IsAlreadyActive(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	var sfErr *gosnowflake.SnowflakeError
	if errors.As(err, &sfErr) {
		msg = sfErr.Message
	}
	return strings.Contains(strings.ToLower(msg), snowflakeNotSuspended)
}

func (SnowflakeDialect) CreateTableStatement(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    date DATE,
    ticker STRING,
    open_price FLOAT,
    close_price FLOAT,
    volume INT,
    "7_day_avg" FLOAT
)`, table)
}

func (SnowflakeDialect) InsertStatement(table string) string {
	return fmt.Sprintf(`INSERT INTO %s (date, ticker, open_price, close_price, volume, "7_day_avg") VALUES (?, ?, ?, ?, ?, ?)`, table)
}

func (SnowflakeDialect) InsertArgs(rec models.PriceRecord) []any {
	return []any{
		util.FormatDate(rec.Date),
		rec.Ticker,
		rec.OpenPrice.InexactFloat64(),
		rec.ClosePrice.InexactFloat64(),
		rec.Volume,
		rec.MovingAvg7.InexactFloat64(),
	}
}

// ClickHouseDialect targets ClickHouse; rows are buffered by the driver and sent on commit.
type ClickHouseDialect struct{}

func (ClickHouseDialect) Name() string { return "clickhouse" }

func (ClickHouseDialect) ResumeStatement(string) string { return "" }

func (ClickHouseDialect) IsAlreadyActive(error) bool { return false }

func (ClickHouseDialect) CreateTableStatement(table string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (date Date, ticker String, open_price Float64, close_price Float64, volume Int64, `7_day_avg` Float64) ENGINE = MergeTree ORDER BY (ticker, date)", table)
}

func (ClickHouseDialect) InsertStatement(table string) string {
	return fmt.Sprintf("INSERT INTO %s (date, ticker, open_price, close_price, volume, `7_day_avg`)", table)
}

func (ClickHouseDialect) InsertArgs(rec models.PriceRecord) []any {
	return []any{
		rec.Date,
		rec.Ticker,
		rec.OpenPrice.InexactFloat64(),
		rec.ClosePrice.InexactFloat64(),
		rec.Volume,
		rec.MovingAvg7.InexactFloat64(),
	}
}

// SQLiteDialect targets a local SQLite file.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string { return "sqlite" }

func (SQLiteDialect) ResumeStatement(string) string { return "" }

func (SQLiteDialect) IsAlreadyActive(error) bool { return false }

func (SQLiteDialect) CreateTableStatement(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    date DATE,
    ticker TEXT,
    open_price REAL,
    close_price REAL,
    volume INTEGER,
    "7_day_avg" REAL
)`, table)
}

func (SQLiteDialect) InsertStatement(table string) string {
	return fmt.Sprintf(`INSERT INTO %s (date, ticker, open_price, close_price, volume, "7_day_avg") VALUES (?, ?, ?, ?, ?, ?)`, table)
}

func (SQLiteDialect) InsertArgs(rec models.PriceRecord) []any {
	return SnowflakeDialect{}.InsertArgs(rec)
}
