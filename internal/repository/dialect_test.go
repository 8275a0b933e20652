package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/snowflakedb/gosnowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	for _, name := range []string{"snowflake", "clickhouse", "sqlite"} {
		d, err := DialectFor(name)
		require.NoError(t, err)
		assert.Equal(t, name, d.Name())
	}
	_, err := DialectFor("postgres")
	assert.Error(t, err)
}

func TestSnowflakeStatements(t *testing.T) {
	d := SnowflakeDialect{}
	assert.Equal(t, "ALTER WAREHOUSE COMPUTE_WH RESUME", d.ResumeStatement("COMPUTE_WH"))
	assert.Equal(t,
		`INSERT INTO STOCK_DATA (date, ticker, open_price, close_price, volume, "7_day_avg") VALUES (?, ?, ?, ?, ?, ?)`,
		d.InsertStatement("STOCK_DATA"))
	assert.Contains(t, d.CreateTableStatement("STOCK_DATA"), `"7_day_avg" FLOAT`)
}

func TestSnowflakeIsAlreadyActive(t *testing.T) {
	d := SnowflakeDialect{}
	sfErr := &gosnowflake.SnowflakeError{
		Number:   606,
		SQLState: "57P03",
		Message:  "Warehouse 'COMPUTE_WH' cannot be resumed since it is not suspended.",
	}

	assert.True(t, d.IsAlreadyActive(sfErr))
	assert.True(t, d.IsAlreadyActive(fmt.Errorf("exec: %w", sfErr)))
	assert.True(t, d.IsAlreadyActive(errors.New("Warehouse 'X' CANNOT BE RESUMED SINCE IT IS NOT SUSPENDED")))
	assert.False(t, d.IsAlreadyActive(errors.New("warehouse does not exist")))
	assert.False(t, d.IsAlreadyActive(nil))
}

func TestClickHouseStatements(t *testing.T) {
	d := ClickHouseDialect{}
	assert.Empty(t, d.ResumeStatement("COMPUTE_WH"))
	assert.Equal(t, "INSERT INTO STOCK_DATA (date, ticker, open_price, close_price, volume, `7_day_avg`)", d.InsertStatement("STOCK_DATA"))
	assert.Contains(t, d.CreateTableStatement("STOCK_DATA"), "ENGINE = MergeTree ORDER BY (ticker, date)")

	args := d.InsertArgs(sampleRecord(7, 17))
	require.Len(t, args, 6)
	assert.Equal(t, time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC), args[0])
}

func TestInsertArgsColumnOrder(t *testing.T) {
	args := SQLiteDialect{}.InsertArgs(sampleRecord(7, 17))
	assert.Equal(t, []any{"2024-10-07", "AAPL", 16.0, 17.0, int64(7000), 14.0}, args)
}
