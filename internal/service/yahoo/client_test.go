package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xhttp "StockETL/pkg/http"
	"StockETL/pkg/util"
)

// Three sessions, delivered out of order, the last one with a null close.
const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "AAPL", "timezone": "EDT", "gmtoffset": -14400},
      "timestamp": [1728394200, 1728307800, 1728480600],
      "indicators": {"quote": [{
        "open":   [225.14, 227.78, 225.23],
        "close":  [225.77, 221.69, null],
        "volume": [31855700, 39505400, 31499900]
      }]}
    }],
    "error": null
  }
}`

func TestDailyBars(t *testing.T) {
	from := time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1727913600", r.URL.Query().Get("period1"))
		assert.Equal(t, "1728518400", r.URL.Query().Get("period2"))
		_, _ = w.Write([]byte(chartFixture))
	}))
	defer srv.Close()

	src := New(srv.URL+"/", xhttp.WithHTTPClient(srv.Client()))
	bars, err := src.DailyBars(context.Background(), "AAPL", from, to)
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, "2024-10-07", util.FormatDate(bars[0].Date))
	assert.Equal(t, "2024-10-08", util.FormatDate(bars[1].Date))
	assert.Equal(t, "2024-10-09", util.FormatDate(bars[2].Date))

	assert.Equal(t, "227.78", bars[0].Open.Decimal.String())
	assert.Equal(t, "221.69", bars[0].Close.Decimal.String())
	assert.Equal(t, int64(39505400), bars[0].Volume.Int64)
	assert.True(t, bars[0].Complete())

	assert.False(t, bars[2].Close.Valid)
	assert.False(t, bars[2].Complete())
}

func TestDailyBarsNoTradingDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"gmtoffset":0},"indicators":{"quote":[{}]}}],"error":null}}`))
	}))
	defer srv.Close()

	bars, err := New(srv.URL).DailyBars(context.Background(), "AAPL", time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestDailyBarsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).DailyBars(context.Background(), "NOPE", time.Now().AddDate(0, 0, -7), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbol may be delisted")
}

func TestDailyBarsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":        `<html>`,
		"no result":       `{"chart":{"result":[],"error":null}}`,
		"length mismatch": `{"chart":{"result":[{"timestamp":[1728307800,1728394200],"indicators":{"quote":[{"open":[1],"close":[1,2],"volume":[1,2]}]}}]}}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(payload))
			}))
			defer srv.Close()

			_, err := New(srv.URL).DailyBars(context.Background(), "AAPL", time.Now().AddDate(0, 0, -7), time.Now())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}

func TestDailyBarsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).DailyBars(context.Background(), "AAPL", time.Now().AddDate(0, 0, -7), time.Now())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "yahoo fetch:"))
}

// The live bar for 2024-10-08 (15:00 EDT) trails the array after the regular 09:30 bar.
const liveBarFixture = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "AAPL", "gmtoffset": -14400},
      "timestamp": [1728394200, 1728307800, 1728414000],
      "indicators": {"quote": [{
        "open":   [9, 19, 29],
        "close":  [10, 20, 30],
        "volume": [100, 200, 300]
      }]}
    }],
    "error": null
  }
}`

func TestParseChartKeepsLatestBarPerDate(t *testing.T) {
	bars, err := parseChart([]byte(liveBarFixture))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, "2024-10-07", util.FormatDate(bars[0].Date))
	assert.Equal(t, "20", bars[0].Close.Decimal.String())

	assert.Equal(t, "2024-10-08", util.FormatDate(bars[1].Date))
	assert.Equal(t, "30", bars[1].Close.Decimal.String())
	assert.Equal(t, "29", bars[1].Open.Decimal.String())
	assert.Equal(t, int64(300), bars[1].Volume.Int64)
}
