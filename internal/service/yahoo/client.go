package yahoo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"StockETL/internal/domain/models"
	drepo "StockETL/internal/domain/repository"
	xhttp "StockETL/pkg/http"
	"StockETL/pkg/util"
)

// DefaultBaseURL is the public Yahoo Finance query host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// ErrMalformed is returned when the chart payload cannot be interpreted.
var ErrMalformed = errors.New("yahoo: malformed chart payload")

// Client implements MarketSource backed by the Yahoo Finance chart API.
type Client struct {
	http    *xhttp.Client
	baseURL string
}

// New creates a Yahoo chart client.
func New(baseURL string, opts ...xhttp.ClientOption) drepo.MarketSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    xhttp.NewClient(opts...),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) Name() string { return "yahoo" }

// DailyBars fetches 1d bars with timestamps in [from, to], ascending by date.
// Null values reported by Yahoo are returned as invalid fields.
func (c *Client) DailyBars(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error) {
	var body []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(ticker)),
		QueryParams: map[string][]string{
			"period1":  {strconv.FormatInt(from.Unix(), 10)},
			"period2":  {strconv.FormatInt(to.Unix(), 10)},
			"interval": {"1d"},
			"events":   {"history"},
		},
	}, &body)
	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) {
			if desc := gjson.Get(se.Body, "chart.error.description"); desc.Exists() && desc.String() != "" {
				return nil, fmt.Errorf("yahoo api error (status %d): %s", se.Status, desc.String())
			}
		}
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}

	return parseChart(body)
}

func parseChart(body []byte) ([]models.PriceBar, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	if desc := gjson.GetBytes(body, "chart.error.description"); desc.Exists() && desc.Type != gjson.Null {
		return nil, fmt.Errorf("yahoo api error: %s", desc.String())
	}

	result := gjson.GetBytes(body, "chart.result.0")
	if !result.Exists() {
		return nil, fmt.Errorf("%w: no result", ErrMalformed)
	}

	// A range without trading days has no timestamp array at all.
	timestamps := result.Get("timestamp").Array()
	if len(timestamps) == 0 {
		return []models.PriceBar{}, nil
	}

	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()
	if len(opens) != len(timestamps) || len(closes) != len(timestamps) || len(volumes) != len(timestamps) {
		return nil, fmt.Errorf("%w: %d timestamps, %d open, %d close, %d volume",
			ErrMalformed, len(timestamps), len(opens), len(closes), len(volumes))
	}

	meta := result.Get("meta")
	loc := time.FixedZone(meta.Get("timezone").String(), int(meta.Get("gmtoffset").Int()))

	// The live bar of the current session comes last; it replaces any earlier bar on the same date.
	bars := make([]models.PriceBar, 0, len(timestamps))
	index := make(map[time.Time]int, len(timestamps))
	for i, ts := range timestamps {
		if ts.Type != gjson.Number {
			return nil, fmt.Errorf("%w: timestamp %d is %s", ErrMalformed, i, ts.Type)
		}
		date := util.CalendarDate(time.Unix(ts.Int(), 0), loc)
		bar := models.PriceBar{
			Date:   date,
			Open:   toDecimal(opens[i]),
			Close:  toDecimal(closes[i]),
			Volume: toInt(volumes[i]),
		}
		if j, dup := index[date]; dup {
			bars[j] = bar
			continue
		}
		index[date] = len(bars)
		bars = append(bars, bar)
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func toDecimal(r gjson.Result) decimal.NullDecimal {
	if r.Type != gjson.Number {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(r.Raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func toInt(r gjson.Result) sql.NullInt64 {
	if r.Type != gjson.Number {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: r.Int(), Valid: true}
}
