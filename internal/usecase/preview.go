package usecase

import (
	"fmt"
	"io"
	"text/tabwriter"

	"StockETL/internal/domain/models"
	"StockETL/pkg/util"
)

// WritePreview prints the first n records as an aligned table.
func WritePreview(w io.Writer, records []models.PriceRecord, n int) error {
	if n > len(records) {
		n = len(records)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tdate\tticker\topen_price\tclose_price\tvolume\t7_day_avg\t")
	for i, r := range records[:n] {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t\n",
			i,
			util.FormatDate(r.Date),
			r.Ticker,
			r.OpenPrice.StringFixed(6),
			r.ClosePrice.StringFixed(6),
			r.Volume,
			r.MovingAvg7.StringFixed(6),
		)
	}
	if n == 0 {
		fmt.Fprintln(tw, "(empty)\t")
	}
	return tw.Flush()
}
