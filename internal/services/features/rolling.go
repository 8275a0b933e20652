package features

import (
	"github.com/shopspring/decimal"
)

// RollingMean computes the trailing mean over window samples with min periods = window.
// out[i] is invalid for the first window-1 positions and for any window that
// contains an invalid sample.
func RollingMean(values []decimal.NullDecimal, window int) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(values))
	if window <= 0 {
		return out
	}

	n := decimal.NewFromInt(int64(window))
	sum := decimal.Zero
	invalid := 0
	for i, v := range values {
		if v.Valid {
			sum = sum.Add(v.Decimal)
		} else {
			invalid++
		}
		if i >= window {
			old := values[i-window]
			if old.Valid {
				sum = sum.Sub(old.Decimal)
			} else {
				invalid--
			}
		}
		if i >= window-1 && invalid == 0 {
			out[i] = decimal.NewNullDecimal(sum.Div(n))
		}
	}
	return out
}
