package features

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nd(vals ...interface{}) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(vals))
	for i, v := range vals {
		if v == nil {
			continue
		}
		out[i] = decimal.NewNullDecimal(decimal.NewFromFloat(v.(float64)))
	}
	return out
}

func TestRollingMeanWarmup(t *testing.T) {
	got := RollingMean(nd(10.0, 11.0, 12.0, 13.0, 14.0, 15.0, 16.0, 17.0), 7)
	require.Len(t, got, 8)
	for i := 0; i < 6; i++ {
		assert.False(t, got[i].Valid, "position %d", i)
	}
	assert.True(t, got[6].Decimal.Equal(decimal.NewFromInt(13)), "got %s", got[6].Decimal)
	assert.True(t, got[7].Decimal.Equal(decimal.NewFromInt(14)), "got %s", got[7].Decimal)
}

func TestRollingMeanInvalidPoisonsWindow(t *testing.T) {
	got := RollingMean(nd(1.0, nil, 3.0, 4.0, 5.0), 2)
	assert.False(t, got[0].Valid)
	assert.False(t, got[1].Valid)
	assert.False(t, got[2].Valid)
	assert.True(t, got[3].Decimal.Equal(decimal.NewFromFloat(3.5)))
	assert.True(t, got[4].Decimal.Equal(decimal.NewFromFloat(4.5)))
}

func TestRollingMeanShortInput(t *testing.T) {
	got := RollingMean(nd(1.0, 2.0), 7)
	assert.False(t, got[0].Valid)
	assert.False(t, got[1].Valid)
	assert.Empty(t, RollingMean(nil, 7))
	assert.False(t, RollingMean(nd(1.0), 0)[0].Valid)
}
