package money_test

import (
	"testing"

	"github.com/finbooks/finbooks/internal/core/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{100, "1.00"},
		{123456, "1234.56"},
		{-505, "-5.05"},
		{-100000, "-1000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, money.Format(tt.cents), "cents=%d", tt.cents)
	}
}

func TestParseAmount(t *testing.T) {
	got, err := money.ParseAmount("1234.56")
	require.NoError(t, err)
	assert.Equal(t, int64(123456), got)

	got, err = money.ParseAmount("-5.05")
	require.NoError(t, err)
	assert.Equal(t, int64(-505), got)

	got, err = money.ParseAmount("10")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got)

	_, err = money.ParseAmount("1.005")
	assert.Error(t, err, "sub-cent precision must be rejected, not rounded")

	_, err = money.ParseAmount("not-a-number")
	assert.Error(t, err)
}

func TestDecimalRoundTrip(t *testing.T) {
	d := money.ToDecimal(123456)
	assert.True(t, d.Equal(decimal.RequireFromString("1234.56")))

	cents, err := money.FromDecimal(d)
	require.NoError(t, err)
	assert.Equal(t, int64(123456), cents)
}

func TestSum(t *testing.T) {
	assert.Equal(t, int64(0), money.Sum())
	assert.Equal(t, int64(600), money.Sum(100, 200, 300))
}
