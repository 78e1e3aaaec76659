package loyalty

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestRedemptionCap(t *testing.T) {
	// Bill $40.00, merchant cap 20%, wallet 10,000 JP:
	// max currency $8.00 → 8000 JP, actual min(8000, 10000) = 8000.
	c, err := RedemptionCap(d("40.00"), 20, 10000)
	require.NoError(t, err)

	assert.True(t, c.MaxRedeemableCurrency.Equal(d("8.00")), "got %s", c.MaxRedeemableCurrency)
	assert.Equal(t, int64(8000), c.MaxRedeemablePoints)
	assert.Equal(t, int64(8000), c.ActualMaxRedeemable)
}

func TestRedemptionCap_WalletLimits(t *testing.T) {
	// Wallet smaller than the bill cap: balance wins.
	c, err := RedemptionCap(d("40.00"), 20, 3500)
	require.NoError(t, err)
	assert.Equal(t, int64(8000), c.MaxRedeemablePoints)
	assert.Equal(t, int64(3500), c.ActualMaxRedeemable)
}

func TestRedemptionCap_DefaultPercent(t *testing.T) {
	// Unspecified merchant cap falls back to 20%.
	c, err := RedemptionCap(d("100.00"), 0, 100000)
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultCapPercent), c.CapPercent)
	assert.Equal(t, int64(20000), c.MaxRedeemablePoints)
}

func TestRedemptionCap_FloorsFractionalPoints(t *testing.T) {
	// $12.347 at 20% → $2.4694 → 2469.4 JP, floored to 2469.
	c, err := RedemptionCap(d("12.347"), 20, 100000)
	require.NoError(t, err)
	assert.Equal(t, int64(2469), c.MaxRedeemablePoints)
}

func TestRedemptionCap_Invalid(t *testing.T) {
	_, err := RedemptionCap(d("-1.00"), 20, 1000)
	assert.ErrorIs(t, err, ErrInvalidBill)

	_, err = RedemptionCap(d("10.00"), 150, 1000)
	assert.ErrorIs(t, err, ErrInvalidCapPercent)
}

func TestRedemptionCap_ZeroBill(t *testing.T) {
	c, err := RedemptionCap(d("0"), 20, 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), c.MaxRedeemablePoints)
	assert.Equal(t, int64(0), c.ActualMaxRedeemable)
}

func TestClampSelection(t *testing.T) {
	c := Cap{ActualMaxRedeemable: 8000}

	assert.Equal(t, int64(0), ClampSelection(-5, c))
	assert.Equal(t, int64(4000), ClampSelection(4000, c))
	assert.Equal(t, int64(8000), ClampSelection(9000, c))
}
