package pricing

import (
	"encoding/json"
	"testing"

	"github.com/jugnuhq/jugnu-billing/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCatalog mirrors the rates used in the worked billing examples:
// $85/week weekly package, multi-week threshold 2 weeks at 10%,
// early partner 20% active, cap 30%.
func testCatalog(capBps int64) *catalog.Catalog {
	return catalog.New(
		[]catalog.Package{
			{Code: "events_spotlight", Label: "Events Spotlight", DailyRate: 1500, WeeklyRate: 8500, SupportsDailyBooking: true},
			{Code: "homepage_feature", Label: "Homepage Feature", WeeklyRate: 12000, SupportsDailyBooking: false},
		},
		[]catalog.AddOn{
			{Code: "social_boost", Label: "Social Media Boost", Price: 2500},
			{Code: "newsletter_feature", Label: "Newsletter Feature", Price: 1500},
		},
		catalog.DiscountConfig{
			MultiWeekThreshold:  2,
			MultiWeekRateBps:    1000,
			EarlyPartnerRateBps: 2000,
			EarlyPartnerActive:  true,
			CapBps:              capBps,
		},
	)
}

func TestCompute_WeeklyWithBothDiscounts(t *testing.T) {
	// $85/week, 3 weeks, no add-ons, 10% multi-week + 20% early partner, 30% cap.
	engine := NewEngine(testCatalog(3000))

	res, err := engine.Compute(Request{
		PackageCode:  "events_spotlight",
		Duration:     DurationWeekly,
		WeekCount:    3,
		EarlyPartner: true,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(25500), res.BasePrice)
	assert.Equal(t, int64(0), res.AddOnsTotal)
	assert.Equal(t, int64(25500), res.Subtotal)
	assert.Equal(t, int64(2550), res.MultiWeekDiscount)
	// Early partner applies to the post-multi-week remainder, not the subtotal.
	assert.Equal(t, int64(4590), res.EarlyPartnerDiscount)
	// Raw 7140 is under the 30% cap (7650), so no scaling.
	assert.Equal(t, int64(7140), res.TotalDiscount)
	assert.Equal(t, int64(18360), res.FinalTotal)
	assert.Equal(t, res.TotalDiscount, res.Savings)
}

func TestCompute_CapScalesProportionally(t *testing.T) {
	// Same request with a 25% cap (6375): raw 7140 exceeds it, both
	// components scale so they sum to the cap exactly.
	engine := NewEngine(testCatalog(2500))

	res, err := engine.Compute(Request{
		PackageCode:  "events_spotlight",
		Duration:     DurationWeekly,
		WeekCount:    3,
		EarlyPartner: true,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2276), res.MultiWeekDiscount)
	assert.Equal(t, int64(4099), res.EarlyPartnerDiscount)
	assert.Equal(t, int64(6375), res.TotalDiscount)
	assert.Equal(t, res.MultiWeekDiscount+res.EarlyPartnerDiscount, res.TotalDiscount)
	assert.Equal(t, int64(19125), res.FinalTotal)
}

func TestCompute_DailyNormalizesToWeeks(t *testing.T) {
	engine := NewEngine(testCatalog(3000))

	res, err := engine.Compute(Request{
		PackageCode: "events_spotlight",
		Duration:    DurationDaily,
		WeekCount:   1,
	})
	require.NoError(t, err)

	// Daily bookings bill whole seven-day weeks.
	assert.Equal(t, int64(1500*7), res.BasePrice)
	// One week is under the multi-week threshold and early partner was not
	// requested, so no discounts apply.
	assert.Equal(t, int64(0), res.TotalDiscount)
	assert.Equal(t, res.Subtotal, res.FinalTotal)
}

func TestCompute_WeeklyOnlyPackageRejectsDaily(t *testing.T) {
	engine := NewEngine(testCatalog(3000))

	_, err := engine.Compute(Request{
		PackageCode: "homepage_feature",
		Duration:    DurationDaily,
		WeekCount:   1,
	})
	assert.ErrorIs(t, err, ErrUnsupportedDuration)
}

func TestCompute_AddOns(t *testing.T) {
	engine := NewEngine(testCatalog(3000))

	res, err := engine.Compute(Request{
		PackageCode: "events_spotlight",
		Duration:    DurationWeekly,
		WeekCount:   1,
		// Duplicate codes collapse to set semantics.
		AddOnCodes: []string{"social_boost", "newsletter_feature", "social_boost"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(8500), res.BasePrice)
	assert.Equal(t, int64(4000), res.AddOnsTotal)
	assert.Equal(t, int64(12500), res.Subtotal)

	// Base line plus one line per distinct add-on.
	require.Len(t, res.Breakdown.Items, 3)
	assert.Equal(t, "Newsletter Feature", res.Breakdown.Items[1].Label)
	assert.Equal(t, "Social Media Boost", res.Breakdown.Items[2].Label)
}

func TestCompute_UnknownAddOnFailsClosed(t *testing.T) {
	engine := NewEngine(testCatalog(3000))

	res, err := engine.Compute(Request{
		PackageCode: "events_spotlight",
		Duration:    DurationWeekly,
		WeekCount:   1,
		AddOnCodes:  []string{"social_boost", "nonexistent_addon"},
	})
	assert.ErrorIs(t, err, catalog.ErrUnknownAddOn)
	assert.Nil(t, res, "no partial result on unknown add-on")
}

func TestCompute_UnknownPackage(t *testing.T) {
	engine := NewEngine(testCatalog(3000))

	_, err := engine.Compute(Request{
		PackageCode: "nope",
		Duration:    DurationWeekly,
		WeekCount:   1,
	})
	assert.ErrorIs(t, err, catalog.ErrUnknownPackage)
}

func TestCompute_InvalidInput(t *testing.T) {
	engine := NewEngine(testCatalog(3000))

	for name, req := range map[string]Request{
		"zero weeks":     {PackageCode: "events_spotlight", Duration: DurationWeekly, WeekCount: 0},
		"negative weeks": {PackageCode: "events_spotlight", Duration: DurationWeekly, WeekCount: -2},
		"bad duration":   {PackageCode: "events_spotlight", Duration: "fortnightly", WeekCount: 1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := engine.Compute(req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCompute_Deterministic(t *testing.T) {
	engine := NewEngine(testCatalog(2500))
	req := Request{
		PackageCode:  "events_spotlight",
		Duration:     DurationWeekly,
		WeekCount:    4,
		AddOnCodes:   []string{"newsletter_feature", "social_boost"},
		EarlyPartner: true,
	}

	first, err := engine.Compute(req)
	require.NoError(t, err)
	second, err := engine.Compute(req)
	require.NoError(t, err)

	// Byte-identical results for identical requests.
	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCompute_Invariants(t *testing.T) {
	// finalTotal = subtotal - totalDiscount, discount never exceeds the cap,
	// and scaling never increases the discount, across a grid of inputs.
	for _, capBps := range []int64{1000, 2500, 3000, 5000} {
		engine := NewEngine(testCatalog(capBps))
		for weeks := 1; weeks <= 8; weeks++ {
			for _, early := range []bool{false, true} {
				res, err := engine.Compute(Request{
					PackageCode:  "events_spotlight",
					Duration:     DurationWeekly,
					WeekCount:    weeks,
					AddOnCodes:   []string{"social_boost"},
					EarlyPartner: early,
				})
				require.NoError(t, err)

				assert.Equal(t, res.Subtotal-res.TotalDiscount, res.FinalTotal)
				assert.LessOrEqual(t, res.TotalDiscount, res.Subtotal*capBps/10000)
				assert.Equal(t, res.MultiWeekDiscount+res.EarlyPartnerDiscount, res.TotalDiscount)
				assert.GreaterOrEqual(t, res.MultiWeekDiscount, int64(0))
				assert.GreaterOrEqual(t, res.EarlyPartnerDiscount, int64(0))
			}
		}
	}
}

func TestCompute_BasePriceMonotonicInWeeks(t *testing.T) {
	engine := NewEngine(testCatalog(3000))

	var prev int64
	for weeks := 1; weeks <= 12; weeks++ {
		res, err := engine.Compute(Request{
			PackageCode:  "events_spotlight",
			Duration:     DurationWeekly,
			WeekCount:    weeks,
			EarlyPartner: true,
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.BasePrice, prev)
		prev = res.BasePrice
	}
}

func TestApplyDiscounts_ZeroSubtotal(t *testing.T) {
	// Guard against division by zero in the proportional-scaling step.
	multiWeek, earlyPartner, total := applyDiscounts(0, 5, true, catalog.DiscountConfig{
		MultiWeekThreshold:  2,
		MultiWeekRateBps:    1000,
		EarlyPartnerRateBps: 2000,
		EarlyPartnerActive:  true,
		CapBps:              3000,
	})
	assert.Zero(t, multiWeek)
	assert.Zero(t, earlyPartner)
	assert.Zero(t, total)
}

func TestApplyDiscounts_NoEligibleDiscounts(t *testing.T) {
	multiWeek, earlyPartner, total := applyDiscounts(10000, 1, false, catalog.DiscountConfig{
		MultiWeekThreshold:  2,
		MultiWeekRateBps:    1000,
		EarlyPartnerRateBps: 2000,
		EarlyPartnerActive:  true,
		CapBps:              3000,
	})
	assert.Zero(t, multiWeek)
	assert.Zero(t, earlyPartner)
	assert.Zero(t, total)
}

func TestApplyDiscounts_EarlyPartnerGateClosed(t *testing.T) {
	// Eligible user, but the promotional window has ended.
	_, earlyPartner, _ := applyDiscounts(10000, 3, true, catalog.DiscountConfig{
		MultiWeekThreshold:  2,
		MultiWeekRateBps:    1000,
		EarlyPartnerRateBps: 2000,
		EarlyPartnerActive:  false,
		CapBps:              3000,
	})
	assert.Zero(t, earlyPartner)
}
