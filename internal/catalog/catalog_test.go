package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLookups(t *testing.T) {
	c := Default()

	pkg, err := c.Package("events_spotlight")
	require.NoError(t, err)
	assert.Equal(t, int64(8500), pkg.WeeklyRate)
	assert.Equal(t, int64(1500), pkg.DailyRate)
	assert.True(t, pkg.SupportsDailyBooking)

	homepage, err := c.Package("homepage_feature")
	require.NoError(t, err)
	assert.False(t, homepage.SupportsDailyBooking)

	addOn, err := c.AddOn("social_boost")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), addOn.Price)
}

func TestUnknownCodesFailClosed(t *testing.T) {
	c := Default()

	_, err := c.Package("vip_mega_bundle")
	assert.ErrorIs(t, err, ErrUnknownPackage)

	_, err = c.AddOn("sms_blast")
	assert.ErrorIs(t, err, ErrUnknownAddOn)
}

func TestListingsSortedByCode(t *testing.T) {
	c := Default()

	pkgs := c.Packages()
	require.Len(t, pkgs, 3)
	for i := 1; i < len(pkgs); i++ {
		assert.Less(t, pkgs[i-1].Code, pkgs[i].Code)
	}

	addOns := c.AddOns()
	require.Len(t, addOns, 3)
	for i := 1; i < len(addOns); i++ {
		assert.Less(t, addOns[i-1].Code, addOns[i].Code)
	}
}

func TestDefaultDiscountConfig(t *testing.T) {
	cfg := Default().Discounts()
	assert.Equal(t, 2, cfg.MultiWeekThreshold)
	assert.Equal(t, int64(1000), cfg.MultiWeekRateBps)
	assert.Equal(t, int64(2000), cfg.EarlyPartnerRateBps)
	assert.True(t, cfg.EarlyPartnerActive)
	assert.Equal(t, int64(3000), cfg.CapBps)
}

func TestNewCopiesEntries(t *testing.T) {
	pkgs := []Package{{Code: "a_pkg", WeeklyRate: 100}}
	c := New(pkgs, nil, DiscountConfig{})

	pkgs[0].WeeklyRate = 999

	got, err := c.Package("a_pkg")
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.WeeklyRate)
}
