// Package catalog holds the static sponsorship catalog: packages, add-ons,
// and the discount configuration.
//
// The catalog is configuration-as-data. It is built once at startup and never
// mutated, so lookups are safe from any goroutine. Rates are integer minor
// currency units (cents) and discount rates are basis points; there is no
// floating point anywhere on the billing path.
package catalog

import (
	"errors"
	"sort"
)

var (
	ErrUnknownPackage = errors.New("catalog: unknown package")
	ErrUnknownAddOn   = errors.New("catalog: unknown add-on")
)

// Package is a sponsorship package catalog entry.
type Package struct {
	Code                 string   `json:"code"`
	Label                string   `json:"label"`
	DailyRate            int64    `json:"dailyRateCents,omitempty"` // unused when daily booking unsupported
	WeeklyRate           int64    `json:"weeklyRateCents"`
	SupportsDailyBooking bool     `json:"supportsDailyBooking"`
	Features             []string `json:"features,omitempty"`
}

// AddOn is a flat-priced extra, independent of campaign duration.
type AddOn struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	Price       int64  `json:"priceCents"`
	Description string `json:"description,omitempty"`
}

// DiscountConfig describes the two discount rules and the overall cap.
type DiscountConfig struct {
	MultiWeekThreshold  int   `json:"multiWeekThresholdWeeks"` // min weeks for the multi-week discount
	MultiWeekRateBps    int64 `json:"multiWeekRateBps"`
	EarlyPartnerRateBps int64 `json:"earlyPartnerRateBps"`
	EarlyPartnerActive  bool  `json:"earlyPartnerActive"`
	CapBps              int64 `json:"capBps"` // max fraction of subtotal all discounts may remove
}

// Catalog is an immutable lookup table over packages and add-ons.
type Catalog struct {
	packages  map[string]Package
	addOns    map[string]AddOn
	discounts DiscountConfig
}

// New builds a catalog from explicit entries. Entries are copied; later
// mutation of the input slices does not affect the catalog.
func New(packages []Package, addOns []AddOn, discounts DiscountConfig) *Catalog {
	c := &Catalog{
		packages:  make(map[string]Package, len(packages)),
		addOns:    make(map[string]AddOn, len(addOns)),
		discounts: discounts,
	}
	for _, p := range packages {
		c.packages[p.Code] = p
	}
	for _, a := range addOns {
		c.addOns[a.Code] = a
	}
	return c
}

// Default returns the production Jugnu sponsorship catalog.
func Default() *Catalog {
	return New(
		[]Package{
			{
				Code:                 "events_spotlight",
				Label:                "Events Spotlight",
				DailyRate:            1500,
				WeeklyRate:           8500,
				SupportsDailyBooking: true,
				Features: []string{
					"Featured placement on the events page",
					"Event reminder push notification",
				},
			},
			{
				Code:                 "homepage_feature",
				Label:                "Homepage Feature",
				WeeklyRate:           12000,
				SupportsDailyBooking: false,
				Features: []string{
					"Hero banner on the community homepage",
					"Logo in the weekly digest email",
				},
			},
			{
				Code:                 "full_feature",
				Label:                "Full Feature Bundle",
				DailyRate:            2800,
				WeeklyRate:           17500,
				SupportsDailyBooking: true,
				Features: []string{
					"Everything in Events Spotlight and Homepage Feature",
					"Sponsored giveaway slot",
					"Priority support",
				},
			},
		},
		[]AddOn{
			{Code: "social_boost", Label: "Social Media Boost", Price: 2500, Description: "Cross-post to Jugnu social channels"},
			{Code: "newsletter_feature", Label: "Newsletter Feature", Price: 1500, Description: "Dedicated section in the weekly newsletter"},
			{Code: "pinned_placement", Label: "Pinned Placement", Price: 2000, Description: "Pinned announcement in community chat"},
		},
		DiscountConfig{
			MultiWeekThreshold:  2,
			MultiWeekRateBps:    1000, // 10%
			EarlyPartnerRateBps: 2000, // 20%
			EarlyPartnerActive:  true,
			CapBps:              3000, // 30%
		},
	)
}

// Package looks up a package by code.
func (c *Catalog) Package(code string) (Package, error) {
	p, ok := c.packages[code]
	if !ok {
		return Package{}, ErrUnknownPackage
	}
	return p, nil
}

// AddOn looks up an add-on by code.
func (c *Catalog) AddOn(code string) (AddOn, error) {
	a, ok := c.addOns[code]
	if !ok {
		return AddOn{}, ErrUnknownAddOn
	}
	return a, nil
}

// Packages returns all packages sorted by code.
func (c *Catalog) Packages() []Package {
	out := make([]Package, 0, len(c.packages))
	for _, p := range c.packages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// AddOns returns all add-ons sorted by code.
func (c *Catalog) AddOns() []AddOn {
	out := make([]AddOn, 0, len(c.addOns))
	for _, a := range c.addOns {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Discounts returns the discount configuration.
func (c *Catalog) Discounts() DiscountConfig {
	return c.discounts
}
