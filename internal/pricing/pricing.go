// Package pricing computes sponsorship campaign totals.
//
// The engine is a pure function over the static catalog: the same request
// always produces an identical result, which is what makes quotes
// reproducible on invoices and receipts. It performs no I/O and holds no
// mutable state, so a single Engine is safe for concurrent use.
//
// Discount application is sequential by design: the multi-week discount is
// taken from the subtotal first, the early-partner discount is computed on
// the remainder, and the cap is applied last. Reordering changes the numbers.
package pricing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jugnuhq/jugnu-billing/internal/catalog"
)

var (
	ErrInvalidInput        = errors.New("pricing: invalid input")
	ErrUnsupportedDuration = errors.New("pricing: package does not support daily booking")
)

// DurationType selects how a campaign is billed.
type DurationType string

const (
	DurationDaily  DurationType = "daily"
	DurationWeekly DurationType = "weekly"
)

// DaysPerWeek normalizes daily bookings: daily campaigns always run in whole
// seven-day blocks, there is no partial-week daily billing.
const DaysPerWeek = 7

// bpsDenominator is the divisor for basis-point rates (10000 bps = 100%).
const bpsDenominator = 10000

// Request describes one pricing calculation. Requests are constructed fresh
// per interaction; nothing is persisted by the engine.
type Request struct {
	PackageCode  string       `json:"packageCode" binding:"required"`
	Duration     DurationType `json:"durationType" binding:"required"`
	WeekCount    int          `json:"weekCount" binding:"required"`
	AddOnCodes   []string     `json:"addOns,omitempty"`
	EarlyPartner bool         `json:"earlyPartnerEligible"`
}

// LineItem is one row of the displayable breakdown. Amounts are cents;
// discount line items carry the amount subtracted, not a negative value.
type LineItem struct {
	Label  string `json:"label"`
	Amount int64  `json:"amountCents"`
}

// Breakdown is rendered verbatim by the UI layer.
type Breakdown struct {
	Package   string     `json:"package"`
	Duration  string     `json:"duration"`
	Items     []LineItem `json:"items"`
	Discounts []LineItem `json:"discounts,omitempty"`
}

// Result is a complete priced quote. All monetary fields are integer cents.
type Result struct {
	BasePrice            int64     `json:"basePriceCents"`
	AddOnsTotal          int64     `json:"addOnsTotalCents"`
	Subtotal             int64     `json:"subtotalCents"`
	MultiWeekDiscount    int64     `json:"multiWeekDiscountCents"`
	EarlyPartnerDiscount int64     `json:"earlyPartnerDiscountCents"`
	TotalDiscount        int64     `json:"totalDiscountCents"`
	FinalTotal           int64     `json:"finalTotalCents"`
	Savings              int64     `json:"savingsCents"`
	Breakdown            Breakdown `json:"breakdown"`
}

// Engine prices requests against a catalog.
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine creates a pricing engine bound to a catalog.
func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Compute prices a request. It either returns a complete result or an error;
// there are no partial results. Unknown package or add-on codes fail closed
// (catalog.ErrUnknownPackage, catalog.ErrUnknownAddOn) because this output
// gates real money movement.
func (e *Engine) Compute(req Request) (*Result, error) {
	pkg, err := e.catalog.Package(req.PackageCode)
	if err != nil {
		return nil, err
	}

	base, err := basePrice(pkg, req.Duration, req.WeekCount)
	if err != nil {
		return nil, err
	}

	addOns, addOnsTotal, err := e.resolveAddOns(req.AddOnCodes)
	if err != nil {
		return nil, err
	}

	subtotal := base + addOnsTotal
	multiWeek, earlyPartner, totalDiscount := applyDiscounts(
		subtotal, req.WeekCount, req.EarlyPartner, e.catalog.Discounts(),
	)

	res := &Result{
		BasePrice:            base,
		AddOnsTotal:          addOnsTotal,
		Subtotal:             subtotal,
		MultiWeekDiscount:    multiWeek,
		EarlyPartnerDiscount: earlyPartner,
		TotalDiscount:        totalDiscount,
		FinalTotal:           subtotal - totalDiscount,
		Savings:              totalDiscount,
	}
	res.Breakdown = e.buildBreakdown(pkg, req, base, addOns, res)
	return res, nil
}

// basePrice computes the duration-normalized package price.
func basePrice(pkg catalog.Package, duration DurationType, weekCount int) (int64, error) {
	if weekCount < 1 {
		return 0, fmt.Errorf("%w: week count must be at least 1, got %d", ErrInvalidInput, weekCount)
	}

	switch duration {
	case DurationWeekly:
		return pkg.WeeklyRate * int64(weekCount), nil
	case DurationDaily:
		if !pkg.SupportsDailyBooking {
			return 0, ErrUnsupportedDuration
		}
		return pkg.DailyRate * DaysPerWeek * int64(weekCount), nil
	default:
		return 0, fmt.Errorf("%w: duration type must be %q or %q", ErrInvalidInput, DurationDaily, DurationWeekly)
	}
}

// resolveAddOns deduplicates codes (set semantics), resolves them against the
// catalog, and sums their flat prices. An unrecognized code is an error,
// never silently skipped.
func (e *Engine) resolveAddOns(codes []string) ([]catalog.AddOn, int64, error) {
	if len(codes) == 0 {
		return nil, 0, nil
	}

	seen := make(map[string]bool, len(codes))
	var (
		addOns []catalog.AddOn
		total  int64
	)
	for _, code := range codes {
		if seen[code] {
			continue
		}
		seen[code] = true

		a, err := e.catalog.AddOn(code)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %q", err, code)
		}
		addOns = append(addOns, a)
		total += a.Price
	}

	// Stable order for reproducible breakdowns regardless of input order.
	sort.Slice(addOns, func(i, j int) bool { return addOns[i].Code < addOns[j].Code })
	return addOns, total, nil
}

// applyDiscounts runs the fixed discount sequence:
//
//  1. multi-week, as a fraction of the subtotal
//  2. early-partner, as a fraction of the post-multi-week remainder
//  3. cap, scaling both components proportionally when exceeded
//
// When the cap bites, the multi-week component is scaled by cap/rawTotal
// (floored) and the early-partner component takes the exact remainder, so the
// two always sum to the cap and neither discount is favored.
func applyDiscounts(subtotal int64, weekCount int, earlyPartnerEligible bool, cfg catalog.DiscountConfig) (multiWeek, earlyPartner, total int64) {
	if subtotal <= 0 {
		return 0, 0, 0
	}

	if weekCount >= cfg.MultiWeekThreshold {
		multiWeek = applyBps(subtotal, cfg.MultiWeekRateBps)
	}
	if earlyPartnerEligible && cfg.EarlyPartnerActive {
		earlyPartner = applyBps(subtotal-multiWeek, cfg.EarlyPartnerRateBps)
	}

	raw := multiWeek + earlyPartner
	if raw == 0 {
		return 0, 0, 0
	}

	capAmount := applyBps(subtotal, cfg.CapBps)
	if raw > capAmount {
		multiWeek = multiWeek * capAmount / raw
		earlyPartner = capAmount - multiWeek
		return multiWeek, earlyPartner, capAmount
	}
	return multiWeek, earlyPartner, raw
}

// applyBps takes a basis-point fraction of an amount, truncating toward zero.
func applyBps(amount, bps int64) int64 {
	return amount * bps / bpsDenominator
}

func (e *Engine) buildBreakdown(pkg catalog.Package, req Request, base int64, addOns []catalog.AddOn, res *Result) Breakdown {
	b := Breakdown{
		Package:  pkg.Label,
		Duration: durationLabel(req.Duration, req.WeekCount),
	}

	b.Items = append(b.Items, LineItem{
		Label:  fmt.Sprintf("%s (%s)", pkg.Label, b.Duration),
		Amount: base,
	})
	for _, a := range addOns {
		b.Items = append(b.Items, LineItem{Label: a.Label, Amount: a.Price})
	}

	cfg := e.catalog.Discounts()
	if res.MultiWeekDiscount > 0 {
		b.Discounts = append(b.Discounts, LineItem{
			Label:  fmt.Sprintf("Multi-week discount (%s)", bpsLabel(cfg.MultiWeekRateBps)),
			Amount: res.MultiWeekDiscount,
		})
	}
	if res.EarlyPartnerDiscount > 0 {
		b.Discounts = append(b.Discounts, LineItem{
			Label:  fmt.Sprintf("Early partner discount (%s)", bpsLabel(cfg.EarlyPartnerRateBps)),
			Amount: res.EarlyPartnerDiscount,
		})
	}
	return b
}

func durationLabel(d DurationType, weeks int) string {
	unit := "weeks"
	if weeks == 1 {
		unit = "week"
	}
	if d == DurationDaily {
		return fmt.Sprintf("%d days (%d %s)", weeks*DaysPerWeek, weeks, unit)
	}
	return fmt.Sprintf("%d %s", weeks, unit)
}

// bpsLabel renders a basis-point rate as a display percentage, e.g. "10%".
func bpsLabel(bps int64) string {
	if bps%100 == 0 {
		return fmt.Sprintf("%d%%", bps/100)
	}
	return fmt.Sprintf("%d.%02d%%", bps/100, bps%100)
}
