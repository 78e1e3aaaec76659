// Package loyalty implements the Jugnu Points (JP) wallet and the merchant
// redemption cap calculation.
//
// The cap calculation is pure and advisory: the UI uses it to show a slider
// maximum. The authoritative check happens again inside Service.Redeem
// against the live wallet balance, and the store's debit is a conditional
// check-and-decrement, so a stale balance on the client can never overdraw
// a wallet.
//
// Fixed exchange rate: 1000 JP = 1 currency unit.
package loyalty

import (
	"context"
	"errors"
	"time"

	"github.com/jugnuhq/jugnu-billing/internal/pagination"
	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound      = errors.New("loyalty: wallet not found")
	ErrInvalidBill         = errors.New("loyalty: invalid bill amount")
	ErrInvalidCapPercent   = errors.New("loyalty: invalid redemption cap percentage")
	ErrInvalidPoints       = errors.New("loyalty: invalid point amount")
	ErrExceedsRedeemable   = errors.New("loyalty: requested points exceed redeemable maximum")
	ErrInsufficientBalance = errors.New("loyalty: insufficient point balance")
	ErrInvalidCursor       = errors.New("loyalty: invalid history cursor")
)

const (
	// PointsPerCurrencyUnit is the fixed JP exchange rate.
	PointsPerCurrencyUnit = 1000

	// DefaultCapPercent applies when a merchant has not configured a
	// redemption cap.
	DefaultCapPercent = 20
)

// Cap is the result of a redemption cap calculation for one bill.
type Cap struct {
	BillAmount            decimal.Decimal `json:"billAmount"`
	CapPercent            int64           `json:"capPercent"`
	MaxRedeemableCurrency decimal.Decimal `json:"maxRedeemableCurrency"`
	MaxRedeemablePoints   int64           `json:"maxRedeemablePoints"`
	WalletBalance         int64           `json:"walletBalance"`
	ActualMaxRedeemable   int64           `json:"actualMaxRedeemable"`
}

// RedemptionCap computes how many points may be redeemed against a bill.
// capPercent <= 0 selects the default; a percentage above 100 is a merchant
// misconfiguration and is rejected.
func RedemptionCap(bill decimal.Decimal, capPercent int64, walletBalance int64) (Cap, error) {
	if bill.IsNegative() {
		return Cap{}, ErrInvalidBill
	}
	if capPercent <= 0 {
		capPercent = DefaultCapPercent
	}
	if capPercent > 100 {
		return Cap{}, ErrInvalidCapPercent
	}

	maxCurrency := bill.Mul(decimal.NewFromInt(capPercent)).Div(decimal.NewFromInt(100))
	maxPoints := maxCurrency.Mul(decimal.NewFromInt(PointsPerCurrencyUnit)).Floor().IntPart()

	actual := maxPoints
	if walletBalance < actual {
		actual = walletBalance
	}
	if actual < 0 {
		actual = 0
	}

	return Cap{
		BillAmount:            bill,
		CapPercent:            capPercent,
		MaxRedeemableCurrency: maxCurrency,
		MaxRedeemablePoints:   maxPoints,
		WalletBalance:         walletBalance,
		ActualMaxRedeemable:   actual,
	}, nil
}

// ClampSelection clamps a user-selected point amount into the displayable
// range [0, actualMax]. Display-only: final submission goes through
// Service.Redeem, which rejects instead of clamping.
func ClampSelection(points int64, c Cap) int64 {
	if points < 0 {
		return 0
	}
	if points > c.ActualMaxRedeemable {
		return c.ActualMaxRedeemable
	}
	return points
}

// Wallet is one user's point balance.
type Wallet struct {
	UserID           string    `json:"userId"`
	Balance          int64     `json:"balance"`
	LifetimeEarned   int64     `json:"lifetimeEarned"`
	LifetimeRedeemed int64     `json:"lifetimeRedeemed"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Entry is one wallet ledger entry.
type Entry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"` // earn, redeem
	Points      int64     `json:"points"`
	Reference   string    `json:"reference,omitempty"` // bill ID, campaign ID, etc.
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store persists wallet data. Redeem must be atomic: the balance check and
// decrement happen in one step so concurrent redemptions cannot double-spend.
// History returns entries newest first, strictly older than the cursor when
// one is given.
type Store interface {
	GetWallet(ctx context.Context, userID string) (*Wallet, error)
	Earn(ctx context.Context, userID string, points int64, reference, description string) error
	Redeem(ctx context.Context, userID string, points int64, reference, description string) error
	History(ctx context.Context, userID string, cursor *pagination.Cursor, limit int) ([]*Entry, error)
}
