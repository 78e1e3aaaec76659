package loyalty

import (
	"context"
	"fmt"
	"time"

	"github.com/jugnuhq/jugnu-billing/internal/pagination"
	"github.com/jugnuhq/jugnu-billing/internal/traces"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/codes"
)

// Service exposes wallet operations and re-validates redemption caps
// server-side at commit time.
type Service struct {
	store      Store
	defaultCap int64
}

// NewService creates a loyalty service backed by a store. defaultCapPercent
// is the merchant-wide cap applied when a request does not carry its own;
// non-positive values select the built-in default.
func NewService(store Store, defaultCapPercent int64) *Service {
	if defaultCapPercent <= 0 {
		defaultCapPercent = DefaultCapPercent
	}
	return &Service{store: store, defaultCap: defaultCapPercent}
}

// capPercent resolves a per-request cap, falling back to the configured
// merchant-wide default.
func (s *Service) capPercent(requested int64) int64 {
	if requested <= 0 {
		return s.defaultCap
	}
	return requested
}

// Balance returns a user's wallet.
func (s *Service) Balance(ctx context.Context, userID string) (*Wallet, error) {
	return s.store.GetWallet(ctx, userID)
}

// History returns a page of wallet entries, newest first. The cursor string
// comes from a previous page's nextCursor; empty starts from the top.
func (s *Service) History(ctx context.Context, userID, cursorStr string, limit int) ([]*Entry, string, bool, error) {
	if limit <= 0 {
		limit = 50
	}
	cursor, err := pagination.Decode(cursorStr)
	if err != nil {
		return nil, "", false, ErrInvalidCursor
	}

	// Fetch one extra to detect whether another page exists.
	entries, err := s.store.History(ctx, userID, cursor, limit+1)
	if err != nil {
		return nil, "", false, err
	}

	page, next, hasMore := pagination.ComputePage(entries, limit, func(e *Entry) (time.Time, string) {
		return e.CreatedAt, e.ID
	})
	return page, next, hasMore, nil
}

// Earn credits points to a wallet (e.g. after a confirmed purchase).
func (s *Service) Earn(ctx context.Context, userID string, points int64, reference, description string) error {
	ctx, span := traces.StartSpan(ctx, "loyalty.Earn",
		traces.UserID(userID), traces.Points(points))
	defer span.End()

	if points <= 0 {
		return ErrInvalidPoints
	}
	if err := s.store.Earn(ctx, userID, points, reference, description); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to credit points")
		return err
	}
	return nil
}

// Preview computes the redemption cap for a bill against the live balance.
// The result is advisory; Redeem re-checks everything.
func (s *Service) Preview(ctx context.Context, userID string, bill decimal.Decimal, capPercent int64) (Cap, error) {
	w, err := s.store.GetWallet(ctx, userID)
	if err != nil {
		return Cap{}, err
	}
	return RedemptionCap(bill, s.capPercent(capPercent), w.Balance)
}

// RedeemRequest is a final redemption submission.
type RedeemRequest struct {
	BillAmount decimal.Decimal
	CapPercent int64
	Points     int64
	Reference  string // bill or order identifier
}

// RedeemResult reports what was debited.
type RedeemResult struct {
	Cap            Cap     `json:"cap"`
	PointsRedeemed int64   `json:"pointsRedeemed"`
	Wallet         *Wallet `json:"wallet"`
}

// Redeem debits points against a bill. The requested amount is validated
// against the cap computed from the live balance and rejected, not silently
// clamped, when it exceeds the allowed maximum. This closes the race between
// what the UI displayed and a wallet that was spent from in the meantime.
func (s *Service) Redeem(ctx context.Context, userID string, req RedeemRequest) (*RedeemResult, error) {
	ctx, span := traces.StartSpan(ctx, "loyalty.Redeem",
		traces.UserID(userID), traces.Points(req.Points))
	defer span.End()

	if req.Points <= 0 {
		return nil, ErrInvalidPoints
	}

	w, err := s.store.GetWallet(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load wallet")
		return nil, err
	}

	c, err := RedemptionCap(req.BillAmount, s.capPercent(req.CapPercent), w.Balance)
	if err != nil {
		return nil, err
	}
	if req.Points > c.ActualMaxRedeemable {
		return nil, fmt.Errorf("%w: requested %d, maximum %d", ErrExceedsRedeemable, req.Points, c.ActualMaxRedeemable)
	}

	// The store enforces balance >= points atomically; a concurrent
	// redemption between the check above and this call surfaces as
	// ErrInsufficientBalance rather than a negative balance.
	if err := s.store.Redeem(ctx, userID, req.Points, req.Reference, "bill_redemption"); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to debit wallet")
		return nil, err
	}

	updated, err := s.store.GetWallet(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reload wallet")
		return nil, err
	}

	return &RedeemResult{
		Cap:            c,
		PointsRedeemed: req.Points,
		Wallet:         updated,
	}, nil
}
