// Package checkout turns priced quotes into payment-provider charges.
//
// The flow is: price the request through the engine, create a provider
// checkout session for exactly the quoted final total (same minor currency
// unit), and persist the quote snapshot alongside the session for audit.
// The stored snapshot is what an invoice or dispute is reconciled against.
package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/jugnuhq/jugnu-billing/internal/idgen"
	"github.com/jugnuhq/jugnu-billing/internal/pricing"
	"github.com/jugnuhq/jugnu-billing/internal/security"
	"github.com/jugnuhq/jugnu-billing/internal/traces"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrSessionNotFound = errors.New("checkout: session not found")
	ErrProviderFailed  = errors.New("checkout: payment provider request failed")
	ErrMissingURL      = errors.New("checkout: success and cancel URLs are required")
	ErrInvalidURL      = errors.New("checkout: redirect URL is not allowed")
)

// Status is a checkout session's lifecycle state.
type Status string

const (
	StatusOpen     Status = "open"
	StatusComplete Status = "complete"
	StatusExpired  Status = "expired"
)

// Session records one checkout attempt with its quote snapshot.
type Session struct {
	ID          string         `json:"id"`
	Status      Status         `json:"status"`
	Currency    string         `json:"currency"`
	AmountCents int64          `json:"amountCents"`
	Quote       pricing.Result `json:"quote"`
	ProviderID  string         `json:"providerId,omitempty"`
	ProviderURL string         `json:"providerUrl,omitempty"` // where the buyer completes payment
	CreatedAt   time.Time      `json:"createdAt"`
}

// ProviderInput is what a payment provider needs to open a session.
type ProviderInput struct {
	Reference   string // our session ID, echoed back in webhooks
	Currency    string
	AmountCents int64
	Description string
	LineItems   []pricing.LineItem
	SuccessURL  string
	CancelURL   string
}

// ProviderSession is the provider's handle for a created session.
type ProviderSession struct {
	ID  string
	URL string
}

// Provider creates charges with an external payment service.
type Provider interface {
	CreateSession(ctx context.Context, input ProviderInput) (*ProviderSession, error)
}

// Store persists checkout sessions.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
}

// Service prices requests and opens provider sessions for the result.
type Service struct {
	engine   *pricing.Engine
	provider Provider
	store    Store
	currency string
}

// NewService creates a checkout service.
func NewService(engine *pricing.Engine, provider Provider, store Store, currency string) *Service {
	return &Service{
		engine:   engine,
		provider: provider,
		store:    store,
		currency: currency,
	}
}

// CreateSessionInput describes one checkout request.
type CreateSessionInput struct {
	Pricing    pricing.Request `json:"pricing" binding:"required"`
	SuccessURL string          `json:"successUrl" binding:"required"`
	CancelURL  string          `json:"cancelUrl" binding:"required"`
}

// CreateSession prices the request and opens a provider session for exactly
// the quoted final total. Pricing failures surface as-is; nothing is charged
// or persisted unless the full quote succeeded.
func (s *Service) CreateSession(ctx context.Context, input CreateSessionInput) (*Session, error) {
	ctx, span := traces.StartSpan(ctx, "checkout.CreateSession",
		traces.PackageCode(input.Pricing.PackageCode))
	defer span.End()

	if input.SuccessURL == "" || input.CancelURL == "" {
		return nil, ErrMissingURL
	}
	for _, u := range []string{input.SuccessURL, input.CancelURL} {
		if err := security.ValidateRedirectURL(u); err != nil {
			return nil, errors.Join(ErrInvalidURL, err)
		}
	}

	quote, err := s.engine.Compute(input.Pricing)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:          idgen.WithPrefix("cs_"),
		Status:      StatusOpen,
		Currency:    s.currency,
		AmountCents: quote.FinalTotal,
		Quote:       *quote,
		CreatedAt:   time.Now().UTC(),
	}
	span.SetAttributes(traces.SessionID(session.ID), traces.AmountCents(quote.FinalTotal))

	ps, err := s.provider.CreateSession(ctx, ProviderInput{
		Reference:   session.ID,
		Currency:    s.currency,
		AmountCents: quote.FinalTotal,
		Description: quote.Breakdown.Package + " (" + quote.Breakdown.Duration + ")",
		LineItems:   quote.Breakdown.Items,
		SuccessURL:  input.SuccessURL,
		CancelURL:   input.CancelURL,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider session creation failed")
		return nil, errors.Join(ErrProviderFailed, err)
	}
	session.ProviderID = ps.ID
	session.ProviderURL = ps.URL

	if err := s.store.Create(ctx, session); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist session")
		return nil, err
	}
	return session, nil
}

// GetSession fetches a stored session by ID.
func (s *Service) GetSession(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}
