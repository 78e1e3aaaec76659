package checkout

import (
	"context"
	"strconv"

	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// StripeProvider creates Stripe Checkout sessions.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider creates a provider using the given secret key.
func NewStripeProvider(secretKey string) *StripeProvider {
	return &StripeProvider{api: client.New(secretKey, nil)}
}

var _ Provider = (*StripeProvider)(nil)

// CreateSession opens a Stripe Checkout session for the exact quoted total.
// A single line item carries the final total so the charge can never drift
// from the quote; the per-line breakdown travels in metadata for support.
func (p *StripeProvider) CreateSession(ctx context.Context, input ProviderInput) (*ProviderSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(input.Reference),
		SuccessURL:        stripe.String(input.SuccessURL),
		CancelURL:         stripe.String(input.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(input.Currency),
					UnitAmount: stripe.Int64(input.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(input.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	params.AddMetadata("reference", input.Reference)
	for i, item := range input.LineItems {
		params.AddMetadata("line_"+strconv.Itoa(i), item.Label+"="+strconv.FormatInt(item.Amount, 10))
	}

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return &ProviderSession{ID: sess.ID, URL: sess.URL}, nil
}
