package payments

import (
	"context"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// Metadata keys attached to every checkout session so the confirmation
// endpoint can correlate the session back to a booking.
const (
	MetaServiceID     = "service_id"
	MetaCustomerEmail = "customer_email"
)

// StripeProvider implements Provider on the Stripe Checkout API.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider builds a provider with its own API client; no global
// SDK state is touched.
func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(params.SuccessURL),
		CancelURL:     stripe.String(params.CancelURL),
		CustomerEmail: stripe.String(params.CustomerEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(params.AmountUSDCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.ServiceName),
					},
				},
			},
		},
	}
	sessionParams.Context = ctx
	sessionParams.AddMetadata(MetaServiceID, strconv.FormatUint(uint64(params.ServiceID), 10))
	sessionParams.AddMetadata(MetaCustomerEmail, params.CustomerEmail)

	created, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, err
	}
	return &CheckoutSession{ID: created.ID, URL: created.URL}, nil
}

func (p *StripeProvider) GetSession(ctx context.Context, sessionID string) (*SessionStatus, error) {
	getParams := &stripe.CheckoutSessionParams{}
	getParams.Context = ctx

	sess, err := p.api.CheckoutSessions.Get(sessionID, getParams)
	if err != nil {
		return nil, err
	}

	status := &SessionStatus{
		ID:               sess.ID,
		Paid:             sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotalCents: sess.AmountTotal,
		Currency:         string(sess.Currency),
		Metadata:         sess.Metadata,
	}
	if sess.PaymentIntent != nil {
		status.PaymentIntentID = sess.PaymentIntent.ID
	}
	return status, nil
}
