// Package payments isolates the hosted-checkout processor behind a narrow
// interface so the reconciliation logic never touches the SDK directly.
package payments

import "context"

// CheckoutParams describes one hosted checkout session to create.
type CheckoutParams struct {
	ServiceID      uint
	ServiceName    string
	CustomerEmail  string
	AmountUSDCents int64
	SuccessURL     string
	CancelURL      string
}

// CheckoutSession is the created session's identity and redirect target.
type CheckoutSession struct {
	ID  string
	URL string
}

// SessionStatus is the processor's view of a session after checkout.
type SessionStatus struct {
	ID string
	// Paid is true once the processor has captured the amount.
	Paid bool
	// AmountTotalCents is the captured amount in the smallest currency unit.
	AmountTotalCents int64
	Currency         string
	// PaymentIntentID identifies the underlying charge, when available.
	PaymentIntentID string
	Metadata        map[string]string
}

// Provider creates hosted checkout sessions and reports their status.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*SessionStatus, error)
}
