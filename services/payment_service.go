package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"styledecor-server/config"
	"styledecor-server/errs"
	"styledecor-server/models"
	"styledecor-server/payments"
)

// PaymentService bridges external checkout-session state into booking state,
// exactly once per session.
type PaymentService struct {
	db       *gorm.DB
	provider payments.Provider
	tracking *TrackingService
	cfg      config.StripeConfig
}

func NewPaymentService(db *gorm.DB, provider payments.Provider, tracking *TrackingService, cfg config.StripeConfig) *PaymentService {
	return &PaymentService{db: db, provider: provider, tracking: tracking, cfg: cfg}
}

// CheckoutRequest carries the fields needed to open a checkout session.
type CheckoutRequest struct {
	ServiceID   uint    `json:"service_id" binding:"required"`
	ServiceName string  `json:"service_name" binding:"required"`
	PriceBDT    float64 `json:"price_bdt" binding:"required,gt=0"`
}

// CreateCheckoutSession opens a hosted checkout session for a BDT-priced
// listing, charging the USD equivalent at the configured rate. The session
// metadata carries the correlation key used later by ConfirmPayment.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, customerEmail string, req CheckoutRequest) (string, error) {
	cents := int64(math.Round(req.PriceBDT / s.cfg.BDTPerUSD * 100))
	if cents < 50 {
		// Stripe rejects charges under its minimum; floor to 50 cents.
		cents = 50
	}

	session, err := s.provider.CreateCheckoutSession(ctx, payments.CheckoutParams{
		ServiceID:      req.ServiceID,
		ServiceName:    req.ServiceName,
		CustomerEmail:  customerEmail,
		AmountUSDCents: cents,
		SuccessURL:     s.cfg.SuccessURL,
		CancelURL:      s.cfg.CancelURL,
	})
	if err != nil {
		return "", errs.Wrap(errs.KindUpstream, "failed to create checkout session", err)
	}
	return session.URL, nil
}

// ConfirmResult reports the outcome of a confirmation call.
type ConfirmResult struct {
	BookingID        uint   `json:"booking_id"`
	TransactionID    string `json:"transaction_id"`
	AlreadyConfirmed bool   `json:"already_confirmed"`
}

// errReplayed aborts the confirmation transaction when another call already
// confirmed the same session; the caller converts it to an idempotent
// success.
var errReplayed = errors.New("session already confirmed")

// ConfirmPayment turns a completed checkout session into exactly one booking
// transition and one payment record. Duplicate and concurrent calls for the
// same session observe the already-paid state and succeed without writing.
func (s *PaymentService) ConfirmPayment(ctx context.Context, sessionID string) (*ConfirmResult, error) {
	session, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		return nil, errs.Wrap(errs.KindUpstream, "failed to retrieve checkout session", err)
	}
	if !session.Paid {
		return nil, errs.New(errs.KindInvalidInput, "payment is not completed for this session")
	}

	serviceID, err := strconv.ParseUint(session.Metadata[payments.MetaServiceID], 10, 64)
	if err != nil {
		return nil, errs.New(errs.KindInvalidInput, "session metadata is missing the service id")
	}
	customerEmail := session.Metadata[payments.MetaCustomerEmail]
	if customerEmail == "" {
		return nil, errs.New(errs.KindInvalidInput, "session metadata is missing the customer email")
	}

	transactionID := session.PaymentIntentID
	if transactionID == "" {
		transactionID = uuid.NewString()
	}
	amountUSD := float64(session.AmountTotalCents) / 100

	result := &ConfirmResult{TransactionID: transactionID}
	now := time.Now()

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := tx.Where("service_id = ? AND customer_email = ? AND status = ?",
			serviceID, customerEmail, models.BookingStatusUnpaid).
			Order("created_at ASC").
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return s.checkReplay(tx, sessionID, result)
			}
			return errs.Wrap(errs.KindInternal, "failed to look up booking", err)
		}

		updated := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, models.BookingStatusUnpaid).
			Updates(map[string]interface{}{
				"status":            models.BookingStatusPaid,
				"paid_at":           now,
				"paid_amount_usd":   amountUSD,
				"stripe_session_id": sessionID,
				"transaction_id":    transactionID,
			})
		if updated.Error != nil {
			return errs.Wrap(errs.KindInternal, "failed to mark booking paid", updated.Error)
		}
		if updated.RowsAffected == 0 {
			// A concurrent confirmation won between the read and the write.
			return s.checkReplay(tx, sessionID, result)
		}

		payment := models.Payment{
			BookingID:        booking.ID,
			StripeSessionID:  sessionID,
			TransactionID:    transactionID,
			CustomerEmail:    customerEmail,
			AmountUSD:        amountUSD,
			OriginalPriceBDT: booking.OriginalPriceBDT,
			ServiceID:        booking.ServiceID,
			ServiceName:      booking.ServiceName,
			PaidAt:           now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			if isUniqueViolation(err) {
				// Another confirmation inserted the receipt first.
				return errReplayed
			}
			return errs.Wrap(errs.KindInternal, "failed to record payment", err)
		}

		result.BookingID = booking.ID
		return nil
	})

	if txErr != nil {
		if errors.Is(txErr, errReplayed) {
			return s.replaySuccess(ctx, sessionID)
		}
		return nil, txErr
	}
	if result.AlreadyConfirmed {
		return result, nil
	}

	s.tracking.Record(ctx, result.BookingID, "payment confirmed", &customerEmail, nil)
	return result, nil
}

// checkReplay looks for a booking already paid under this session. Finding
// one makes the confirmation an idempotent replay; finding none means there
// is no booking to confirm.
func (s *PaymentService) checkReplay(tx *gorm.DB, sessionID string, result *ConfirmResult) error {
	var paid models.Booking
	err := tx.Where("stripe_session_id = ? AND status = ?", sessionID, models.BookingStatusPaid).
		First(&paid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.New(errs.KindNotFound, "no unpaid booking matches this payment session")
		}
		return errs.Wrap(errs.KindInternal, "failed to check for confirmed booking", err)
	}
	result.BookingID = paid.ID
	if paid.TransactionID != nil {
		result.TransactionID = *paid.TransactionID
	}
	result.AlreadyConfirmed = true
	return nil
}

// replaySuccess resolves the idempotent response outside the aborted
// transaction after a unique-violation race on the payment receipt.
func (s *PaymentService) replaySuccess(ctx context.Context, sessionID string) (*ConfirmResult, error) {
	result := &ConfirmResult{}
	if err := s.checkReplay(s.db.WithContext(ctx), sessionID, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListPayments returns every payment receipt, newest first.
func (s *PaymentService) ListPayments(ctx context.Context) ([]models.Payment, error) {
	var records []models.Payment
	if err := s.db.WithContext(ctx).Order("paid_at DESC").Find(&records).Error; err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to fetch payments", err)
	}
	return records, nil
}
