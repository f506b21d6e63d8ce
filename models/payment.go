package models

import "time"

// Payment is the durable receipt for one confirmed checkout session. The
// unique index on StripeSessionID is what makes confirmation idempotent
// under concurrent success callbacks.
type Payment struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	BookingID        uint      `json:"booking_id" gorm:"not null;index"`
	StripeSessionID  string    `json:"stripe_session_id" gorm:"type:varchar(255);uniqueIndex;not null"`
	TransactionID    string    `json:"transaction_id" gorm:"type:varchar(255);not null"`
	CustomerEmail    string    `json:"customer_email" gorm:"type:varchar(255);not null;index"`
	AmountUSD        float64   `json:"amount_usd" gorm:"type:decimal(10,2);not null"`
	OriginalPriceBDT float64   `json:"original_price_bdt" gorm:"type:decimal(10,2)"`
	ServiceID        uint      `json:"service_id"`
	ServiceName      string    `json:"service_name" gorm:"type:varchar(200)"`
	PaidAt           time.Time `json:"paid_at"`
	CreatedAt        time.Time `json:"created_at"`
}
