package models

import (
	"time"
)

// BookingStatus represents the payment status of a booking.
type BookingStatus string

const (
	BookingStatusUnpaid BookingStatus = "unpaid"
	BookingStatusPaid   BookingStatus = "paid"
)

// WorkStatus represents the fulfillment-progress state of a booking,
// distinct from its payment status.
type WorkStatus string

const (
	WorkStatusPending           WorkStatus = "pending"
	WorkStatusAssigned          WorkStatus = "assigned"
	WorkStatusInProgress        WorkStatus = "in-progress"
	WorkStatusMaterialsPrepared WorkStatus = "materials-prepared"
	WorkStatusCompleted         WorkStatus = "completed"
	WorkStatusRejected          WorkStatus = "rejected"
)

// Booking represents one customer's request for a service instance with its
// own payment and work lifecycle.
type Booking struct {
	ID               uint    `json:"id" gorm:"primaryKey"`
	ServiceID        uint    `json:"service_id" gorm:"not null;index"`
	ServiceName      string  `json:"service_name" gorm:"type:varchar(200);not null"`
	ServiceImage     string  `json:"service_image" gorm:"type:varchar(500)"`
	ServiceMode      string  `json:"service_mode" gorm:"type:varchar(50)"`
	Unit             string  `json:"unit" gorm:"type:varchar(50)"`
	CustomerEmail    string  `json:"customer_email" gorm:"type:varchar(255);not null;index"`
	CustomerName     string  `json:"customer_name" gorm:"type:varchar(255)"`
	BookingDate      string  `json:"booking_date" gorm:"type:varchar(50)"`
	Location         string  `json:"location" gorm:"type:text"`
	OriginalPriceBDT float64 `json:"original_price_bdt" gorm:"type:decimal(10,2);not null"`
	PaidAmountUSD    float64 `json:"paid_amount_usd" gorm:"type:decimal(10,2)"`

	// Payment fields
	Status          BookingStatus `json:"status" gorm:"type:varchar(20);not null;default:'unpaid'"`
	StripeSessionID *string       `json:"stripe_session_id" gorm:"type:varchar(255);index"`
	TransactionID   *string       `json:"transaction_id" gorm:"type:varchar(255)"`
	PaidAt          *time.Time    `json:"paid_at"`

	// Work fields
	WorkStatus     WorkStatus `json:"work_status" gorm:"type:varchar(30);not null;default:'pending'"`
	DecoratorID    *uint      `json:"decorator_id"`
	DecoratorEmail *string    `json:"decorator_email" gorm:"type:varchar(255);index"`
	DecoratorName  *string    `json:"decorator_name" gorm:"type:varchar(255)"`
	AssignedAt     *time.Time `json:"assigned_at"`
	CashedOut      bool       `json:"cashed_out" gorm:"default:false"`
	CashedOutAt    *time.Time `json:"cashed_out_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingCreate represents the request structure for creating a booking.
type BookingCreate struct {
	ServiceID   uint   `json:"service_id" binding:"required"`
	BookingDate string `json:"booking_date" binding:"required"`
	Location    string `json:"location" binding:"required"`
}

// BookingUpdate represents the customer-editable fields of an unpaid booking.
type BookingUpdate struct {
	BookingDate string `json:"booking_date"`
	Location    string `json:"location"`
}

// DecoratorWorkTargets is the set of work statuses the assigned decorator
// (or an admin) may move a booking into.
var DecoratorWorkTargets = []WorkStatus{
	WorkStatusInProgress,
	WorkStatusMaterialsPrepared,
	WorkStatusCompleted,
	WorkStatusRejected,
}

// legalSources lists the work statuses a booking must currently be in for a
// transition into the keyed status to be legal.
var legalSources = map[WorkStatus][]WorkStatus{
	WorkStatusInProgress:        {WorkStatusAssigned},
	WorkStatusMaterialsPrepared: {WorkStatusInProgress},
	WorkStatusCompleted:         {WorkStatusInProgress, WorkStatusMaterialsPrepared},
	WorkStatusRejected:          {WorkStatusAssigned, WorkStatusInProgress, WorkStatusMaterialsPrepared},
}

// IsDecoratorWorkTarget reports whether s is a status a decorator may set.
func IsDecoratorWorkTarget(s WorkStatus) bool {
	for _, t := range DecoratorWorkTargets {
		if t == s {
			return true
		}
	}
	return false
}

// LegalSources returns the work statuses from which a transition into target
// is allowed.
func LegalSources(target WorkStatus) []WorkStatus {
	return legalSources[target]
}

// CanTransition reports whether the from→target edge is in the legal set.
func CanTransition(from, target WorkStatus) bool {
	for _, s := range legalSources[target] {
		if s == from {
			return true
		}
	}
	return false
}

// ConcludesWork reports whether the status releases the assigned decorator.
func ConcludesWork(s WorkStatus) bool {
	return s == WorkStatusCompleted || s == WorkStatusRejected
}
