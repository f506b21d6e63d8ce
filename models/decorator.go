package models

import "time"

// DecoratorStatus represents the application status of a decorator profile.
type DecoratorStatus string

const (
	DecoratorStatusPending  DecoratorStatus = "pending"
	DecoratorStatusApproved DecoratorStatus = "approved"
	DecoratorStatusRejected DecoratorStatus = "rejected"
)

// DecoratorWorkStatus represents a decorator's availability for assignment.
type DecoratorWorkStatus string

const (
	DecoratorAvailable DecoratorWorkStatus = "available"
	DecoratorBusy      DecoratorWorkStatus = "busy"
)

// Decorator represents a contractor profile. A decorator holds at most one
// active assignment: workStatus flips to busy exactly when a booking is
// assigned and back to available when that booking's work concludes.
type Decorator struct {
	ID             uint                `json:"id" gorm:"primaryKey"`
	Name           string              `json:"name" gorm:"type:varchar(255);not null"`
	Email          string              `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone          string              `json:"phone" gorm:"type:varchar(30)"`
	Experience     string              `json:"experience" gorm:"type:text"`
	Portfolio      string              `json:"portfolio" gorm:"type:varchar(500)"`
	Region         string              `json:"region" gorm:"type:varchar(100)"`
	District       string              `json:"district" gorm:"type:varchar(100)"`
	Area           string              `json:"area" gorm:"type:varchar(100)"`
	Specialization string              `json:"specialization" gorm:"type:varchar(200)"`
	Bio            string              `json:"bio" gorm:"type:text"`
	Status         DecoratorStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	WorkStatus     DecoratorWorkStatus `json:"work_status" gorm:"type:varchar(20);not null;default:'available'"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// DecoratorApplication represents the request structure for applying as a
// decorator.
type DecoratorApplication struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required"`
	Experience     string `json:"experience"`
	Portfolio      string `json:"portfolio"`
	Region         string `json:"region"`
	District       string `json:"district"`
	Area           string `json:"area"`
	Specialization string `json:"specialization"`
	Bio            string `json:"bio"`
}

// IsValidDecoratorStatus reports whether s is a known application status.
func IsValidDecoratorStatus(s DecoratorStatus) bool {
	switch s {
	case DecoratorStatusPending, DecoratorStatusApproved, DecoratorStatusRejected:
		return true
	default:
		return false
	}
}

// IsValidDecoratorWorkStatus reports whether s is a known availability value.
func IsValidDecoratorWorkStatus(s DecoratorWorkStatus) bool {
	return s == DecoratorAvailable || s == DecoratorBusy
}
