package models

import "time"

// Service is a catalog listing a customer can book.
type Service struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(200);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Image       string    `json:"image" gorm:"type:varchar(500)"`
	Mode        string    `json:"mode" gorm:"type:varchar(50)"` // onsite, studio
	Unit        string    `json:"unit" gorm:"type:varchar(50)"` // per event, per day
	PriceBDT    float64   `json:"price_bdt" gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ServiceUpsert represents the request structure for creating or updating a
// catalog listing.
type ServiceUpsert struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Mode        string  `json:"mode"`
	Unit        string  `json:"unit"`
	PriceBDT    float64 `json:"price_bdt" binding:"required,gt=0"`
}
