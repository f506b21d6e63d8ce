package models

import "time"

// TrackingLog is one immutable audit line in a booking's status history.
// TrackingID is the booking id rendered as a string; entries are ordered by
// CreatedAt ascending for display.
type TrackingLog struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	TrackingID     string    `json:"tracking_id" gorm:"type:varchar(64);not null;index"`
	Status         string    `json:"status" gorm:"type:varchar(255);not null"`
	UpdatedBy      *string   `json:"updated_by,omitempty" gorm:"type:varchar(255)"`
	PreviousStatus *string   `json:"previous_status,omitempty" gorm:"type:varchar(50)"`
	CreatedAt      time.Time `json:"created_at"`
}
