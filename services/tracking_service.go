package services

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"styledecor-server/errs"
	"styledecor-server/models"
)

// TrackingService appends to and reads the per-booking audit trail.
type TrackingService struct {
	db *gorm.DB
}

func NewTrackingService(db *gorm.DB) *TrackingService {
	return &TrackingService{db: db}
}

// Append writes one audit line for a booking.
func (s *TrackingService) Append(ctx context.Context, bookingID uint, status string, updatedBy, previousStatus *string) error {
	entry := models.TrackingLog{
		TrackingID:     fmt.Sprintf("%d", bookingID),
		Status:         status,
		UpdatedBy:      updatedBy,
		PreviousStatus: previousStatus,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return errs.Wrap(errs.KindInternal, "failed to write tracking log", err)
	}
	return nil
}

// Record is the best-effort variant used after a state transition has
// committed: a failed append is surfaced to operators but never fails the
// parent request.
func (s *TrackingService) Record(ctx context.Context, bookingID uint, status string, updatedBy, previousStatus *string) {
	if err := s.Append(ctx, bookingID, status, updatedBy, previousStatus); err != nil {
		log.Printf("⚠️ tracking log write failed for booking %d (%s): %v", bookingID, status, err)
	}
}

// Logs returns a booking's audit trail ordered oldest first.
func (s *TrackingService) Logs(ctx context.Context, trackingID string) ([]models.TrackingLog, error) {
	var logs []models.TrackingLog
	err := s.db.WithContext(ctx).
		Where("tracking_id = ?", trackingID).
		Order("created_at ASC, id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to fetch tracking logs", err)
	}
	return logs, nil
}
