package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"styledecor-server/errs"
	"styledecor-server/guards"
	"styledecor-server/models"
)

// BookingService owns the booking lifecycle: creation, customer edits while
// unpaid, decorator assignment, work-status transitions, and cashout. Every
// precondition-bearing write is a conditional update; zero rows affected
// means the precondition no longer holds.
type BookingService struct {
	db         *gorm.DB
	decorators *DecoratorService
	tracking   *TrackingService
}

func NewBookingService(db *gorm.DB, decorators *DecoratorService, tracking *TrackingService) *BookingService {
	return &BookingService{db: db, decorators: decorators, tracking: tracking}
}

// Create opens a new unpaid booking for a catalog service, snapshotting the
// listing's fields so later catalog edits don't rewrite history.
func (s *BookingService) Create(ctx context.Context, customerEmail, customerName string, req models.BookingCreate) (*models.Booking, error) {
	var service models.Service
	if err := s.db.WithContext(ctx).First(&service, req.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "service not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to fetch service", err)
	}

	booking := models.Booking{
		ServiceID:        service.ID,
		ServiceName:      service.Name,
		ServiceImage:     service.Image,
		ServiceMode:      service.Mode,
		Unit:             service.Unit,
		CustomerEmail:    customerEmail,
		CustomerName:     customerName,
		BookingDate:      req.BookingDate,
		Location:         req.Location,
		OriginalPriceBDT: service.PriceBDT,
		Status:           models.BookingStatusUnpaid,
		WorkStatus:       models.WorkStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&booking).Error; err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to create booking", err)
	}
	return &booking, nil
}

// HasBooked reports whether the customer has any booking for the service.
func (s *BookingService) HasBooked(ctx context.Context, customerEmail string, serviceID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("service_id = ? AND customer_email = ?", serviceID, customerEmail).
		Count(&count).Error
	if err != nil {
		return false, errs.Wrap(errs.KindInternal, "failed to check booking", err)
	}
	return count > 0, nil
}

// MyBookings returns the caller's bookings, newest first.
func (s *BookingService) MyBookings(ctx context.Context, customerEmail string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("customer_email = ?", customerEmail).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to fetch bookings", err)
	}
	return bookings, nil
}

// AllBookings returns every booking, newest first. Admin-only at the route.
func (s *BookingService) AllBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to fetch bookings", err)
	}
	return bookings, nil
}

// MyAssignments returns the bookings assigned to a decorator, newest first.
func (s *BookingService) MyAssignments(ctx context.Context, decoratorEmail string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("decorator_email = ?", decoratorEmail).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to fetch assignments", err)
	}
	return bookings, nil
}

// ownedBooking fetches a booking scoped by id AND owner email together, so a
// foreign booking does not exist from the caller's perspective.
func (s *BookingService) ownedBooking(ctx context.Context, id uint, customerEmail string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).
		Where("id = ? AND customer_email = ?", id, customerEmail).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "booking not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to fetch booking", err)
	}
	return &booking, nil
}

// Update lets the owning customer edit an unpaid booking. Paid bookings are
// immutable to the customer.
func (s *BookingService) Update(ctx context.Context, callerEmail string, id uint, req models.BookingUpdate) error {
	booking, err := s.ownedBooking(ctx, id, callerEmail)
	if err != nil {
		return err
	}
	if booking.Status == models.BookingStatusPaid {
		return errs.New(errs.KindForbidden, "paid bookings cannot be edited")
	}

	updates := map[string]interface{}{}
	if req.BookingDate != "" {
		updates["booking_date"] = req.BookingDate
	}
	if req.Location != "" {
		updates["location"] = req.Location
	}
	if len(updates) == 0 {
		return errs.New(errs.KindInvalidInput, "nothing to update")
	}

	result := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND customer_email = ? AND status = ?", id, callerEmail, models.BookingStatusUnpaid).
		Updates(updates)
	if result.Error != nil {
		return errs.Wrap(errs.KindInternal, "failed to update booking", result.Error)
	}
	if result.RowsAffected == 0 {
		// Paid between the read and the write.
		return errs.New(errs.KindForbidden, "paid bookings cannot be edited")
	}
	return nil
}

// Delete lets the owning customer remove an unpaid booking.
func (s *BookingService) Delete(ctx context.Context, callerEmail string, id uint) error {
	booking, err := s.ownedBooking(ctx, id, callerEmail)
	if err != nil {
		return err
	}
	if booking.Status == models.BookingStatusPaid {
		return errs.New(errs.KindForbidden, "paid bookings cannot be deleted")
	}

	result := s.db.WithContext(ctx).
		Where("id = ? AND customer_email = ? AND status = ?", id, callerEmail, models.BookingStatusUnpaid).
		Delete(&models.Booking{})
	if result.Error != nil {
		return errs.Wrap(errs.KindInternal, "failed to delete booking", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.New(errs.KindForbidden, "paid bookings cannot be deleted")
	}
	return nil
}

// AssignDecorator puts a pending booking into assigned and claims the
// decorator, atomically: the decorator flips available→busy and the booking
// records who holds it. A precondition that was already false at read time
// is InvalidInput; one lost to a concurrent request is Conflict.
func (s *BookingService) AssignDecorator(ctx context.Context, id, decoratorID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "booking not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to fetch booking", err)
	}
	if booking.DecoratorID != nil {
		return nil, errs.New(errs.KindInvalidInput, "booking already has a decorator assigned")
	}
	if booking.WorkStatus != models.WorkStatusPending {
		return nil, errs.New(errs.KindInvalidInput, "booking is not pending assignment")
	}

	decorator, err := s.decorators.Get(ctx, decoratorID)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, errs.New(errs.KindInvalidInput, "decorator not found")
		}
		return nil, err
	}
	if decorator.Status != models.DecoratorStatusApproved {
		return nil, errs.New(errs.KindInvalidInput, "decorator is not approved")
	}
	if decorator.WorkStatus != models.DecoratorAvailable {
		return nil, errs.New(errs.KindInvalidInput, "decorator is not available")
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.decorators.Claim(tx, decorator.ID); err != nil {
			return err
		}
		result := tx.Model(&models.Booking{}).
			Where("id = ? AND decorator_id IS NULL AND work_status = ?", id, models.WorkStatusPending).
			Updates(map[string]interface{}{
				"work_status":     models.WorkStatusAssigned,
				"decorator_id":    decorator.ID,
				"decorator_email": decorator.Email,
				"decorator_name":  decorator.Name,
				"assigned_at":     now,
			})
		if result.Error != nil {
			return errs.Wrap(errs.KindInternal, "failed to assign decorator", result.Error)
		}
		if result.RowsAffected == 0 {
			// Assigned by a concurrent request; roll back the claim.
			return errs.New(errs.KindConflict, "booking was assigned concurrently")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prev := string(models.WorkStatusPending)
	s.tracking.Record(ctx, booking.ID, fmt.Sprintf("decorator %s assigned", decorator.Name), &decorator.Email, &prev)

	booking.WorkStatus = models.WorkStatusAssigned
	booking.DecoratorID = &decorator.ID
	booking.DecoratorEmail = &decorator.Email
	booking.DecoratorName = &decorator.Name
	booking.AssignedAt = &now
	return &booking, nil
}

// UpdateWorkStatus moves a booking along the work-state machine. Only the
// assigned decorator or an admin may call it, and only into the decorator
// target set; concluding statuses release the decorator in the same
// transaction.
func (s *BookingService) UpdateWorkStatus(ctx context.Context, caller *models.User, callerEmail string, id uint, target models.WorkStatus) error {
	if !models.IsDecoratorWorkTarget(target) {
		return errs.New(errs.KindInvalidInput, "work status must be one of in-progress, materials-prepared, completed, rejected")
	}

	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.New(errs.KindNotFound, "booking not found")
		}
		return errs.Wrap(errs.KindInternal, "failed to fetch booking", err)
	}

	if guards.RequireRole(caller, models.RoleAdmin) != nil {
		if err := guards.RequireAssignedDecorator(booking.DecoratorEmail, callerEmail); err != nil {
			return err
		}
	}

	if !models.CanTransition(booking.WorkStatus, target) {
		return errs.New(errs.KindInvalidInput,
			fmt.Sprintf("cannot move booking from %s to %s", booking.WorkStatus, target))
	}

	sources := models.LegalSources(target)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Booking{}).
			Where("id = ? AND work_status IN ?", id, sources).
			Update("work_status", target)
		if result.Error != nil {
			return errs.Wrap(errs.KindInternal, "failed to update work status", result.Error)
		}
		if result.RowsAffected == 0 {
			return errs.New(errs.KindConflict, "booking work status changed concurrently")
		}
		if models.ConcludesWork(target) && booking.DecoratorID != nil {
			if err := s.decorators.Release(tx, *booking.DecoratorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	prev := string(booking.WorkStatus)
	s.tracking.Record(ctx, booking.ID, string(target), &callerEmail, &prev)
	return nil
}

// Cashout marks a completed booking as cashed out for the assigned
// decorator. Retrying after success is a no-op, not an error.
func (s *BookingService) Cashout(ctx context.Context, callerEmail string, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "booking not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to fetch booking", err)
	}

	if err := guards.RequireAssignedDecorator(booking.DecoratorEmail, callerEmail); err != nil {
		return nil, err
	}
	if booking.WorkStatus != models.WorkStatusCompleted {
		return nil, errs.New(errs.KindInvalidInput, "booking work is not completed")
	}
	if booking.CashedOut {
		return &booking, nil
	}

	now := time.Now()
	result := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND cashed_out = ?", id, false).
		Updates(map[string]interface{}{"cashed_out": true, "cashed_out_at": now})
	if result.Error != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to cash out booking", result.Error)
	}
	if result.RowsAffected > 0 {
		s.tracking.Record(ctx, booking.ID, "cashout completed", &callerEmail, nil)
	}

	booking.CashedOut = true
	booking.CashedOutAt = &now
	return &booking, nil
}
