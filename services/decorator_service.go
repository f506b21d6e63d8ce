package services

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"styledecor-server/errs"
	"styledecor-server/guards"
	"styledecor-server/models"
)

// DecoratorService owns decorator profiles and their availability flag.
// Claim and Release are the only two ways a decorator's workStatus moves
// between available and busy as a side effect of booking transitions.
type DecoratorService struct {
	db *gorm.DB
}

func NewDecoratorService(db *gorm.DB) *DecoratorService {
	return &DecoratorService{db: db}
}

// Apply registers a new decorator application in pending status. A second
// application with the same email is a Conflict.
func (s *DecoratorService) Apply(ctx context.Context, req models.DecoratorApplication) (*models.Decorator, error) {
	decorator := models.Decorator{
		Name:           req.Name,
		Email:          strings.ToLower(req.Email),
		Phone:          req.Phone,
		Experience:     req.Experience,
		Portfolio:      req.Portfolio,
		Region:         req.Region,
		District:       req.District,
		Area:           req.Area,
		Specialization: req.Specialization,
		Bio:            req.Bio,
		Status:         models.DecoratorStatusPending,
		WorkStatus:     models.DecoratorAvailable,
	}
	if err := s.db.WithContext(ctx).Create(&decorator).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, errs.New(errs.KindConflict, "an application with this email already exists")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to create decorator application", err)
	}
	return &decorator, nil
}

// List returns decorators, optionally filtered by application status.
func (s *DecoratorService) List(ctx context.Context, status models.DecoratorStatus) ([]models.Decorator, error) {
	query := s.db.WithContext(ctx).Model(&models.Decorator{})
	if status != "" {
		if !models.IsValidDecoratorStatus(status) {
			return nil, errs.New(errs.KindInvalidInput, "invalid decorator status filter")
		}
		query = query.Where("status = ?", status)
	}
	var decorators []models.Decorator
	if err := query.Order("created_at DESC").Find(&decorators).Error; err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to fetch decorators", err)
	}
	return decorators, nil
}

// Get returns one decorator by id.
func (s *DecoratorService) Get(ctx context.Context, id uint) (*models.Decorator, error) {
	var decorator models.Decorator
	if err := s.db.WithContext(ctx).First(&decorator, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "decorator not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to fetch decorator", err)
	}
	return &decorator, nil
}

// GetByEmail returns the decorator profile for an email.
func (s *DecoratorService) GetByEmail(ctx context.Context, email string) (*models.Decorator, error) {
	var decorator models.Decorator
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&decorator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "decorator not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to fetch decorator", err)
	}
	return &decorator, nil
}

// UpdateStatus moves an application to approved or rejected. Approval also
// resets the availability flag so the decorator can take assignments.
func (s *DecoratorService) UpdateStatus(ctx context.Context, id uint, status models.DecoratorStatus) error {
	if status != models.DecoratorStatusApproved && status != models.DecoratorStatusRejected {
		return errs.New(errs.KindInvalidInput, "status must be approved or rejected")
	}

	updates := map[string]interface{}{"status": status}
	if status == models.DecoratorStatusApproved {
		updates["work_status"] = models.DecoratorAvailable
	}

	result := s.db.WithContext(ctx).Model(&models.Decorator{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return errs.Wrap(errs.KindInternal, "failed to update decorator status", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.New(errs.KindNotFound, "decorator not found")
	}
	return nil
}

// Delete removes a decorator profile.
func (s *DecoratorService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Decorator{}, id)
	if result.Error != nil {
		return errs.Wrap(errs.KindInternal, "failed to delete decorator", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.New(errs.KindNotFound, "decorator not found")
	}
	return nil
}

// SetWorkStatus is the manual availability toggle, callable by the decorator
// themselves or an admin. Setting the current value again is rejected so
// clients notice no-op submissions.
func (s *DecoratorService) SetWorkStatus(ctx context.Context, caller *models.User, callerEmail string, id uint, target models.DecoratorWorkStatus) error {
	if !models.IsValidDecoratorWorkStatus(target) {
		return errs.New(errs.KindInvalidInput, "work status must be available or busy")
	}

	decorator, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if guards.RequireRole(caller, models.RoleAdmin) != nil {
		if decorator.Email != strings.ToLower(callerEmail) {
			return errs.New(errs.KindForbidden, "only the decorator or an admin may change availability")
		}
	}

	if decorator.WorkStatus == target {
		return errs.New(errs.KindInvalidInput, "work status is already "+string(target))
	}

	result := s.db.WithContext(ctx).Model(&models.Decorator{}).
		Where("id = ? AND work_status = ?", id, decorator.WorkStatus).
		Update("work_status", target)
	if result.Error != nil {
		return errs.Wrap(errs.KindInternal, "failed to update work status", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.New(errs.KindConflict, "decorator availability changed concurrently")
	}
	return nil
}

// Claim atomically flips an approved, available decorator to busy inside the
// caller's transaction. Zero rows affected means the decorator was taken (or
// unapproved) in the meantime.
func (s *DecoratorService) Claim(tx *gorm.DB, id uint) error {
	result := tx.Model(&models.Decorator{}).
		Where("id = ? AND status = ? AND work_status = ?", id, models.DecoratorStatusApproved, models.DecoratorAvailable).
		Update("work_status", models.DecoratorBusy)
	if result.Error != nil {
		return errs.Wrap(errs.KindInternal, "failed to claim decorator", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.New(errs.KindConflict, "decorator is no longer available")
	}
	return nil
}

// Release returns a decorator to the available pool. Called inside the same
// transaction that concludes the assigned booking's work.
func (s *DecoratorService) Release(tx *gorm.DB, id uint) error {
	result := tx.Model(&models.Decorator{}).
		Where("id = ?", id).
		Update("work_status", models.DecoratorAvailable)
	if result.Error != nil {
		return errs.Wrap(errs.KindInternal, "failed to release decorator", result.Error)
	}
	return nil
}

// isUniqueViolation detects a unique-index conflict from Postgres (error
// class 23505, surfaced through either pq or pgx) or the sqlite driver used
// in tests.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint")
}
