package services

import (
	"context"

	"gorm.io/gorm"

	"styledecor-server/errs"
	"styledecor-server/models"
)

// StatsService aggregates the admin dashboard numbers.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// DashboardStats is the revenue and volume summary shown to admins.
type DashboardStats struct {
	TotalBookings      int64   `json:"total_bookings"`
	PaidBookings       int64   `json:"paid_bookings"`
	CompletedBookings  int64   `json:"completed_bookings"`
	TotalRevenueUSD    float64 `json:"total_revenue_usd"`
	PendingDecorators  int64   `json:"pending_decorators"`
	ApprovedDecorators int64   `json:"approved_decorators"`
	BusyDecorators     int64   `json:"busy_decorators"`
}

func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{}

	if err := db.Model(&models.Booking{}).Count(&stats.TotalBookings).Error; err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to count bookings", err)
	}
	if err := db.Model(&models.Booking{}).Where("status = ?", models.BookingStatusPaid).
		Count(&stats.PaidBookings).Error; err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to count paid bookings", err)
	}
	if err := db.Model(&models.Booking{}).Where("work_status = ?", models.WorkStatusCompleted).
		Count(&stats.CompletedBookings).Error; err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to count completed bookings", err)
	}

	var revenue *float64
	if err := db.Model(&models.Payment{}).Select("SUM(amount_usd)").Scan(&revenue).Error; err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to sum revenue", err)
	}
	if revenue != nil {
		stats.TotalRevenueUSD = *revenue
	}

	if err := db.Model(&models.Decorator{}).Where("status = ?", models.DecoratorStatusPending).
		Count(&stats.PendingDecorators).Error; err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to count pending decorators", err)
	}
	if err := db.Model(&models.Decorator{}).Where("status = ?", models.DecoratorStatusApproved).
		Count(&stats.ApprovedDecorators).Error; err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to count approved decorators", err)
	}
	if err := db.Model(&models.Decorator{}).Where("work_status = ?", models.DecoratorBusy).
		Count(&stats.BusyDecorators).Error; err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to count busy decorators", err)
	}

	return stats, nil
}
