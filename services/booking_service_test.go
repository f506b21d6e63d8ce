package services

import (
	"context"
	"testing"

	"styledecor-server/errs"
	"styledecor-server/models"
)

func newBookingFixture(t *testing.T) (*BookingService, *DecoratorService, *TrackingService, *models.Service) {
	t.Helper()
	db := newTestDB(t)
	tracking := NewTrackingService(db)
	decorators := NewDecoratorService(db)
	bookings := NewBookingService(db, decorators, tracking)
	service := seedService(t, db)
	return bookings, decorators, tracking, service
}

func TestCreateBookingSnapshotsService(t *testing.T) {
	bookings, _, _, service := newBookingFixture(t)

	booking := seedBooking(t, bookings, "a@x.com", service.ID)

	if booking.Status != models.BookingStatusUnpaid {
		t.Errorf("status: got %s, want unpaid", booking.Status)
	}
	if booking.WorkStatus != models.WorkStatusPending {
		t.Errorf("work status: got %s, want pending", booking.WorkStatus)
	}
	if booking.ServiceName != service.Name {
		t.Errorf("service name: got %q, want %q", booking.ServiceName, service.Name)
	}
	if booking.OriginalPriceBDT != service.PriceBDT {
		t.Errorf("price: got %v, want %v", booking.OriginalPriceBDT, service.PriceBDT)
	}
}

func TestCreateBookingUnknownService(t *testing.T) {
	bookings, _, _, _ := newBookingFixture(t)

	_, err := bookings.Create(context.Background(), "a@x.com", "A", models.BookingCreate{
		ServiceID:   9999,
		BookingDate: "2026-09-15",
		Location:    "Dhaka",
	})
	if errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("kind: got %v (%v), want not_found", errs.KindOf(err), err)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	bookings, _, _, service := newBookingFixture(t)
	booking := seedBooking(t, bookings, "owner@x.com", service.ID)
	ctx := context.Background()

	// A foreign booking must look nonexistent, not forbidden.
	if err := bookings.Update(ctx, "intruder@x.com", booking.ID, models.BookingUpdate{Location: "elsewhere"}); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("update kind: got %v, want not_found", errs.KindOf(err))
	}
	if err := bookings.Delete(ctx, "intruder@x.com", booking.ID); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("delete kind: got %v, want not_found", errs.KindOf(err))
	}
}

func TestPaidBookingIsImmutableToCustomer(t *testing.T) {
	bookings, _, _, service := newBookingFixture(t)
	booking := seedBooking(t, bookings, "owner@x.com", service.ID)
	ctx := context.Background()

	if err := bookings.db.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("status", models.BookingStatusPaid).Error; err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	if err := bookings.Update(ctx, "owner@x.com", booking.ID, models.BookingUpdate{Location: "new place"}); errs.KindOf(err) != errs.KindForbidden {
		t.Errorf("update kind: got %v, want forbidden", errs.KindOf(err))
	}
	if err := bookings.Delete(ctx, "owner@x.com", booking.ID); errs.KindOf(err) != errs.KindForbidden {
		t.Errorf("delete kind: got %v, want forbidden", errs.KindOf(err))
	}
}

func TestCustomerEditsUnpaidBooking(t *testing.T) {
	bookings, _, _, service := newBookingFixture(t)
	booking := seedBooking(t, bookings, "owner@x.com", service.ID)
	ctx := context.Background()

	if err := bookings.Update(ctx, "owner@x.com", booking.ID, models.BookingUpdate{Location: "Gulshan, Dhaka"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	var got models.Booking
	if err := bookings.db.First(&got, booking.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Location != "Gulshan, Dhaka" {
		t.Errorf("location: got %q, want %q", got.Location, "Gulshan, Dhaka")
	}

	if err := bookings.Delete(ctx, "owner@x.com", booking.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var count int64
	bookings.db.Model(&models.Booking{}).Where("id = ?", booking.ID).Count(&count)
	if count != 0 {
		t.Errorf("booking still present after delete")
	}
}

func TestAssignDecorator(t *testing.T) {
	bookings, decorators, tracking, service := newBookingFixture(t)
	booking := seedBooking(t, bookings, "a@x.com", service.ID)
	decorator := seedDecorator(t, bookings.db, "d@x.com", models.DecoratorStatusApproved, models.DecoratorAvailable)
	ctx := context.Background()

	assigned, err := bookings.AssignDecorator(ctx, booking.ID, decorator.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.WorkStatus != models.WorkStatusAssigned {
		t.Errorf("work status: got %s, want assigned", assigned.WorkStatus)
	}
	if assigned.DecoratorEmail == nil || *assigned.DecoratorEmail != "d@x.com" {
		t.Errorf("decorator email: got %v, want d@x.com", assigned.DecoratorEmail)
	}
	if assigned.AssignedAt == nil {
		t.Errorf("assigned_at not recorded")
	}

	got, err := decorators.Get(ctx, decorator.ID)
	if err != nil {
		t.Fatalf("reload decorator: %v", err)
	}
	if got.WorkStatus != models.DecoratorBusy {
		t.Errorf("decorator work status: got %s, want busy", got.WorkStatus)
	}

	logs, err := tracking.Logs(ctx, "1")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("tracking entries: got %d, want 1", len(logs))
	}
}

func TestAssignDecoratorPreconditions(t *testing.T) {
	bookings, _, _, service := newBookingFixture(t)
	ctx := context.Background()

	available := seedDecorator(t, bookings.db, "free@x.com", models.DecoratorStatusApproved, models.DecoratorAvailable)
	busy := seedDecorator(t, bookings.db, "busy@x.com", models.DecoratorStatusApproved, models.DecoratorBusy)
	pending := seedDecorator(t, bookings.db, "pending@x.com", models.DecoratorStatusPending, models.DecoratorAvailable)

	bookingA := seedBooking(t, bookings, "a@x.com", service.ID)
	bookingB := seedBooking(t, bookings, "b@x.com", service.ID)

	tests := []struct {
		name        string
		bookingID   uint
		decoratorID uint
		wantKind    errs.Kind
	}{
		{"missing booking", 9999, available.ID, errs.KindNotFound},
		{"missing decorator", bookingB.ID, 9999, errs.KindInvalidInput},
		{"busy decorator", bookingB.ID, busy.ID, errs.KindInvalidInput},
		{"unapproved decorator", bookingB.ID, pending.ID, errs.KindInvalidInput},
	}

	if _, err := bookings.AssignDecorator(ctx, bookingA.ID, available.ID); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	tests = append(tests, struct {
		name        string
		bookingID   uint
		decoratorID uint
		wantKind    errs.Kind
	}{"already assigned booking", bookingA.ID, available.ID, errs.KindInvalidInput})

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := bookings.AssignDecorator(ctx, test.bookingID, test.decoratorID)
			if errs.KindOf(err) != test.wantKind {
				t.Errorf("kind: got %v (%v), want %v", errs.KindOf(err), err, test.wantKind)
			}
		})
	}
}

func TestClaimIsAtomicPerDecorator(t *testing.T) {
	bookings, decorators, _, _ := newBookingFixture(t)
	decorator := seedDecorator(t, bookings.db, "d@x.com", models.DecoratorStatusApproved, models.DecoratorAvailable)

	// The conditional update admits exactly one winner; the loser sees the
	// precondition gone and gets a Conflict.
	if err := decorators.Claim(bookings.db, decorator.ID); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	err := decorators.Claim(bookings.db, decorator.ID)
	if errs.KindOf(err) != errs.KindConflict {
		t.Fatalf("second claim kind: got %v (%v), want conflict", errs.KindOf(err), err)
	}

	got, err := decorators.Get(context.Background(), decorator.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.WorkStatus != models.DecoratorBusy {
		t.Errorf("work status after losing claim: got %s, want busy", got.WorkStatus)
	}
}

func assignedFixture(t *testing.T) (*BookingService, *DecoratorService, *models.Booking, *models.Decorator) {
	t.Helper()
	bookings, decorators, _, service := newBookingFixture(t)
	booking := seedBooking(t, bookings, "a@x.com", service.ID)
	decorator := seedDecorator(t, bookings.db, "d@x.com", models.DecoratorStatusApproved, models.DecoratorAvailable)
	if _, err := bookings.AssignDecorator(context.Background(), booking.ID, decorator.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	return bookings, decorators, booking, decorator
}

func TestWorkStatusLegalChain(t *testing.T) {
	bookings, decorators, booking, decorator := assignedFixture(t)
	ctx := context.Background()

	steps := []models.WorkStatus{
		models.WorkStatusInProgress,
		models.WorkStatusMaterialsPrepared,
		models.WorkStatusCompleted,
	}
	for _, target := range steps {
		if err := bookings.UpdateWorkStatus(ctx, nil, "d@x.com", booking.ID, target); err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
	}

	var got models.Booking
	if err := bookings.db.First(&got, booking.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.WorkStatus != models.WorkStatusCompleted {
		t.Errorf("work status: got %s, want completed", got.WorkStatus)
	}

	released, err := decorators.Get(ctx, decorator.ID)
	if err != nil {
		t.Fatalf("reload decorator: %v", err)
	}
	if released.WorkStatus != models.DecoratorAvailable {
		t.Errorf("decorator after completion: got %s, want available", released.WorkStatus)
	}
}

func TestWorkStatusIllegalEdges(t *testing.T) {
	tests := []struct {
		name   string
		from   models.WorkStatus
		target models.WorkStatus
	}{
		{"pending to in-progress", models.WorkStatusPending, models.WorkStatusInProgress},
		{"assigned to materials-prepared", models.WorkStatusAssigned, models.WorkStatusMaterialsPrepared},
		{"assigned to completed", models.WorkStatusAssigned, models.WorkStatusCompleted},
		{"completed to in-progress", models.WorkStatusCompleted, models.WorkStatusInProgress},
		{"rejected to completed", models.WorkStatusRejected, models.WorkStatusCompleted},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bookings, _, booking, _ := assignedFixture(t)
			if err := bookings.db.Model(&models.Booking{}).Where("id = ?", booking.ID).
				Update("work_status", test.from).Error; err != nil {
				t.Fatalf("force work status: %v", err)
			}

			err := bookings.UpdateWorkStatus(context.Background(), nil, "d@x.com", booking.ID, test.target)
			if errs.KindOf(err) != errs.KindInvalidInput {
				t.Errorf("kind: got %v (%v), want invalid_input", errs.KindOf(err), err)
			}
		})
	}
}

func TestWorkStatusTargetOutsideAllowedSet(t *testing.T) {
	bookings, _, booking, _ := assignedFixture(t)

	for _, target := range []models.WorkStatus{models.WorkStatusPending, models.WorkStatusAssigned, "painted"} {
		err := bookings.UpdateWorkStatus(context.Background(), nil, "d@x.com", booking.ID, target)
		if errs.KindOf(err) != errs.KindInvalidInput {
			t.Errorf("target %q kind: got %v, want invalid_input", target, errs.KindOf(err))
		}
	}
}

func TestWorkStatusOnlyAssigneeOrAdmin(t *testing.T) {
	bookings, _, booking, _ := assignedFixture(t)
	ctx := context.Background()

	err := bookings.UpdateWorkStatus(ctx, nil, "other@x.com", booking.ID, models.WorkStatusInProgress)
	if errs.KindOf(err) != errs.KindForbidden {
		t.Errorf("non-assignee kind: got %v, want forbidden", errs.KindOf(err))
	}

	if err := bookings.UpdateWorkStatus(ctx, adminUser(), "admin@styledecor.com", booking.ID, models.WorkStatusInProgress); err != nil {
		t.Errorf("admin override: %v", err)
	}
}

func TestRejectedReleasesDecorator(t *testing.T) {
	bookings, decorators, booking, decorator := assignedFixture(t)
	ctx := context.Background()

	if err := bookings.UpdateWorkStatus(ctx, nil, "d@x.com", booking.ID, models.WorkStatusRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}

	got, err := decorators.Get(ctx, decorator.ID)
	if err != nil {
		t.Fatalf("reload decorator: %v", err)
	}
	if got.WorkStatus != models.DecoratorAvailable {
		t.Errorf("decorator after rejection: got %s, want available", got.WorkStatus)
	}
}

func TestCashout(t *testing.T) {
	bookings, _, booking, _ := assignedFixture(t)
	ctx := context.Background()

	if _, err := bookings.Cashout(ctx, "d@x.com", booking.ID); errs.KindOf(err) != errs.KindInvalidInput {
		t.Errorf("cashout before completion kind: got %v, want invalid_input", errs.KindOf(err))
	}

	for _, target := range []models.WorkStatus{models.WorkStatusInProgress, models.WorkStatusCompleted} {
		if err := bookings.UpdateWorkStatus(ctx, nil, "d@x.com", booking.ID, target); err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
	}

	if _, err := bookings.Cashout(ctx, "other@x.com", booking.ID); errs.KindOf(err) != errs.KindForbidden {
		t.Errorf("non-assignee cashout kind: got %v, want forbidden", errs.KindOf(err))
	}

	first, err := bookings.Cashout(ctx, "d@x.com", booking.ID)
	if err != nil {
		t.Fatalf("cashout: %v", err)
	}
	if !first.CashedOut || first.CashedOutAt == nil {
		t.Errorf("cashout not recorded: %+v", first)
	}

	// Retrying is a no-op, not an error.
	second, err := bookings.Cashout(ctx, "d@x.com", booking.ID)
	if err != nil {
		t.Fatalf("cashout retry: %v", err)
	}
	if !second.CashedOut {
		t.Errorf("retry lost the cashed_out flag")
	}
}
