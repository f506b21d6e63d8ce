// Package guards holds the authorization decision functions gating each
// booking transition. They are pure checks over already-fetched records;
// callers fetch, guards decide.
package guards

import (
	"styledecor-server/errs"
	"styledecor-server/models"
)

// RequireOwner allows the call iff the booking's customer email equals the
// caller's authenticated email.
func RequireOwner(bookingCustomerEmail, callerEmail string) error {
	if bookingCustomerEmail != callerEmail {
		return errs.New(errs.KindForbidden, "you do not own this booking")
	}
	return nil
}

// RequireAssignedDecorator allows the call iff the booking's decorator email
// is set and equals the caller's authenticated email.
func RequireAssignedDecorator(bookingDecoratorEmail *string, callerEmail string) error {
	if bookingDecoratorEmail == nil || *bookingDecoratorEmail != callerEmail {
		return errs.New(errs.KindForbidden, "you are not the assigned decorator")
	}
	return nil
}

// RequireRole allows the call iff the principal record exists and carries
// the role. A missing principal is Forbidden, never a silent pass.
func RequireRole(principal *models.User, role models.UserRole) error {
	if principal == nil {
		return errs.New(errs.KindForbidden, "no principal record for caller")
	}
	if principal.Role != role {
		return errs.New(errs.KindForbidden, string(role)+" role required")
	}
	return nil
}
