package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"styledecor-server/errs"
	"styledecor-server/guards"
	"styledecor-server/middleware"
	"styledecor-server/models"
	"styledecor-server/services"
)

// BookingHandler exposes the booking lifecycle over HTTP. Authorization is
// decided by the guards per operation, not by per-route middleware.
type BookingHandler struct {
	bookings *services.BookingService
}

func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Register wires the booking routes onto an authenticated group.
func (h *BookingHandler) Register(r *gin.RouterGroup) {
	r.POST("/create-booking-session", h.create)
	r.GET("/check-booking", h.checkBooking)
	r.GET("/my-bookings", h.myBookings)
	r.GET("/bookings", h.allBookings)
	r.GET("/decorator/my-assignments", h.myAssignments)
	r.PATCH("/bookings/:id", h.update)
	r.DELETE("/bookings/:id", h.delete)
	r.PATCH("/bookings/:id/assign-decorator", h.assignDecorator)
	r.PATCH("/bookings/:id/decorator-status", h.updateWorkStatus)
	r.POST("/bookings/:id/cashout", h.cashout)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req models.BookingCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Wrap(errs.KindInvalidInput, "invalid booking payload", err))
		return
	}

	caller := middleware.CurrentUser(c)
	name := ""
	if caller != nil {
		name = caller.Name
	}

	booking, err := h.bookings.Create(c.Request.Context(), middleware.CallerEmail(c), name, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": booking.ID})
}

func (h *BookingHandler) checkBooking(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Query("serviceId"), 10, 32)
	if err != nil || serviceID == 0 {
		respondError(c, errs.New(errs.KindInvalidInput, "invalid serviceId"))
		return
	}

	hasBooked, err := h.bookings.HasBooked(c.Request.Context(), middleware.CallerEmail(c), uint(serviceID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hasBooked": hasBooked})
}

func (h *BookingHandler) myBookings(c *gin.Context) {
	bookings, err := h.bookings.MyBookings(c.Request.Context(), middleware.CallerEmail(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) allBookings(c *gin.Context) {
	if err := guards.RequireRole(middleware.CurrentUser(c), models.RoleAdmin); err != nil {
		respondError(c, err)
		return
	}
	bookings, err := h.bookings.AllBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) myAssignments(c *gin.Context) {
	bookings, err := h.bookings.MyAssignments(c.Request.Context(), middleware.CallerEmail(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.BookingUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Wrap(errs.KindInvalidInput, "invalid update payload", err))
		return
	}

	if err := h.bookings.Update(c.Request.Context(), middleware.CallerEmail(c), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *BookingHandler) delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.bookings.Delete(c.Request.Context(), middleware.CallerEmail(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": 1})
}

func (h *BookingHandler) assignDecorator(c *gin.Context) {
	if err := guards.RequireRole(middleware.CurrentUser(c), models.RoleAdmin); err != nil {
		respondError(c, err)
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		DecoratorID uint `json:"decorator_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Wrap(errs.KindInvalidInput, "decorator_id is required", err))
		return
	}

	if _, err := h.bookings.AssignDecorator(c.Request.Context(), id, req.DecoratorID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modifiedCount": 1})
}

func (h *BookingHandler) updateWorkStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		WorkStatus models.WorkStatus `json:"work_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Wrap(errs.KindInvalidInput, "work_status is required", err))
		return
	}

	err = h.bookings.UpdateWorkStatus(c.Request.Context(),
		middleware.CurrentUser(c), middleware.CallerEmail(c), id, req.WorkStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modifiedCount": 1})
}

func (h *BookingHandler) cashout(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	booking, err := h.bookings.Cashout(c.Request.Context(), middleware.CallerEmail(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cashed_out_at": booking.CashedOutAt})
}
