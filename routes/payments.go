package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"styledecor-server/errs"
	"styledecor-server/guards"
	"styledecor-server/middleware"
	"styledecor-server/models"
	"styledecor-server/services"
)

// PaymentHandler exposes checkout-session creation and the idempotent
// payment-success confirmation.
type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Register wires the authenticated payment routes.
func (h *PaymentHandler) Register(r *gin.RouterGroup) {
	r.POST("/create-stripe-session", h.createSession)
	r.GET("/payments", h.list)
}

// RegisterPublic wires the confirmation callback, which may arrive without a
// credential (browser redirect from the processor).
func (h *PaymentHandler) RegisterPublic(r *gin.RouterGroup) {
	r.POST("/payment-success", h.paymentSuccess)
}

func (h *PaymentHandler) createSession(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Wrap(errs.KindInvalidInput, "service_id, service_name and price_bdt are required", err))
		return
	}

	url, err := h.payments.CreateCheckoutSession(c.Request.Context(), middleware.CallerEmail(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *PaymentHandler) paymentSuccess(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		respondError(c, errs.New(errs.KindInvalidInput, "sessionId is required"))
		return
	}

	result, err := h.payments.ConfirmPayment(c.Request.Context(), req.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"booking_id":        result.BookingID,
		"transaction_id":    result.TransactionID,
		"already_confirmed": result.AlreadyConfirmed,
	})
}

func (h *PaymentHandler) list(c *gin.Context) {
	if err := guards.RequireRole(middleware.CurrentUser(c), models.RoleAdmin); err != nil {
		respondError(c, err)
		return
	}
	records, err := h.payments.ListPayments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
