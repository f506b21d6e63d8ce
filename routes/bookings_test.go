package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"styledecor-server/database"
	"styledecor-server/middleware"
	"styledecor-server/models"
	"styledecor-server/services"
)

// testApp wires the booking routes behind the real auth middleware against an
// in-memory store, the same shape main assembles.
type testApp struct {
	db       *gorm.DB
	router   *gin.Engine
	tokens   *services.TokenService
	bookings *services.BookingService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	tokens := services.NewTokenService("test-secret", 1)
	tracking := services.NewTrackingService(db)
	decorators := services.NewDecoratorService(db)
	bookings := services.NewBookingService(db, decorators, tracking)

	router := gin.New()
	api := router.Group("/api/v1")
	protected := api.Group("")
	protected.Use(middleware.Auth(tokens, db))
	NewBookingHandler(bookings).Register(protected)

	return &testApp{db: db, router: router, tokens: tokens, bookings: bookings}
}

// seedUser creates a user record and returns a bearer token for it.
func (a *testApp) seedUser(t *testing.T, email string, role models.UserRole) string {
	t.Helper()
	user := models.User{Name: "Test User", Email: email, PasswordHash: "x", Role: role}
	if err := a.db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := a.tokens.Issue(email, role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (a *testApp) seedListing(t *testing.T) *models.Service {
	t.Helper()
	service := &models.Service{
		Name:     "Home Decoration",
		Mode:     "onsite",
		Unit:     "per event",
		PriceBDT: 3000,
	}
	if err := a.db.Create(service).Error; err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return service
}

func (a *testApp) seedBooking(t *testing.T, email string, serviceID uint) *models.Booking {
	t.Helper()
	booking, err := a.bookings.Create(context.Background(), email, "Test User", models.BookingCreate{
		ServiceID:   serviceID,
		BookingDate: "2026-09-15",
		Location:    "Mirpur, Dhaka",
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return booking
}

func (a *testApp) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestBookingRoutesRequireAuth(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/api/v1/my-bookings", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "Unauthorized Access" {
		t.Errorf("error: got %q", body["error"])
	}
}

func TestBookingRoutesRejectMalformedHeader(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/my-bookings", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", w.Code)
	}
	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["code"] != "invalid_token_format" {
		t.Errorf("code: got %q, want invalid_token_format", body["code"])
	}
}

func TestCreateBookingRoundTrip(t *testing.T) {
	app := newTestApp(t)
	token := app.seedUser(t, "a@x.com", models.RoleUser)
	listing := app.seedListing(t)

	w := app.do(http.MethodPost, "/api/v1/create-booking-session", token, gin.H{
		"service_id":   listing.ID,
		"booking_date": "2026-10-01",
		"location":     "Banani, Dhaka",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}

	var body struct {
		BookingID uint `json:"bookingId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.BookingID == 0 {
		t.Errorf("bookingId missing in %s", w.Body.String())
	}

	// Missing required fields fail binding.
	w = app.do(http.MethodPost, "/api/v1/create-booking-session", token, gin.H{
		"service_id": listing.ID,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("incomplete payload status: got %d, want 400", w.Code)
	}
}

func TestUpdateBookingOwnership(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "owner@x.com", models.RoleUser)
	strangerToken := app.seedUser(t, "stranger@x.com", models.RoleUser)
	listing := app.seedListing(t)
	booking := app.seedBooking(t, "owner@x.com", listing.ID)

	w := app.do(http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d", booking.ID), strangerToken, gin.H{
		"location": "Gulshan, Dhaka",
	})
	// Non-owners learn nothing about the booking's existence.
	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404 (body %s)", w.Code, w.Body.String())
	}
}

func TestUpdatePaidBookingForbidden(t *testing.T) {
	app := newTestApp(t)
	token := app.seedUser(t, "owner@x.com", models.RoleUser)
	listing := app.seedListing(t)
	booking := app.seedBooking(t, "owner@x.com", listing.ID)

	if err := app.db.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("status", models.BookingStatusPaid).Error; err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	w := app.do(http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d", booking.ID), token, gin.H{
		"location": "Gulshan, Dhaka",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403 (body %s)", w.Code, w.Body.String())
	}
}

func TestUpdateBookingBadID(t *testing.T) {
	app := newTestApp(t)
	token := app.seedUser(t, "a@x.com", models.RoleUser)

	w := app.do(http.MethodPatch, "/api/v1/bookings/abc", token, gin.H{"location": "x"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestAllBookingsAdminOnly(t *testing.T) {
	app := newTestApp(t)
	customerToken := app.seedUser(t, "c@x.com", models.RoleUser)
	adminToken := app.seedUser(t, "admin@x.com", models.RoleAdmin)
	listing := app.seedListing(t)
	app.seedBooking(t, "c@x.com", listing.ID)

	w := app.do(http.MethodGet, "/api/v1/bookings", customerToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("customer status: got %d, want 403", w.Code)
	}

	w = app.do(http.MethodGet, "/api/v1/bookings", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin status: got %d, body %s", w.Code, w.Body.String())
	}
	var bookings []models.Booking
	if err := json.Unmarshal(w.Body.Bytes(), &bookings); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(bookings) != 1 {
		t.Errorf("bookings: got %d, want 1", len(bookings))
	}
}

func TestDeleteBooking(t *testing.T) {
	app := newTestApp(t)
	token := app.seedUser(t, "owner@x.com", models.RoleUser)
	listing := app.seedListing(t)
	booking := app.seedBooking(t, "owner@x.com", listing.ID)

	w := app.do(http.MethodDelete, fmt.Sprintf("/api/v1/bookings/%d", booking.ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}

	var count int64
	app.db.Model(&models.Booking{}).Count(&count)
	if count != 0 {
		t.Errorf("bookings remaining: got %d, want 0", count)
	}
}
