package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"styledecor-server/config"
	"styledecor-server/database"
	"styledecor-server/models"
	"styledecor-server/payments"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func seedService(t *testing.T, db *gorm.DB) *models.Service {
	t.Helper()
	service := &models.Service{
		Name:     "Wedding Stage Decoration",
		Image:    "https://cdn.example.com/stage.jpg",
		Mode:     "onsite",
		Unit:     "per event",
		PriceBDT: 5500,
	}
	if err := db.Create(service).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return service
}

func seedDecorator(t *testing.T, db *gorm.DB, email string, status models.DecoratorStatus, work models.DecoratorWorkStatus) *models.Decorator {
	t.Helper()
	decorator := &models.Decorator{
		Name:       "Test Decorator",
		Email:      email,
		Phone:      "+8801700000000",
		Status:     status,
		WorkStatus: work,
	}
	if err := db.Create(decorator).Error; err != nil {
		t.Fatalf("seed decorator: %v", err)
	}
	return decorator
}

func seedBooking(t *testing.T, bookings *BookingService, customerEmail string, serviceID uint) *models.Booking {
	t.Helper()
	booking, err := bookings.Create(context.Background(), customerEmail, "Test Customer", models.BookingCreate{
		ServiceID:   serviceID,
		BookingDate: "2026-09-15",
		Location:    "Dhanmondi, Dhaka",
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return booking
}

func adminUser() *models.User {
	return &models.User{ID: 1, Name: "Admin", Email: "admin@styledecor.com", Role: models.RoleAdmin}
}

// fakeProvider implements payments.Provider over an in-memory session map.
type fakeProvider struct {
	sessions  map[string]*payments.SessionStatus
	created   []payments.CheckoutParams
	createErr error
	getErr    error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{sessions: map[string]*payments.SessionStatus{}}
}

func (p *fakeProvider) CreateCheckoutSession(_ context.Context, params payments.CheckoutParams) (*payments.CheckoutSession, error) {
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.created = append(p.created, params)
	id := fmt.Sprintf("cs_test_%d", len(p.created))
	p.sessions[id] = &payments.SessionStatus{
		ID:               id,
		Paid:             true,
		AmountTotalCents: params.AmountUSDCents,
		Currency:         "usd",
		PaymentIntentID:  "pi_" + id,
		Metadata: map[string]string{
			payments.MetaServiceID:     fmt.Sprintf("%d", params.ServiceID),
			payments.MetaCustomerEmail: params.CustomerEmail,
		},
	}
	return &payments.CheckoutSession{ID: id, URL: "https://checkout.stripe.com/pay/" + id}, nil
}

func (p *fakeProvider) GetSession(_ context.Context, sessionID string) (*payments.SessionStatus, error) {
	if p.getErr != nil {
		return nil, p.getErr
	}
	session, ok := p.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("no such session: %s", sessionID)
	}
	return session, nil
}

func testStripeConfig() config.StripeConfig {
	return config.StripeConfig{
		SuccessURL: "http://localhost:3000/success",
		CancelURL:  "http://localhost:3000/cancel",
		BDTPerUSD:  110,
	}
}
