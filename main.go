package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"styledecor-server/config"
	"styledecor-server/database"
	"styledecor-server/middleware"
	"styledecor-server/payments"
	"styledecor-server/routes"
	"styledecor-server/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("⚠️ Failed to close database: %v", err)
		}
	}()

	if cfg.Database.SeedCatalog {
		if err := database.SeedCatalog(db); err != nil {
			log.Printf("⚠️ Catalog seed failed: %v", err)
		}
	}

	if cfg.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Services
	tokens := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	users := services.NewUserService(db)
	catalog := services.NewCatalogService(db)
	tracking := services.NewTrackingService(db)
	decorators := services.NewDecoratorService(db)
	bookings := services.NewBookingService(db, decorators, tracking)
	provider := payments.NewStripeProvider(cfg.Stripe.SecretKey)
	paymentSvc := services.NewPaymentService(db, provider, tracking, cfg.Stripe)
	stats := services.NewStatsService(db)

	// Handlers
	authHandler := routes.NewAuthHandler(users, tokens)
	catalogHandler := routes.NewCatalogHandler(catalog)
	bookingHandler := routes.NewBookingHandler(bookings)
	paymentHandler := routes.NewPaymentHandler(paymentSvc)
	decoratorHandler := routes.NewDecoratorHandler(decorators, users)
	trackingHandler := routes.NewTrackingHandler(tracking)
	adminHandler := routes.NewAdminHandler(stats)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "StyleDecor server is running",
			"time":    time.Now().UTC(),
		})
	})

	api := router.Group("/api/v1")
	{
		// Public routes: auth, catalog reads, tracking logs, and the
		// payment-success callback (may arrive without a credential).
		authHandler.RegisterPublic(api)
		catalogHandler.RegisterPublic(api)
		trackingHandler.Register(api)
		paymentHandler.RegisterPublic(api)

		// Authenticated routes. Role and ownership checks are decided by
		// the guards inside each handler, not by per-route middleware.
		protected := api.Group("")
		protected.Use(middleware.Auth(tokens, db))
		{
			authHandler.Register(protected)
			catalogHandler.Register(protected)
			bookingHandler.Register(protected)
			paymentHandler.Register(protected)
			decoratorHandler.Register(protected)
			adminHandler.Register(protected)
		}
	}

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Graceful shutdown: stop accepting requests, let in-flight ones
	// finish, then close the store.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️ Server forced to shut down: %v", err)
	}
	log.Println("Server stopped")
}
