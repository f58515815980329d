package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dimple/config"
	"dimple/cron"
	"dimple/database"
	bookingRepoPkg "dimple/database/repository/booking"
	massagerRepoPkg "dimple/database/repository/massager"
	paymentRepoPkg "dimple/database/repository/payment"
	ratingRepoPkg "dimple/database/repository/rating"
	userRepoPkg "dimple/database/repository/user"
	"dimple/handlers"
	"dimple/routes"
	"dimple/services/booking"
	"dimple/services/massager"
	"dimple/services/notification"
	"dimple/services/payment"
	"dimple/services/rating"
	"dimple/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitLockClient()
	utils.FirebaseInit()

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	massagerRepo := massagerRepoPkg.NewMongoMassagerRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()
	ratingRepo := ratingRepoPkg.NewMongoRatingRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// services.
	notificationService := &notification.DefaultNotificationService{
		Users: userRepo,
	}

	locker := utils.NewRedisBookingLocker(utils.GetLockClient(), 10*time.Second)
	bookingService := &booking.DefaultBookingService{
		Repo:         bookingRepo,
		Massager:     massagerRepo,
		Locker:       locker,
		Notification: notificationService,
		Logger:       logger,
	}

	telebirr := utils.NewTelebirrClient()
	paymentService := &payment.DefaultPaymentService{
		Bookings:     bookingRepo,
		Payments:     paymentRepo,
		Gateway:      telebirr,
		Notification: notificationService,
		Logger:       logger,
		StaleAfter:   time.Duration(config.AppConfig.ReconcileMinAgeMin) * time.Minute,
	}

	massagerService := &massager.DefaultMassagerService{
		Repo:   massagerRepo,
		Logger: logger,
	}

	ratingService := &rating.DefaultRatingService{
		Ratings:  ratingRepo,
		Bookings: bookingRepo,
		Logger:   logger,
	}

	// handlers.
	handlers.BookingService = bookingService
	handlers.PaymentService = paymentService
	handlers.MassagerService = massagerService
	handlers.RatingService = ratingService
	handlers.TelebirrClient = telebirr

	routes.RegisterRoutes(router)

	// Background payment reconciliation.
	cron.InitReconcileWorker(paymentService)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
