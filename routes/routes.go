package routes

import (
	"net/http"
	"time"

	"dimple/handlers"
	"dimple/middleware"
	"dimple/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterMassagerRoutes registers discovery and schedule endpoints.
func RegisterMassagerRoutes(r *gin.Engine) {
	api := r.Group("/api/massagers")
	{
		api.Use(middleware.ActorMiddleware())
		api.GET("", handlers.ListMassagers)
		api.GET("/:id", handlers.GetMassager)
		api.GET("/:id/ratings", handlers.ListMassagerRatings)
		api.PUT("/availability", middleware.RequireRole(models.RoleMassager), handlers.SetAvailability)
	}
}

// RegisterBookingRoutes sets up the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.ActorMiddleware())
		api.POST("", handlers.CreateBooking)
		api.GET("", handlers.ListBookings)
		api.GET("/:id", handlers.GetBooking)
		api.PATCH("/:id/status", handlers.UpdateBookingStatus)
		api.POST("/ratings", handlers.CreateRating)
	}
}

// RegisterPaymentRoutes sets up the Telebirr payment endpoints. The webhook
// is called by the gateway, not by an authenticated actor, so it sits outside
// the actor middleware and relies on signature verification instead.
func RegisterPaymentRoutes(r *gin.Engine) {
	r.POST("/api/payments/telebirr/webhook", handlers.TelebirrWebhook)

	api := r.Group("/api/payments")
	{
		api.Use(middleware.ActorMiddleware())
		api.POST("/initiate", handlers.InitiatePayment)
		api.POST("/verify", handlers.VerifyPayment)
		api.GET("/history", handlers.PaymentHistory)
		api.GET("/booking/:id", handlers.ListPaymentAttempts)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.ActorMiddleware())
		adminGroup.Use(middleware.RequireRole(models.RoleAdmin))
		adminGroup.GET("/payments/pending", handlers.ListPendingPayments)
		adminGroup.POST("/bookings/:id/confirm-payment", handlers.ConfirmPaymentManually)
		adminGroup.POST("/bookings/:id/refund", handlers.RefundPayment)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Dimple"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Actor-ID", "X-Actor-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterMassagerRoutes(r)
	RegisterBookingRoutes(r)
	RegisterPaymentRoutes(r)
	RegisterAdminRoutes(r)
}
