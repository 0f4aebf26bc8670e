package main

import (
	"log"
	"os"
	"time"

	"github.com/freightfloo/freightfloo-backend/internal/database"
	"github.com/freightfloo/freightfloo-backend/internal/handlers"
	"github.com/freightfloo/freightfloo-backend/internal/middleware"
	"github.com/freightfloo/freightfloo-backend/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize Firebase (optional - will log warning if not configured)
	if err := services.InitFirebase(); err != nil {
		log.Printf("Firebase initialization warning: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub and notification dispatcher
	hub := services.NewHub()
	go hub.Run()
	notifier := services.NewNotifier(db, hub)

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored uploads when S3 is not configured
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "/app/uploads"
	}
	r.Static("/uploads", uploadDir)

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
			auth.POST("/verify-email", handlers.VerifyEmail(db))
			auth.POST("/forgot-password", handlers.RequestPasswordReset(db))
			auth.POST("/verify-otp", handlers.VerifyOTP(db))
			auth.POST("/reset-password", handlers.ResetPassword(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
				users.GET("/:id", handlers.GetPublicProfile(db))
				users.GET("/:id/reviews", handlers.GetUserReviews(db))
			}

			// Shipment routes
			shipments := protected.Group("/shipments")
			{
				shipments.GET("", handlers.GetShipments(db))
				shipments.POST("", middleware.RequireShipper(), handlers.CreateShipment(db))
				shipments.GET("/my", handlers.GetMyShipments(db))
				shipments.GET("/assigned", middleware.RequireCarrier(), handlers.GetAssignedShipments(db))
				shipments.GET("/:id", handlers.GetShipment(db))
				shipments.POST("/:id/cancel", handlers.CancelShipment(db, notifier))

				// Bidding
				shipments.POST("/:id/bids", middleware.RequireCarrier(), handlers.SubmitBid(db, notifier))
				shipments.GET("/:id/bids", handlers.GetShipmentBids(db))

				// Payment
				shipments.POST("/:id/pay", middleware.RequireShipper(), handlers.CompletePayment(db, notifier))

				// Tracking and completion
				shipments.PATCH("/:id/tracking", handlers.UpdateTracking(db, notifier))
				shipments.POST("/:id/pod", middleware.RequireCarrier(), handlers.UploadPOD(db))
				shipments.POST("/:id/complete", handlers.CompleteShipment(db, notifier))

				// Reviews and documents
				shipments.POST("/:id/reviews", handlers.CreateReview(db, notifier))
				shipments.POST("/:id/documents", handlers.UploadDocument(db))
				shipments.GET("/:id/documents", handlers.GetShipmentDocuments(db))
			}

			// Bid routes
			bids := protected.Group("/bids")
			{
				bids.GET("/my", middleware.RequireCarrier(), handlers.GetMyBids(db))
				bids.PATCH("/:id/decide", middleware.RequireShipper(), handlers.DecideBid(db, notifier))
			}

			// Payment routes
			payments := protected.Group("/payments")
			{
				payments.GET("/my", handlers.GetMyPayments(db))
				payments.POST("/:id/refund", handlers.RequestRefund(db, notifier))
			}

			// Refund decisions (admin)
			refunds := protected.Group("/refunds")
			{
				refunds.PATCH("/:id/decide", handlers.DecideRefund(db, notifier))
			}

			// Document routes
			documents := protected.Group("/documents")
			{
				documents.DELETE("/:id", handlers.DeleteDocument(db))
			}

			// Fleet routes (carriers)
			fleet := protected.Group("/fleet")
			fleet.Use(middleware.RequireCarrier())
			{
				fleet.POST("/trucks", handlers.CreateTruck(db))
				fleet.GET("/trucks", handlers.GetMyTrucks(db))
				fleet.PUT("/trucks/:id", handlers.UpdateTruck(db))
				fleet.DELETE("/trucks/:id", handlers.DeleteTruck(db))

				fleet.POST("/drivers", handlers.CreateDriver(db))
				fleet.GET("/drivers", handlers.GetMyDrivers(db))
				fleet.PUT("/drivers/:id", handlers.UpdateDriver(db))
				fleet.DELETE("/drivers/:id", handlers.DeleteDriver(db))

				fleet.POST("/trips", handlers.CreateTrip(db))
				fleet.GET("/trips", handlers.GetMyTrips(db))
				fleet.PATCH("/trips/:id/status", handlers.UpdateTripStatus(db))
			}

			// Notification routes
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", handlers.GetNotifications(db))
				notifications.GET("/unread-count", handlers.GetUnreadCount(db))
				notifications.PATCH("/:id/read", handlers.MarkNotificationRead(db))
				notifications.PATCH("/read-all", handlers.MarkAllNotificationsRead(db))
				notifications.GET("/preferences", handlers.GetNotificationPreferences(db))
				notifications.PUT("/preferences", handlers.UpdateNotificationPreferences(db))
				notifications.POST("/fcm-token", handlers.RegisterFCMToken(db))
				notifications.DELETE("/fcm-token", handlers.RemoveFCMToken(db))
			}
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":           "ok",
			"connectedClients": hub.GetConnectedClients(),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
