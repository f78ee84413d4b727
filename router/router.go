package router

import (
	"github.com/gin-gonic/gin"
	"github.com/takeaseat/take-a-seat-backend/controllers"
	"github.com/takeaseat/take-a-seat-backend/middlewares"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	restaurantCtrl := controllers.NewRestaurantController(db)
	tableCtrl := controllers.NewTableController(db)
	bookingCtrl := controllers.NewBookingController(db)
	reviewCtrl := controllers.NewReviewController(db)
	notificationCtrl := controllers.NewNotificationController(db)
	ownerCtrl := controllers.NewOwnerController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Discovery tanpa login
	r.GET("/restaurants", restaurantCtrl.GetAllRestaurants)
	r.GET("/restaurants/:restaurant_id", restaurantCtrl.GetRestaurantByID)
	r.GET("/restaurants/:restaurant_id/tables", tableCtrl.GetFloorPlan)
	r.GET("/restaurants/:restaurant_id/reviews", reviewCtrl.GetRestaurantReviews)
	r.GET("/tables/:table_id", tableCtrl.GetTableByID)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/api")
	auth.Use(middlewares.EnhancedAuthMiddleware())

	// PROFILE
	auth.GET("/profile", userCtrl.GetProfile)
	auth.PATCH("/profile", userCtrl.UpdateProfile)
	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/users", userCtrl.GetAllUsers)

	// RESTAURANTS (owner)
	owner := auth.Group("/")
	owner.Use(middlewares.RequireRole("owner"))
	{
		owner.POST("/restaurants", restaurantCtrl.CreateRestaurant)
		owner.GET("/my-restaurants", restaurantCtrl.GetMyRestaurants)
		owner.PATCH("/restaurants/:restaurant_id", restaurantCtrl.UpdateRestaurant)
		owner.DELETE("/restaurants/:restaurant_id", restaurantCtrl.DeleteRestaurant)

		// FLOOR PLAN (owner)
		owner.POST("/tables", tableCtrl.CreateTables)
		owner.PATCH("/tables/:table_id/position", tableCtrl.CommitPosition)
		owner.PATCH("/tables/:table_id/availability", tableCtrl.SetAvailability)
		owner.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

		// BOOKING (owner side)
		owner.GET("/restaurants/:restaurant_id/bookings", bookingCtrl.GetRestaurantBookings)
		owner.POST("/bookings/:booking_id/approve", bookingCtrl.ApproveBooking)
		owner.POST("/bookings/:booking_id/reject", bookingCtrl.RejectBooking)
		owner.POST("/bookings/:booking_id/fulfill", bookingCtrl.FulfillBooking)

		// DASHBOARD & REPORTS (owner)
		owner.GET("/restaurants/:restaurant_id/stats", ownerCtrl.GetDashboardStats)
		owner.GET("/restaurants/:restaurant_id/export", ownerCtrl.ExportBookingsCSV)
		owner.GET("/restaurants/:restaurant_id/export-pdf", ownerCtrl.ExportBookingsPDF)
	}

	// BOOKING (guest side)
	auth.POST("/bookings", bookingCtrl.CreateBooking)
	auth.GET("/bookings", bookingCtrl.GetMyBookings)
	auth.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
	auth.POST("/bookings/:booking_id/cancel", bookingCtrl.CancelBooking)

	// REVIEWS
	auth.POST("/reviews", reviewCtrl.CreateReview)
	auth.DELETE("/reviews/:review_id", reviewCtrl.DeleteReview)

	// NOTIFICATIONS
	auth.GET("/notifications", notificationCtrl.GetMyNotifications)
	auth.PATCH("/notifications/:notif_id/read", notificationCtrl.MarkNotificationRead)
	auth.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

	// WebSocket endpoint dengan middleware khusus
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/floorplan", controllers.FloorPlanWSHandler)
	}

	return r
}
