package routes

import (
	"time"

	"homeserve/handlers"
	"homeserve/middleware"
	"homeserve/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options configures the global middleware chain.
type Options struct {
	AllowOrigins      []string
	RequestsPerMinute int
	Logger            *zap.Logger
}

// RegisterAuthRoutes registers OTP and admin login endpoints.
func RegisterAuthRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	auth := api.Group("/auth")
	{
		auth.POST("/send-otp", hb.Auth.SendOTP)
		auth.POST("/verify-otp", hb.Auth.VerifyOTP)
		auth.POST("/admin/login", hb.Auth.AdminLogin)
	}
}

// RegisterUserRoutes registers the caller's profile and address endpoints.
func RegisterUserRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	users := api.Group("/users", middleware.JWTAuthMiddleware())
	{
		users.GET("/me", hb.Users.GetMe)
		users.PUT("/me", hb.Users.UpdateMe)
	}

	addresses := api.Group("/addresses", middleware.JWTAuthMiddleware())
	{
		addresses.POST("", hb.Addresses.Create)
		addresses.GET("", hb.Addresses.List)
		addresses.GET("/:addressId", hb.Addresses.Get)
		addresses.PUT("/:addressId", hb.Addresses.Update)
		addresses.DELETE("/:addressId", hb.Addresses.Delete)
	}
}

// RegisterCatalogRoutes registers public catalog reads and admin catalog writes.
func RegisterCatalogRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	services := api.Group("/services")
	{
		services.GET("", hb.Catalog.ListServices)
		services.GET("/:serviceId", hb.Catalog.GetService)
		services.GET("/:serviceId/subservices", hb.Catalog.ListSubservicesOfService)

		admin := services.Group("", middleware.JWTAuthMiddleware(), middleware.RequireAdmin())
		admin.POST("", hb.Catalog.CreateService)
		admin.PUT("/:serviceId", hb.Catalog.UpdateService)
		admin.DELETE("/:serviceId", hb.Catalog.DeleteService)
	}

	subservices := api.Group("/subservices")
	{
		subservices.GET("", hb.Catalog.ListSubservices)
		subservices.GET("/:subserviceId", hb.Catalog.GetSubservice)

		admin := subservices.Group("", middleware.JWTAuthMiddleware(), middleware.RequireAdmin())
		admin.POST("", hb.Catalog.CreateSubservice)
		admin.PUT("/:subserviceId", hb.Catalog.UpdateSubservice)
		admin.DELETE("/:subserviceId", hb.Catalog.DeleteSubservice)
	}
}

// RegisterBookingRoutes registers client booking endpoints and the admin views.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	bookings := api.Group("/bookings", middleware.JWTAuthMiddleware())
	{
		bookings.POST("", hb.Bookings.CreateBooking)
		bookings.GET("/my-bookings", hb.Bookings.MyBookings)
		bookings.GET("/my-bookings/:bookingId", hb.Bookings.MyBooking)
		bookings.PUT("/:bookingId", hb.Bookings.UpdateBooking)
		bookings.PATCH("/:bookingId/reschedule", hb.Bookings.Reschedule)
		bookings.PATCH("/:bookingId/cancel", hb.Bookings.Cancel)
		bookings.DELETE("/:bookingId", hb.Bookings.DeleteBooking)

		admin := bookings.Group("/admin", middleware.RequireAdmin())
		admin.GET("/all", hb.Bookings.ListAll)
		admin.GET("/service/:serviceId", hb.Bookings.ListByService)
		admin.GET("/subservice/:subserviceId", hb.Bookings.ListBySubservice)
		admin.GET("/:bookingId", hb.Bookings.AdminGetBooking)
		admin.PATCH("/:bookingId/assign-provider", hb.Bookings.AssignProvider)
	}
}

// RegisterRatingRoutes registers rating endpoints.
func RegisterRatingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	public := api.Group("/ratings")
	{
		public.GET("/average/subservice/:subserviceId", hb.Ratings.SubserviceAverage)
		public.GET("/average/subservices", hb.Ratings.AllSubserviceAverages)
	}

	ratings := api.Group("/ratings", middleware.JWTAuthMiddleware())
	{
		ratings.POST("/booking/:bookingId", hb.Ratings.CreateRating)
		ratings.GET("/my-ratings", hb.Ratings.MyRatings)
		ratings.GET("/:ratingId", hb.Ratings.GetRating)
		ratings.PUT("/:ratingId", hb.Ratings.UpdateRating)
		ratings.DELETE("/:ratingId", hb.Ratings.DeleteRating)

		admin := ratings.Group("/admin", middleware.RequireAdmin())
		admin.GET("/pending", hb.Ratings.ListPending)
		admin.GET("/all", hb.Ratings.ListAll)
		admin.PATCH("/:ratingId/review", hb.Ratings.Review)
		admin.GET("/aggregation-backlog", hb.Ratings.AggregationBacklog)
	}
}

// RegisterProviderRoutes registers admin service provider management.
func RegisterProviderRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	providers := api.Group("/service-providers", middleware.JWTAuthMiddleware(), middleware.RequireAdmin())
	{
		providers.POST("", hb.Providers.Create)
		providers.GET("", hb.Providers.List)
		providers.POST("/available", hb.Providers.Available)
		providers.GET("/:providerId", hb.Providers.Get)
		providers.PUT("/:providerId", hb.Providers.Update)
		providers.PUT("/:providerId/documents", hb.Providers.UploadDocuments)
		providers.DELETE("/:providerId", hb.Providers.Delete)
		providers.PATCH("/:providerId/verify", hb.Providers.Verify)
		providers.PATCH("/:providerId/verify-documents", hb.Providers.VerifyDocument)
		providers.PATCH("/:providerId/suspend", hb.Providers.Suspend)
		providers.POST("/:providerId/assign/:bookingId", hb.Providers.Assign)
		providers.GET("/:providerId/stats", hb.Providers.Stats)
	}
}

// RegisterAdminRoutes sets up endpoints for admin and user management.
func RegisterAdminRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	adminGroup := api.Group("/admin", middleware.JWTAuthMiddleware(), middleware.RequireAdmin())
	{
		adminGroup.POST("/admins", hb.Users.CreateAdmin)
		adminGroup.GET("/admins", hb.Users.ListAdmins)
		adminGroup.GET("/admins/:adminId", hb.Users.GetAdmin)
		adminGroup.GET("/users", hb.Users.ListUsers)
		adminGroup.GET("/users/:userId", hb.Users.GetUser)
		adminGroup.DELETE("/users/:userId", hb.Users.DeleteUser)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = utils.GetLogger()
	}
	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestLogger(logger))
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(opts.RequestsPerMinute))

	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	RegisterAuthRoutes(api, hb)
	RegisterUserRoutes(api, hb)
	RegisterCatalogRoutes(api, hb)
	RegisterBookingRoutes(api, hb)
	RegisterRatingRoutes(api, hb)
	RegisterProviderRoutes(api, hb)
	RegisterAdminRoutes(api, hb)
}
