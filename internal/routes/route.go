package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventx/internal/container"
	"github.com/joshua-takyi/eventx/internal/handlers"
	"github.com/joshua-takyi/eventx/internal/middleware"
	"github.com/joshua-takyi/eventx/internal/models"
	"github.com/joshua-takyi/eventx/internal/monitoring"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	cfg := container.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(middleware.Metrics())
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(monitoring.Handler()))

	auth := container.AuthService
	cookies := handlers.CookieConfig{Secure: cfg.IsProduction()}
	protectAdmin := middleware.ProtectAdmin(auth, container.Logger)
	protectUser := middleware.ProtectUser(auth, container.Logger)
	protectAny := middleware.ProtectAny(auth, container.Logger)

	api := r.Group("/api")
	api.GET("/health", handlers.Health(container.Cloudinary != nil))

	// user accounts
	userAuth := api.Group("/users")
	{
		userAuth.POST("/register", handlers.RegisterUser(auth))
		userAuth.POST("/login", handlers.Login(auth, cookies, models.RoleUser))
		userAuth.POST("/logout", handlers.Logout(cookies))
		userAuth.GET("/me", protectUser, handlers.Me())
	}
	api.GET("/users", protectAny, handlers.ListUsers(container.PeopleService))

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", handlers.RegisterUser(auth))
		authRoutes.POST("/login", handlers.Login(auth, cookies, ""))
		authRoutes.POST("/logout", handlers.Logout(cookies))
		authRoutes.GET("/me", protectAny, handlers.Me())
		authRoutes.GET("/users/:id", protectAny, handlers.GetUser(container.PeopleService))
		authRoutes.PUT("/users/:id", protectAny, handlers.UpdateUser(container.PeopleService))
		authRoutes.DELETE("/users/:id", protectAdmin, handlers.DeleteUser(container.PeopleService))
	}

	adminAuth := api.Group("/admin-auth")
	{
		adminAuth.POST("/register", protectAdmin, handlers.RegisterAdmin(auth))
		adminAuth.POST("/login", handlers.Login(auth, cookies, models.RoleAdmin))
		adminAuth.POST("/logout", handlers.Logout(cookies))
	}

	admins := api.Group("/admins")
	{
		admins.GET("", protectAny, handlers.ListAdmins(container.PeopleService))
		admins.GET("/:id", protectAdmin, handlers.GetAdmin(container.PeopleService))
		admins.PUT("/:id", protectAdmin, handlers.UpdateAdmin(container.PeopleService))
		admins.DELETE("/:id", protectAdmin, handlers.DeleteAdmin(container.PeopleService))
	}

	events := api.Group("/events")
	{
		events.POST("", protectAdmin, handlers.CreateEvent(container.EventService))
		events.GET("", protectAny, handlers.ListEvents(container.EventService))
		events.GET("/:id", protectAny, handlers.GetEvent(container.EventService))
		events.PUT("/:id", protectAdmin, handlers.UpdateEvent(container.EventService))
		events.DELETE("/:id", protectAdmin, handlers.DeleteEvent(container.EventService))
		events.POST("/:id/book", protectAny, handlers.BookEvent(container.BookingService))
	}

	tickets := api.Group("/tickets")
	{
		tickets.GET("/my", protectAny, handlers.MyTickets(container.BookingService))
		tickets.GET("/all", protectAdmin, handlers.AllTickets(container.BookingService))
		tickets.GET("/:id", handlers.GetTicket(container.BookingService))
		tickets.POST("", protectAdmin, handlers.IssueTicket(container.BookingService))
		tickets.PATCH("/:id/status", protectAdmin, handlers.UpdateTicketStatus(container.BookingService))
	}

	bookings := api.Group("/bookings", protectAny)
	{
		bookings.GET("/event/:id", handlers.EventBookings(container.BookingService))
		bookings.GET("/user/:id", handlers.UserBookings(container.BookingService))
	}

	messages := api.Group("/messages", protectAny)
	{
		messages.GET("/contacts", handlers.Contacts(container.PeopleService))
		messages.GET("/received", handlers.Inbox(container.MessageService))
		messages.GET("/:userId", handlers.Thread(container.MessageService))
		messages.POST("", handlers.SendMessage(container.MessageService))
	}

	api.GET("/dashboard-stats", protectAdmin, handlers.DashboardStats(container.AnalyticsService))
	analytics := api.Group("/analytics", protectAdmin)
	{
		analytics.GET("/overall", handlers.OverallAnalytics(container.AnalyticsService))
		analytics.GET("/event/:id", handlers.EventAnalytics(container.AnalyticsService))
	}

	optimized := api.Group("/optimized")
	{
		optimized.GET("/events/list", protectAny, handlers.ListEvents(container.EventService))
		optimized.GET("/events/details/:id", protectAny, handlers.GetEvent(container.EventService))
		optimized.GET("/admin/dashboard-data", protectAdmin, handlers.AdminDashboardData(container.AnalyticsService))
		optimized.GET("/people/list", protectAdmin, handlers.PeopleList(container.PeopleService))
		optimized.GET("/tickets/management", protectAdmin,
			handlers.TicketsManagement(container.BookingService, container.EventService, container.PeopleService))
		optimized.GET("/analytics/raw-data", protectAdmin, handlers.AnalyticsRawData(container.AnalyticsService))
		optimized.GET("/analytics/event-raw/:id", protectAdmin, handlers.EventRawData(container.AnalyticsService))
		optimized.GET("/tickets/my-optimized", protectAny, handlers.MyTickets(container.BookingService))
	}

	return r
}
