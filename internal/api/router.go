package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookmystyle/user-accounts/internal/api/handler"
	"github.com/bookmystyle/user-accounts/internal/api/middleware"
	"github.com/bookmystyle/user-accounts/internal/api/routes"
	"github.com/bookmystyle/user-accounts/internal/core/access"
	"github.com/bookmystyle/user-accounts/internal/core/ports"
	"github.com/bookmystyle/user-accounts/internal/core/service"
	"github.com/bookmystyle/user-accounts/internal/infrastructure/config"
	mongorepo "github.com/bookmystyle/user-accounts/internal/infrastructure/db/mongo"
)

// Dependencies are the long-lived resources the router is built from.
type Dependencies struct {
	Config   *config.Config
	Mongo    *mongo.Database
	Redis    *redis.Client // nil with the in-memory session store
	Sessions ports.SessionStore
	Audit    ports.SecurityRecorder
	Log      zerolog.Logger
	// Metrics receives the HTTP collectors; nil means the default registry.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	cfg := d.Config
	cookie := middleware.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure}
	table := routes.NewTable()

	// --- Dependencies ---
	users := mongorepo.NewUserRepository(d.Mongo)
	bookings := mongorepo.NewBookingRepository(d.Mongo)
	salons := mongorepo.NewSalonRepository(d.Mongo)
	reviews := mongorepo.NewReviewRepository(d.Mongo)
	notifications := mongorepo.NewNotificationRepository(d.Mongo)

	authService := service.NewAuthService(users, d.Sessions, d.Audit, cfg.JWTSecret, cfg.Session.TTL, d.Log)
	accountService := service.NewAccountService(users, d.Sessions, d.Audit, d.Log)
	customerService := service.NewCustomerService(bookings, reviews, notifications, d.Log)
	salonOwnerService := service.NewSalonOwnerService(salons, bookings, d.Log)
	adminService := service.NewAdminService(users, salons, bookings, d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Metrics != nil {
		registerer, gatherer = d.Metrics, d.Metrics
	}

	guards := middleware.NewGuards(middleware.GuardsConfig{
		Routes:     table,
		Sessions:   d.Sessions,
		Audit:      d.Audit,
		Cookie:     cookie,
		FailClosed: cfg.Access.FailClosed,
		Log:        d.Log,
	})

	// --- Global middleware ---
	// Echo runs these after routing, so every guard sees the matched path.
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "accounts",
		Registerer: registerer,
	}))
	e.Use(guards.NoCache())
	e.Use(middleware.Authenticate(authService, cookie, d.Log))
	e.Use(guards.SessionSecurity())
	e.Use(guards.RoleBasedAccess())

	// --- Core ---
	e.GET("/", handler.Home).Name = access.RouteHome

	// --- Accounts ---
	authHandler := handler.NewAuthHandler(authService, table, cookie, d.Log)
	accountHandler := handler.NewAccountHandler(accountService, table)
	login := guards.LoginRequired()

	e.GET("/accounts/login/", authHandler.LoginPage).Name = access.RouteLogin
	e.POST("/accounts/login/", authHandler.Login).Name = access.RouteLogin
	e.GET("/accounts/admin_portal/", authHandler.AdminLoginPage).Name = access.RouteAdminLogin
	e.POST("/accounts/admin_portal/", authHandler.AdminLogin).Name = access.RouteAdminLogin
	named(e.Match(getPost, "/accounts/logout/", authHandler.Logout), access.RouteLogout)
	e.GET("/accounts/register/", authHandler.RegisterChoice).Name = access.RouteRegister
	e.GET("/accounts/register/customer/", authHandler.CustomerRegisterPage).Name = access.RouteCustomerRegister
	e.POST("/accounts/register/customer/", authHandler.CustomerRegister).Name = access.RouteCustomerRegister
	e.GET("/accounts/register/salon-owner/", authHandler.SalonOwnerRegisterPage).Name = access.RouteSalonOwnerRegister
	e.POST("/accounts/register/salon-owner/", authHandler.SalonOwnerRegister).Name = access.RouteSalonOwnerRegister
	e.GET("/accounts/profile/", accountHandler.Profile, login).Name = access.RouteProfile
	e.GET("/accounts/profile/edit/", accountHandler.EditProfilePage, login).Name = access.RouteEditProfile
	e.POST("/accounts/profile/edit/", accountHandler.EditProfile, login).Name = access.RouteEditProfile
	e.GET("/accounts/messages/", accountHandler.Messages).Name = access.RouteMessages

	// --- Customer ---
	customerHandler := handler.NewCustomerHandler(customerService, table)
	cg := e.Group("/customer", guards.CustomerRequired())
	cg.GET("/dashboard/", customerHandler.Dashboard).Name = access.RouteCustomerDashboard
	cg.GET("/bookings/", customerHandler.Bookings).Name = access.RouteCustomerBookings
	cg.GET("/bookings/:booking_id/", customerHandler.BookingDetail).Name = access.RouteCustomerBookingDetail
	named(cg.Match(getPost, "/bookings/:booking_id/cancel/", customerHandler.CancelBooking), access.RouteCustomerCancelBooking)
	cg.GET("/reviews/", customerHandler.Reviews).Name = access.RouteCustomerReviews
	cg.GET("/notifications/", customerHandler.Notifications).Name = access.RouteCustomerNotifications

	// --- Salon owner ---
	ownerHandler := handler.NewSalonOwnerHandler(salonOwnerService, table)
	og := e.Group("/salon-owner", guards.SalonOwnerRequired())
	og.GET("/dashboard/", ownerHandler.Dashboard).Name = access.RouteSalonOwnerDashboard
	og.GET("/salons/", ownerHandler.Salons).Name = access.RouteSalonOwnerSalons
	named(og.Match(getPost, "/salons/create/", ownerHandler.CreateSalon), access.RouteSalonOwnerCreateSalon)
	named(og.Match(getPost, "/salons/:salon_id/edit/", ownerHandler.EditSalon), access.RouteSalonOwnerEditSalon)
	og.GET("/bookings/", ownerHandler.Bookings).Name = access.RouteSalonOwnerBookings
	named(og.Match(getPost, "/bookings/:booking_id/approve/", ownerHandler.ApproveBooking), access.RouteSalonOwnerApproveBooking)
	named(og.Match(getPost, "/bookings/:booking_id/cancel/", ownerHandler.CancelBooking), access.RouteSalonOwnerCancelBooking)
	og.GET("/staff/", ownerHandler.Staff).Name = access.RouteSalonOwnerStaff
	og.GET("/analytics/", ownerHandler.Analytics).Name = access.RouteSalonOwnerAnalytics

	// --- Admin ---
	adminHandler := handler.NewAdminHandler(adminService, accountService, table)
	ag := e.Group("/user-admin", guards.AdminRequired())
	ag.GET("/dashboard/", adminHandler.Dashboard).Name = access.RouteAdminDashboard
	ag.GET("/users/", adminHandler.Users).Name = access.RouteAdminUsers
	named(ag.Match(getPost, "/users/create/", adminHandler.CreateUser), access.RouteAdminCreateUser)
	ag.POST("/users/:user_id/toggle-status/", adminHandler.ToggleUserStatus).Name = access.RouteAdminToggleUser
	ag.GET("/salons/", adminHandler.Salons).Name = access.RouteAdminSalons
	ag.POST("/salons/:salon_id/approve/", adminHandler.ApproveSalon).Name = access.RouteAdminApproveSalon
	ag.POST("/salons/:salon_id/reject/", adminHandler.RejectSalon).Name = access.RouteAdminRejectSalon
	ag.GET("/bookings/", adminHandler.Bookings).Name = access.RouteAdminBookings
	ag.GET("/analytics/", adminHandler.Analytics).Name = access.RouteAdminAnalytics
	ag.GET("/settings/", adminHandler.Settings).Name = access.RouteAdminSettings

	// --- Health probes, metrics, docs, assets (unnamed, outside every zone) ---
	healthHandler := handler.NewHealthHandler(d.Mongo, d.Redis)
	e.GET("/health", handler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/static", cfg.StaticDir)

	table.Load(e.Routes())
	return e
}

var getPost = []string{http.MethodGet, http.MethodPost}

func named(rs []*echo.Route, name string) {
	for _, r := range rs {
		r.Name = name
	}
}

// requestLogger emits one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRoutePath: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Str("route", v.RoutePath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
