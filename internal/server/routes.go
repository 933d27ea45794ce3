package server

import (
	"net/http"

	"VitalTrack_V1.0/internal/auth"
	"VitalTrack_V1.0/internal/user"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Platform"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	e.POST("/signup", user.RegisterHandler)
	e.POST("/login", auth.CodeLoginHandler)
	e.GET("/health", s.healthHandler)
	e.GET("/health/system", GetSystemHealthHandler)

	e.Use(LoggerMiddleware)

	// Protected routes
	protected := e.Group("")
	protected.Use(auth.JwtAuthMiddleware)

	// Account & profile
	protected.GET("/profile", user.GetUserProfileHandler)

	// Weight records
	protected.POST("/records/weight", user.AddWeightHandler)
	protected.GET("/records/weight", user.ListWeightHandler)
	protected.DELETE("/records/weight/:id", user.DeleteWeightHandler)
	protected.GET("/records/weight/stats", user.WeightStatsHandler)

	// Blood pressure records
	protected.POST("/records/bp", user.AddBloodPressureHandler)
	protected.GET("/records/bp", user.ListBloodPressureHandler)
	protected.DELETE("/records/bp/:id", user.DeleteBloodPressureHandler)
	protected.GET("/records/bp/stats", user.BloodPressureStatsHandler)

	// Stateless checks
	protected.POST("/check/bp", user.CheckBloodPressureHandler)
	protected.POST("/check/bmi", user.CheckBMIHandler)

	// Full analysis pipeline
	protected.POST("/analysis", user.GenerateAnalysisHandler)

	// Websocket for the live dashboard client
	protected.GET("/dashboard/ws", user.DashboardWebSocketHandler)

	return e
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.db.Health())
}

func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)

		return next(c)
	}
}
