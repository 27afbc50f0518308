package router

import (
	"github.com/labstack/echo/v4"

	"foodshare/internal/adapter/api/handler"
	"foodshare/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	me := e.Group("/v1/users/me")
	me.Use(authMiddleware.Authenticate)

	me.GET("", userHandler.GetMe)
	me.PATCH("", userHandler.UpdateProfile)

	// Donor profiles are public
	e.GET("/v1/users/:id", userHandler.GetDonorProfile)
}

func SetupDashboardRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	dashboardHandler := handler.GetDashboardHandler()

	e.GET("/v1/dashboard", dashboardHandler.GetDashboard, authMiddleware.Authenticate)
}
