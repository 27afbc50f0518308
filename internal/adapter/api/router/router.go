package router

import (
	"github.com/labstack/echo/v4"

	"foodshare/internal/adapter/api/middleware"
)

// Setup registers every route. authRateLimit guards the public credential
// endpoints.
func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, authRateLimit echo.MiddlewareFunc) {
	SetupHealthRouter(e)
	SetupAuthRouter(e, authMiddleware, authRateLimit)
	SetupUserRouter(e, authMiddleware)
	SetupDashboardRouter(e, authMiddleware)
	SetupFoodItemRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
}
