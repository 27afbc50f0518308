package router

import (
	"github.com/labstack/echo/v4"

	"foodshare/internal/adapter/api/handler"
	"foodshare/internal/adapter/api/middleware"
)

// SetupAuthRouter initializes sign-up, login and session routes
func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, authRateLimit echo.MiddlewareFunc) {
	authHandler := handler.GetAuthHandler()
	sessionHandler := handler.GetSessionHandler()

	// Public routes
	auth := e.Group("/v1/auth")
	auth.Use(authRateLimit)

	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := e.Group("/v1/session")
	protected.Use(authMiddleware.Authenticate)

	protected.GET("", sessionHandler.GetSession)
	protected.POST("/logout", sessionHandler.Logout)
	protected.DELETE("/account", sessionHandler.DeleteAccount)
}
