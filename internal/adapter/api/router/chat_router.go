package router

import (
	"github.com/labstack/echo/v4"

	"foodshare/internal/adapter/api/handler"
	"foodshare/internal/adapter/api/middleware"
)

// SetupChatRouter sets up chat routes and the transcript stream
func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()
	wsHandler := handler.GetWebSocketHandler()

	// Browsers cannot set headers on a WebSocket upgrade, so the stream
	// also takes the token from the query string.
	e.GET("/v1/chats/:id/stream", wsHandler.StreamChat, authMiddleware.AuthenticateQuery)

	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.GET("", chatHandler.GetUserChats)
	chatGroup.GET("/:id", chatHandler.GetChat)
	chatGroup.DELETE("/:id", chatHandler.DeleteChat)

	chatGroup.GET("/:id/messages", chatHandler.GetMessages)
	chatGroup.POST("/:id/messages", chatHandler.SendMessage)

	chatGroup.POST("/:id/received", chatHandler.MarkReceived)
	chatGroup.POST("/:id/rating", chatHandler.SubmitRating)
}
