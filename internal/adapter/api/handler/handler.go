package handler

import (
	"github.com/labstack/echo/v4"

	ws "foodshare/internal/infrastructure/websocket"
	"foodshare/internal/session"
	"foodshare/internal/usecase"
	"foodshare/pkg/errors"
)

var (
	authHandler      *AuthHandler
	sessionHandler   *SessionHandler
	userHandler      *UserHandler
	dashboardHandler *DashboardHandler
	foodItemHandler  *FoodItemHandler
	chatHandler      *ChatHandler
	websocketHandler *WebSocketHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	sessionUseCase *usecase.SessionUseCase,
	userUseCase *usecase.UserUseCase,
	activityUseCase *usecase.ActivityUseCase,
	listingUseCase *usecase.ListingUseCase,
	reservationUseCase *usecase.ReservationUseCase,
	chatUseCase *usecase.ChatUseCase,
	wsManager *ws.Manager,
) {
	authHandler = NewAuthHandler(authUseCase)
	sessionHandler = NewSessionHandler(sessionUseCase)
	userHandler = NewUserHandler(userUseCase)
	dashboardHandler = NewDashboardHandler(activityUseCase)
	foodItemHandler = NewFoodItemHandler(listingUseCase, reservationUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	websocketHandler = NewWebSocketHandler(wsManager, chatUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetSessionHandler() *SessionHandler {
	return sessionHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetDashboardHandler() *DashboardHandler {
	return dashboardHandler
}

func GetFoodItemHandler() *FoodItemHandler {
	return foodItemHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetWebSocketHandler() *WebSocketHandler {
	return websocketHandler
}

// currentSession returns the session attached by the auth middleware.
func currentSession(c echo.Context) (*session.Session, error) {
	sess, ok := c.Get("session").(*session.Session)
	if !ok || sess == nil {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	return sess, nil
}
