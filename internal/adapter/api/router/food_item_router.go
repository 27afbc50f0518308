package router

import (
	"github.com/labstack/echo/v4"

	"foodshare/internal/adapter/api/handler"
	"foodshare/internal/adapter/api/middleware"
)

func SetupFoodItemRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	foodItemHandler := handler.GetFoodItemHandler()

	foodItems := e.Group("/v1/food-items")
	foodItems.Use(authMiddleware.Authenticate)

	foodItems.POST("", foodItemHandler.CreateFoodItem)
	foodItems.GET("", foodItemHandler.Browse)
	foodItems.GET("/:id", foodItemHandler.GetFoodItem)
	foodItems.POST("/:id/reserve", foodItemHandler.Reserve)
}
