package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"foodshare/internal/adapter/api"
	"foodshare/internal/adapter/api/handler"
	apimiddleware "foodshare/internal/adapter/api/middleware"
	"foodshare/internal/adapter/api/router"
	"foodshare/internal/bootstrap"
	"foodshare/internal/infrastructure/ratelimit"
	"foodshare/internal/infrastructure/websocket"
	"foodshare/internal/usecase"
	"foodshare/pkg/config"
	"foodshare/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.SetDebug(!cfg.IsProduction())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize backend: %v", err)
	}
	defer backend.Close()

	if cfg.TransactionalReservations() {
		log.Printf("Reservations run in a single transaction")
	}

	limiter := ratelimit.NewRateLimiter(map[string]ratelimit.Policy{
		ratelimit.ActionReserve:     {Every: cfg.ReserveEvery, Burst: cfg.ReserveBurst},
		ratelimit.ActionSendMessage: {Every: cfg.SendMessageEvery, Burst: cfg.SendMessageBurst},
	})
	limiter.StartCleanupRoutine(ctx, 30*time.Minute, time.Hour)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	identity := backend.Clients.Auth

	sessionUseCase := usecase.NewSessionUseCase(
		identity,
		backend.Denylist,
		backend.Users,
		backend.FoodItems,
		backend.Chats,
		backend.Activities,
		backend.Reservations,
	)
	authUseCase := usecase.NewAuthUseCase(backend.Users, identity, sessionUseCase)
	userUseCase := usecase.NewUserUseCase(backend.Users, identity)
	activityUseCase := usecase.NewActivityUseCase(backend.FoodItems, backend.Activities)
	listingUseCase := usecase.NewListingUseCase(backend.FoodItems, backend.Users, backend.Activities)
	reservationUseCase := usecase.NewReservationUseCase(
		backend.FoodItems,
		backend.Reservations,
		backend.Chats,
		backend.Reserver,
		limiter,
	)
	chatUseCase := usecase.NewChatUseCase(backend.Chats, backend.Users, backend.Activities, limiter)

	handler.SetupHealthHandler(cfg.DataBackend)
	handler.Setup(
		authUseCase,
		sessionUseCase,
		userUseCase,
		activityUseCase,
		listingUseCase,
		reservationUseCase,
		chatUseCase,
		wsManager,
	)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
	}))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(sessionUseCase)
	authRateLimit := apimiddleware.RateLimitPerIP(cfg.AuthRequestsPerMinute)

	router.Setup(e, authMiddleware, authRateLimit)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
