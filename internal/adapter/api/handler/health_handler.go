package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	backend string
}

var healthHandler *HealthHandler

func NewHealthHandler(backend string) *HealthHandler {
	return &HealthHandler{
		backend: backend,
	}
}

func SetupHealthHandler(backend string) {
	healthHandler = NewHealthHandler(backend)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "Server is running",
		"backend": h.backend,
		"time":    time.Now().Format(time.RFC3339),
	})
}
