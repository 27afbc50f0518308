package handler

import (
	"github.com/labstack/echo/v4"

	"foodshare/internal/usecase"
	"foodshare/pkg/response"
)

type DashboardHandler struct {
	activityUseCase *usecase.ActivityUseCase
}

func NewDashboardHandler(activityUseCase *usecase.ActivityUseCase) *DashboardHandler {
	return &DashboardHandler{
		activityUseCase: activityUseCase,
	}
}

func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	dashboard, err := h.activityUseCase.Dashboard(c.Request().Context(), sess)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, dashboard)
}
