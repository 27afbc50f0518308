package handler

import (
	"github.com/labstack/echo/v4"

	"foodshare/internal/usecase"
	"foodshare/pkg/response"
)

type SessionHandler struct {
	sessionUseCase *usecase.SessionUseCase
}

func NewSessionHandler(sessionUseCase *usecase.SessionUseCase) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUseCase,
	}
}

func (h *SessionHandler) GetSession(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"current_user": sess.CurrentUser(),
		"is_loading":   sess.IsLoading(),
	})
}

func (h *SessionHandler) Logout(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.sessionUseCase.Logout(c.Request().Context(), sess); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Logged out",
	})
}

func (h *SessionHandler) DeleteAccount(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.sessionUseCase.DeleteAccount(c.Request().Context(), sess); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Account deleted",
	})
}
