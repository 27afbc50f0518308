package handler

import (
	"github.com/labstack/echo/v4"

	"foodshare/internal/usecase"
	"foodshare/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

type ratingRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// GetUserChats lists the chats the user takes part in. The chatId query
// parameter selects one of them.
func (h *ChatHandler) GetUserChats(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	chats, err := h.chatUseCase.ListChats(c.Request().Context(), sess, c.QueryParam("chatId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chats)
}

func (h *ChatHandler) GetChat(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUseCase.GetChat(c.Request().Context(), sess, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) DeleteChat(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.chatUseCase.DeleteChat(c.Request().Context(), sess, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Chat deleted",
	})
}

func (h *ChatHandler) GetMessages(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	messages, err := h.chatUseCase.ListMessages(c.Request().Context(), sess, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sess, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), sess, c.Param("id"), req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) MarkReceived(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUseCase.MarkReceived(c.Request().Context(), sess, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) SubmitRating(c echo.Context) error {
	var req ratingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sess, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	result, err := h.chatUseCase.SubmitRating(c.Request().Context(), sess, c.Param("id"), usecase.RatingInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
