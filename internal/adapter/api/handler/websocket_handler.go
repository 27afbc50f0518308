package handler

import (
	"context"
	"log"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "foodshare/internal/infrastructure/websocket"
	"foodshare/internal/usecase"
	"foodshare/pkg/response"
)

type WebSocketHandler struct {
	wsManager   *ws.Manager
	chatUseCase *usecase.ChatUseCase
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, chatUseCase *usecase.ChatUseCase) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:   wsManager,
		chatUseCase: chatUseCase,
	}
}

// StreamChat upgrades to a WebSocket that receives the chat transcript on
// every change. The handler blocks until the connection closes.
func (h *WebSocketHandler) StreamChat(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	ctx := c.Request().Context()
	chatID := c.Param("id")

	sub, err := h.chatUseCase.SubscribeTranscript(ctx, sess, chatID)
	if err != nil {
		return response.Error(c, err)
	}
	defer sub.Close()

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("WebSocket: failed to upgrade connection for %s: %v", sess.UserID(), err)
		return nil
	}

	client := ws.NewClient(sess.UserID(), chatID, conn)
	select {
	case h.wsManager.Register <- client:
	case <-ctx.Done():
		conn.Close()
		return nil
	}

	go client.WritePump()
	go client.Forward(sub)

	client.ReadPump(ctx, h.wsManager, func(ctx context.Context, text string) error {
		_, err := h.chatUseCase.SendMessage(ctx, sess, chatID, text)
		return err
	})

	return nil
}
