package websocket

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"foodshare/internal/domain/entity"
	"foodshare/internal/domain/repository"
	"foodshare/pkg/errors"
)

const (
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeSendMessage = "send_message"
	MessageTypeTranscript  = "transcript"
	MessageTypeError       = "error"
)

type WSMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

type outgoing struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

type SendMessageData struct {
	Text string `json:"text"`
}

type TranscriptData struct {
	ChatID   string            `json:"chat_id"`
	Messages []*entity.Message `json:"messages"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SendFunc appends a message to the client's chat.
type SendFunc func(ctx context.Context, text string) error

// HandleFrame processes one incoming frame.
func (c *Client) HandleFrame(ctx context.Context, frame []byte, send SendFunc) {
	var msg WSMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		log.Printf("WebSocket: invalid frame from %s: %v", c.UserID, err)
		c.sendError(errors.CodeBadRequest, "Invalid message format")
		return
	}

	switch msg.Type {
	case MessageTypePing:
		c.push(MessageTypePong, map[string]string{"status": "alive"})

	case MessageTypeSendMessage:
		var data SendMessageData
		if err := json.Unmarshal(msg.Data, &data); err != nil || strings.TrimSpace(data.Text) == "" {
			c.sendError(errors.CodeBadRequest, "Message text is required")
			return
		}
		if err := send(ctx, data.Text); err != nil {
			log.Printf("WebSocket: send_message from %s on chat %s failed: %v", c.UserID, c.ChatID, err)
			appErr, ok := errors.AsAppError(err)
			if !ok {
				appErr = errors.Internal("Failed to send message", err)
			}
			c.sendError(appErr.Code, appErr.Message)
		}

	default:
		log.Printf("WebSocket: unknown message type '%s' from %s", msg.Type, c.UserID)
		c.sendError(errors.CodeBadRequest, "Unknown message type")
	}
}

// Forward pushes every transcript the subscription yields until it closes
// or the client goes away.
func (c *Client) Forward(sub repository.MessageSubscription) {
	for {
		select {
		case messages, ok := <-sub.Updates():
			if !ok {
				if err := sub.Err(); err != nil {
					c.sendError(errors.CodeInternal, "Transcript stream failed")
				}
				return
			}
			if messages == nil {
				messages = []*entity.Message{}
			}
			if !c.push(MessageTypeTranscript, TranscriptData{ChatID: c.ChatID, Messages: messages}) {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) push(msgType string, data interface{}) bool {
	frame, err := json.Marshal(outgoing{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("WebSocket: failed to encode %s frame: %v", msgType, err)
		return false
	}
	return c.enqueue(frame)
}

func (c *Client) sendError(code, message string) {
	c.push(MessageTypeError, ErrorData{Code: code, Message: message})
}
