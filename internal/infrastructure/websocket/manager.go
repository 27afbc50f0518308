package websocket

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxFrameSize = 8 * 1024
	sendBuffer   = 16
)

// Client is one WebSocket connection following one chat transcript.
type Client struct {
	UserID string
	ChatID string
	Conn   *websocket.Conn
	Send   chan []byte

	done     chan struct{}
	doneOnce sync.Once
}

func NewClient(userID, chatID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		ChatID: chatID,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// Manager tracks the open transcript streams per chat.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop until ctx ends. Every client still
// connected at that point is shut down.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if m.clients[client.ChatID] == nil {
					m.clients[client.ChatID] = make(map[*Client]struct{})
				}
				m.clients[client.ChatID][client] = struct{}{}
				m.mutex.Unlock()
				log.Printf("WebSocket: client %s joined chat %s", client.UserID, client.ChatID)

			case client := <-m.Unregister:
				m.remove(client)
				log.Printf("WebSocket: client %s left chat %s", client.UserID, client.ChatID)

			case <-ctx.Done():
				m.mutex.Lock()
				for _, clients := range m.clients {
					for client := range clients {
						client.shutdown()
					}
				}
				m.clients = make(map[string]map[*Client]struct{})
				m.mutex.Unlock()
				return
			}
		}
	}()
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if clients, ok := m.clients[client.ChatID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(m.clients, client.ChatID)
		}
	}
	client.shutdown()
}

// ConnectedClients reports how many streams are open on a chat.
func (m *Manager) ConnectedClients(chatID string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[chatID])
}

func (c *Client) shutdown() {
	c.doneOnce.Do(func() { close(c.done) })
}

// Done is closed once the client has been unregistered.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// enqueue drops the frame when the client is gone.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case c.Send <- frame:
		return true
	case <-c.done:
		return false
	}
}

// ReadPump reads frames until the connection fails, then unregisters the
// client. It blocks for the lifetime of the connection.
func (c *Client) ReadPump(ctx context.Context, m *Manager, send SendFunc) {
	defer func() {
		select {
		case m.Unregister <- c:
		case <-c.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxFrameSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket: read error from %s: %v", c.UserID, err)
			}
			return
		}
		c.HandleFrame(ctx, frame, send)
	}
}

// WritePump sends queued frames and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Printf("WebSocket: write error to %s: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
