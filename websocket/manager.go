package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Manager tracks connected clients by user id and delivers notification
// events to whichever connections that user has open.
type Manager struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	outbound   chan userMessage
	mu         sync.RWMutex
}

type userMessage struct {
	userID string
	data   []byte
}

type Client struct {
	conn    *websocket.Conn
	userID  string
	send    chan []byte
	manager *Manager
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan userMessage, 64),
	}
}

func (m *Manager) Start() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			if m.clients[client.userID] == nil {
				m.clients[client.userID] = make(map[*Client]bool)
			}
			m.clients[client.userID][client] = true
			m.mu.Unlock()
			log.Printf("WebSocket client registered for user %s", client.userID)

		case client := <-m.unregister:
			m.mu.Lock()
			if conns, ok := m.clients[client.userID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(m.clients, client.userID)
					}
				}
			}
			m.mu.Unlock()
			log.Printf("WebSocket client unregistered for user %s", client.userID)

		case msg := <-m.outbound:
			m.mu.Lock()
			for client := range m.clients[msg.userID] {
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer, drop the connection.
					close(client.send)
					delete(m.clients[msg.userID], client)
				}
			}
			m.mu.Unlock()
		}
	}
}

// SendToUser delivers a typed event to all of a user's open connections.
// Users with no connection are silently skipped.
func (m *Manager) SendToUser(userID, event string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"type":    event,
		"payload": payload,
	})
	if err != nil {
		log.Printf("Error marshaling WebSocket event: %v", err)
		return
	}

	select {
	case m.outbound <- userMessage{userID: userID, data: data}:
	default:
		log.Printf("WebSocket outbound queue full, dropping %s event for user %s", event, userID)
	}
}

func (m *Manager) ConnectedUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Serve upgrades the request and attaches the connection to the manager.
// The caller must have authenticated userID already.
func Serve(manager *Manager, w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		conn:    conn,
		userID:  userID,
		send:    make(chan []byte, 256),
		manager: manager,
	}

	manager.register <- client

	welcome, _ := json.Marshal(map[string]interface{}{
		"type": "connected",
		"payload": map[string]interface{}{
			"userId": userID,
			"time":   time.Now().Unix(),
		},
	})
	client.send <- welcome

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var data map[string]interface{}
		if err := json.Unmarshal(message, &data); err != nil {
			continue
		}

		if data["type"] == "ping" {
			c.sendPong()
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendPong() {
	msg, err := json.Marshal(map[string]interface{}{
		"type":    "pong",
		"payload": map[string]interface{}{"time": time.Now().Unix()},
	})
	if err != nil {
		return
	}
	c.send <- msg
}
