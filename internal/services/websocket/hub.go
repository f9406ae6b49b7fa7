package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"merchant-portal/internal/services/monitor"
)

// Hub fans job-run and system-stats events out to connected admin dashboards.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
}

var WSHub *Hub

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (h *Hub) Run() {
	go h.broadcastStats()

	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			var dead []*websocket.Conn
			h.mutex.RLock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					dead = append(dead, client)
				}
			}
			h.mutex.RUnlock()

			if len(dead) > 0 {
				h.mutex.Lock()
				for _, client := range dead {
					if _, ok := h.clients[client]; ok {
						delete(h.clients, client)
						client.Close()
					}
				}
				h.mutex.Unlock()
			}
		}
	}
}

// broadcastStats pushes system health to connected dashboards.
func (h *Hub) broadcastStats() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		h.mutex.RLock()
		clientCount := len(h.clients)
		h.mutex.RUnlock()

		if clientCount == 0 {
			continue
		}

		stats, err := monitor.GetSystemStats()
		if err != nil {
			continue
		}

		h.publish(map[string]interface{}{
			"type":  "system_stats",
			"stats": stats,
		})
	}
}

func (h *Hub) publish(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default: // no listeners draining fast enough, drop rather than block a job
	}
}

// Publish sends v to all connected clients. Safe to call before InitHub
// (tests, early boot) — events are dropped.
func Publish(v interface{}) {
	if WSHub == nil {
		return
	}
	WSHub.publish(v)
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.register <- conn
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.unregister <- conn
}

func HandleWebSocket(c *websocket.Conn) {
	WSHub.Register(c)
	defer WSHub.Unregister(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}

func InitHub() {
	WSHub = NewHub()
	go WSHub.Run()
}
