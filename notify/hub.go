package notify

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub fans content-change events out to every connected websocket client.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

type envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type postEvent struct {
	Action string      `json:"action"`
	Post   interface{} `json:"post"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Start() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("WebSocket client registered. Total clients: %d", h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("WebSocket client unregistered. Total clients: %d", h.ClientCount())

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client, drop it rather than block the hub.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish broadcasts a post-change event to all clients. It never blocks and
// never surfaces an error: an undeliverable event is logged and dropped.
func (h *Hub) Publish(event string, payload interface{}) {
	msg, err := json.Marshal(envelope{
		Type:    "posts",
		Payload: postEvent{Action: event, Post: payload},
	})
	if err != nil {
		log.Printf("Error marshaling %s event: %v", event, err)
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		log.Printf("Notification channel full, dropping %s event", event)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
