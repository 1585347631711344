package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/csmc-contest/backend/internal/registration"
)

// RegistrationsChannel is the redis pub/sub channel a committed registration
// is announced on.
const RegistrationsChannel = "csmc:registrations"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin is checked by the WebSocket CORS middleware
	},
}

// Client is one connected display screen.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans registration-count snapshots out to connected display clients.
type Hub struct {
	db      *sqlx.DB
	clients map[*Client]struct{}
	mu      sync.RWMutex
}

// NewHub creates a stats hub backed by the given database.
func NewHub(db *sqlx.DB) *Hub {
	return &Hub{
		db:      db,
		clients: make(map[*Client]struct{}),
	}
}

// Broadcast sends the current stats snapshot to every connected client.
// Clients with a full send buffer are skipped.
func (h *Hub) Broadcast() {
	stats, err := registration.CollectStats(h.db, false)
	if err != nil {
		log.Printf("[WS] Failed to collect stats for broadcast: %v", err)
		return
	}

	data, err := json.Marshal(stats)
	if err != nil {
		log.Printf("[WS] Failed to marshal stats: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] Client send buffer full, dropping stats frame")
		}
	}
}

// HandleConnection upgrades the request and serves stats frames until the
// client disconnects. The first frame is sent immediately.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}

	client := &Client{conn: conn, send: make(chan []byte, 8)}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	go h.writePump(client)
	go h.readPump(client)

	h.Broadcast()
}

func (h *Hub) writePump(client *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case data, ok := <-client.send:
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readPump(client *Client) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, client)
		h.mu.Unlock()
		close(client.send)
		client.conn.Close()
	}()

	client.conn.SetReadLimit(512)
	for {
		// Display clients only listen; drain until the connection drops.
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// StartRegistrationSubscriber listens on the registrations channel and
// rebroadcasts stats whenever any server instance commits a registration.
// No-op when redis is not configured.
func (h *Hub) StartRegistrationSubscriber(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		log.Printf("[WS] Redis not configured, live stats only update on connect")
		return
	}

	sub := rdb.Subscribe(ctx, RegistrationsChannel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				h.Broadcast()
			}
		}
	}()
	log.Printf("[WS] Subscribed to %s", RegistrationsChannel)
}

// AnnounceRegistration publishes a committed registration's username to the
// registrations channel. Best effort; failures are logged and ignored.
func AnnounceRegistration(ctx context.Context, rdb *redis.Client, username string) {
	if rdb == nil {
		return
	}
	if err := rdb.Publish(ctx, RegistrationsChannel, username).Err(); err != nil {
		log.Printf("[WS] Failed to announce registration %s: %v", username, err)
	}
}
