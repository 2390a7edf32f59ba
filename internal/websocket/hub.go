package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"asistentas-gateway/internal/pkg/logger"
	"asistentas-gateway/pkg/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const ClusterChannel = "cluster_events"

// Hub pushes session events to the browser tabs watching a session. With
// Redis configured, events are fanned out to the other gateway instances.
type Hub struct {
	// Session ID -> connected clients (a page may reconnect before the old
	// socket is gone)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done     chan struct{}
	stopOnce sync.Once

	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client
	// Instance marker so a hub ignores its own cluster messages
	origin string

	logger logger.ILogger
}

type clusterMessage struct {
	Origin          string          `json:"origin"`
	TargetSessionID string          `json:"target_session_id"`
	Message         json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		origin:     uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// attach hands a client to the running hub. It reports false once the hub has
// stopped.
func (h *Hub) attach(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// detach never blocks past hub shutdown.
func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.SessionID]
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info("Hub", "Session has no more clients", map[string]interface{}{"session_id": client.SessionID})
	}
}

// Deliver implements the session event delivery used by the services.
func (h *Hub) Deliver(event events.Event) {
	sessionID, ok := events.SessionID(event)
	if !ok {
		h.logger.Warn("Hub", "Dropping event without session id", map[string]interface{}{"type": event.EventType()})
		return
	}

	data, err := events.EncodeFrame(event)
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal event", map[string]interface{}{"error": err.Error()})
		return
	}

	h.sendLocal(sessionID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{
			Origin:          h.origin,
			TargetSessionID: sessionID,
			Message:         data,
		})
		if err := h.rdb.Publish(context.Background(), ClusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// CloseSession disconnects every client of a deleted session.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[sessionID]...)
	h.mu.RUnlock()

	for _, c := range clients {
		go h.detach(c)
	}
}

func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

func (h *Hub) sendLocal(sessionID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"session_id": sessionID})
			go h.detach(client)
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.origin || payload.TargetSessionID == "" {
			continue
		}
		h.sendLocal(payload.TargetSessionID, payload.Message)
	}
}
