package realtime

import (
	"context"
	"encoding/json"
	"expvar"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// bookingEventsChannel fans notifications out to every API instance
const bookingEventsChannel = "ws:booking_events"

var (
	wsConnectionsGauge   = expvar.NewInt("websocket_connections")
	wsEventsSentTotal    = expvar.NewInt("websocket_events_sent_total")
	wsEventsDroppedTotal = expvar.NewInt("websocket_events_dropped_total")
)

// Message is what clients receive
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// envelope wraps a message on the Redis channel with its audience
type envelope struct {
	UserID           string          `json:"user_id,omitempty"`
	Admins           bool            `json:"admins,omitempty"`
	Payload          json.RawMessage `json:"payload"`
	SenderInstanceID string          `json:"sender_instance_id"`
}

// Connection represents a WebSocket connection
type Connection struct {
	UserID  uuid.UUID
	IsAdmin bool
	Conn    *websocket.Conn
	Send    chan []byte
}

// Hub tracks local WebSocket connections and mirrors notifications to other
// instances through Redis Pub/Sub
type Hub struct {
	connections map[uuid.UUID]map[*Connection]bool

	redis  *redis.Client
	pubsub *redis.PubSub

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc

	instanceID string
}

// NewHub creates a hub. A nil client keeps delivery local to this instance.
func NewHub(redisClient *redis.Client) *Hub {
	return NewHubWithInstanceID(redisClient, uuid.NewString())
}

// NewHubWithInstanceID creates a hub with an explicit instance identifier
func NewHubWithInstanceID(redisClient *redis.Client, instanceID string) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
		instanceID:  instanceID,
	}

	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, bookingEventsChannel)
	}

	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.UserID] == nil {
				h.connections[conn.UserID] = make(map[*Connection]bool)
			}
			h.connections[conn.UserID][conn] = true
			h.mu.Unlock()
			wsConnectionsGauge.Add(1)
			log.Debug().Str("user_id", conn.UserID.String()).Bool("admin", conn.IsAdmin).Msg("WebSocket connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.connections[conn.UserID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
					wsConnectionsGauge.Add(-1)
				}
				if len(conns) == 0 {
					delete(h.connections, conn.UserID)
				}
			}
			h.mu.Unlock()
			log.Debug().Str("user_id", conn.UserID.String()).Msg("WebSocket disconnected")
		}
	}
}

func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handlePayload(msg.Payload)
		}
	}
}

func (h *Hub) handlePayload(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return
	}
	if env.SenderInstanceID == h.instanceID {
		return
	}

	userID := uuid.Nil
	if env.UserID != "" {
		id, err := uuid.Parse(env.UserID)
		if err != nil {
			return
		}
		userID = id
	}
	h.deliverLocal(userID, env.Admins, env.Payload)
}

// Register adds a connection. It reports false once the hub has shut down.
func (h *Hub) Register(conn *Connection) bool {
	select {
	case h.register <- conn:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// Unregister removes a connection; after Shutdown it is a no-op
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.ctx.Done():
	}
}

// SendToUser delivers msg to every connection of userID on any instance
func (h *Hub) SendToUser(userID uuid.UUID, msg *Message) error {
	return h.send(userID, false, msg)
}

// SendToAdmins delivers msg to every admin connection on any instance
func (h *Hub) SendToAdmins(msg *Message) error {
	return h.send(uuid.Nil, true, msg)
}

// Notify delivers msg to userID and to all admins; a user who is also an
// admin receives it once
func (h *Hub) Notify(userID uuid.UUID, msg *Message) error {
	return h.send(userID, true, msg)
}

func (h *Hub) send(userID uuid.UUID, admins bool, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.deliverLocal(userID, admins, data)
	return h.publish(userID, admins, data)
}

func (h *Hub) deliverLocal(userID uuid.UUID, admins bool, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, conns := range h.connections {
		for conn := range conns {
			if !(userID != uuid.Nil && id == userID) && !(admins && conn.IsAdmin) {
				continue
			}
			select {
			case conn.Send <- data:
				wsEventsSentTotal.Add(1)
			default:
				wsEventsDroppedTotal.Add(1)
				log.Warn().Str("user_id", id.String()).Msg("WebSocket send buffer full")
			}
		}
	}
}

func (h *Hub) publish(userID uuid.UUID, admins bool, data []byte) error {
	if h.redis == nil {
		return nil
	}

	env := envelope{
		Admins:           admins,
		Payload:          data,
		SenderInstanceID: h.instanceID,
	}
	if userID != uuid.Nil {
		env.UserID = userID.String()
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return h.redis.Publish(h.ctx, bookingEventsChannel, payload).Err()
}

// GetConnectionCount returns number of local connections
func (h *Hub) GetConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.connections {
		total += len(conns)
	}
	return total
}

// Shutdown gracefully shuts down the hub
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
