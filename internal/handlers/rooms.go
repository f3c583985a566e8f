package handlers

import (
	"sync"
	"time"

	"photo-backend/internal/models"
	"photo-backend/internal/utils"

	"github.com/rs/zerolog"
)

// FeedRoom receives every photo activity.
const FeedRoom = "feed"

const (
	defaultSendBuffer   = 32
	defaultWriteTimeout = 10 * time.Second
)

// PhotoRoom returns the room that receives activity for a single photo.
func PhotoRoom(photoID string) string {
	return "photo:" + photoID
}

// Conn is the websocket connection as used by the hub.
type Conn interface {
	utils.JSONWriter
	Close() error
}

// Hub tracks websocket connections and the rooms they joined.
// Each connection has its own writer goroutine; a connection whose
// queue is full is dropped from its rooms and closed.
type Hub struct {
	// roomName -> connectionID -> client
	rooms map[string]map[string]*client
	// connID -> client
	clients map[string]*client
	mu      sync.RWMutex
	log     zerolog.Logger

	sendBuffer   int
	writeTimeout time.Duration
}

type client struct {
	id     string
	userID string
	conn   Conn

	mu     sync.Mutex
	send   chan interface{}
	closed bool
	done   chan struct{}
}

// enqueue reports false when the client is closed or its queue is full.
func (c *client) enqueue(message interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		rooms:        make(map[string]map[string]*client),
		clients:      make(map[string]*client),
		log:          log.With().Str("component", "activity-hub").Logger(),
		sendBuffer:   defaultSendBuffer,
		writeTimeout: defaultWriteTimeout,
	}
}

// Register stores a new connection and starts its writer. It is not in any room yet.
func (h *Hub) Register(connID, userID string, conn Conn) {
	c := &client{
		id:     connID,
		userID: userID,
		conn:   conn,
		send:   make(chan interface{}, h.sendBuffer),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[connID] = c
	h.mu.Unlock()

	go h.writePump(c)
}

// Unregister removes the connection and waits for its writer to stop.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	c, ok := h.clients[connID]
	delete(h.clients, connID)
	h.removeFromRooms(connID)
	h.mu.Unlock()

	if !ok {
		return
	}
	c.close()
	<-c.done
}

func (h *Hub) Join(room, connID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return false
	}
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[string]*client)
	}
	h.rooms[room][connID] = c
	return true
}

func (h *Hub) Leave(room, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.rooms[room]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Send queues a message for a single connection.
func (h *Hub) Send(connID string, message interface{}) {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if !c.enqueue(message) {
		h.evict(c, "send queue full")
	}
}

// Broadcast queues message for every connection in room. It never waits on a
// connection; slow ones are evicted.
func (h *Hub) Broadcast(room string, message interface{}) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.rooms[room]))
	for _, c := range h.rooms[room] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.enqueue(message) {
			h.evict(c, "send queue full")
		}
	}
}

// Publish implements services.Notifier.
func (h *Hub) Publish(activity models.Activity) {
	now := time.Now().UnixMilli()
	for _, room := range []string{FeedRoom, PhotoRoom(activity.PhotoID)} {
		h.Broadcast(room, models.WSMessage{
			Event:     activity.Event,
			Room:      room,
			Activity:  &activity,
			Timestamp: now,
		})
	}
}

// RoomSize returns the number of connections in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) writePump(c *client) {
	defer close(c.done)

	for message := range c.send {
		if err := utils.SendJSON(c.conn, message, h.writeTimeout); err != nil {
			h.evict(c, err.Error())
			return
		}
	}
}

// evict drops a connection from every room and closes it. The read loop
// then fails and unregisters the connection.
func (h *Hub) evict(c *client, reason string) {
	h.mu.Lock()
	h.removeFromRooms(c.id)
	h.mu.Unlock()

	c.mu.Lock()
	alreadyClosed := c.closed
	c.mu.Unlock()
	if alreadyClosed {
		return
	}

	h.log.Debug().Str("conn_id", c.id).Str("user_id", c.userID).Str("reason", reason).Msg("evicting websocket client")
	c.close()
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// removeFromRooms requires h.mu to be held.
func (h *Hub) removeFromRooms(connID string) {
	for room, conns := range h.rooms {
		if _, ok := conns[connID]; ok {
			delete(conns, connID)
			if len(conns) == 0 {
				delete(h.rooms, room)
			}
		}
	}
}
