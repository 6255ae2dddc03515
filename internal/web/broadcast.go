package web

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sweeney/breath-sync/internal/logic"
	"github.com/sweeney/breath-sync/internal/session"
	"github.com/sweeney/breath-sync/internal/status"
)

const (
	clientBuffer = 64
	writeWait    = 5 * time.Second
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
}

func (c *client) close() {
	close(c.send)
}

// Broadcaster fans session updates out to websocket clients. Updates that
// arrive within one throttle window are coalesced into a single message
// carrying the latest session and every event since the last flush.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]bool
	current status.SessionJSON
	closed  bool

	throttle      time.Duration
	flushMu       sync.Mutex
	pendingState  *status.SessionJSON
	pendingEvents []EventJSON
	flushTimer    *time.Timer
}

// NewBroadcaster creates a Broadcaster whose first snapshot is initial.
func NewBroadcaster(initial logic.State, throttle time.Duration) *Broadcaster {
	return &Broadcaster{
		clients:  make(map[*client]bool),
		current:  status.Session(initial),
		throttle: throttle,
	}
}

// AddClient registers conn and queues the current snapshot for it.
func (b *Broadcaster) AddClient(conn *websocket.Conn) *client {
	c := newClient(conn)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		c.close()
		return c
	}
	b.clients[c] = true
	data, _ := json.Marshal(WSMessage{Type: MsgSnapshot, Payload: SnapshotPayload{Session: b.current}})
	c.send <- data // fresh buffer, never full
	b.mu.Unlock()
	return c
}

// RemoveClient unregisters c and closes its connection.
func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.close()
	}
	b.mu.Unlock()
}

// Observe implements session.Observer. It never blocks the controller.
func (b *Broadcaster) Observe(u session.Update) {
	sj := status.Session(u.State)

	b.flushMu.Lock()
	b.pendingState = &sj
	for _, e := range u.Events {
		b.pendingEvents = append(b.pendingEvents, eventJSON(e))
	}
	if b.throttle > 0 && b.flushTimer == nil {
		b.flushTimer = time.AfterFunc(b.throttle, b.flush)
	}
	b.flushMu.Unlock()

	// Unthrottled updates go out on the caller's goroutine, in order.
	if b.throttle <= 0 {
		b.flush()
	}
}

func (b *Broadcaster) flush() {
	b.flushMu.Lock()
	state := b.pendingState
	events := b.pendingEvents
	b.pendingState = nil
	b.pendingEvents = nil
	b.flushTimer = nil
	b.flushMu.Unlock()

	if state == nil {
		return
	}

	b.mu.Lock()
	b.current = *state
	b.mu.Unlock()

	b.broadcast(WSMessage{Type: MsgUpdate, Payload: UpdatePayload{Session: *state, Events: events}})
}

func (b *Broadcaster) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("broadcast marshal error: %v", err)
		return
	}

	// Sends happen under the read lock so no channel is closed mid-send.
	var slow []*client
	b.mu.RLock()
	for c := range b.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	b.mu.RUnlock()

	for _, c := range slow {
		log.Printf("ws client too slow, disconnecting")
		b.RemoveClient(c)
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Close stops pending flushes and disconnects every client.
func (b *Broadcaster) Close() {
	b.flushMu.Lock()
	if b.flushTimer != nil {
		b.flushTimer.Stop()
		b.flushTimer = nil
	}
	b.flushMu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for c := range b.clients {
		delete(b.clients, c)
		c.close()
	}
}
