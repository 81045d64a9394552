package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"meetsync/models"
	"meetsync/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Clients only send control frames
	maxMessageSize = 512

	sendBuffer = 64
)

var errHubClosed = errors.New("events hub closed")

// SnapshotTopic tags the first message a new client receives.
const SnapshotTopic = "snapshot"

// StateEvent is pushed to every connected client after a store change.
type StateEvent struct {
	Topic string               `json:"topic"`
	State models.StoreSnapshot `json:"state"`
	At    time.Time            `json:"at"`
}

type snapshotter interface {
	Snapshot() models.StoreSnapshot
}

// EventsHub forwards store notifications to websocket clients.
type EventsHub struct {
	mu      sync.RWMutex
	clients map[*eventsClient]struct{}
	closed  bool

	store    snapshotter
	subs     []notification.Subscription
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewEventsHub subscribes to every store topic on bus. An empty or "*"
// allowedOrigins accepts any origin.
func NewEventsHub(bus notification.NotificationBus, store snapshotter, allowedOrigins []string, logger *zap.Logger) *EventsHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &EventsHub{
		clients: make(map[*eventsClient]struct{}),
		store:   store,
		logger:  logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	for _, topic := range notification.Topics() {
		h.subs = append(h.subs, bus.Subscribe(topic, h.onChange))
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 || slices.Contains(allowed, "*") {
			return true
		}
		return slices.Contains(allowed, origin)
	}
}

// onChange never fails: a slow or gone client must not turn a store mutation
// into an error.
func (h *EventsHub) onChange(topic notification.Topic) error {
	data, err := h.encode(string(topic))
	if err != nil {
		h.logger.Error("Failed to encode state event", zap.String("topic", string(topic)), zap.Error(err))
		return nil
	}
	h.broadcast(data)
	return nil
}

func (h *EventsHub) encode(topic string) ([]byte, error) {
	return json.Marshal(StateEvent{Topic: topic, State: h.store.Snapshot(), At: time.Now().UTC()})
}

func (h *EventsHub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("Dropping state event for slow client", zap.String("clientID", c.id))
		}
	}
}

// register queues the current state for c and adds it to the broadcast set
// under one lock, so no change can slip between the two.
func (h *EventsHub) register(c *eventsClient) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return errHubClosed
	}
	initial, err := h.encode(SnapshotTopic)
	if err != nil {
		return err
	}
	c.send <- initial
	h.clients[c] = struct{}{}
	return nil
}

func (h *EventsHub) unregister(c *eventsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// ClientCount returns the number of connected clients.
func (h *EventsHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close cancels the bus subscriptions and disconnects every client.
func (h *EventsHub) Close() {
	for _, sub := range h.subs {
		sub.Cancel()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// ServeWS handles GET /ws. The first message carries the current state.
func (h *EventsHub) ServeWS(c *gin.Context) {
	logger := getLogger(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := &eventsClient{
		id:   uuid.New().String(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	if err := h.register(client); err != nil {
		logger.Warn("Websocket client rejected", zap.Error(err))
		conn.Close()
		return
	}
	logger.Info("Websocket client connected", zap.String("clientID", client.id))

	go client.writePump()
	go client.readPump()
}

type eventsClient struct {
	id   string
	hub  *EventsHub
	conn *websocket.Conn
	send chan []byte
}

// readPump drains control frames until the peer goes away.
func (c *eventsClient) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("Websocket closed unexpectedly", zap.String("clientID", c.id), zap.Error(err))
			}
			return
		}
	}
}

func (c *eventsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
