package realtime

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"marketplace/config"
	"marketplace/domain/notification"
	"marketplace/pkg/logger"
	"marketplace/pkg/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub owns every live connection of this process. It implements notification.Pusher.
type Hub struct {
	registry Registry
	cfg      config.RealtimeConfig
	metrics  *metrics.ServerMetrics
	upgrader websocket.Upgrader
	encode   func(event string, data any) ([]byte, error)

	mu      sync.RWMutex
	clients map[string]*client
}

type HubOptions struct {
	Config         config.RealtimeConfig
	Metrics        *metrics.ServerMetrics
	AllowedOrigins []string
}

func NewHub(registry Registry, opts HubOptions) *Hub {
	cfg := opts.Config
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 16
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = 10 * time.Second
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = 60 * time.Second
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = 4096
	}

	return &Hub{
		registry: registry,
		cfg:      cfg,
		metrics:  opts.Metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBuffer,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
		encode:  encodeFrame,
		clients: make(map[string]*client),
	}
}

// ServeWS upgrades the request and runs the connection until it closes. principalID is the
// authenticated caller; add_user frames naming anyone else are refused. An empty principal
// accepts any add_user.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, principalID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		id:        uuid.NewString(),
		hub:       h,
		conn:      conn,
		principal: principalID,
		send:      make(chan []byte, h.cfg.SendBuffer),
		done:      make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.metrics.ConnectionOpened()

	logger.Ctx(r.Context()).Debug("Realtime connection opened",
		zap.String("conn_id", c.id),
		zap.String("principal", principalID))

	go c.writePump()
	go c.readPump()
	return nil
}

// Push queues n for userID's connection without blocking. It reports whether the user was
// connected and the frame was built; a full send buffer drops the push.
func (h *Hub) Push(userID string, n *notification.Notification) bool {
	connID, ok := h.registry.ConnectionFor(userID)
	if !ok {
		h.metrics.ObservePush(metrics.PushOffline)
		return false
	}
	h.mu.RLock()
	c := h.clients[connID]
	h.mu.RUnlock()
	if c == nil {
		h.metrics.ObservePush(metrics.PushOffline)
		return false
	}

	msg, err := h.encode(EventNewNotification, NewNotificationView(n))
	if err != nil {
		h.metrics.ObservePush(metrics.PushDropped)
		logger.Error("Failed to encode notification frame",
			zap.String("user_id", userID),
			zap.String("notification_id", n.ID()),
			zap.Error(err))
		return false
	}
	if !c.enqueue(msg) {
		h.metrics.ObservePush(metrics.PushDropped)
		logger.Warn("Notification push dropped, send buffer full",
			zap.String("user_id", userID),
			zap.String("conn_id", connID),
			zap.String("notification_id", n.ID()))
		return true
	}
	h.metrics.ObservePush(metrics.PushDelivered)
	return true
}

// OnlineUsers returns the sorted ids of connected users.
func (h *Hub) OnlineUsers() []string {
	return h.registry.OnlineUsers()
}

// Close disconnects every client. Used on shutdown.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.close()
	}
}

func (h *Hub) addUser(c *client, userID string) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		c.sendError("add_user requires a user id")
		return
	}
	if c.principal != "" && userID != c.principal {
		logger.Warn("Refused add_user for another user",
			zap.String("conn_id", c.id),
			zap.String("principal", c.principal),
			zap.String("requested", userID))
		c.sendError("add_user must name the authenticated user")
		return
	}
	if h.registry.Register(userID, c.id) {
		h.broadcastOnline()
	}
}

func (h *Hub) disconnect(c *client) {
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
	h.metrics.ConnectionClosed()

	userID, wentOffline := h.registry.Unregister(c.id)
	logger.Debug("Realtime connection closed",
		zap.String("conn_id", c.id),
		zap.String("user_id", userID))
	if wentOffline {
		h.broadcastOnline()
	}
}

// broadcastOnline sends the sorted online list to every connection.
func (h *Hub) broadcastOnline() {
	msg, err := encodeFrame(EventOnlineUsers, h.registry.OnlineUsers())
	if err != nil {
		logger.Error("Failed to encode online users frame", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.enqueue(msg)
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

var _ notification.Pusher = (*Hub)(nil)
