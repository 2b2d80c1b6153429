package status

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/chillbroinf-cloud/DepBot/internal/logging"
	"github.com/chillbroinf-cloud/DepBot/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans the periodic status payload out to every connected
// dashboard socket.
type Hub struct {
	log        *logrus.Logger
	casino     *services.Casino
	tail       *logging.Tail
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
}

type statusMessage struct {
	Type      string                `json:"type"`
	Timestamp int64                 `json:"timestamp"`
	Data      services.StatusReport `json:"data"`
	LogLines  []string              `json:"log_lines,omitempty"`
}

func NewHub(log *logrus.Logger, casino *services.Casino, tail *logging.Tail) *Hub {
	return &Hub{
		log:        log,
		casino:     casino,
		tail:       tail,
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

// Run owns the client set and pushes a snapshot every interval until
// the context is done.
func (h *Hub) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = true
			h.log.WithField("clients", len(h.clients)).Debug("dashboard socket connected")
		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
		case <-ticker.C:
			h.broadcast()
		case <-ctx.Done():
			for conn := range h.clients {
				conn.Close()
			}
			return
		}
	}
}

func (h *Hub) broadcast() {
	if len(h.clients) == 0 {
		return
	}
	msg := statusMessage{
		Type:      "STATUS_UPDATE",
		Timestamp: time.Now().Unix(),
		Data:      h.casino.Status(),
	}
	if h.tail != nil {
		msg.LogLines = h.tail.Recent()
	}
	for conn := range h.clients {
		if err := conn.WriteJSON(msg); err != nil {
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// Handle upgrades the request and parks the connection in the hub.
// Inbound frames are drained and ignored except for close.
func (h *Hub) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	h.register <- conn
	defer func() {
		h.unregister <- conn
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).Debug("dashboard socket error")
			}
			return
		}
	}
}
