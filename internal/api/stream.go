package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/iei-diagnostic-server/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is CORS-open; the stream follows the same policy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans case events out to WebSocket subscribers. It implements
// service.Notifier.
type Hub struct {
	logger *logrus.Logger

	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	closed bool
}

type subscriber struct {
	conn   *websocket.Conn
	caseID string
	send   chan *service.CaseEvent
}

// NewHub creates an empty event hub.
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		logger: logger,
		subs:   make(map[string]map[*subscriber]struct{}),
	}
}

// Publish delivers an event to every subscriber of its case. Slow subscribers
// are dropped rather than allowed to stall the reasoning loop.
func (h *Hub) Publish(event *service.CaseEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[event.CaseID] {
		select {
		case sub.send <- event:
		default:
			h.logger.WithField("case_id", event.CaseID).Warn("Dropping slow stream subscriber")
			go h.unsubscribe(sub)
		}
	}
}

func (h *Hub) subscribe(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.send)
		return
	}
	set, ok := h.subs[sub.caseID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subs[sub.caseID] = set
	}
	set[sub] = struct{}{}
}

func (h *Hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[sub.caseID]
	if !ok {
		return
	}
	if _, present := set[sub]; !present {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.caseID)
	}
	close(sub.send)
}

// Shutdown disconnects all subscribers.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, set := range h.subs {
		for sub := range set {
			close(sub.send)
		}
	}
	h.subs = make(map[string]map[*subscriber]struct{})
}

// handleStream upgrades the connection and streams belief updates for a case.
func (s *Server) handleStream(c *gin.Context) {
	caseID := c.Param("id")
	if _, err := s.sessions.GetCase(c.Request.Context(), caseID); err != nil {
		s.respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	sub := &subscriber{
		conn:   conn,
		caseID: caseID,
		send:   make(chan *service.CaseEvent, sendBufferSize),
	}
	s.hub.subscribe(sub)

	go sub.writePump()
	go sub.readPump(s.hub)
}

// writePump pushes events and pings to the peer until the send channel closes.
func (sub *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client messages and unsubscribes on disconnect.
func (sub *subscriber) readPump(h *Hub) {
	defer func() {
		h.unsubscribe(sub)
		sub.conn.Close()
	}()
	sub.conn.SetReadLimit(512)
	sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		sub.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}
