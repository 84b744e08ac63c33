package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/spektr-org/sleeplens/dashboard"
	"github.com/spektr-org/sleeplens/schema"
)

// ============================================================================
// WEBSOCKET — One dashboard session per connection
// ============================================================================

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the websocket envelope in both directions.
//
//	client → server: {"type":"select","metric":"Quality of Sleep"} | {"type":"ping"}
//	server → client: ready | update | error | pong
type Message struct {
	Type    string          `json:"type"`
	Session string          `json:"session,omitempty"`
	Metric  string          `json:"metric,omitempty"`
	State   string          `json:"state,omitempty"`
	Charts  json.RawMessage `json:"charts,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Client is one connected dashboard.
type Client struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	session *dashboard.Session
	srv     *Server
}

// Hub tracks connected clients. Stopping it closes every connection.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	quit       chan struct{}
	stopOnce   sync.Once
	logger     *zerolog.Logger
}

func newHub(logger *zerolog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
		quit:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c.id] = c
			h.logger.Info().Str("session", c.id).Int("clients", len(h.clients)).Msg("🔌 client connected")
		case c := <-h.unregister:
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				h.logger.Info().Str("session", c.id).Int("clients", len(h.clients)).Msg("❌ client disconnected")
			}
		case <-h.quit:
			h.logger.Debug().Int("clients", len(h.clients)).Msg("hub stopped")
			return
		}
	}
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// ============================================================================
// HANDLER
// ============================================================================

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	session, err := dashboard.NewSession(s.ctrl)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &Client{
		id:      uuid.NewString(),
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		session: session,
		srv:     s,
	}

	select {
	case s.hub.register <- c:
	case <-s.hub.quit:
		conn.Close()
		return
	}

	c.enqueue(Message{Type: "ready", Session: c.id, Metric: session.Current().Metric, State: session.State().String()})

	go c.writePump()
	go c.readPump()
}

// ============================================================================
// PUMPS
// ============================================================================

func (c *Client) readPump() {
	hub := c.srv.hub
	defer func() {
		select {
		case hub.unregister <- c:
		case <-hub.quit:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.srv.logger.Warn().Err(err).Str("session", c.id).Msg("websocket read failed")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.enqueue(Message{Type: "error", Error: "invalid message"})
			continue
		}

		switch msg.Type {
		case "ping":
			c.enqueue(Message{Type: "pong"})
		case "select":
			c.handleSelect(msg.Metric)
		default:
			c.enqueue(Message{Type: "error", Error: "unknown message type " + msg.Type})
		}
	}
}

func (c *Client) handleSelect(metric string) {
	log := c.srv.logger.With().Str("session", c.id).Str("metric", metric).Logger()

	set, err := c.session.Select(metric)
	if err != nil {
		log.Debug().Err(err).Msg("selection rejected")
		c.enqueue(Message{Type: "error", Metric: metric, Error: err.Error()})
		return
	}

	compressed, err := c.srv.compressedOptions(set)
	if err != nil {
		log.Error().Err(err).Msg("render options failed")
		c.enqueue(Message{Type: "error", Metric: metric, Error: errRenderCharts})
		return
	}
	charts, err := snappy.Decode(nil, compressed)
	if err != nil {
		log.Error().Err(err).Msg("decompress options failed")
		c.enqueue(Message{Type: "error", Metric: metric, Error: errRenderCharts})
		return
	}

	log.Debug().Str("label", schema.MetricName(metric)).Msg("🔄 charts updated")
	c.enqueue(Message{
		Type:   "update",
		Metric: set.Metric,
		State:  c.session.State().String(),
		Charts: charts,
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.srv.hub.quit:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		}
	}
}

// enqueue drops the message when the client is not keeping up.
func (c *Client) enqueue(msg Message) {
	b, err := json.Marshal(msg)
	if err != nil {
		c.srv.logger.Error().Err(err).Str("type", msg.Type).Msg("encode message failed")
		return
	}
	select {
	case c.send <- b:
	case <-c.srv.hub.quit:
	default:
		c.srv.logger.Warn().Str("session", c.id).Str("type", msg.Type).Msg("send buffer full, dropping message")
	}
}
