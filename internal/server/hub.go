package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/truthortrap/trap-server-go/internal/game"
	"github.com/truthortrap/trap-server-go/internal/game/rules"
	"github.com/truthortrap/trap-server-go/internal/session"
)

// Websocket message types.
const (
	MessageState    = "state"
	MessageEvent    = "event"
	MessageRejected = "rejected"
	MessageError    = "error"

	MessageAction = "action"
	MessageSync   = "sync"
	MessageUndo   = "undo"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the websocket frame in both directions.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// EventView is the JSON shape of a published game event.
type EventView struct {
	Type     rules.EventType   `json:"type"`
	Action   string            `json:"action,omitempty"`
	PlayerID string            `json:"playerId,omitempty"`
	TargetID string            `json:"targetId,omitempty"`
	Card     string            `json:"card,omitempty"`
	Data     string            `json:"data,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Client is one websocket connection.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

type outbound struct {
	client *Client
	data   []byte
}

// Hub fans session events out to websocket clients and feeds their actions back
// into the session. The run loop owns every client's send channel.
type Hub struct {
	sess   *session.Session
	logger *zap.Logger

	clients    map[*Client]bool
	broadcast  chan []byte
	direct     chan outbound
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	count      atomic.Int64
}

// NewHub returns a hub for sess. Call Run to start it.
func NewHub(sess *session.Session, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		sess:       sess,
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		direct:     make(chan outbound, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// ClientCount reports how many websocket clients are connected.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Run subscribes to the session and serves clients until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	unsubscribe := h.sess.Subscribe(h.onEvent)
	defer func() {
		unsubscribe()
		for client := range h.clients {
			h.drop(client)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = true
			h.count.Add(1)
			h.logger.Debug("client registered", zap.Int64("clients", h.count.Load()))
			h.deliver(client, h.stateMessage())

		case client := <-h.unregister:
			if h.clients[client] {
				h.drop(client)
				h.logger.Debug("client unregistered", zap.Int64("clients", h.count.Load()))
			}

		case data := <-h.broadcast:
			for client := range h.clients {
				h.deliver(client, data)
			}

		case out := <-h.direct:
			if h.clients[out.client] {
				h.deliver(out.client, out.data)
			}
		}
	}
}

func (h *Hub) deliver(client *Client, data []byte) {
	if data == nil {
		return
	}
	select {
	case client.send <- data:
	default:
		h.logger.Warn("dropping slow websocket client")
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.count.Add(-1)
}

func (h *Hub) onEvent(ev rules.Event) {
	if ev.Type == rules.EventStateChanged {
		h.publish(h.stateMessage())
	}
	h.publish(encode(h.logger, MessageEvent, EventView{
		Type:     ev.Type,
		Action:   ev.Action,
		PlayerID: ev.PlayerID,
		TargetID: ev.TargetID,
		Card:     ev.Card,
		Data:     ev.Data,
		Metadata: ev.Metadata,
	}))
}

func (h *Hub) publish(data []byte) {
	if data == nil {
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

func (h *Hub) reply(client *Client, data []byte) {
	if data == nil {
		return
	}
	select {
	case h.direct <- outbound{client: client, data: data}:
	case <-h.done:
	}
}

func (h *Hub) stateMessage() []byte {
	return encode(h.logger, MessageState, NewView(h.sess.State()))
}

func encode(logger *zap.Logger, typ string, v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("failed to encode websocket payload", zap.String("type", typ), zap.Error(err))
		return nil
	}
	msg, err := json.Marshal(Message{Type: typ, Data: data})
	if err != nil {
		logger.Error("failed to encode websocket message", zap.String("type", typ), zap.Error(err))
		return nil
	}
	return msg
}

func (h *Hub) handleMessage(client *Client, msg Message) {
	switch msg.Type {
	case MessageSync:
		h.reply(client, h.stateMessage())

	case MessageAction:
		a, err := game.DecodeAction(msg.Data)
		if err != nil {
			h.reply(client, encode(h.logger, MessageError, errorBody{Error: err.Error()}))
			return
		}
		if _, err := h.sess.Dispatch(a); err != nil {
			h.reply(client, encode(h.logger, MessageRejected, errorBody{Error: err.Error()}))
		}

	case MessageUndo:
		if _, err := h.sess.Undo(); err != nil {
			h.reply(client, encode(h.logger, MessageRejected, errorBody{Error: err.Error()}))
		}

	default:
		h.reply(client, encode(h.logger, MessageError, errorBody{Error: "unknown message type " + msg.Type}))
	}
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read failed", zap.Error(err))
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.reply(c, encode(h.logger, MessageError, errorBody{Error: "invalid message"}))
			continue
		}
		h.handleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
