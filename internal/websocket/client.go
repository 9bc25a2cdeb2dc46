package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"logisticsdash/internal/config"
	"logisticsdash/internal/infrastructure"
	"logisticsdash/internal/middleware"
	"logisticsdash/internal/services"
)

// Time allowed to write a message to the peer
const writeWait = 10 * time.Second

// Settings control the keepalive and limits of a session
type Settings struct {
	PingPeriod     time.Duration
	PongWait       time.Duration
	MaxMessageSize int64
	SendBuffer     int
}

// SettingsFrom maps the websocket section of the application config.
// The ping period is kept below the pong wait.
func SettingsFrom(cfg config.WebSocketConfig) Settings {
	s := Settings{
		PingPeriod:     cfg.PingPeriod,
		PongWait:       cfg.PongWait,
		MaxMessageSize: cfg.MaxMessageSize,
		SendBuffer:     16,
	}
	if s.PongWait <= 0 {
		s.PongWait = 60 * time.Second
	}
	if s.PingPeriod <= 0 || s.PingPeriod >= s.PongWait {
		s.PingPeriod = (s.PongWait * 9) / 10
	}
	if s.MaxMessageSize <= 0 {
		s.MaxMessageSize = 512
	}
	return s
}

// Client is one live-view session: it reads year selections from the
// connection and writes snapshots back.
type Client struct {
	hub       *Hub
	conn      Connection
	source    SnapshotSource
	validator *middleware.Validator
	settings  Settings

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	id          string
	traceID     string
	remoteAddr  string
	connectedAt time.Time

	requests atomic.Int64
	dropped  atomic.Int64

	logger *slog.Logger
}

// NewClient creates a session on conn. traceID ties the session logs to the upgrade request.
func NewClient(hub *Hub, conn Connection, source SnapshotSource, validator *middleware.Validator, settings Settings, remoteAddr, traceID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if settings.SendBuffer <= 0 {
		settings.SendBuffer = 16
	}

	id := uuid.New().String()
	return &Client{
		hub:         hub,
		conn:        conn,
		source:      source,
		validator:   validator,
		settings:    settings,
		send:        make(chan []byte, settings.SendBuffer),
		done:        make(chan struct{}),
		id:          id,
		traceID:     traceID,
		remoteAddr:  remoteAddr,
		connectedAt: time.Now(),
		logger: logger.With(
			slog.String("component", "websocket.client"),
			slog.String("client_id", id),
		),
	}
}

// ID returns the session identifier
func (c *Client) ID() string {
	return c.id
}

func (c *Client) context() context.Context {
	return backgroundContext(c.traceID)
}

// close ends the session; safe to call more than once
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// ReadPump reads selections until the connection fails, then unregisters the session
func (c *Client) ReadPump() {
	ctx := c.context()
	defer func() {
		c.logger.InfoContext(ctx, "WebSocket client disconnected",
			slog.Duration("connection_duration", time.Since(c.connectedAt)),
			slog.Int64("requests", c.requests.Load()))
		c.hub.Unregister(c)
	}()

	c.conn.SetReadLimit(c.settings.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.settings.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.settings.PongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.WarnContext(ctx, "Unexpected WebSocket close error", slog.String("error", err.Error()))
			}
			return
		}
		c.handle(ctx, bytes.TrimSpace(message))
	}
}

// handle answers one frame. Invalid frames get an error frame; the session stays open.
func (c *Client) handle(ctx context.Context, message []byte) {
	var req Request
	if err := json.Unmarshal(message, &req); err != nil {
		c.reply(TypeError, ErrorData{Code: "INVALID_REQUEST", Message: "message must be a JSON object"})
		return
	}

	switch req.Type {
	case TypeHeartbeat:
		c.logger.DebugContext(ctx, "Heartbeat received")
		return
	case "", TypeSelect:
	default:
		c.reply(TypeError, ErrorData{Code: "INVALID_REQUEST", Message: "unknown message type " + req.Type})
		return
	}

	if err := c.validator.ValidateStruct(middleware.YearQuery{Year: req.Year}); err != nil {
		c.reply(TypeError, ErrorData{Code: "VALIDATION_FAILED", Message: "year must be between 1 and 9999"})
		return
	}

	c.requests.Add(1)
	snap := c.source.Snapshot(ctx, req.Year, services.FrontEndReactive)
	c.reply(TypeSnapshot, snap)
}

// reply queues a frame for this session only. A full queue drops the frame.
func (c *Client) reply(msgType string, data any) {
	payload, err := encode(msgType, c.id, data)
	if err != nil {
		c.logger.ErrorContext(c.context(), "Error marshaling message",
			slog.String("type", msgType),
			slog.String("error", err.Error()))
		return
	}

	select {
	case <-c.done:
	case c.send <- payload:
	default:
		c.dropped.Add(1)
		c.logger.WarnContext(c.context(), "Client send buffer full, dropping message",
			slog.String("type", msgType))
	}
}

// WritePump writes queued frames and keepalive pings until the session ends
func (c *Client) WritePump() {
	ctx := c.context()
	ticker := time.NewTicker(c.settings.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.ErrorContext(ctx, "Error writing message to WebSocket", slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(ctx, "Failed to send ping message", slog.String("error", err.Error()))
				return
			}
		}
	}
}
