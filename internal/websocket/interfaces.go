package websocket

import (
	"context"
	"time"

	"logisticsdash/internal/services"
)

// Connection is the part of *websocket.Conn a session uses
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)
}

// SnapshotSource recomputes the dashboard for one selection
type SnapshotSource interface {
	Snapshot(ctx context.Context, requested *int, frontEnd string) *services.Snapshot
}
