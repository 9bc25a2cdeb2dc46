package websocket

import (
	"encoding/json"
	"time"
)

// Message types
const (
	TypeConnection = "connection"
	TypeSelect     = "select"
	TypeHeartbeat  = "heartbeat"
	TypeSnapshot   = "snapshot"
	TypeError      = "error"
)

// Message is the envelope of every server-to-client frame
type Message struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Request is a client-to-server frame. A frame without a type is a selection,
// so {"year":2022} and {"type":"select","year":2022} are equivalent. A
// selection without a year asks for the default year.
type Request struct {
	Type string `json:"type"`
	Year *int   `json:"year"`
}

// ErrorData is the payload of an error frame
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func encode(msgType, sessionID string, data any) ([]byte, error) {
	return json.Marshal(Message{
		Type:      msgType,
		Data:      data,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	})
}
