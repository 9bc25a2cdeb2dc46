package websocket

import (
	"errors"
	"sync"
	"time"
)

var errConnectionClosed = errors.New("connection closed")

// MockConnection is an in-memory Connection. ReadMessage blocks until a frame
// is pushed with AddReadMessage or the connection is closed.
type MockConnection struct {
	mu      sync.Mutex
	written []MockMessage
	closed  bool

	incoming chan MockMessage
	closeCh  chan struct{}
	once     sync.Once

	ReadLimit   int64
	PongHandler func(string) error
}

// MockMessage represents a frame
type MockMessage struct {
	Type int
	Data []byte
}

func NewMockConnection() *MockConnection {
	return &MockConnection{
		incoming: make(chan MockMessage, 16),
		closeCh:  make(chan struct{}),
	}
}

func (m *MockConnection) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errConnectionClosed
	}
	m.written = append(m.written, MockMessage{Type: messageType, Data: data})
	return nil
}

func (m *MockConnection) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-m.incoming:
		return msg.Type, msg.Data, nil
	case <-m.closeCh:
		return 0, nil, errConnectionClosed
	}
}

func (m *MockConnection) Close() error {
	m.once.Do(func() {
		m.mu.Lock()
		m.closed = true
		m.mu.Unlock()
		close(m.closeCh)
	})
	return nil
}

func (m *MockConnection) SetReadDeadline(time.Time) error  { return nil }
func (m *MockConnection) SetWriteDeadline(time.Time) error { return nil }

func (m *MockConnection) SetReadLimit(limit int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadLimit = limit
}

func (m *MockConnection) SetPongHandler(h func(string) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PongHandler = h
}

// AddReadMessage queues a frame for ReadMessage
func (m *MockConnection) AddReadMessage(messageType int, data []byte) {
	m.incoming <- MockMessage{Type: messageType, Data: data}
}

// Written returns a copy of the frames written so far
func (m *MockConnection) Written() []MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockMessage(nil), m.written...)
}

func (m *MockConnection) readLimit() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ReadLimit
}

// IsClosed reports whether Close has been called
func (m *MockConnection) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
